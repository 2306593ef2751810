// Package models defines the domain entities exchanged with the Solo music platform API.
//
// The package contains two categories of types:
//
// 1. Wire types mirroring the platform's JSON payloads:
//   - [User] : account profile with listener/artist role
//   - [Song] : track metadata including file URL and play/download counters
//   - [AuthResponse] : login/register envelope carrying the bearer token
//
// 2. Request payloads built client-side before a call:
//   - [Credentials] : login input
//   - [Registration] : register input, role defaults to listener
//   - [Upload] : multipart upload fields plus the local audio file path
//
// Request payloads validate required fields before any request is issued, so
// a missing field never reaches the network.
package models
