// Package services implements the HTTP gateways to the Solo music platform API.
//
// Two request families mirror the platform surface:
//   - [AuthAPI] : JSON requests (register, login, me) under /api/auth
//   - [SongAPI] : song library requests (list, multipart upload, delete,
//     play/download counter increments, file download)
//
// Both normalize failures into the shared taxonomy: a transport failure wraps
// [shared.ErrNetwork], a non-2xx status becomes a [shared.ServerError]
// carrying the server-supplied message when the body had one. Requests are
// never retried and no timeout is enforced beyond the transport default.
//
// Listing comes in two flavors: [SongAPI.Fetch] fails loud so callers can
// tell an unreachable service from an empty library, while [SongAPI.All] is
// the fail-soft form that collapses failures to an empty slice for callers
// that render something regardless. Upload and delete always propagate.
// Counter increments are best-effort and throttled with a [rate.Limiter].
package services
