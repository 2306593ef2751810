// Package repositories provides the local sqlite persistence layer.
//
// Two repositories back the client's on-disk state:
//   - [TokenRepository] : the single bearer credential, stored under one
//     fixed key in the kv table. The token outlives the process; session
//     rehydration reads it at startup.
//   - [DownloadRepository] : history of tracks saved locally, surfaced by
//     the songs downloads command.
//
// Schema lives in the embedded migrations run by shared.RunMigrations.
package repositories
