// Package library implements the song library view state: fetch, derived
// filtering, playback control, delete and download.
//
// The visible set is never stored. [Filter] recomputes it from the fetched
// songs, the selected genre and the search term on every call; the dataset is
// assumed small, so there is no indexing. Deleting removes the song from the
// cached set only after the server confirms. Play and download counter
// increments are fire-and-forget: their failures are logged, never surfaced.
package library
