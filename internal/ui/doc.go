// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the platform's pages as views:
//  1. [LoadingView] : shown while the startup session rehydration resolves;
//     no navigation decision is made before it clears
//  2. [LoginView] / [RegisterView] : credential forms
//  3. [LibraryView] : the song list with live search, genre cycling,
//     playback, download and (for artists) delete
//  4. [ConfirmDeleteView] : delete confirmation
//  5. [UploadView] : artist-only upload form
//  6. [AccessDeniedView] : shown when a non-artist opens the upload view
//
// The [Model] implements the standard Init/Update/View pattern. All slow work
// runs in tea commands, which carry their results inside typed messages; the
// library controller and the playback slot are only ever mutated from Update,
// so command goroutines never write state the render path reads.
package ui
