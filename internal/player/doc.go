// Package player implements single-flight audio playback.
//
// [Engine] abstracts one live audio instance; [ProcessEngine] backs it with
// an external player process (ffplay by default) so the client itself never
// decodes audio. [Player] is the playback slot: a tagged state machine over
// Idle, Playing and Paused that owns at most one engine at a time.
//
// Engine completion and errors are not handled by callbacks. The engine
// exposes a Done channel; the TUI (or CLI) waits on it and feeds the result
// back through [Player.Finish] on the same event loop that drives every other
// state change. Stale results from an already-released engine are ignored by
// identity check.
package player
