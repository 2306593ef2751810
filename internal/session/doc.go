// Package session holds process-wide authentication state for the client.
//
// [Controller] is an explicit, injectable object (no ambient singleton) with
// lifecycle init → rehydrate → ready. It owns two states, Unauthenticated and
// Authenticated(user), plus a transient startup flag that is cleared exactly
// once when the first rehydration attempt resolves. Views must not trust
// authentication decisions until [Controller.Ready] reports true.
//
// Mutations are mutex-guarded because bubbletea commands run in goroutines.
// When a user-initiated login overlaps the startup rehydration, the
// most-recently-committed result wins the user field; a failed rehydration
// never clears a token that a concurrent login just stored.
package session
