package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/services"
	"github.com/exsolo/soloplay/internal/shared"
)

// TokenStore abstracts the persistent token repository.
type TokenStore interface {
	Set(token string) error
	Get() (string, error)
	Clear() error
}

// Controller is the authentication state machine. Zero value is not usable;
// construct with [NewController].
type Controller struct {
	mu     sync.Mutex
	auth   services.Auth
	songs  services.Songs
	store  TokenStore
	logger *log.Logger

	user  *models.User
	token string
	ready bool
	// rehydrated guards the at-most-once startup check.
	rehydrated bool
}

// NewController creates a session controller in the Unauthenticated state
// with the startup flag set.
func NewController(auth services.Auth, songs services.Songs, store TokenStore, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{auth: auth, songs: songs, store: store, logger: logger}
}

// Rehydrate reconstructs session state from the persisted token. It runs at
// most once per process; later calls are no-ops. Whatever the outcome, the
// controller is Ready afterwards.
//
// An invalid or unreachable token clears storage and leaves the session
// Unauthenticated, unless a login committed while the check was in flight,
// in which case the login result stands (last resolution wins).
func (c *Controller) Rehydrate(ctx context.Context) {
	c.mu.Lock()
	if c.rehydrated {
		c.mu.Unlock()
		return
	}
	c.rehydrated = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
	}()

	token, err := c.store.Get()
	if err != nil {
		if err != shared.ErrNoToken {
			c.logger.Error("failed to read stored token", "err", err)
		}
		return
	}

	user, err := c.auth.Me(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("stored token rejected", "err", err)
		if c.user == nil {
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Error("failed to clear token", "err", clearErr)
			}
		}
		return
	}

	c.user = user
	c.token = token
}

// Login exchanges credentials for a token, persists it and enters
// Authenticated(user) with the profile embedded in the response. On failure
// the prior state is kept and the error is returned as-is.
func (c *Controller) Login(ctx context.Context, creds models.Credentials) error {
	envelope, err := c.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	return c.commit(envelope)
}

// Register creates an account and enters Authenticated(user) the same way
// login does. The role defaults to listener unless explicitly set to artist.
func (c *Controller) Register(ctx context.Context, reg models.Registration) error {
	if reg.Role == "" {
		reg.Role = models.RoleListener
	}

	envelope, err := c.auth.Register(ctx, reg)
	if err != nil {
		return err
	}
	return c.commit(envelope)
}

// commit stores the token then adopts the user object from the response.
// The profile is never re-derived from a second request.
func (c *Controller) commit(envelope *models.AuthResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Storage and memory update under one lock, so a concurrently failing
	// rehydration cannot clear a token between the two.
	if err := c.store.Set(envelope.Token); err != nil {
		return err
	}

	user := envelope.Data.User
	c.user = &user
	c.token = envelope.Token
	return nil
}

// Logout clears the token and returns to Unauthenticated unconditionally.
// No server call is made; the token stays valid server-side until expiry.
func (c *Controller) Logout() {
	if err := c.store.Clear(); err != nil {
		c.logger.Error("failed to clear token", "err", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.token = ""
}

// Ready reports whether the startup rehydration has resolved.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Authenticated reports whether a user is present.
func (c *Controller) Authenticated() bool {
	return c.User() != nil
}

// User returns the current profile, or nil when unauthenticated.
func (c *Controller) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Token returns the current bearer token, or empty when unauthenticated.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// AllSongs delegates to the song gateway. Does not touch session state.
func (c *Controller) AllSongs(ctx context.Context) []models.Song {
	return c.songs.All(ctx)
}

// UploadSong delegates to the song gateway with the current token.
func (c *Controller) UploadSong(ctx context.Context, up models.Upload) (*models.Song, error) {
	if !c.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	return c.songs.Upload(ctx, c.Token(), up)
}

// DeleteSong delegates to the song gateway with the current token.
func (c *Controller) DeleteSong(ctx context.Context, songID string) error {
	if !c.Authenticated() {
		return shared.ErrNotAuthenticated
	}
	return c.songs.Delete(ctx, c.Token(), songID)
}
