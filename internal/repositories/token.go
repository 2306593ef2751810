package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/exsolo/soloplay/internal/shared"
)

// tokenKey is the fixed kv key holding the bearer credential.
const tokenKey = "auth_token"

// TokenRepository persists the opaque bearer token. Token contents are never
// inspected client-side.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Set stores the token, replacing any previous value.
func (r *TokenRepository) Set(token string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, tokenKey, token, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Get returns the stored token, or [shared.ErrNoToken] when none exists.
func (r *TokenRepository) Get() (string, error) {
	var token string
	err := r.db.QueryRow("SELECT value FROM kv WHERE key = ?", tokenKey).Scan(&token)
	if err == sql.ErrNoRows {
		return "", shared.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (r *TokenRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM kv WHERE key = ?", tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
