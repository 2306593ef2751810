package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

// Auth defines the authentication endpoints of the platform API.
type Auth interface {
	// Register creates an account and returns the auth envelope with a
	// fresh bearer token.
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)

	// Login exchanges credentials for the auth envelope.
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)

	// Me returns the profile the given bearer token belongs to.
	Me(ctx context.Context, token string) (*models.User, error)
}

// Songs defines the song library endpoints of the platform API.
type Songs interface {
	// Fetch returns the full song set, failing loud so callers can tell
	// an unreachable service from a legitimately empty library.
	Fetch(ctx context.Context) ([]models.Song, error)

	// All is Fetch with every failure collapsed to an empty slice, for
	// callers that render something regardless.
	All(ctx context.Context) []models.Song

	// Upload posts a new song as multipart form data. Requires an artist
	// bearer token.
	Upload(ctx context.Context, token string, up models.Upload) (*models.Song, error)

	// Delete removes a song by id. Requires an artist bearer token.
	Delete(ctx context.Context, token, songID string) error

	// IncrementPlay bumps the play counter. Best-effort.
	IncrementPlay(ctx context.Context, songID string) error

	// IncrementDownload bumps the download counter. Best-effort.
	IncrementDownload(ctx context.Context, songID string) error

	// DownloadFile fetches the song's audio file into dir and returns the
	// local path.
	DownloadFile(ctx context.Context, song models.Song, dir string) (string, error)
}

// readBody drains a response body, tolerating read failures by returning what
// was read so far.
func readBody(resp *http.Response) []byte {
	body, _ := io.ReadAll(resp.Body)
	return body
}

// responseError converts a non-2xx response into a [shared.ServerError],
// pulling the message field out of the body when one is present.
func responseError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		payload.Message = ""
	}
	return shared.NewServerError(status, payload.Message)
}

// decodeInto unmarshals a 2xx body into out when out is non-nil.
func decodeInto(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
