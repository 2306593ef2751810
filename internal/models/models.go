package models

import (
	"fmt"

	"github.com/exsolo/soloplay/internal/shared"
)

// Roles assigned by the platform at registration.
const (
	RoleListener = "listener"
	RoleArtist   = "artist"
)

// User represents a platform account profile.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsArtist reports whether the account may upload and delete songs.
func (u *User) IsArtist() bool {
	return u != nil && u.Role == RoleArtist
}

// Song represents a track in the platform library.
type Song struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	ArtistName  string `json:"artistName"`
	Genre       string `json:"genre"`
	Album       string `json:"album"`
	Duration    int    `json:"duration"`
	FileSize    int64  `json:"fileSize"`
	FileURL     string `json:"fileUrl"`
	FileName    string `json:"fileName"`
	CoverArtURL string `json:"coverArtUrl"`
	UploadDate  string `json:"uploadDate"`
	Plays       int    `json:"plays"`
	Downloads   int    `json:"downloads"`
}

// AuthResponse is the envelope returned by the register and login endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	Data  struct {
		User User `json:"user"`
	} `json:"data"`
}

// Credentials is the login request payload. Identifier is a username or
// email, the server accepts either.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate checks required login fields.
func (c Credentials) Validate() error {
	if c.Identifier == "" {
		return fmt.Errorf("%w: identifier is required", shared.ErrValidation)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrValidation)
	}
	return nil
}

// Registration is the register request payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks required registration fields and the role value.
func (r Registration) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("%w: username is required", shared.ErrValidation)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrValidation)
	}
	if r.Role != "" && r.Role != RoleListener && r.Role != RoleArtist {
		return fmt.Errorf("%w: role must be %q or %q", shared.ErrValidation, RoleListener, RoleArtist)
	}
	return nil
}

// Upload holds the multipart fields for a song upload plus the local path of
// the audio file.
type Upload struct {
	Title    string
	Genre    string
	Album    string // optional
	Duration int
	FilePath string
}

// Validate checks required upload fields. Album is optional.
func (u Upload) Validate() error {
	if u.Title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if u.Genre == "" {
		return fmt.Errorf("%w: genre is required", shared.ErrValidation)
	}
	if u.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", shared.ErrValidation)
	}
	if u.FilePath == "" {
		return fmt.Errorf("%w: audio file is required", shared.ErrValidation)
	}
	return nil
}
