package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNoToken          = fmt.Errorf("no stored token")
	ErrArtistOnly       = fmt.Errorf("artist account required")

	// API and service errors
	ErrNetwork            = fmt.Errorf("cannot connect to server")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSongNotFound       = fmt.Errorf("song not found")

	// Input validation errors
	ErrValidation      = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// ServerError is a non-2xx response from the platform API. Message carries
// the server-supplied reason when the body had one, otherwise a generic
// "Server error: <status>" string.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// NewServerError builds a [ServerError] from a status code and the optional
// message field of the response body.
func NewServerError(status int, message string) *ServerError {
	if message == "" {
		message = fmt.Sprintf("Server error: %d", status)
	}
	return &ServerError{Status: status, Message: message}
}
