// Auth API gateway for the platform's JSON endpoints under /api/auth.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

// AuthAPI issues JSON requests to the register, login and me endpoints.
type AuthAPI struct {
	baseURL    string
	httpClient *http.Client
}

var _ Auth = (*AuthAPI)(nil)

// NewAuthAPI creates a new auth gateway for the given base URL.
func NewAuthAPI(baseURL string, client *http.Client) *AuthAPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &AuthAPI{baseURL: baseURL, httpClient: client}
}

// postJSON posts a JSON body and decodes the 2xx response into out.
func (a *AuthAPI) postJSON(ctx context.Context, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, body)
	}

	return decodeInto(body, out)
}

// Register creates an account via POST /api/auth/register.
func (a *AuthAPI) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	if reg.Role == "" {
		reg.Role = models.RoleListener
	}

	var envelope models.AuthResponse
	if err := a.postJSON(ctx, "/api/auth/register", reg, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Login exchanges credentials for a token via POST /api/auth/login.
func (a *AuthAPI) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var envelope models.AuthResponse
	if err := a.postJSON(ctx, "/api/auth/login", creds, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// Me verifies a bearer token via GET /api/auth/me and returns its profile.
func (a *AuthAPI) Me(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			User models.User `json:"user"`
		} `json:"data"`
	}
	if err := decodeInto(body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data.User, nil
}
