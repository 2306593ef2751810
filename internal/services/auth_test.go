package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

func TestAuthAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			var gotPath, gotContentType string
			var gotBody map[string]string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotContentType = r.Header.Get("Content-Type")
				json.NewDecoder(r.Body).Decode(&gotBody)

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"token":"tok123","data":{"user":{"_id":"u1","username":"dj1","email":"a@b.com","role":"artist"}}}`))
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			envelope, err := api.Login(ctx, models.Credentials{Identifier: "dj1", Password: "secret"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotPath != "/api/auth/login" {
				t.Errorf("expected path /api/auth/login, got %s", gotPath)
			}
			if gotContentType != "application/json" {
				t.Errorf("expected JSON content type, got %s", gotContentType)
			}
			if gotBody["identifier"] != "dj1" || gotBody["password"] != "secret" {
				t.Errorf("unexpected request body: %v", gotBody)
			}

			if envelope.Token != "tok123" {
				t.Errorf("expected token tok123, got %s", envelope.Token)
			}
			if envelope.Data.User.Username != "dj1" {
				t.Errorf("expected user dj1, got %s", envelope.Data.User.Username)
			}
			if envelope.Data.User.Role != models.RoleArtist {
				t.Errorf("expected artist role, got %s", envelope.Data.User.Role)
			}
		})

		t.Run("Server Error With Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Invalid credentials"}`))
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			_, err := api.Login(ctx, models.Credentials{Identifier: "dj1", Password: "wrong"})
			if err == nil {
				t.Fatal("expected error")
			}

			var serverErr *shared.ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %T", err)
			}
			if serverErr.Status != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", serverErr.Status)
			}
			if serverErr.Message != "Invalid credentials" {
				t.Errorf("expected server message, got %q", serverErr.Message)
			}
		})

		t.Run("Server Error Without Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			_, err := api.Login(ctx, models.Credentials{Identifier: "dj1", Password: "secret"})

			var serverErr *shared.ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected ServerError, got %T", err)
			}
			if serverErr.Message != "Server error: 500" {
				t.Errorf("expected fallback message, got %q", serverErr.Message)
			}
		})

		t.Run("Network Failure", func(t *testing.T) {
			api := NewAuthAPI("http://127.0.0.1:0", nil)
			_, err := api.Login(ctx, models.Credentials{Identifier: "dj1", Password: "secret"})
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})

		t.Run("Validation Before Request", func(t *testing.T) {
			requested := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requested = true
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			_, err := api.Login(ctx, models.Credentials{Identifier: "dj1"})
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if requested {
				t.Error("expected no request for invalid credentials")
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("Defaults Role To Listener", func(t *testing.T) {
			var gotBody map[string]string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewDecoder(r.Body).Decode(&gotBody)
				w.Write([]byte(`{"token":"tok","data":{"user":{"_id":"u2","username":"fan1","role":"listener"}}}`))
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			_, err := api.Register(ctx, models.Registration{Username: "fan1", Email: "f@b.com", Password: "pw"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotBody["role"] != models.RoleListener {
				t.Errorf("expected listener role in request, got %q", gotBody["role"])
			}
		})

		t.Run("Rejects Unknown Role", func(t *testing.T) {
			api := NewAuthAPI("http://unused", nil)
			_, err := api.Register(ctx, models.Registration{Username: "x", Email: "x@y.com", Password: "pw", Role: "admin"})
			if !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})

		t.Run("Posts To Register Endpoint", func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Write([]byte(`{"token":"tok","data":{"user":{"_id":"u3"}}}`))
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			if _, err := api.Register(ctx, models.Registration{Username: "x", Email: "x@y.com", Password: "pw", Role: models.RoleArtist}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotPath != "/api/auth/register" {
				t.Errorf("expected path /api/auth/register, got %s", gotPath)
			}
		})
	})

	t.Run("Me", func(t *testing.T) {
		t.Run("Sends Bearer Token", func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Write([]byte(`{"data":{"user":{"_id":"u1","username":"dj1","email":"a@b.com","role":"artist"}}}`))
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			user, err := api.Me(ctx, "tok123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "Bearer tok123" {
				t.Errorf("expected bearer header, got %q", gotAuth)
			}
			if user.Username != "dj1" {
				t.Errorf("expected user dj1, got %s", user.Username)
			}
			if !user.IsArtist() {
				t.Error("expected artist user")
			}
		})

		t.Run("Rejected Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Not authorized"}`))
			}))
			defer server.Close()

			api := NewAuthAPI(server.URL, nil)
			_, err := api.Me(ctx, "stale")
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != "Not authorized" {
				t.Errorf("expected server message, got %q", err.Error())
			}
		})
	})
}
