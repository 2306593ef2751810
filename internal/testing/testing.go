// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter is an io.Writer that always fails.
type FWriter struct{}

func (FWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

// MemoryTokenStore is an in-memory session.TokenStore.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", shared.ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// HasToken reports whether a token is currently stored.
func (s *MemoryTokenStore) HasToken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// FakeAuth is a scriptable test double for services.Auth.
type FakeAuth struct {
	RegisterFunc func(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	LoginFunc    func(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	MeFunc       func(ctx context.Context, token string) (*models.User, error)
}

func (f *FakeAuth) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	if f.RegisterFunc == nil {
		return nil, errors.New("unexpected Register call")
	}
	return f.RegisterFunc(ctx, reg)
}

func (f *FakeAuth) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	if f.LoginFunc == nil {
		return nil, errors.New("unexpected Login call")
	}
	return f.LoginFunc(ctx, creds)
}

func (f *FakeAuth) Me(ctx context.Context, token string) (*models.User, error) {
	if f.MeFunc == nil {
		return nil, errors.New("unexpected Me call")
	}
	return f.MeFunc(ctx, token)
}

// FakeSongs is a scriptable test double for services.Songs. Fetch falls back
// to All so fixtures scripted once serve both entry points.
type FakeSongs struct {
	FetchFunc             func(ctx context.Context) ([]models.Song, error)
	AllFunc               func(ctx context.Context) []models.Song
	UploadFunc            func(ctx context.Context, token string, up models.Upload) (*models.Song, error)
	DeleteFunc            func(ctx context.Context, token, songID string) error
	IncrementPlayFunc     func(ctx context.Context, songID string) error
	IncrementDownloadFunc func(ctx context.Context, songID string) error
	DownloadFileFunc      func(ctx context.Context, song models.Song, dir string) (string, error)
}

func (f *FakeSongs) Fetch(ctx context.Context) ([]models.Song, error) {
	if f.FetchFunc == nil {
		return f.All(ctx), nil
	}
	return f.FetchFunc(ctx)
}

func (f *FakeSongs) All(ctx context.Context) []models.Song {
	if f.AllFunc == nil {
		return []models.Song{}
	}
	return f.AllFunc(ctx)
}

func (f *FakeSongs) Upload(ctx context.Context, token string, up models.Upload) (*models.Song, error) {
	if f.UploadFunc == nil {
		return nil, errors.New("unexpected Upload call")
	}
	return f.UploadFunc(ctx, token, up)
}

func (f *FakeSongs) Delete(ctx context.Context, token, songID string) error {
	if f.DeleteFunc == nil {
		return errors.New("unexpected Delete call")
	}
	return f.DeleteFunc(ctx, token, songID)
}

func (f *FakeSongs) IncrementPlay(ctx context.Context, songID string) error {
	if f.IncrementPlayFunc == nil {
		return nil
	}
	return f.IncrementPlayFunc(ctx, songID)
}

func (f *FakeSongs) IncrementDownload(ctx context.Context, songID string) error {
	if f.IncrementDownloadFunc == nil {
		return nil
	}
	return f.IncrementDownloadFunc(ctx, songID)
}

func (f *FakeSongs) DownloadFile(ctx context.Context, song models.Song, dir string) (string, error) {
	if f.DownloadFileFunc == nil {
		return "", errors.New("unexpected DownloadFile call")
	}
	return f.DownloadFileFunc(ctx, song, dir)
}

// FakeEngine records lifecycle calls for playback tests.
type FakeEngine struct {
	StartErr  error
	PauseErr  error
	ResumeErr error

	Started string
	Paused  int
	Resumed int
	Stopped int

	DoneCh chan error
}

func NewFakeEngine() *FakeEngine {
	return &FakeEngine{DoneCh: make(chan error, 1)}
}

func (e *FakeEngine) Start(url string) error {
	if e.StartErr != nil {
		return e.StartErr
	}
	e.Started = url
	return nil
}

func (e *FakeEngine) Pause() error {
	if e.PauseErr != nil {
		return e.PauseErr
	}
	e.Paused++
	return nil
}

func (e *FakeEngine) Resume() error {
	if e.ResumeErr != nil {
		return e.ResumeErr
	}
	e.Resumed++
	return nil
}

func (e *FakeEngine) Stop() {
	e.Stopped++
}

func (e *FakeEngine) Done() <-chan error {
	return e.DoneCh
}
