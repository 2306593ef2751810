// Song API gateway for the platform's library endpoints.
package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
	"golang.org/x/time/rate"
)

// SongAPI issues song library requests. Counter increments share a rate
// limiter so rapid play/download actions do not hammer the service.
type SongAPI struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter
}

var _ Songs = (*SongAPI)(nil)

// NewSongAPI creates a new song gateway. counterRate is the maximum number of
// counter increments per second; zero or negative falls back to 5/s.
func NewSongAPI(baseURL string, client *http.Client, logger *log.Logger, counterRate float64) *SongAPI {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if counterRate <= 0 {
		counterRate = 5.0
	}

	return &SongAPI{
		baseURL:    baseURL,
		httpClient: client,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(counterRate), 1),
	}
}

// Fetch loads the full song set via GET /songs. A reachable service with an
// empty library is a success with zero songs, not an error.
func (s *SongAPI) Fetch(ctx context.Context) ([]models.Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/songs", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
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
			Songs []models.Song `json:"songs"`
		} `json:"data"`
	}
	if err := decodeInto(body, &envelope); err != nil {
		return nil, err
	}

	if envelope.Data.Songs == nil {
		return []models.Song{}, nil
	}
	return envelope.Data.Songs, nil
}

// All is the fail-soft listing: the CLI list and export commands render
// something even when the service is unreachable, so failures log and
// collapse to an empty slice.
func (s *SongAPI) All(ctx context.Context) []models.Song {
	songs, err := s.Fetch(ctx)
	if err != nil {
		s.logger.Error("failed to fetch songs", "err", err)
		return []models.Song{}
	}
	return songs
}

// Upload posts a new song via POST /songs/upload as multipart form data with
// fields title, genre, album, duration and the audio file part.
func (s *SongAPI) Upload(ctx context.Context, token string, up models.Upload) (*models.Song, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Open(up.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		fields := map[string]string{
			"title":    up.Title,
			"genre":    up.Genre,
			"album":    up.Album,
			"duration": strconv.Itoa(up.Duration),
		}
		for name, value := range fields {
			if err := writer.WriteField(name, value); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		part, err := writer.CreateFormFile("audio", filepath.Base(up.FilePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/songs/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp.StatusCode, body)
	}

	var song models.Song
	if err := decodeInto(body, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// Delete removes a song via DELETE /songs/:id. Failures propagate to the
// caller with the server-supplied message.
func (s *SongAPI) Delete(ctx context.Context, token, songID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/songs/"+songID, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, body)
	}
	return nil
}

// IncrementPlay bumps the play counter via POST /api/songs/:id/play.
func (s *SongAPI) IncrementPlay(ctx context.Context, songID string) error {
	return s.increment(ctx, songID, "play")
}

// IncrementDownload bumps the download counter via POST /api/songs/:id/download.
func (s *SongAPI) IncrementDownload(ctx context.Context, songID string) error {
	return s.increment(ctx, songID, "download")
}

func (s *SongAPI) increment(ctx context.Context, songID, counter string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait aborted: %w", err)
	}

	url := fmt.Sprintf("%s/api/songs/%s/%s", s.baseURL, songID, counter)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, readBody(resp))
	}
	return nil
}

// DownloadFile fetches the song's audio file from its direct file URL and
// writes it into dir, returning the local path.
func (s *SongAPI) DownloadFile(ctx context.Context, song models.Song, dir string) (string, error) {
	if song.FileURL == "" {
		return "", fmt.Errorf("%w: song has no file URL", shared.ErrSongNotFound)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, song.FileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", shared.NewServerError(resp.StatusCode, "")
	}

	name := song.FileName
	if name == "" {
		name = song.ID + filepath.Ext(song.FileURL)
	}
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
