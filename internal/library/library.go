package library

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/player"
	"github.com/exsolo/soloplay/internal/repositories"
	"github.com/exsolo/soloplay/internal/services"
	"github.com/exsolo/soloplay/internal/session"
	"github.com/exsolo/soloplay/internal/shared"
)

// GenreAll selects every genre in the filter.
const GenreAll = "all"

// Controller holds the library view state, confined to a single event loop.
// The network methods (Fetch, Delete, Download) touch no controller state and
// may run on command goroutines; their outcomes are committed on the loop
// through the matching Finish methods, which do all the mutating.
type Controller struct {
	session      *session.Controller
	songs        services.Songs
	history      *repositories.DownloadRepository
	player       *player.Player
	logger       *log.Logger
	downloadsDir string

	items   []models.Song
	fetched bool
	errMsg  string
	search  string
	genre   string
}

// Opts contains the dependencies for a library controller. History may be
// nil when no download record should be kept.
type Opts struct {
	Session      *session.Controller
	Songs        services.Songs
	History      *repositories.DownloadRepository
	Player       *player.Player
	Logger       *log.Logger
	DownloadsDir string
}

// NewController creates a library controller with an empty song set.
func NewController(opts Opts) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.DownloadsDir == "" {
		opts.DownloadsDir = "downloads"
	}

	return &Controller{
		session:      opts.Session,
		songs:        opts.Songs,
		history:      opts.History,
		player:       opts.Player,
		logger:       opts.Logger,
		downloadsDir: opts.DownloadsDir,
		genre:        GenreAll,
	}
}

// Fetch loads the full song set from the gateway. No state changes here;
// commit the outcome with [Controller.FinishFetch].
func (c *Controller) Fetch(ctx context.Context) ([]models.Song, error) {
	return c.songs.Fetch(ctx)
}

// FinishFetch commits a fetch outcome. A failed fetch keeps the cached set
// and surfaces a message; a successful fetch replaces it, even when the
// library is legitimately empty.
func (c *Controller) FinishFetch(songs []models.Song, err error) {
	c.fetched = true
	if err != nil {
		c.errMsg = "Failed to load music library"
		c.logger.Error("failed to load songs", "err", err)
		return
	}
	c.items = songs
	c.errMsg = ""
}

// Fetched reports whether the initial load has resolved.
func (c *Controller) Fetched() bool {
	return c.fetched
}

// Songs returns the cached song set.
func (c *Controller) Songs() []models.Song {
	return c.items
}

// Visible returns the filtered song set derived from the current genre and
// search term.
func (c *Controller) Visible() []models.Song {
	return Filter(c.items, c.genre, c.search)
}

// Genres returns "all" followed by the unique genres of the cached set, in
// first-seen order.
func (c *Controller) Genres() []string {
	genres := []string{GenreAll}
	seen := map[string]bool{}
	for _, song := range c.items {
		if song.Genre == "" || seen[song.Genre] {
			continue
		}
		seen[song.Genre] = true
		genres = append(genres, song.Genre)
	}
	return genres
}

// SetSearch updates the search term.
func (c *Controller) SetSearch(term string) {
	c.search = term
}

// Search returns the current search term.
func (c *Controller) Search() string {
	return c.search
}

// SetGenre updates the genre filter.
func (c *Controller) SetGenre(genre string) {
	if genre == "" {
		genre = GenreAll
	}
	c.genre = genre
}

// Genre returns the selected genre filter.
func (c *Controller) Genre() string {
	return c.genre
}

// CycleGenre advances the genre filter to the next known genre.
func (c *Controller) CycleGenre() {
	genres := c.Genres()
	for i, g := range genres {
		if g == c.genre {
			c.genre = genres[(i+1)%len(genres)]
			return
		}
	}
	c.genre = GenreAll
}

// Error returns the current user-visible error message, if any.
func (c *Controller) Error() string {
	return c.errMsg
}

// ClearError resets the user-visible error message.
func (c *Controller) ClearError() {
	c.errMsg = ""
}

// Player returns the playback slot.
func (c *Controller) Player() *player.Player {
	return c.player
}

// Play toggles playback for song per the playback state machine. When a new
// engine starts, the play-count increment fires in the background; its
// outcome never reaches the caller.
func (c *Controller) Play(ctx context.Context, song models.Song) error {
	started, err := c.player.Toggle(song)
	if err != nil {
		c.errMsg = "Failed to play track"
		return err
	}

	if started {
		go func(id string) {
			if err := c.songs.IncrementPlay(context.WithoutCancel(ctx), id); err != nil {
				c.logger.Debug("play increment failed", "song", id, "err", err)
			}
		}(song.ID)
	}
	return nil
}

// FinishPlayback feeds an engine result back into the slot. An engine error
// surfaces a message; a natural end does not.
func (c *Controller) FinishPlayback(engine player.Engine, err error) {
	if err := c.player.Finish(engine, err); err != nil {
		c.errMsg = "Failed to play audio. The file may be corrupted or unavailable."
		c.logger.Error("playback failed", "err", err)
	}
}

// StopPlayback stops the slot from any state.
func (c *Controller) StopPlayback() {
	c.player.Stop()
}

// Delete removes song from the platform. Any artist may delete any song;
// listeners are refused before a request is made. No state changes here;
// commit the outcome with [Controller.FinishDelete].
func (c *Controller) Delete(ctx context.Context, song models.Song) error {
	if !c.session.User().IsArtist() {
		return shared.ErrArtistOnly
	}
	return c.session.DeleteSong(ctx, song.ID)
}

// FinishDelete commits a delete outcome. Success removes exactly the deleted
// song from the cached set; failure keeps the set and surfaces the message.
func (c *Controller) FinishDelete(song models.Song, err error) {
	if err != nil {
		c.errMsg = err.Error()
		return
	}

	kept := c.items[:0]
	for _, s := range c.items {
		if s.ID != song.ID {
			kept = append(kept, s)
		}
	}
	c.items = kept
	c.errMsg = ""
}

// Download bumps the download counter (best-effort), fetches the audio file
// into the downloads directory and records it in history. Returns the local
// path. No state changes here; commit the outcome with
// [Controller.FinishDownload].
func (c *Controller) Download(ctx context.Context, song models.Song) (string, error) {
	go func(id string) {
		if err := c.songs.IncrementDownload(context.WithoutCancel(ctx), id); err != nil {
			c.logger.Debug("download increment failed", "song", id, "err", err)
		}
	}(song.ID)

	path, err := c.songs.DownloadFile(ctx, song, c.downloadsDir)
	if err != nil {
		return "", err
	}

	if c.history != nil {
		if err := c.history.Record(song, path); err != nil {
			c.logger.Warn("failed to record download", "err", err)
		}
	}

	return path, nil
}

// FinishDownload commits a download outcome. Only a failure leaves a message.
func (c *Controller) FinishDownload(err error) {
	if err != nil {
		c.errMsg = "Download failed"
		c.logger.Error("download failed", "err", err)
	}
}

// Filter derives the visible set: genre must match unless "all" is selected,
// and the search term must appear (case-insensitive) in the title, artist
// name or genre. Order-independent and non-mutating.
func Filter(songs []models.Song, genre, term string) []models.Song {
	term = strings.ToLower(strings.TrimSpace(term))

	var visible []models.Song
	for _, song := range songs {
		if genre != GenreAll && genre != "" && song.Genre != genre {
			continue
		}
		if term != "" && !matches(song, term) {
			continue
		}
		visible = append(visible, song)
	}
	return visible
}

func matches(song models.Song, term string) bool {
	for _, field := range []string{song.Title, song.ArtistName, song.Genre} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
