package library

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/player"
	"github.com/exsolo/soloplay/internal/services"
	"github.com/exsolo/soloplay/internal/session"
	"github.com/exsolo/soloplay/internal/shared"
	tu "github.com/exsolo/soloplay/internal/testing"
)

var fixtures = []models.Song{
	{ID: "s1", Title: "Thunder Road", ArtistName: "dj1", Genre: "Rock", Duration: 180, FileURL: "http://host/s1.mp3"},
	{ID: "s2", Title: "Night Drive", ArtistName: "dj2", Genre: "Pop", Duration: 200, FileURL: "http://host/s2.mp3"},
	{ID: "s3", Title: "Quiet Storm", ArtistName: "dj1", Genre: "Rock", Duration: 240, FileURL: "http://host/s3.mp3"},
}

func signedInSession(t *testing.T, role string, songs services.Songs) *session.Controller {
	t.Helper()

	auth := &tu.FakeAuth{
		LoginFunc: func(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
			envelope := &models.AuthResponse{Token: "tok"}
			envelope.Data.User = models.User{ID: "u1", Username: "dj1", Role: role}
			return envelope, nil
		},
	}

	sess := session.NewController(auth, songs, &tu.MemoryTokenStore{}, nil)
	if err := sess.Login(context.Background(), models.Credentials{Identifier: "dj1", Password: "pw"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return sess
}

func newController(t *testing.T, role string, songs services.Songs) *Controller {
	t.Helper()

	var engines []*tu.FakeEngine
	return NewController(Opts{
		Session: signedInSession(t, role, songs),
		Songs:   songs,
		Player: player.NewPlayer(func() player.Engine {
			engine := tu.NewFakeEngine()
			engines = append(engines, engine)
			return engine
		}),
		DownloadsDir: t.TempDir(),
	})
}

func ids(songs []models.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Run("All Genre Passes Everything", func(t *testing.T) {
		if got := Filter(fixtures, GenreAll, ""); len(got) != len(fixtures) {
			t.Errorf("expected %d songs, got %d", len(fixtures), len(got))
		}
	})

	t.Run("Genre Match", func(t *testing.T) {
		got := Filter(fixtures, "Rock", "")
		if !reflect.DeepEqual(ids(got), []string{"s1", "s3"}) {
			t.Errorf("expected rock songs, got %v", ids(got))
		}
	})

	t.Run("Search Is Case Insensitive Across Fields", func(t *testing.T) {
		if got := Filter(fixtures, GenreAll, "THUNDER"); len(got) != 1 || got[0].ID != "s1" {
			t.Errorf("expected title match, got %v", ids(got))
		}
		if got := Filter(fixtures, GenreAll, "dj2"); len(got) != 1 || got[0].ID != "s2" {
			t.Errorf("expected artist match, got %v", ids(got))
		}
		if got := Filter(fixtures, GenreAll, "pop"); len(got) != 1 || got[0].ID != "s2" {
			t.Errorf("expected genre match, got %v", ids(got))
		}
	})

	t.Run("Order Independent", func(t *testing.T) {
		genreFirst := Filter(Filter(fixtures, "Rock", ""), GenreAll, "quiet")
		searchFirst := Filter(Filter(fixtures, GenreAll, "quiet"), "Rock", "")
		combined := Filter(fixtures, "Rock", "quiet")

		if !reflect.DeepEqual(genreFirst, searchFirst) || !reflect.DeepEqual(genreFirst, combined) {
			t.Errorf("filter application order changed the result: %v vs %v vs %v",
				ids(genreFirst), ids(searchFirst), ids(combined))
		}
	})

	t.Run("Does Not Mutate Input", func(t *testing.T) {
		input := append([]models.Song(nil), fixtures...)
		Filter(input, "Rock", "thunder")
		if !reflect.DeepEqual(input, fixtures) {
			t.Error("expected input slice unchanged")
		}
	})
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetch", func(t *testing.T) {
		t.Run("Populates Library", func(t *testing.T) {
			songs := &tu.FakeSongs{AllFunc: func(ctx context.Context) []models.Song { return fixtures }}
			c := newController(t, models.RoleListener, songs)

			c.FinishFetch(c.Fetch(ctx))

			if !c.Fetched() {
				t.Error("expected fetched flag")
			}
			if len(c.Songs()) != 3 {
				t.Errorf("expected 3 songs, got %d", len(c.Songs()))
			}
			if c.Error() != "" {
				t.Errorf("expected no error message, got %q", c.Error())
			}
		})

		t.Run("Empty Library Is Not An Error", func(t *testing.T) {
			songs := &tu.FakeSongs{AllFunc: func(ctx context.Context) []models.Song { return []models.Song{} }}
			c := newController(t, models.RoleListener, songs)

			c.FinishFetch(c.Fetch(ctx))

			if c.Error() != "" {
				t.Errorf("expected no message for a reachable empty library, got %q", c.Error())
			}
			if !c.Fetched() {
				t.Error("expected fetched flag")
			}
		})

		t.Run("Failure Surfaces Message And Keeps Cached Set", func(t *testing.T) {
			songs := &tu.FakeSongs{
				FetchFunc: func(ctx context.Context) ([]models.Song, error) {
					return nil, shared.ErrNetwork
				},
			}
			c := newController(t, models.RoleListener, songs)
			c.FinishFetch(fixtures, nil)

			c.FinishFetch(c.Fetch(ctx))

			if c.Error() != "Failed to load music library" {
				t.Errorf("expected load failure message, got %q", c.Error())
			}
			if len(c.Songs()) != 3 {
				t.Error("expected cached set kept after failed refresh")
			}
		})

		t.Run("Runs Alongside Loop Reads Without Touching State", func(t *testing.T) {
			songs := &tu.FakeSongs{AllFunc: func(ctx context.Context) []models.Song { return fixtures }}
			c := newController(t, models.RoleListener, songs)
			c.FinishFetch(fixtures, nil)

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					c.Fetch(ctx)
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					c.Visible()
					_ = c.Error()
					c.Genre()
				}
			}()
			wg.Wait()

			if len(c.Songs()) != 3 {
				t.Error("expected cached set untouched by uncommitted fetches")
			}
		})
	})

	t.Run("Genres", func(t *testing.T) {
		songs := &tu.FakeSongs{AllFunc: func(ctx context.Context) []models.Song { return fixtures }}
		c := newController(t, models.RoleListener, songs)
		c.FinishFetch(c.Fetch(ctx))

		if got := c.Genres(); !reflect.DeepEqual(got, []string{"all", "Rock", "Pop"}) {
			t.Errorf("expected first-seen genre order, got %v", got)
		}

		c.CycleGenre()
		if c.Genre() != "Rock" {
			t.Errorf("expected Rock after first cycle, got %s", c.Genre())
		}
		c.CycleGenre()
		c.CycleGenre()
		if c.Genre() != GenreAll {
			t.Errorf("expected cycle to wrap to all, got %s", c.Genre())
		}
	})

	t.Run("Play", func(t *testing.T) {
		t.Run("New Start Fires Increment", func(t *testing.T) {
			incremented := make(chan string, 1)
			songs := &tu.FakeSongs{
				IncrementPlayFunc: func(ctx context.Context, songID string) error {
					incremented <- songID
					return nil
				},
			}
			c := newController(t, models.RoleListener, songs)

			if err := c.Play(ctx, fixtures[0]); err != nil {
				t.Fatalf("play failed: %v", err)
			}

			select {
			case id := <-incremented:
				if id != "s1" {
					t.Errorf("expected play increment for s1, got %s", id)
				}
			case <-time.After(time.Second):
				t.Error("expected play increment to fire")
			}
		})

		t.Run("Pause Does Not Increment Again", func(t *testing.T) {
			increments := make(chan string, 2)
			songs := &tu.FakeSongs{
				IncrementPlayFunc: func(ctx context.Context, songID string) error {
					increments <- songID
					return nil
				},
			}
			c := newController(t, models.RoleListener, songs)

			c.Play(ctx, fixtures[0])
			<-increments
			c.Play(ctx, fixtures[0]) // pause

			if c.Player().Status() != player.StatusPaused {
				t.Errorf("expected paused, got %s", c.Player().Status())
			}
			select {
			case id := <-increments:
				t.Errorf("unexpected second increment for %s", id)
			case <-time.After(50 * time.Millisecond):
			}
		})
	})

	t.Run("FinishPlayback", func(t *testing.T) {
		songs := &tu.FakeSongs{}
		c := newController(t, models.RoleListener, songs)

		c.Play(ctx, fixtures[0])
		engine := c.Player().Engine()
		c.FinishPlayback(engine, errors.New("decode failure"))

		if c.Error() != "Failed to play audio. The file may be corrupted or unavailable." {
			t.Errorf("expected playback failure message, got %q", c.Error())
		}
		if c.Player().Status() != player.StatusIdle {
			t.Error("expected idle slot after engine error")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Listener Refused Without Request", func(t *testing.T) {
			requested := false
			songs := &tu.FakeSongs{
				AllFunc: func(ctx context.Context) []models.Song { return fixtures },
				DeleteFunc: func(ctx context.Context, token, songID string) error {
					requested = true
					return nil
				},
			}
			c := newController(t, models.RoleListener, songs)
			c.FinishFetch(c.Fetch(ctx))

			if err := c.Delete(ctx, fixtures[0]); !errors.Is(err, shared.ErrArtistOnly) {
				t.Errorf("expected ErrArtistOnly, got %v", err)
			}
			if requested {
				t.Error("expected no delete request for listener")
			}
			if len(c.Songs()) != 3 {
				t.Error("expected library unchanged")
			}
		})

		t.Run("Artist Removes Exactly One Song", func(t *testing.T) {
			songs := &tu.FakeSongs{
				AllFunc:    func(ctx context.Context) []models.Song { return append([]models.Song(nil), fixtures...) },
				DeleteFunc: func(ctx context.Context, token, songID string) error { return nil },
			}
			c := newController(t, models.RoleArtist, songs)
			c.FinishFetch(c.Fetch(ctx))

			err := c.Delete(ctx, fixtures[1])
			if err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			c.FinishDelete(fixtures[1], err)

			if !reflect.DeepEqual(ids(c.Songs()), []string{"s1", "s3"}) {
				t.Errorf("expected s2 removed, got %v", ids(c.Songs()))
			}
		})

		t.Run("Failure Keeps Library And Surfaces Message", func(t *testing.T) {
			songs := &tu.FakeSongs{
				AllFunc: func(ctx context.Context) []models.Song { return append([]models.Song(nil), fixtures...) },
				DeleteFunc: func(ctx context.Context, token, songID string) error {
					return shared.NewServerError(404, "Song not found")
				},
			}
			c := newController(t, models.RoleArtist, songs)
			c.FinishFetch(c.Fetch(ctx))

			err := c.Delete(ctx, fixtures[1])
			if err == nil {
				t.Fatal("expected error")
			}
			c.FinishDelete(fixtures[1], err)

			if len(c.Songs()) != 3 {
				t.Error("expected library unchanged after failed delete")
			}
			if c.Error() != "Song not found" {
				t.Errorf("expected server message surfaced, got %q", c.Error())
			}
		})
	})

	t.Run("Download", func(t *testing.T) {
		t.Run("Fetches File And Fires Increment", func(t *testing.T) {
			incremented := make(chan string, 1)
			songs := &tu.FakeSongs{
				IncrementDownloadFunc: func(ctx context.Context, songID string) error {
					incremented <- songID
					return nil
				},
				DownloadFileFunc: func(ctx context.Context, song models.Song, dir string) (string, error) {
					return dir + "/" + song.FileName, nil
				},
			}
			c := newController(t, models.RoleListener, songs)

			song := fixtures[0]
			song.FileName = "thunder.mp3"

			path, err := c.Download(ctx, song)
			if err != nil {
				t.Fatalf("download failed: %v", err)
			}
			if path == "" {
				t.Error("expected a local path")
			}

			select {
			case id := <-incremented:
				if id != "s1" {
					t.Errorf("expected download increment for s1, got %s", id)
				}
			case <-time.After(time.Second):
				t.Error("expected download increment to fire")
			}
		})

		t.Run("Failure Surfaces Message Only On Commit", func(t *testing.T) {
			songs := &tu.FakeSongs{
				DownloadFileFunc: func(ctx context.Context, song models.Song, dir string) (string, error) {
					return "", shared.ErrNetwork
				},
			}
			c := newController(t, models.RoleListener, songs)

			_, err := c.Download(ctx, fixtures[0])
			if err == nil {
				t.Fatal("expected error")
			}
			if c.Error() != "" {
				t.Errorf("expected no message before commit, got %q", c.Error())
			}

			c.FinishDownload(err)
			if c.Error() != "Download failed" {
				t.Errorf("expected download failure message, got %q", c.Error())
			}
		})
	})
}
