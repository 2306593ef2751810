package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Each pool connection to :memory: is a separate database, so the
	// migrated schema is only visible when every query shares one connection.
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestTokenRepository(t *testing.T) {
	t.Run("Get Without Token", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		_, err := repo.Get()
		if !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("expected ErrNoToken, got %v", err)
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		if err := repo.Set("tok123"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		token, err := repo.Get()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if token != "tok123" {
			t.Errorf("expected tok123, got %q", token)
		}
	})

	t.Run("Set Replaces Previous Token", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		repo.Set("old")
		if err := repo.Set("new"); err != nil {
			t.Fatalf("set failed: %v", err)
		}

		if token, _ := repo.Get(); token != "new" {
			t.Errorf("expected replacement token, got %q", token)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewTokenRepository(testDB(t))

		repo.Set("tok123")
		if err := repo.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}

		if _, err := repo.Get(); !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("expected ErrNoToken after clear, got %v", err)
		}

		// Clearing again is not an error
		if err := repo.Clear(); err != nil {
			t.Errorf("expected idempotent clear, got %v", err)
		}
	})
}

func TestDownloadRepository(t *testing.T) {
	t.Run("Empty History", func(t *testing.T) {
		repo := NewDownloadRepository(testDB(t))

		records, err := repo.List()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected empty history, got %d records", len(records))
		}
	})

	t.Run("Record And List", func(t *testing.T) {
		repo := NewDownloadRepository(testDB(t))

		song := models.Song{ID: "s1", Title: "Thunder Road", ArtistName: "dj1"}
		if err := repo.Record(song, "/downloads/thunder.mp3"); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		records, err := repo.List()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected one record, got %d", len(records))
		}

		rec := records[0]
		if rec.ID == "" {
			t.Error("expected generated record id")
		}
		if rec.SongID != "s1" || rec.Title != "Thunder Road" || rec.ArtistName != "dj1" {
			t.Errorf("unexpected record fields: %+v", rec)
		}
		if rec.Path != "/downloads/thunder.mp3" {
			t.Errorf("unexpected path: %s", rec.Path)
		}
		if rec.DownloadedAt.IsZero() {
			t.Error("expected download timestamp")
		}
	})

	t.Run("Repeated Downloads Keep Separate Rows", func(t *testing.T) {
		repo := NewDownloadRepository(testDB(t))

		song := models.Song{ID: "s1", Title: "Thunder Road", ArtistName: "dj1"}
		repo.Record(song, "/downloads/thunder.mp3")
		if err := repo.Record(song, "/downloads/thunder.mp3"); err != nil {
			t.Fatalf("second record failed: %v", err)
		}

		records, err := repo.List()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected two records, got %d", len(records))
		}
	})
}
