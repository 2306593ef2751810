package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

// Download is one recorded file download.
type Download struct {
	ID           string
	SongID       string
	Title        string
	ArtistName   string
	Path         string
	DownloadedAt time.Time
}

// DownloadRepository records tracks saved to the local downloads directory.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new [DownloadRepository] with the given database connection.
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Record inserts a history row for a completed download.
func (r *DownloadRepository) Record(song models.Song, path string) error {
	query := `
		INSERT INTO downloads (id, song_id, title, artist_name, path, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, shared.GenerateID(), song.ID, song.Title, song.ArtistName, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// List returns all recorded downloads, most recent first.
func (r *DownloadRepository) List() ([]Download, error) {
	query := `
		SELECT id, song_id, title, artist_name, path, downloaded_at
		FROM downloads
		ORDER BY downloaded_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	var downloads []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.ID, &d.SongID, &d.Title, &d.ArtistName, &d.Path, &d.DownloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		downloads = append(downloads, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate downloads: %w", err)
	}

	return downloads, nil
}
