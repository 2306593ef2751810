// package formatter provides functions to export the song library to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

// ExportToCSV converts a song set to CSV with columns: ID, Title, Artist, Genre, Album, Duration, Plays, Downloads
func ExportToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Album", "Duration", "Plays", "Downloads"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.ID,
			song.Title,
			song.ArtistName,
			song.Genre,
			song.Album,
			strconv.Itoa(song.Duration),
			strconv.Itoa(song.Plays),
			strconv.Itoa(song.Downloads),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a song set to a Markdown listing.
func ExportToMarkdown(title string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(songs)))

	buf.WriteString("## Tracks\n\n")
	for i, song := range songs {
		duration := shared.FormatDuration(song.Duration)
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, song.ArtistName, song.Title, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a song set to plain text.
func ExportToText(title string, songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Library: %s\n", title))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.ArtistName, song.Title))
	}

	return buf.Bytes(), nil
}
