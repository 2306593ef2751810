package formatter

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/exsolo/soloplay/internal/models"
)

var songs = []models.Song{
	{ID: "s1", Title: "Thunder Road", ArtistName: "dj1", Genre: "Rock", Album: "Storms", Duration: 185, Plays: 12, Downloads: 3},
	{ID: "s2", Title: "Night Drive", ArtistName: "dj2", Genre: "Pop", Duration: 200},
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(songs)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d records", len(records))
	}
	if records[0][0] != "ID" || records[0][1] != "Title" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Thunder Road" || records[1][5] != "185" || records[1][6] != "12" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][4] != "" {
		t.Errorf("expected empty album cell, got %q", records[2][4])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown("Music Library", songs)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "# Music Library\n") {
		t.Error("expected title heading")
	}
	if !strings.Contains(out, "**Tracks**: 2") {
		t.Error("expected track count")
	}
	if !strings.Contains(out, "1. dj1 - Thunder Road (Storms) [3:05]") {
		t.Errorf("expected numbered row with album and duration, got:\n%s", out)
	}
	if !strings.Contains(out, "2. dj2 - Night Drive [3:20]") {
		t.Errorf("expected row without album part, got:\n%s", out)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText("Music Library", songs)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Library: Music Library") {
		t.Error("expected library title line")
	}
	if !strings.Contains(out, "Tracks: 2") {
		t.Error("expected track count line")
	}
	if !strings.Contains(out, "1. dj1 - Thunder Road") {
		t.Error("expected first track line")
	}
}

func TestExportEmptyLibrary(t *testing.T) {
	data, err := ExportToCSV(nil)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 0 {
		t.Errorf("expected header only, got %d extra lines", lines)
	}
}
