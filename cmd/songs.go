package main

import (
	"context"
	"fmt"
	"os"

	"github.com/exsolo/soloplay/internal/formatter"
	"github.com/exsolo/soloplay/internal/library"
	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// SongsList prints the library, optionally filtered by genre and search term.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.String("genre")
	if genre == "" {
		genre = library.GenreAll
	}

	songs := library.Filter(r.songs.All(ctx), genre, cmd.String("search"))

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlain("No songs found\n")
	}

	for _, song := range songs {
		r.writePlain("%s  %s - %s [%s] %s",
			song.ID, song.Title, song.ArtistName, song.Genre, shared.FormatDuration(song.Duration))
		if song.Plays > 0 {
			r.writePlain("  (%d plays)", song.Plays)
		}
		r.writePlain("\n")
	}
	return r.writePlainln("%d songs", len(songs))
}

// SongsExport writes the (filtered) library as csv, markdown, or text.
func (r *Runner) SongsExport(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.String("genre")
	if genre == "" {
		genre = library.GenreAll
	}

	songs := library.Filter(r.songs.All(ctx), genre, cmd.String("search"))

	var data []byte
	var err error
	switch format := cmd.String("format"); format {
	case "csv":
		data, err = formatter.ExportToCSV(songs)
	case "md", "markdown":
		data, err = formatter.ExportToMarkdown("Music Library", songs)
	case "txt", "text":
		data, err = formatter.ExportToText("Music Library", songs)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		_, err := r.output.Write(data)
		return err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	r.logger.Info("library exported", "path", outputPath, "songs", len(songs))
	return r.writePlain("✓ Exported %d songs to %s\n", len(songs), outputPath)
}

// SongsUpload publishes a new song. Requires a signed-in artist account.
func (r *Runner) SongsUpload(ctx context.Context, cmd *cli.Command) error {
	r.session.Rehydrate(ctx)

	if !r.session.Authenticated() {
		return fmt.Errorf("%w: run 'soloplay auth login'", shared.ErrNotAuthenticated)
	}
	if !r.session.User().IsArtist() {
		return fmt.Errorf("%w: uploads need an artist account", shared.ErrArtistOnly)
	}

	up := models.Upload{
		Title:    cmd.String("title"),
		Genre:    cmd.String("genre"),
		Album:    cmd.String("album"),
		Duration: cmd.Int("duration"),
		FilePath: cmd.String("file"),
	}

	r.logger.Info("uploading song", "title", up.Title, "file", up.FilePath)

	song, err := r.session.UploadSong(ctx, up)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	return r.writePlain("✓ Uploaded %q (%s)\n", song.Title, song.ID)
}

// SongsDelete removes a song from the platform. Requires a signed-in artist account.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	r.session.Rehydrate(ctx)

	if !r.session.Authenticated() {
		return fmt.Errorf("%w: run 'soloplay auth login'", shared.ErrNotAuthenticated)
	}
	if !r.session.User().IsArtist() {
		return fmt.Errorf("%w: deletes need an artist account", shared.ErrArtistOnly)
	}

	if err := r.session.DeleteSong(ctx, songID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	return r.writePlain("✓ Deleted %s\n", songID)
}

// SongsDownload fetches a song's audio file into the downloads directory.
func (r *Runner) SongsDownload(ctx context.Context, cmd *cli.Command) error {
	song, err := r.findSong(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	path, err := r.library().Download(ctx, song)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	return r.writePlain("✓ Saved %q to %s\n", song.Title, path)
}

// SongsDownloads prints the local download history.
func (r *Runner) SongsDownloads(ctx context.Context, cmd *cli.Command) error {
	if r.history == nil {
		return fmt.Errorf("%w: download history unavailable", shared.ErrServiceUnavailable)
	}

	records, err := r.history.List()
	if err != nil {
		return fmt.Errorf("failed to read download history: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("No downloads yet\n")
	}

	for _, rec := range records {
		r.writePlain("%s  %s - %s  %s\n",
			rec.DownloadedAt.Local().Format("2006-01-02 15:04"), rec.Title, rec.ArtistName, rec.Path)
	}
	return nil
}

// SongsPlay streams a song through the configured player and waits for it to finish.
func (r *Runner) SongsPlay(ctx context.Context, cmd *cli.Command) error {
	song, err := r.findSong(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	lib := r.library()
	if err := lib.Play(ctx, song); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	r.writePlain("♪ Playing %q by %s (%s), ctrl+c to stop\n",
		song.Title, song.ArtistName, shared.FormatDuration(song.Duration))

	engine := lib.Player().Engine()
	err = <-engine.Done()
	lib.FinishPlayback(engine, err)
	if msg := lib.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// findSong resolves a song id against the current library.
func (r *Runner) findSong(ctx context.Context, songID string) (models.Song, error) {
	if songID == "" {
		return models.Song{}, fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	for _, song := range r.songs.All(ctx) {
		if song.ID == songID {
			return song, nil
		}
	}
	return models.Song{}, fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
}
