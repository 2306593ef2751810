package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/exsolo/soloplay/internal/models"
	"github.com/exsolo/soloplay/internal/shared"
)

var _ list.Item = songItem{}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %s", i.song.ArtistName, i.song.Genre, shared.FormatDuration(i.song.Duration))
	if i.song.Plays > 0 {
		desc = fmt.Sprintf("%s • %d plays", desc, i.song.Plays)
	}
	return desc
}
