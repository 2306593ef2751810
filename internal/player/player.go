package player

import (
	"fmt"

	"github.com/exsolo/soloplay/internal/models"
)

// Status enumerates the playback slot states.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Factory builds a fresh engine per playback. Injected so tests can observe
// engine lifecycles without spawning processes.
type Factory func() Engine

// Player is the playback slot: at most one live engine, bound to one song.
// It is confined to a single event loop and is not safe for concurrent use;
// engine results must be fed back through [Player.Finish].
type Player struct {
	factory Factory
	engine  Engine
	songID  string
	status  Status
}

// NewPlayer creates an idle player using factory for engine construction.
func NewPlayer(factory Factory) *Player {
	return &Player{factory: factory}
}

// Toggle implements the play control:
//   - Idle, or a different song live: release the current engine, start a
//     fresh one for song, enter Playing. Returns started=true so the caller
//     can watch the new engine's Done channel and fire the play-count
//     increment.
//   - Same song Playing: pause the engine, enter Paused.
//   - Same song Paused: resume the engine, enter Playing.
func (p *Player) Toggle(song models.Song) (started bool, err error) {
	if p.engine != nil && p.songID == song.ID {
		switch p.status {
		case StatusPlaying:
			if err := p.engine.Pause(); err != nil {
				p.release()
				return false, err
			}
			p.status = StatusPaused
			return false, nil
		case StatusPaused:
			if err := p.engine.Resume(); err != nil {
				p.release()
				return false, err
			}
			p.status = StatusPlaying
			return false, nil
		}
	}

	// Release before acquire: the previous engine must be gone before a
	// new one starts, so two instances never play at once.
	p.release()

	if song.FileURL == "" {
		return false, fmt.Errorf("song %q has no file URL", song.Title)
	}

	engine := p.factory()
	if err := engine.Start(song.FileURL); err != nil {
		return false, err
	}

	p.engine = engine
	p.songID = song.ID
	p.status = StatusPlaying
	return true, nil
}

// Finish handles an engine result: natural end of track (err == nil) or an
// engine error. Results from an engine that is no longer the live one are
// ignored. Either way the slot ends up Idle with the engine released.
func (p *Player) Finish(engine Engine, err error) error {
	if engine != p.engine {
		return nil
	}

	p.engine = nil
	p.songID = ""
	p.status = StatusIdle
	return err
}

// Stop transitions to Idle from any state, releasing the engine if present.
func (p *Player) Stop() {
	p.release()
}

// Done returns the live engine's result channel, or nil when idle.
func (p *Player) Done() <-chan error {
	if p.engine == nil {
		return nil
	}
	return p.engine.Done()
}

// Engine returns the live engine, or nil when idle. Used to pair Done
// results with the instance they came from.
func (p *Player) Engine() Engine {
	return p.engine
}

// Status returns the current slot state.
func (p *Player) Status() Status {
	return p.status
}

// SongID returns the id of the song occupying the slot, or empty when idle.
func (p *Player) SongID() string {
	return p.songID
}

func (p *Player) release() {
	if p.engine != nil {
		p.engine.Stop()
		p.engine = nil
	}
	p.songID = ""
	p.status = StatusIdle
}
