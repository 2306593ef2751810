package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/exsolo/soloplay/internal/library"
	"github.com/exsolo/soloplay/internal/player"
	"github.com/exsolo/soloplay/internal/repositories"
	"github.com/exsolo/soloplay/internal/services"
	"github.com/exsolo/soloplay/internal/session"
	"github.com/exsolo/soloplay/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	session *session.Controller
	songs   services.Songs
	history *repositories.DownloadRepository
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Auth    services.Auth
	Songs   services.Songs
	Store   session.TokenStore
	History *repositories.DownloadRepository
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	sess := session.NewController(opts.Auth, opts.Songs, opts.Store, opts.Logger)

	return &Runner{
		config:  opts.Config,
		session: sess,
		songs:   opts.Songs,
		history: opts.History,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// engineFactory builds playback engines from the configured player command.
func (r *Runner) engineFactory() player.Factory {
	command := r.config.Player.Command
	args := r.config.Player.Args
	return func() player.Engine {
		return player.NewProcessEngine(command, args)
	}
}

// library assembles a library controller over the runner's session and gateways.
func (r *Runner) library() *library.Controller {
	return library.NewController(library.Opts{
		Session:      r.session,
		Songs:        r.songs,
		History:      r.history,
		Player:       player.NewPlayer(r.engineFactory()),
		Logger:       r.logger,
		DownloadsDir: r.config.Downloads.Dir,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
