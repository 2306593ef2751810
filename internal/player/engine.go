package player

import (
	"fmt"
	"os/exec"
	"syscall"
)

// Engine is one live audio instance bound to a single track URL.
type Engine interface {
	// Start begins playback. An engine starts at most once.
	Start(url string) error

	// Pause suspends playback, keeping the instance alive.
	Pause() error

	// Resume continues a paused instance.
	Resume() error

	// Stop tears the instance down. Safe to call more than once.
	Stop()

	// Done delivers the final playback result exactly once: nil for a
	// natural end of track, an error otherwise. After an explicit Stop
	// the result is unspecified and should be discarded.
	Done() <-chan error
}

// ProcessEngine runs an external player binary. Pause and resume map to
// SIGSTOP/SIGCONT, stop kills the process group.
type ProcessEngine struct {
	command string
	args    []string
	cmd     *exec.Cmd
	done    chan error
}

var _ Engine = (*ProcessEngine)(nil)

// NewProcessEngine creates an engine that will run command with args followed
// by the track URL.
func NewProcessEngine(command string, args []string) *ProcessEngine {
	if command == "" {
		command = "ffplay"
		args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
	}
	return &ProcessEngine{
		command: command,
		args:    args,
		done:    make(chan error, 1),
	}
}

// Start spawns the player in its own process group and begins waiting for it
// to exit. The group lets Pause, Resume and Stop reach any children a wrapper
// script spawns.
func (e *ProcessEngine) Start(url string) error {
	if e.cmd != nil {
		return fmt.Errorf("engine already started")
	}

	args := append(append([]string{}, e.args...), url)
	cmd := exec.Command(e.command, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %s: %w", e.command, err)
	}
	e.cmd = cmd

	go func() {
		e.done <- cmd.Wait()
	}()

	return nil
}

// Pause suspends the player's process group.
func (e *ProcessEngine) Pause() error {
	if err := e.signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("failed to pause player: %w", err)
	}
	return nil
}

// Resume continues the player's process group.
func (e *ProcessEngine) Resume() error {
	if err := e.signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("failed to resume player: %w", err)
	}
	return nil
}

// Stop kills the player's process group. A paused group is continued first so
// the kill is not left pending on a stopped process.
func (e *ProcessEngine) Stop() {
	e.signal(syscall.SIGCONT)
	e.signal(syscall.SIGKILL)
}

// signal delivers sig to the whole process group.
func (e *ProcessEngine) signal(sig syscall.Signal) error {
	if e.cmd == nil || e.cmd.Process == nil {
		return fmt.Errorf("engine not started")
	}
	return syscall.Kill(-e.cmd.Process.Pid, sig)
}

// Done delivers the final wait result.
func (e *ProcessEngine) Done() <-chan error {
	return e.done
}
