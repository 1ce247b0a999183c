package interpreter

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

// Command describes one synchronous external invocation.
type Command struct {
	Argv   []string
	Env    []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// System abstracts the process operations needed to check and run a runtime.
// Other packages (payload, bootstrap) accept this same interface so tests can
// substitute a recorder without spawning processes.
type System interface {
	Run(ctx context.Context, cmd Command) (int, error)
	Environ() []string
}

// RealSystem implements System with os/exec.
type RealSystem struct{}

// Run executes cmd and waits for it to exit. A non-zero exit is reported through
// the exit code with a nil error; err is non-nil only when the process could not
// be started or waited on.
func (RealSystem) Run(ctx context.Context, cmd Command) (int, error) {
	if len(cmd.Argv) == 0 {
		return -1, errors.New(messages.RuntimeEmptyCommand)
	}
	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Env = cmd.Env
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	err := c.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Environ returns a copy of strings representing the environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}
