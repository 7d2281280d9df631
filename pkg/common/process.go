package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/alantheprice/idekit/pkg/utils"
)

// Runner starts a process and waits for its exit code.
// The returned error is non-nil only when the process could not be run at
// all; a process that ran and failed reports its code with a nil error.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) (int, error)
}

// ProcessRunner runs commands with the terminal's standard streams attached,
// so build output and editor chatter reach the user unchanged.
type ProcessRunner struct {
	logger *utils.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewProcessRunner creates a runner wired to the process's own stdio.
func NewProcessRunner(logger *utils.Logger) *ProcessRunner {
	return &ProcessRunner{
		logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes argv in dir. An empty dir means the current working directory.
func (r *ProcessRunner) Run(ctx context.Context, dir string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 1, errors.New("empty command")
	}
	startTime := time.Now()

	if r.logger != nil {
		r.logger.Logf("Executing command: %s (dir=%q)", utils.ShellJoin(argv), dir)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	duration := time.Since(startTime)

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if r.logger != nil {
				r.logger.Logf("Command could not start: %v", err)
			}
			return 1, fmt.Errorf("could not run %s: %w", argv[0], err)
		}
		exitCode = exitErr.ExitCode()
		if exitCode <= 0 {
			// terminated by a signal
			exitCode = 1
		}
	}

	if r.logger != nil {
		if exitCode == 0 {
			r.logger.Logf("Command completed successfully in %v", duration)
		} else {
			r.logger.Logf("Command failed (exit code %d) in %v", exitCode, duration)
		}
	}
	return exitCode, nil
}
