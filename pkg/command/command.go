package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/shell"
)

// Executor runs a command line and reports what happened. It never returns
// an error separately; failures are described by Result.Err.
type Executor interface {
	Execute(ctx context.Context, commandLine string) Result
}

// Result represents the result of a command execution
type Result struct {
	// Stdout is the captured standard output
	Stdout string
	// Stderr is the captured standard error
	Stderr string
	// Launched is true when the process started, regardless of exit status
	Launched bool
	// ExitCode is the exit status of a launched process, -1 otherwise
	ExitCode int
	// Err is the raw failure detail; nil on success
	Err error
}

// Succeeded reports whether the command launched and exited zero.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// ShellExecutor is the Executor backed by os/exec. The command line is split
// with POSIX shell rules (quotes, escapes, $VAR expansion) but no shell is
// spawned.
type ShellExecutor struct {
	logger zerolog.Logger
	env    func(string) string
}

// NewShellExecutor creates a new executor that expands variables from the
// process environment.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{
		logger: logging.GetLogger("command"),
	}
}

// WithEnv sets the lookup used for $VAR expansion while splitting.
func (e *ShellExecutor) WithEnv(env func(string) string) *ShellExecutor {
	e.env = env
	return e
}

// Split splits commandLine into program and arguments.
func Split(commandLine string, env func(string) string) ([]string, error) {
	fields, err := shell.Fields(commandLine, env)
	if err != nil {
		return nil, fmt.Errorf("invalid command line %q: %w", commandLine, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command line")
	}
	return fields, nil
}

// Execute implements Executor
func (e *ShellExecutor) Execute(ctx context.Context, commandLine string) Result {
	fields, err := Split(commandLine, e.env)
	if err != nil {
		return Result{ExitCode: -1, Err: err}
	}

	logging.LogCommand(e.logger, fields[0], fields[1:])

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Launched: cmd.ProcessState != nil,
		ExitCode: -1,
		Err:      err,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Launched = true
			result.ExitCode = exitErr.ExitCode()
		}
		e.logger.Debug().
			Err(err).
			Str("command", commandLine).
			Bool("launched", result.Launched).
			Int("exitCode", result.ExitCode).
			Str("stderr", result.Stderr).
			Msg("Command execution failed")
		return result
	}

	e.logger.Debug().
		Str("command", commandLine).
		Int("stdoutLen", len(result.Stdout)).
		Msg("Command executed successfully")

	return result
}
