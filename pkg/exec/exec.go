// Package exec runs child processes behind an interface so that probing,
// elevation and forwarding can be exercised without spawning real commands.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// Stdio wires a child process to its parent's streams.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSStdio returns the current process's standard streams.
func OSStdio() Stdio {
	return Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Runner abstracts command lookup and execution.
type Runner interface {
	// LookPath searches for an executable in PATH.
	LookPath(file string) (string, error)
	// Output runs a command to completion and captures its output.
	Output(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
	// Run runs a command attached to stdio and returns its exit code.
	// A command that ran and exited non-zero is not an error.
	Run(ctx context.Context, stdio Stdio, name string, args ...string) (int, error)
}

// RealRunner implements Runner using os/exec.
type RealRunner struct{}

// LookPath searches for an executable in PATH.
func (RealRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output executes a command and returns its output.
func (RealRunner) Output(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- name comes from a fixed candidate list or config
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// Run executes a command with the given stdio and returns its exit code.
func (RealRunner) Run(ctx context.Context, stdio Stdio, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- forwarding is the point
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr
	return ExitCode(cmd.Run())
}

// ExitCode splits the error from a finished command into an exit code and
// a start error. Exit errors become their code with a nil error.
func ExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// killed by a signal: report it the way shells do
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal()), nil
		}
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	return -1, err
}

// IsNotFound reports whether err means the executable could not be found.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
