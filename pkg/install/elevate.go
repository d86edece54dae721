package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/franzcode/bootstrap/pkg/exec"
)

// Elevator runs file operations with elevated privileges.
type Elevator interface {
	// Available reports whether elevation works without prompting.
	Available(ctx context.Context) bool
	// Install copies src to dst as an executable, elevated.
	Install(ctx context.Context, src, dst string) error
}

// SudoElevator elevates through sudo (or a compatible tool such as doas)
// in non-interactive mode only.
type SudoElevator struct {
	Command string // e.g. "sudo"; empty disables elevation
	Runner  exec.Runner
}

// Available runs "<command> -n true". The -n flag makes the tool fail
// instead of asking for a password.
func (e *SudoElevator) Available(ctx context.Context) bool {
	if e.Command == "" {
		return false
	}
	if _, err := e.Runner.LookPath(e.Command); err != nil {
		return false
	}
	_, _, err := e.Runner.Output(ctx, e.Command, "-n", "true")
	return err == nil
}

// Install copies src next to dst under a temporary name and renames it
// into place, so a failed copy never leaves a partial launcher at dst.
func (e *SudoElevator) Install(ctx context.Context, src, dst string) error {
	if e.Command == "" {
		return fmt.Errorf("elevation disabled")
	}
	dir := filepath.Dir(dst)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%d.tmp", filepath.Base(dst), os.Getpid()))

	if err := e.run(ctx, "mkdir", "-p", dir); err != nil {
		return err
	}
	if err := e.run(ctx, "install", "-m", "0755", src, tmp); err != nil {
		_ = e.run(ctx, "rm", "-f", tmp)
		return err
	}
	if err := e.run(ctx, "mv", "-f", tmp, dst); err != nil {
		_ = e.run(ctx, "rm", "-f", tmp)
		return err
	}
	return nil
}

func (e *SudoElevator) run(ctx context.Context, args ...string) error {
	argv := append([]string{"-n"}, args...)
	_, stderr, err := e.Runner.Output(ctx, e.Command, argv...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%s %s: %w: %s", e.Command, strings.Join(argv, " "), err, msg)
		}
		return fmt.Errorf("%s %s: %w", e.Command, strings.Join(argv, " "), err)
	}
	return nil
}
