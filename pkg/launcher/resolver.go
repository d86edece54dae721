package launcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/franzcode/bootstrap/pkg/exec"
	"github.com/franzcode/bootstrap/pkg/fsys"
	"github.com/franzcode/bootstrap/pkg/probe"
)

// ErrEntryPointNotFound means the script directory has no interpreter entry point.
var ErrEntryPointNotFound = errors.New("interpreter entry point not found")

// Resolver turns a script directory and raw arguments into an interpreter
// invocation. It keeps no state between calls.
type Resolver struct {
	FS     fsys.FS
	Prober *probe.Prober
	Runner exec.Runner
	Entry  string // entry point file name (default: main.py)
}

// Invocation is a resolved interpreter command line.
type Invocation struct {
	Runtime probe.Handle
	Entry   string
	Args    []string
}

// Argv returns the arguments passed to the runtime: the entry point
// followed by the caller's arguments untouched.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Args)+1)
	argv = append(argv, inv.Entry)
	return append(argv, inv.Args...)
}

// SelfDir returns the directory containing executable, following symlinks,
// so a launcher linked into a bin directory still finds its checkout.
func SelfDir(executable string) (string, error) {
	abs, err := filepath.Abs(executable)
	if err != nil {
		return "", fmt.Errorf("resolve launcher path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve launcher path: %w", err)
	}
	return filepath.Dir(resolved), nil
}

// EntryPoint returns the interpreter entry point inside dir.
func (r *Resolver) EntryPoint(dir string) (string, error) {
	entry := r.Entry
	if entry == "" {
		entry = DefaultEntry
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve script dir: %w", err)
	}
	path := filepath.Join(abs, entry)
	if !fsys.IsFile(r.FS, path) {
		return "", fmt.Errorf("%w: %s", ErrEntryPointNotFound, path)
	}
	return path, nil
}

// Resolve probes for a runtime and locates the entry point. The runtime is
// probed first so a missing runtime is reported before anything else.
func (r *Resolver) Resolve(ctx context.Context, scriptDir string, args []string) (Invocation, error) {
	h, err := r.Prober.Probe(ctx)
	if err != nil {
		return Invocation{}, err
	}
	entry, err := r.EntryPoint(scriptDir)
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{Runtime: h, Entry: entry, Args: args}, nil
}

// Run resolves and runs the interpreter, returning its exit code unchanged.
func (r *Resolver) Run(ctx context.Context, scriptDir string, args []string, stdio exec.Stdio) (int, error) {
	inv, err := r.Resolve(ctx, scriptDir, args)
	if err != nil {
		return 1, err
	}
	code, err := r.Runner.Run(ctx, stdio, inv.Runtime.Path, inv.Argv()...)
	if err != nil {
		return 1, fmt.Errorf("start %s: %w", inv.Runtime.Path, err)
	}
	return code, nil
}
