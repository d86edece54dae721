// Command franz runs the FranzCode interpreter with whatever arguments it
// is given and exits with the interpreter's exit code.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/franzcode/bootstrap/pkg/exec"
	"github.com/franzcode/bootstrap/pkg/fsys"
	"github.com/franzcode/bootstrap/pkg/launcher"
	"github.com/franzcode/bootstrap/pkg/probe"
)

// ScriptDir pins the interpreter checkout at build time:
//
//	go build -ldflags "-X main.ScriptDir=/opt/franzcode" ./cmd/franz
//
// When empty, the directory holding the franz binary is used.
var ScriptDir = ""

func main() {
	stop := catchInterrupt()
	code := run(context.Background(), os.Args[1:], exec.OSStdio(), exec.RealRunner{})
	stop()
	os.Exit(code)
}

// catchInterrupt keeps Ctrl-C from killing the launcher while the
// interpreter handles it. A caught signal is reset to its default
// disposition across exec, so the child still sees SIGINT; an ignored
// one would be inherited as ignored.
func catchInterrupt() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return func() { signal.Stop(ch) }
}

func run(ctx context.Context, args []string, stdio exec.Stdio, runner exec.Runner) int {
	dir, err := scriptDir()
	if err != nil {
		fail(stdio.Stderr, err)
		return 1
	}

	r := &launcher.Resolver{
		FS:     fsys.OS{},
		Prober: &probe.Prober{Runner: runner},
		Runner: runner,
	}
	code, err := r.Run(ctx, dir, args, stdio)
	if err != nil {
		fail(stdio.Stderr, err)
	}
	return code
}

func scriptDir() (string, error) {
	if ScriptDir != "" {
		return ScriptDir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate franz: %w", err)
	}
	return launcher.SelfDir(exe)
}

func fail(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "franz: %v\n", err)
	var nf *probe.NotFoundError
	if errors.As(err, &nf) {
		_, _ = fmt.Fprintln(w, nf.Remediation())
	}
}
