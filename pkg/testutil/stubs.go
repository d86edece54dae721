package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStub writes an executable POSIX shell script named name into dir
// and returns its path.
func WriteStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := fmt.Sprintf("#!/bin/sh\n%s\n", body)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

// FakePythonBody is a stub runtime that answers --version and otherwise
// behaves like a tiny FranzCode interpreter: given "<entry> <file>", it
// prints the text of every SAY "..." line in file. A line reading OOPS
// makes it exit 1.
const FakePythonBody = `if [ "$1" = "--version" ]; then echo "Python 3.11.4"; exit 0; fi
entry="$1"; shift
[ -f "$entry" ] || { echo "can't open file '$entry'" >&2; exit 2; }
[ $# -eq 0 ] && { echo "REPL"; exit 0; }
case "$1" in --*) echo "flag:$1"; shift ;; esac
if grep -q '^OOPS' "$1"; then echo "Runtime error" >&2; exit 1; fi
sed -n 's/^SAY "\(.*\)"$/\1/p' "$1"`

// WriteFakePython writes the FakePythonBody stub as dir/name.
func WriteFakePython(t *testing.T, dir, name string) string {
	t.Helper()
	return WriteStub(t, dir, name, FakePythonBody)
}

// WriteCheckout creates a FranzCode source checkout containing main.py and
// returns its directory.
func WriteCheckout(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("# FranzCode entry point\n"), 0o644); err != nil {
		t.Fatalf("write main.py: %v", err)
	}
	return dir
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
