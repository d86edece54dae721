package main

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franzcode/bootstrap/pkg/exec"
	"github.com/franzcode/bootstrap/pkg/probe"
	"github.com/franzcode/bootstrap/pkg/testutil"
)

func withScriptDir(t *testing.T, dir string) {
	t.Helper()
	prev := ScriptDir
	ScriptDir = dir
	t.Cleanup(func() { ScriptDir = prev })
}

func TestRun_ForwardsArgsAndExitCode(t *testing.T) {
	checkout := testutil.WriteCheckout(t)
	withScriptDir(t, checkout)

	runner := &testutil.MockRunner{
		LookPathFunc: testutil.LookPathIn(map[string]string{"python3": "/usr/bin/python3"}),
		RunFunc: func(stdio exec.Stdio, name string, args ...string) (int, error) {
			return 3, nil
		},
	}

	var stderr bytes.Buffer
	code := run(context.Background(), []string{"--tokens", "prog.franz"}, exec.Stdio{Stderr: &stderr}, runner)

	assert.Equal(t, 3, code)
	assert.Empty(t, stderr.String())
	assert.Contains(t, runner.CallLines(),
		"/usr/bin/python3 "+filepath.Join(checkout, "main.py")+" --tokens prog.franz")
}

func TestRun_NoRuntime(t *testing.T) {
	withScriptDir(t, testutil.WriteCheckout(t))
	runner := &testutil.MockRunner{}

	var stderr bytes.Buffer
	code := run(context.Background(), nil, exec.Stdio{Stderr: &stderr}, runner)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no usable runtime found")
	assert.Contains(t, stderr.String(), probe.DownloadURL)
	for _, line := range runner.CallLines() {
		assert.NotContains(t, line, "main.py", "entry point must not run")
	}
}

func TestRun_MissingEntryPoint(t *testing.T) {
	withScriptDir(t, t.TempDir())
	runner := &testutil.MockRunner{
		LookPathFunc: testutil.LookPathIn(map[string]string{"python3": "/usr/bin/python3"}),
	}

	var stderr bytes.Buffer
	code := run(context.Background(), nil, exec.Stdio{Stderr: &stderr}, runner)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "entry point not found")
}

func TestRun_InterpreterReceivesInterrupt(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("reads /proc/self/status")
	}
	stop := catchInterrupt()
	t.Cleanup(stop)

	bin := t.TempDir()
	testutil.WriteStub(t, bin, "python3", `if [ "$1" = "--version" ]; then echo "Python 3.11.4"; exit 0; fi
grep '^SigIgn' /proc/self/status`)
	t.Setenv("PATH", bin+string(filepath.ListSeparator)+"/usr/bin:/bin")
	withScriptDir(t, testutil.WriteCheckout(t))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, exec.Stdio{Stdout: &stdout, Stderr: &stderr}, exec.RealRunner{})
	require.Equal(t, 0, code, stderr.String())

	fields := strings.Fields(stdout.String())
	require.Len(t, fields, 2, stdout.String())
	mask, err := strconv.ParseUint(fields[1], 16, 64)
	require.NoError(t, err)
	// bit n-1 is signal n; SIGINT is 2
	assert.Zero(t, mask&(1<<1), "interpreter started with SIGINT ignored")
}
