package install

import (
	"context"
	"fmt"
	"strings"

	"github.com/franzcode/bootstrap/pkg/check"
	"github.com/franzcode/bootstrap/pkg/exec"
	"github.com/franzcode/bootstrap/pkg/fsys"
	"github.com/franzcode/bootstrap/pkg/launcher"
	"github.com/franzcode/bootstrap/pkg/probe"
)

// SmokeProgram is the known-good program run after installing.
const SmokeProgram = `SAY "FranzCode is ready"` + "\n"

// SmokeOutput is what SmokeProgram prints.
const SmokeOutput = "FranzCode is ready"

// Verifier runs the smoke test against the interpreter entry point. It
// calls the runtime directly rather than the installed launcher, which may
// not be on PATH yet.
type Verifier struct {
	FS       fsys.FS
	Runner   exec.Runner
	Resolver *launcher.Resolver
	TempDir  string // where the smoke program is written (default: os.TempDir)
}

// Verify runs the smoke program with runtime h and reports the outcome.
// The temporary program is removed whatever happens.
func (v *Verifier) Verify(ctx context.Context, h probe.Handle, sourceDir string) check.Result {
	result := check.Result{Name: "verification"}

	entry, err := v.Resolver.EntryPoint(sourceDir)
	if err != nil {
		return result.Fail(err.Error(), newError(KindEntryPointNotFound, "locate entry point in", sourceDir, err))
	}

	tmp, err := v.FS.WriteTemp(v.TempDir, "franz-verify-*.franz", []byte(SmokeProgram))
	if err != nil {
		return result.Fail("could not write smoke program: "+fsys.Describe(err),
			writeFailure("write smoke program in", v.TempDir, err))
	}
	defer func() { _ = v.FS.Remove(tmp) }()

	result.AddDetailf("runtime: %s", h.Path)
	stdout, stderr, runErr := v.Runner.Output(ctx, h.Path, entry, tmp)
	code, startErr := exec.ExitCode(runErr)
	switch {
	case startErr != nil && exec.IsNotFound(startErr):
		err := verificationFailure(ErrRuntimeMissing, "%s: %v", h.Path, startErr)
		return result.Fail("runtime missing: "+h.Path+" no longer exists", err)
	case startErr != nil:
		err := verificationFailure(ErrInterpreterFailed, "start %s: %v", h.Path, startErr)
		return result.Fail("interpreter failed: could not start "+h.Path, err)
	case code != 0:
		err := verificationFailure(ErrInterpreterFailed, "%s exited with code %d", entry, code)
		result.Fail(fmt.Sprintf("interpreter failed: exit code %d", code), err)
		addOutput(&result, "stderr", stderr)
		addOutput(&result, "stdout", stdout)
		return result
	}

	got := strings.TrimSpace(stdout)
	if got != SmokeOutput {
		return result.Warn(fmt.Sprintf("unexpected output: %q", got), nil)
	}
	result.AddDetailf("output: %s", got)
	return result.Pass()
}

func addOutput(r *check.Result, label, s string) {
	if s = strings.TrimSpace(s); s != "" {
		r.AddDetailf("%s: %s", label, firstLines(s, 5))
	}
}

func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = append(lines[:n], "...")
	}
	return strings.Join(lines, " | ")
}

// VerifyCheck adapts the smoke test to check.Checker for the verify
// command. It probes for a runtime first, like the launcher does.
type VerifyCheck struct {
	Prober    *probe.Prober
	Verifier  *Verifier
	SourceDir string
}

// Run probes and verifies.
func (c *VerifyCheck) Run() check.Result {
	ctx := context.Background()
	h, err := c.Prober.Probe(ctx)
	if err != nil {
		return probe.Result(h, err)
	}
	return c.Verifier.Verify(ctx, h, c.SourceDir)
}
