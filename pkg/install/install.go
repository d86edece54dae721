// Package install places the franz launcher on the user's command path.
//
// Exactly one of three targets is used per run, chosen from what the
// environment allows:
//
//  1. SystemWide: the system bin directory is writable.
//  2. ElevatedSystemWide: it is not, but sudo works without a password.
//  3. UserLocal: neither; the per-user bin directory is used and the user
//     is told how to put it on PATH.
//
// The runtime is probed before anything is written, and the install is
// followed by a smoke test of the interpreter.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/franzcode/bootstrap/pkg/check"
	"github.com/franzcode/bootstrap/pkg/config"
	"github.com/franzcode/bootstrap/pkg/exec"
	"github.com/franzcode/bootstrap/pkg/fsys"
	"github.com/franzcode/bootstrap/pkg/launcher"
	"github.com/franzcode/bootstrap/pkg/output"
	"github.com/franzcode/bootstrap/pkg/probe"
)

const launcherPerm = 0o755

// Installer runs the installation for one configuration.
type Installer struct {
	Config   config.Config
	FS       fsys.FS
	Runner   exec.Runner
	Elevator Elevator
	Prober   *probe.Prober
	Logger   *log.Logger
	Out      io.Writer

	TempDir string                   // staging and smoke test dir (default: os.TempDir)
	Getenv  func(key string) string // default: os.Getenv
	GOOS    string                  // PATH instruction dialect (default: runtime.GOOS)
}

// New wires an Installer against the real system.
func New(cfg config.Config, logger *log.Logger, out io.Writer) (*Installer, error) {
	minVersion, err := cfg.MinVersion()
	if err != nil {
		return nil, err
	}
	runner := exec.RealRunner{}
	return &Installer{
		Config: cfg,
		FS:     fsys.OS{},
		Runner: runner,
		Elevator: &SudoElevator{
			Command: cfg.ElevationCommand,
			Runner:  runner,
		},
		Prober: &probe.Prober{
			Candidates: cfg.Runtimes,
			MinVersion: minVersion,
			Runner:     runner,
		},
		Logger: logger,
		Out:    out,
	}, nil
}

// Report is the outcome of an install run.
type Report struct {
	Plan  Plan
	Steps []check.Result
}

// Degraded reports whether a step finished with a warning.
func (r Report) Degraded() bool {
	for _, s := range r.Steps {
		if s.Status == check.StatusWarn {
			return true
		}
	}
	return false
}

// record appends a step result to the report and prints it.
func (in *Installer) record(r *Report, res check.Result) {
	r.Steps = append(r.Steps, res)
	output.New(in.Out).Result(res)
}

// Install plans, writes the launcher to the selected target, confirms and
// verifies. A write failure aborts without trying another target. A failed
// verification leaves the installed launcher in place.
func (in *Installer) Install(ctx context.Context) (Report, error) {
	plan, err := in.Plan(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Plan: plan}
	in.logger().Info("installing launcher", "target", plan.Target, "destination", plan.Destination)

	switch plan.Target {
	case SystemWide:
		err = in.installDirect(plan, &report)
	case ElevatedSystemWide:
		err = in.installElevated(ctx, plan, &report)
	case UserLocal:
		err = in.installUserLocal(plan, &report)
	default:
		err = fmt.Errorf("unknown target %v", plan.Target)
	}
	if err != nil {
		return report, err
	}

	in.confirm(plan)

	if !in.Config.Verify {
		in.logger().Debug("verification skipped")
		return report, nil
	}
	result := in.verifier().Verify(ctx, plan.Runtime, plan.SourceDir)
	in.record(&report, result)
	if result.Status == check.StatusFail {
		return report, result.Err
	}
	if result.Status == check.StatusWarn {
		in.logger().Warn("verification produced unexpected output", "details", result.Details)
	}
	return report, nil
}

// installDirect copies the launcher into the writable system directory
// and then pins it to the source directory.
func (in *Installer) installDirect(plan Plan, report *Report) error {
	if err := in.copyLauncher(plan, report); err != nil {
		return err
	}
	in.patchInstalled(plan, report)
	return nil
}

// installUserLocal creates the user bin directory when missing, then
// installs like installDirect.
func (in *Installer) installUserLocal(plan Plan, report *Report) error {
	if err := in.FS.MkdirAll(plan.Dir(), launcherPerm); err != nil {
		err = writeFailure("create directory", plan.Dir(), err)
		in.record(report, failed("install launcher", err))
		return err
	}
	return in.installDirect(plan, report)
}

// installElevated stages and patches the launcher in a private temp file,
// then moves it into place through the Elevator. The staged file is
// always removed.
func (in *Installer) installElevated(ctx context.Context, plan Plan, report *Report) error {
	staged, err := in.FS.WriteTemp(in.TempDir, "franz-launcher-*", plan.Launcher.Content)
	if err != nil {
		err = writeFailure("stage launcher in", in.TempDir, err)
		in.record(report, failed("install launcher", err))
		return err
	}
	defer func() { _ = in.FS.Remove(staged) }()

	patchResult := check.Result{Name: "script dir"}
	content, err := in.patch(plan.Launcher.Content, plan)
	var ierr *Error
	switch {
	case errors.As(err, &ierr) && ierr.Kind == KindPatchFailure:
		patchResult = in.degrade(plan, err)
	case err != nil:
		return err
	default:
		if err := in.FS.WriteFileAtomic(staged, content, launcherPerm); err != nil {
			patchResult = in.degrade(plan, patchFailure(staged, err))
		} else {
			patchResult.AddDetailf("points at: %s", plan.SourceDir)
			patchResult.Pass()
		}
	}

	if err := in.Elevator.Install(ctx, staged, plan.Destination); err != nil {
		err = writeFailure("install launcher to", plan.Destination, err)
		in.record(report, failed("install launcher", err))
		return err
	}
	in.record(report, installed(plan))
	in.record(report, patchResult)
	return nil
}

func (in *Installer) copyLauncher(plan Plan, report *Report) error {
	if err := in.FS.WriteFileAtomic(plan.Destination, plan.Launcher.Content, launcherPerm); err != nil {
		err = writeFailure("copy launcher to", plan.Destination, err)
		in.record(report, failed("install launcher", err))
		return err
	}
	in.record(report, installed(plan))
	return nil
}

// patchInstalled rewrites the script dir reference in the copied launcher.
// Failure leaves the unpatched copy in place and is only reported.
func (in *Installer) patchInstalled(plan Plan, report *Report) {
	err := in.patchFile(plan)
	var ierr *Error
	if errors.As(err, &ierr) && ierr.Kind == KindPatchFailure {
		in.record(report, in.degrade(plan, err))
		return
	}
	result := check.Result{Name: "script dir"}
	result.AddDetailf("points at: %s", plan.SourceDir)
	in.record(report, result.Pass())
}

func (in *Installer) patchFile(plan Plan) error {
	content, err := in.FS.ReadFile(plan.Destination)
	if err != nil {
		return patchFailure(plan.Destination, err)
	}
	patched, err := in.patch(content, plan)
	if err != nil {
		return err
	}
	if err := in.FS.WriteFileAtomic(plan.Destination, patched, launcherPerm); err != nil {
		return patchFailure(plan.Destination, err)
	}
	return nil
}

func (in *Installer) patch(content []byte, plan Plan) ([]byte, error) {
	patched, err := launcher.PatchScriptDir(content, plan.Launcher.Kind, plan.SourceDir)
	if err != nil {
		return nil, patchFailure(plan.Destination, err)
	}
	return patched, nil
}

func (in *Installer) degrade(plan Plan, err error) check.Result {
	in.logger().Warn("launcher left unpatched; it only works next to main.py", "err", err)
	result := check.Result{Name: "script dir"}
	result.Warn("could not pin launcher to "+plan.SourceDir, err)
	result.AddDetail("the launcher will look for main.py next to itself")
	return result
}

// confirm prints which target was used and what to do next. The PATH
// instruction is printed here and nowhere else.
func (in *Installer) confirm(plan Plan) {
	p := output.New(in.Out)
	switch plan.Target {
	case SystemWide:
		p.Headline("Installed franz to %s (system-wide)", plan.Destination)
		p.Line("Run it from anywhere:")
		p.Command("franz program.franz")
	case ElevatedSystemWide:
		p.Headline("Installed franz to %s (system-wide, via %s)", plan.Destination, in.Config.ElevationCommand)
		p.Line("Run it from anywhere:")
		p.Command("franz program.franz")
	case UserLocal:
		p.Headline("Installed franz to %s (user-local)", plan.Destination)
		if OnPath(plan.Environment.SearchPath, plan.Dir()) {
			p.Line("%s is already on your PATH. To add it in new shells as well, run:", plan.Dir())
		} else {
			p.Line("%s is not on your PATH. Add it with:", plan.Dir())
		}
		p.Command(PathInstruction(in.goos(), plan.Dir()))
		p.Line("then run:")
		p.Command("franz program.franz")
	}
}

func (in *Installer) resolver() *launcher.Resolver {
	return &launcher.Resolver{FS: in.FS, Prober: in.Prober, Runner: in.Runner}
}

func (in *Installer) verifier() *Verifier {
	return &Verifier{FS: in.FS, Runner: in.Runner, Resolver: in.resolver(), TempDir: in.TempDir}
}

// Verifier returns the smoke test wired like the installer.
func (in *Installer) Verifier() *Verifier {
	return in.verifier()
}

func (in *Installer) getenv(key string) string {
	if in.Getenv != nil {
		return in.Getenv(key)
	}
	return os.Getenv(key)
}

func (in *Installer) goos() string {
	if in.GOOS != "" {
		return in.GOOS
	}
	return runtime.GOOS
}

func installed(plan Plan) check.Result {
	result := check.Result{Name: "install launcher"}
	result.AddDetailf("destination: %s", plan.Destination)
	result.AddDetailf("source: %s", plan.Launcher.Origin)
	return result.Pass()
}

func failed(name string, err error) check.Result {
	result := check.Result{Name: name}
	return result.Fail(err.Error(), err)
}

func (in *Installer) logger() *log.Logger {
	if in.Logger == nil {
		return log.New(io.Discard)
	}
	return in.Logger
}
