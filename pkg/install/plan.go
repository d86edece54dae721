package install

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/franzcode/bootstrap/pkg/fsys"
	"github.com/franzcode/bootstrap/pkg/launcher"
	"github.com/franzcode/bootstrap/pkg/probe"
)

// Plan is everything Install will do, decided before any write.
type Plan struct {
	Target      Target
	Destination string // <target dir>/<launcher name>
	SourceDir   string
	Entry       string // absolute path of the interpreter entry point
	Launcher    launcher.Source
	Runtime     probe.Handle
	Environment Environment

	// Existing describes a launcher already at Destination, if any.
	Existing *Existing
}

// Existing is the state of a launcher found at the destination.
type Existing struct {
	ScriptDir string // empty when the launcher still locates itself
	Pinned    bool
}

// Dir returns the directory the launcher is written to.
func (p Plan) Dir() string {
	return filepath.Dir(p.Destination)
}

// NeedsPathHint reports whether a PATH instruction is printed.
func (p Plan) NeedsPathHint() bool {
	return p.Target == UserLocal
}

// Plan probes the runtime, locates the entry point, observes the
// environment and selects a target. It never writes.
func (in *Installer) Plan(ctx context.Context) (Plan, error) {
	h, err := in.Prober.Probe(ctx)
	if err != nil {
		return Plan{}, newError(KindRuntimeNotFound, "probe runtime", "", err)
	}
	in.logger().Debug("found runtime", "name", h.Name, "path", h.Path, "version", h.Version)

	entry, err := in.resolver().EntryPoint(in.Config.SourceDir)
	if err != nil {
		return Plan{}, newError(KindEntryPointNotFound, "locate entry point in", in.Config.SourceDir, err)
	}

	env := in.Inspect(ctx)
	target := SelectTarget(env.SystemWritable, env.ElevationAvailable)
	dir := in.Config.SystemDir
	if target == UserLocal {
		dir = in.Config.UserDir
	}

	src, err := launcher.LoadSource(in.FS, in.Config.SourceDir, in.Config.LauncherName, launcher.TemplateData{
		Candidates:  in.Prober.Candidates,
		Entry:       filepath.Base(entry),
		Remediation: (&probe.NotFoundError{Candidates: in.Prober.Candidates}).Remediation(),
	})
	if err != nil {
		return Plan{}, newError(KindLauncherSource, "load launcher from", in.Config.SourceDir, err)
	}

	plan := Plan{
		Target:      target,
		Destination: filepath.Join(dir, in.Config.LauncherName),
		SourceDir:   in.Config.SourceDir,
		Entry:       entry,
		Launcher:    src,
		Runtime:     h,
		Environment: env,
		Existing:    in.existing(filepath.Join(dir, in.Config.LauncherName), src.Kind),
	}
	in.logger().Debug("selected target",
		"target", plan.Target,
		"system_writable", env.SystemWritable,
		"elevation", env.ElevationAvailable,
		"launcher", src.Origin)
	return plan, nil
}

// Inspect observes the environment once. Elevation is only probed when
// the system directory is not directly writable.
func (in *Installer) Inspect(ctx context.Context) Environment {
	env := Environment{
		SystemWritable: in.FS.Writable(in.Config.SystemDir),
		SearchPath:     in.getenv("PATH"),
	}
	if !env.SystemWritable && in.Elevator != nil {
		env.ElevationAvailable = in.Elevator.Available(ctx)
	}
	return env
}

func (in *Installer) existing(dest string, kind launcher.Kind) *Existing {
	if !fsys.IsFile(in.FS, dest) {
		return nil
	}
	content, err := in.FS.ReadFile(dest)
	if err != nil {
		return &Existing{}
	}
	dir, pinned, err := launcher.ReadScriptDir(content, kind)
	if err != nil {
		return &Existing{}
	}
	return &Existing{ScriptDir: dir, Pinned: pinned}
}

// PlanView is the serializable form of a Plan used by "plan --format".
type PlanView struct {
	Target             Target      `json:"target" toml:"target"`
	Destination        string      `json:"destination" toml:"destination"`
	SourceDir          string      `json:"source_dir" toml:"source_dir"`
	Entry              string      `json:"entry" toml:"entry"`
	Launcher           string      `json:"launcher" toml:"launcher"`
	LauncherPath       string      `json:"launcher_path,omitempty" toml:"launcher_path,omitempty"`
	Runtime            RuntimeView `json:"runtime" toml:"runtime"`
	SystemWritable     bool        `json:"system_writable" toml:"system_writable"`
	ElevationAvailable bool        `json:"elevation_available" toml:"elevation_available"`
	PathInstruction    string      `json:"path_instruction,omitempty" toml:"path_instruction,omitempty"`
	Existing           string      `json:"existing,omitempty" toml:"existing,omitempty"`
}

// RuntimeView is the serializable form of a probe.Handle.
type RuntimeView struct {
	Name    string `json:"name" toml:"name"`
	Path    string `json:"path" toml:"path"`
	Version string `json:"version,omitempty" toml:"version,omitempty"`
}

// View converts the plan for JSON and TOML output. goos selects the PATH
// instruction dialect.
func (p Plan) View(goos string) PlanView {
	v := PlanView{
		Target:             p.Target,
		Destination:        p.Destination,
		SourceDir:          p.SourceDir,
		Entry:              p.Entry,
		Launcher:           string(p.Launcher.Origin),
		LauncherPath:       p.Launcher.Path,
		Runtime:            RuntimeView{Name: p.Runtime.Name, Path: p.Runtime.Path, Version: p.Runtime.Version},
		SystemWritable:     p.Environment.SystemWritable,
		ElevationAvailable: p.Environment.ElevationAvailable,
		Existing:           p.Existing.String(),
	}
	if p.NeedsPathHint() {
		v.PathInstruction = PathInstruction(goos, p.Dir())
	}
	return v
}

func (e *Existing) String() string {
	switch {
	case e == nil:
		return ""
	case e.Pinned:
		return "launcher pointing at " + e.ScriptDir
	default:
		return "launcher without a pinned script dir"
	}
}

// PathInstruction is the command that adds dir to the user's PATH.
func PathInstruction(goos, dir string) string {
	if goos == "windows" {
		return fmt.Sprintf(`setx PATH "%%PATH%%;%s"`, dir)
	}
	return fmt.Sprintf(`export PATH="%s:$PATH"`, dir)
}

// OnPath reports whether dir is one of the entries of searchPath.
func OnPath(searchPath, dir string) bool {
	want := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(searchPath) {
		if entry == "" {
			continue
		}
		if filepath.Clean(entry) == want || strings.EqualFold(filepath.Clean(entry), want) && filepath.Separator == '\\' {
			return true
		}
	}
	return false
}
