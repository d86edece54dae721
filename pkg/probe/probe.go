// Package probe locates a Python runtime able to run the FranzCode
// interpreter.
package probe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/franzcode/bootstrap/pkg/exec"
	"github.com/franzcode/bootstrap/pkg/version"
)

// DefaultTimeout bounds the --version call made against each candidate.
const DefaultTimeout = 30 * time.Second

// DownloadURL is where users are sent when no runtime is found.
const DownloadURL = "https://www.python.org/downloads/"

// ErrRuntimeNotFound is matched by every error reporting that no candidate
// runtime is available.
var ErrRuntimeNotFound = errors.New("runtime not found")

// DefaultCandidates returns the runtime names tried, in priority order.
func DefaultCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"py", "python", "python3"}
	}
	return []string{"python3", "python"}
}

// Handle identifies a resolved runtime. It is immutable once returned.
type Handle struct {
	Name    string           // candidate name as probed, e.g. "python3"
	Path    string           // absolute path found on PATH
	Version string           // first line of the self-reported version
	Parsed  *version.Version // nil when Version could not be parsed
}

// String renders the handle for logs.
func (h Handle) String() string {
	if h.Version == "" {
		return fmt.Sprintf("%s (%s)", h.Name, h.Path)
	}
	return fmt.Sprintf("%s (%s, %s)", h.Name, h.Path, h.Version)
}

// NotFoundError reports that no candidate runtime could be used.
type NotFoundError struct {
	Candidates []string
	Skipped    []string // present but rejected, e.g. "python (2.7.18 < 3.0.0)"
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no usable runtime found (tried %s)", strings.Join(e.Candidates, ", "))
	if len(e.Skipped) > 0 {
		msg += fmt.Sprintf("; rejected %s", strings.Join(e.Skipped, ", "))
	}
	return msg
}

// Is makes errors.Is(err, ErrRuntimeNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrRuntimeNotFound
}

// Remediation is the message printed alongside a NotFoundError.
func (e *NotFoundError) Remediation() string {
	name := "python3"
	if len(e.Candidates) > 0 {
		name = e.Candidates[0]
	}
	return fmt.Sprintf("FranzCode needs Python 3. Install it from %s and make sure %s is on your PATH.",
		DownloadURL, name)
}

// Prober finds the first available runtime among Candidates.
type Prober struct {
	Candidates  []string         // names tried in order (default: DefaultCandidates)
	VersionArgs []string         // args to get version (default: --version)
	MinVersion  *version.Version // when set, older runtimes are skipped
	Timeout     time.Duration    // timeout for each version command (default: 30s)
	Runner      exec.Runner      // injected for testing
}

// Probe returns the first candidate present on the search path. It never
// writes anything.
func (p *Prober) Probe(ctx context.Context) (Handle, error) {
	candidates := p.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}

	var skipped []string
	for _, name := range candidates {
		path, err := p.Runner.LookPath(name)
		if err != nil {
			continue
		}

		h := Handle{Name: name, Path: path}
		h.Version = p.selfReportedVersion(ctx, path)
		if h.Version != "" {
			if v, err := version.Extract(h.Version); err == nil {
				h.Parsed = &v
			}
		}

		if p.MinVersion != nil && (h.Parsed == nil || h.Parsed.LessThan(*p.MinVersion)) {
			skipped = append(skipped, fmt.Sprintf("%s (%s < %s)", name, versionOrUnknown(h), p.MinVersion))
			continue
		}
		return h, nil
	}

	return Handle{}, &NotFoundError{Candidates: candidates, Skipped: skipped}
}

// selfReportedVersion runs the version command. A failing version command
// does not disqualify the runtime; the version is just left empty.
func (p *Prober) selfReportedVersion(ctx context.Context, path string) string {
	args := p.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout, stderr, err := p.Runner.Output(ctx, path, args...)
	if err != nil {
		return ""
	}
	// Python 2 prints its version on stderr.
	out := stdout
	if strings.TrimSpace(out) == "" {
		out = stderr
	}
	return firstLine(out)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func versionOrUnknown(h Handle) string {
	if h.Parsed == nil {
		return "unknown version"
	}
	return h.Parsed.String()
}
