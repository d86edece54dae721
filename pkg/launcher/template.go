// Package launcher resolves and runs the FranzCode interpreter on behalf of
// the franz command, and produces the launcher scripts the installer copies.
package launcher

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/franzcode/bootstrap/pkg/fsys"
	"github.com/franzcode/bootstrap/pkg/probe"
)

// DefaultEntry is the interpreter entry point inside a source checkout.
const DefaultEntry = "main.py"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kind is the script dialect of a launcher file.
type Kind int

const (
	// Shell is a POSIX sh launcher.
	Shell Kind = iota
	// Batch is a Windows cmd.exe launcher.
	Batch
)

func (k Kind) String() string {
	if k == Batch {
		return "batch"
	}
	return "shell"
}

// KindOf infers the dialect from a launcher file name.
func KindOf(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cmd", ".bat":
		return Batch
	default:
		return Shell
	}
}

// DefaultName returns the launcher file name for the current platform.
func DefaultName() string {
	if runtime.GOOS == "windows" {
		return "franz.cmd"
	}
	return "franz"
}

// Origin says where launcher content came from.
type Origin string

const (
	OriginCheckout Origin = "checkout"
	OriginTemplate Origin = "built-in template"
)

// Source is the launcher content to be installed.
type Source struct {
	Name    string // file name at the destination, e.g. "franz"
	Kind    Kind
	Origin  Origin
	Path    string // path of the checkout file; empty for templates
	Content []byte
}

// TemplateData fills a launcher template.
type TemplateData struct {
	Candidates  []string
	Entry       string
	Remediation string
}

// Render produces a pristine launcher of the given kind. Its
// SCRIPT_DIR line locates the script's own directory at run time.
func Render(kind Kind, data TemplateData) ([]byte, error) {
	if len(data.Candidates) == 0 {
		data.Candidates = probe.DefaultCandidates()
	}
	if data.Entry == "" {
		data.Entry = DefaultEntry
	}
	if data.Remediation == "" {
		data.Remediation = (&probe.NotFoundError{Candidates: data.Candidates}).Remediation()
	}

	name := "templates/franz.sh.tmpl"
	if kind == Batch {
		name = "templates/franz.cmd.tmpl"
	}
	tmpl, err := template.New(filepath.Base(name)).
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, name)
	if err != nil {
		return nil, fmt.Errorf("parse launcher template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render launcher template: %w", err)
	}
	out := buf.Bytes()
	if kind == Batch {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	return out, nil
}

// LoadSource returns the launcher shipped in sourceDir under name, or a
// rendered template when the checkout does not ship one.
func LoadSource(fs fsys.FS, sourceDir, name string, data TemplateData) (Source, error) {
	src := Source{Name: name, Kind: KindOf(name)}

	path := filepath.Join(sourceDir, name)
	if fsys.IsFile(fs, path) {
		content, err := fs.ReadFile(path)
		if err != nil {
			return Source{}, fmt.Errorf("read launcher %s: %w", path, err)
		}
		src.Origin = OriginCheckout
		src.Path = path
		src.Content = content
		return src, nil
	}

	content, err := Render(src.Kind, data)
	if err != nil {
		return Source{}, err
	}
	src.Origin = OriginTemplate
	src.Content = content
	return src, nil
}
