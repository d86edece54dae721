package launcher

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ScriptDirVar is the variable holding the directory of the interpreter
// entry point in every launcher.
const ScriptDirVar = "SCRIPT_DIR"

// ErrNoScriptDir means the launcher has no SCRIPT_DIR assignment to rewrite.
var ErrNoScriptDir = errors.New("launcher has no " + ScriptDirVar + " assignment")

// PatchScriptDir rewrites the first SCRIPT_DIR assignment in content so the
// launcher points at dir no matter where it is installed.
func PatchScriptDir(content []byte, kind Kind, dir string) ([]byte, error) {
	if !filepath.IsAbs(dir) {
		return nil, fmt.Errorf("script dir %q is not absolute", dir)
	}

	var assignment string
	var match func(line string) bool
	switch kind {
	case Batch:
		if strings.ContainsAny(dir, "\"\r\n") {
			return nil, fmt.Errorf("script dir %q cannot be written to a batch file", dir)
		}
		assignment = `set "` + ScriptDirVar + "=" + strings.ReplaceAll(dir, "%", "%%") + `"`
		match = isBatchAssignment
	default:
		quoted, err := syntax.Quote(dir, syntax.LangPOSIX)
		if err != nil {
			return nil, fmt.Errorf("quote script dir: %w", err)
		}
		assignment = ScriptDirVar + "=" + quoted
		match = isShellAssignment
	}

	lines := bytes.SplitAfter(content, []byte("\n"))
	patched := false
	for i, line := range lines {
		text := string(line)
		if !match(text) {
			continue
		}
		indent := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
		eol := text[len(strings.TrimRight(text, "\r\n")):]
		lines[i] = []byte(indent + assignment + eol)
		patched = true
		break
	}
	if !patched {
		return nil, ErrNoScriptDir
	}

	out := bytes.Join(lines, nil)
	if kind == Shell {
		if _, err := parseShell(out); err != nil {
			return nil, fmt.Errorf("patched launcher does not parse: %w", err)
		}
	}
	return out, nil
}

// ReadScriptDir returns the directory a launcher points at. pinned is false
// when the launcher still computes it from its own location at run time.
func ReadScriptDir(content []byte, kind Kind) (dir string, pinned bool, err error) {
	if kind == Batch {
		return readBatchScriptDir(content)
	}

	file, err := parseShell(content)
	if err != nil {
		return "", false, err
	}
	var word *syntax.Word
	syntax.Walk(file, func(node syntax.Node) bool {
		if word != nil {
			return false
		}
		if assign, ok := node.(*syntax.Assign); ok && assign.Name != nil && assign.Name.Value == ScriptDirVar {
			word = assign.Value
			return false
		}
		return true
	})
	if word == nil {
		return "", false, ErrNoScriptDir
	}

	// Anything computed at run time ($0, ${0%/*}, $(...)) is not pinned.
	if isDynamic(word) {
		return "", false, nil
	}
	value, err := expand.Literal(nil, word)
	if err != nil {
		return "", false, nil
	}
	return value, true, nil
}

func isDynamic(word *syntax.Word) bool {
	dynamic := false
	syntax.Walk(word, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.ParamExp, *syntax.CmdSubst, *syntax.ArithmExp, *syntax.ProcSubst:
			dynamic = true
		}
		return !dynamic
	})
	return dynamic
}

func readBatchScriptDir(content []byte) (string, bool, error) {
	for _, line := range strings.Split(string(content), "\n") {
		if !isBatchAssignment(line) {
			continue
		}
		value := strings.TrimSpace(line)
		value = value[len(`set "`+ScriptDirVar+"="):]
		value = strings.TrimSuffix(value, `"`)
		if strings.Contains(value, "%~dp0") {
			return "", false, nil
		}
		return strings.ReplaceAll(value, "%%", "%"), true, nil
	}
	return "", false, ErrNoScriptDir
}

func isShellAssignment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ScriptDirVar+"=")
}

func isBatchAssignment(line string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), strings.ToLower(`set "`+ScriptDirVar+"="))
}

func parseShell(content []byte) (*syntax.File, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	return parser.Parse(bytes.NewReader(content), "franz")
}
