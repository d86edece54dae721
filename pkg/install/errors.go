package install

import (
	"errors"
	"fmt"
)

// Kind classifies installation errors.
type Kind int

const (
	KindUnknown Kind = iota
	// KindRuntimeNotFound: no runtime on PATH. Fatal, reported before any write.
	KindRuntimeNotFound
	// KindEntryPointNotFound: the source dir has no interpreter entry point.
	KindEntryPointNotFound
	// KindWriteFailure: copying or creating the launcher failed. Fatal, no fallback.
	KindWriteFailure
	// KindPatchFailure: the copied launcher could not be pointed at the
	// source dir. Not fatal.
	KindPatchFailure
	// KindVerificationFailure: the smoke test failed after installing.
	KindVerificationFailure
	// KindLauncherSource: the launcher to install could not be read or rendered.
	KindLauncherSource
)

func (k Kind) String() string {
	switch k {
	case KindRuntimeNotFound:
		return "runtime not found"
	case KindEntryPointNotFound:
		return "entry point not found"
	case KindWriteFailure:
		return "write failure"
	case KindPatchFailure:
		return "patch failure"
	case KindVerificationFailure:
		return "verification failure"
	case KindLauncherSource:
		return "launcher source unavailable"
	default:
		return "install error"
	}
}

// Error is returned by every installation step.
type Error struct {
	Kind Kind
	Op   string // e.g. "copy launcher"
	Path string // file or directory involved, if any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Reasons attached to verification failures.
var (
	// ErrRuntimeMissing means the runtime could not be started at all.
	ErrRuntimeMissing = errors.New("runtime missing")
	// ErrInterpreterFailed means the runtime ran but the interpreter exited non-zero.
	ErrInterpreterFailed = errors.New("interpreter failed")
)

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func writeFailure(op, path string, err error) *Error {
	return newError(KindWriteFailure, op, path, err)
}

func patchFailure(path string, err error) *Error {
	return newError(KindPatchFailure, "rewrite script dir in", path, err)
}

func verificationFailure(reason error, format string, args ...any) *Error {
	return newError(KindVerificationFailure, "smoke test", "", fmt.Errorf("%w: "+format, append([]any{reason}, args...)...))
}
