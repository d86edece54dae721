package testutil

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	fexec "github.com/franzcode/bootstrap/pkg/exec"
)

// Call records one invocation made through MockRunner.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockRunner is a test double for exec.Runner. Nil funcs fall back to
// "not found" for LookPath and success for Output and Run.
type MockRunner struct {
	LookPathFunc func(file string) (string, error)
	OutputFunc   func(name string, args ...string) (string, string, error)
	RunFunc      func(stdio fexec.Stdio, name string, args ...string) (int, error)

	mu    sync.Mutex
	Calls []Call
}

// LookPath calls the mock function.
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc == nil {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return m.LookPathFunc(file)
}

// Output records the call and calls the mock function.
func (m *MockRunner) Output(_ context.Context, name string, args ...string) (string, string, error) {
	m.record(name, args)
	if m.OutputFunc == nil {
		return "", "", nil
	}
	return m.OutputFunc(name, args...)
}

// Run records the call and calls the mock function.
func (m *MockRunner) Run(_ context.Context, stdio fexec.Stdio, name string, args ...string) (int, error) {
	m.record(name, args)
	if m.RunFunc == nil {
		return 0, nil
	}
	return m.RunFunc(stdio, name, args...)
}

// CallLines returns every recorded call rendered as a command line.
func (m *MockRunner) CallLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		lines[i] = c.String()
	}
	return lines
}

func (m *MockRunner) record(name string, args []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Name: name, Args: append([]string(nil), args...)})
}

// LookPathIn returns a LookPathFunc that finds only the given names.
func LookPathIn(found map[string]string) func(string) (string, error) {
	return func(file string) (string, error) {
		if p, ok := found[file]; ok {
			return p, nil
		}
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
}

// Ptr returns a pointer to the value (useful for optional fields in tests).
func Ptr[T any](v T) *T {
	return &v
}

// ContainsDetail checks if any detail string contains the given substring.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
