package check

// Status represents the outcome of a step.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result holds the outcome of a single probe, install or verify step.
type Result struct {
	Name    string   // e.g., "runtime", "copy: /usr/local/bin/franz"
	Status  Status   // OK, WARN or FAIL
	Details []string // human-readable details
	Err     error    // underlying error for failures and warnings
}

// OK returns true if the step did not fail. Warnings count as OK.
func (r Result) OK() bool {
	return r.Status == StatusOK || r.Status == StatusWarn
}
