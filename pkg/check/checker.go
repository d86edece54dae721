package check

// Checker is implemented by the steps that can be run on their own
// from the command line and report a Result.
//
// Implementations:
//   - probe.Check: locates a runtime on the search path
//   - install.VerifyCheck: runs the interpreter smoke test
type Checker interface {
	Run() Result
}
