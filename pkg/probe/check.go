package probe

import (
	"context"
	"errors"

	"github.com/franzcode/bootstrap/pkg/check"
)

// Check adapts a Prober to check.Checker for the probe command.
type Check struct {
	Prober *Prober
}

// Run probes for a runtime and reports the outcome.
func (c *Check) Run() check.Result {
	h, err := c.Prober.Probe(context.Background())
	return Result(h, err)
}

// Result converts a probe outcome to a check.Result.
func Result(h Handle, err error) check.Result {
	result := check.Result{Name: "runtime"}
	if err != nil {
		result.Fail(err.Error(), err)
		var nf *NotFoundError
		if errors.As(err, &nf) {
			result.AddDetail(nf.Remediation())
		}
		return result
	}

	result.Name = "runtime: " + h.Name
	result.AddDetailf("path: %s", h.Path)
	if h.Version != "" {
		result.AddDetailf("version: %s", h.Version)
	}
	return result.Pass()
}
