package install

import (
	"encoding"
	"fmt"
)

// Target is one of the mutually exclusive install destinations.
type Target int

const (
	// SystemWide writes straight into the system bin directory.
	SystemWide Target = iota + 1
	// ElevatedSystemWide writes into the same directory through
	// non-interactive elevation.
	ElevatedSystemWide
	// UserLocal writes into the per-user bin directory.
	UserLocal
)

var _ encoding.TextMarshaler = Target(0)

func (t Target) String() string {
	switch t {
	case SystemWide:
		return "system-wide"
	case ElevatedSystemWide:
		return "system-wide (elevated)"
	case UserLocal:
		return "user-local"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// MarshalText renders the target for JSON and TOML plans.
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Environment is what the installer observed about the machine. It is
// captured once per run and never re-evaluated.
type Environment struct {
	SystemWritable     bool
	ElevationAvailable bool
	SearchPath         string // PATH at the time of inspection
}

// SelectTarget picks the install target. It is a pure function of the
// observed permissions, so the same environment always yields the same
// target.
func SelectTarget(systemWritable, elevationAvailable bool) Target {
	switch {
	case systemWritable:
		return SystemWide
	case elevationAvailable:
		return ElevatedSystemWide
	default:
		return UserLocal
	}
}
