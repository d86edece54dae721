// Package version parses and compares the numeric versions that runtimes
// report from --version.
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a major.minor.patch triple. Missing components are zero.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the version as a string.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ErrEmpty is returned when parsing an empty string.
var ErrEmpty = errors.New("empty version string")

// versionRegex matches version patterns like 1.2.3, v1.2, 3, etc.
var versionRegex = regexp.MustCompile(`v?(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// Parse parses a bare version string such as "3.11" or "v3.8.1".
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, ErrEmpty
	}

	matches := versionRegex.FindStringSubmatch(s)
	if matches == nil || matches[0] != s {
		return Version{}, fmt.Errorf("invalid version format: %q", s)
	}
	return fromMatches(matches), nil
}

// ParseOptional parses s, returning nil for an empty string.
func ParseOptional(s string) (*Version, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Extract finds and parses the first version number in a string,
// e.g. "Python 3.11.4" yields 3.11.4.
func Extract(s string) (Version, error) {
	matches := versionRegex.FindStringSubmatch(s)
	if matches == nil {
		return Version{}, fmt.Errorf("no version found in: %q", s)
	}
	return fromMatches(matches), nil
}

func fromMatches(matches []string) Version {
	major, _ := strconv.Atoi(matches[1])
	var minor, patch int
	if matches[2] != "" {
		minor, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		patch, _ = strconv.Atoi(matches[3])
	}
	return Version{Major: major, Minor: minor, Patch: patch}
}
