package framework

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Any is the zero Name. Content without a framework folder targets Any.
var Any = Name{}

var shortNameRegex = regexp.MustCompile(`^([a-z]+)([0-9][0-9.]*)?$`)

// Name identifies a target framework such as net45, net8.0 or netstandard2.0.
type Name struct {
	Identifier string
	Version    Version
}

// Version is a framework version. Components that were not specified are zero.
type Version struct {
	Major, Minor, Patch int
}

// Parse parses a framework short name. The empty string and "any" parse to Any.
//
// Undotted versions use one digit per component (net45 is 4.5, net461 is
// 4.6.1); dotted versions are read as written (net8.0, netstandard2.1).
func Parse(s string) (Name, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "any" {
		return Any, nil
	}

	m := shortNameRegex.FindStringSubmatch(s)
	if m == nil {
		return Name{}, fmt.Errorf("invalid framework name %q", s)
	}

	v, err := parseVersion(m[2])
	if err != nil {
		return Name{}, fmt.Errorf("invalid framework name %q: %w", s, err)
	}

	return Name{Identifier: m[1], Version: v}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level variables.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func parseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, nil
	}

	var parts []string
	if strings.Contains(s, ".") {
		parts = strings.Split(s, ".")
	} else {
		parts = strings.Split(s, "")
	}
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("too many version components in %q", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("version component %q: %w", p, err)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// IsAny reports whether n is the framework-less name.
func (n Name) IsAny() bool {
	return n.Identifier == ""
}

// String returns the short name. Legacy "net" versions below 5 are written
// without dots (net45), everything else with dots (net8.0).
func (n Name) String() string {
	if n.IsAny() {
		return "any"
	}
	if n.Version == (Version{}) {
		return n.Identifier
	}
	if n.Identifier == "net" && n.Version.Major < 5 {
		s := fmt.Sprintf("%d%d", n.Version.Major, n.Version.Minor)
		if n.Version.Patch > 0 {
			s += strconv.Itoa(n.Version.Patch)
		}
		return n.Identifier + s
	}
	return n.Identifier + n.Version.String()
}

func (v Version) String() string {
	if v.Patch > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to or
// after other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler so names round-trip through
// TOML and YAML as their short form.
func (n Name) MarshalText() ([]byte, error) {
	if n.IsAny() {
		return []byte{}, nil
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
