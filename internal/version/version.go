// Package version parses and compares language version tags such as "5", "5.9"
// or "5.9.2" used by minimum-version rule gates.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

type Version struct {
	Major int
	Minor int
	Patch int
}

func New(major, minor, patch int) *Version {
	return &Version{
		Major: major,
		Minor: minor,
		Patch: patch,
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 when v is lower than, equal to or higher than other.
func (v Version) Compare(other Version) int {
	for _, d := range [...]int{v.Major - other.Major, v.Minor - other.Minor, v.Patch - other.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// AtLeast reports whether v is equal to or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

// Parse accepts one to three dot separated non-negative components; missing
// components are zero.
func Parse(version string) (*Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	parts := strings.Split(version, ".")
	if version == "" || len(parts) > 3 {
		return nil, fmt.Errorf("invalid version %q", version)
	}

	names := [...]string{"major", "minor", "patch"}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid %s version %q: %w", names[i], part, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid %s version %q: cannot be negative", names[i], part)
		}
		nums[i] = n
	}

	return New(nums[0], nums[1], nums[2]), nil
}

func MustParse(version string) *Version {
	v, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return v
}

// IsGreaterOrEqual compares two version strings.
func IsGreaterOrEqual(a, b string) (bool, error) {
	versionA, err := Parse(a)
	if err != nil {
		return false, err
	}
	versionB, err := Parse(b)
	if err != nil {
		return false, err
	}
	return versionA.AtLeast(*versionB), nil
}
