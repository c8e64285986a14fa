package catalog

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions orders version identifiers. Identifiers that parse as
// semantic versions (leniently, so "v1" and "1.2" qualify) compare by
// precedence and sort before those that do not, which compare as strings.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortVersions sorts version identifiers in ascending order in place.
func SortVersions(versions []string) {
	slices.SortFunc(versions, CompareVersions)
}
