package semrange

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	modsemver "golang.org/x/mod/semver"
)

// version is a concrete semantic version used as an interval bound.
// Build metadata never takes part in ordering and is not kept.
type version struct {
	major uint64
	minor uint64
	patch uint64
	pre   string
}

// floor is the lowest version in the ordering ("0.0.0-0").
var floor = version{pre: "0"} //nolint:gochecknoglobals // immutable sentinel

func (v version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	if v.pre != "" {
		s += "-" + v.pre
	}
	return s
}

// canonical returns the "v"-prefixed form golang.org/x/mod/semver expects.
func (v version) canonical() string {
	return normalizeVersion(v.String())
}

func (v version) compare(o version) int {
	return modsemver.Compare(v.canonical(), o.canonical())
}

// next returns the smallest version strictly greater than v.
func (v version) next() version {
	if v.pre != "" {
		return version{major: v.major, minor: v.minor, patch: v.patch, pre: v.pre + ".0"}
	}
	return version{major: v.major, minor: v.minor, patch: v.patch + 1}
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// Compare orders two concrete versions, returning -1, 0 or +1.
// Strings that are not valid versions sort before valid ones, the same way
// golang.org/x/mod/semver treats them.
func Compare(a, b string) int {
	return modsemver.Compare(normalizeVersion(a), normalizeVersion(b))
}

// ValidVersion reports whether s is an exact, strictly formatted semantic
// version such as "1.2.3" or "v1.2.3-beta.1" (as opposed to a range).
func ValidVersion(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	_, err := semver.StrictNewVersion(s)
	return err == nil
}
