// Package semrange implements the subset of npm semantic-versioning range
// semantics needed to compare declared dependency ranges: validity,
// intersection, subset and minimum satisfying version.
//
// Every function is pure and works on the range text directly. Versions,
// prereleases included, form a single total order; npm's rule that a
// prerelease only satisfies comparators on the same [major, minor, patch]
// tuple is approximated: "<X.Y.Z" stops before the prereleases of X.Y.Z and
// unions are not split by prerelease-only gaps.
package semrange

import (
	"errors"
	"strings"
)

// ErrUnsatisfiable is returned by MinVersion for ranges no version satisfies.
var ErrUnsatisfiable = errors.New("no version satisfies the range")

func parse(r string) ([]interval, error) {
	return parseRange(strings.TrimSpace(r))
}

// ValidRange reports whether r parses as an npm version range.
func ValidRange(r string) bool {
	_, err := parse(r)
	return err == nil
}

// IsWildcard reports whether r admits any version ("*", "x", or empty).
func IsWildcard(r string) bool {
	return isWild(strings.TrimSpace(r))
}

// MinVersion returns the lowest version that satisfies r.
func MinVersion(r string) (string, error) {
	ivs, err := parse(r)
	if err != nil {
		return "", err
	}

	var best *version
	for _, iv := range ivs {
		v, ok := iv.minVersion()
		if !ok {
			continue
		}
		if best == nil || v.compare(*best) < 0 {
			best = &v
		}
	}
	if best == nil {
		return "", ErrUnsatisfiable
	}
	return best.String(), nil
}

// Satisfies reports whether the concrete version v is admitted by r.
func Satisfies(v, r string) (bool, error) {
	ivs, err := parse(r)
	if err != nil {
		return false, err
	}
	p, err := parsePartial(v, strings.TrimPrefix(strings.TrimSpace(v), "="))
	if err != nil {
		return false, err
	}
	if p.wildMajor || p.wildMinor || p.wildPatch {
		return false, &RangeParseError{Range: v, Reason: "not a concrete version"}
	}
	for _, iv := range ivs {
		if iv.contains(p.full()) {
			return true, nil
		}
	}
	return false, nil
}

// Intersects reports whether at least one version satisfies both a and b.
func Intersects(a, b string) (bool, error) {
	left, err := parse(a)
	if err != nil {
		return false, err
	}
	right, err := parse(b)
	if err != nil {
		return false, err
	}
	for _, l := range left {
		for _, r := range right {
			if !l.intersect(r).empty() {
				return true, nil
			}
		}
	}
	return false, nil
}

// Subset reports whether every version satisfying sub also satisfies dom.
func Subset(sub, dom string) (bool, error) {
	inner, err := parse(sub)
	if err != nil {
		return false, err
	}
	outer, err := parse(dom)
	if err != nil {
		return false, err
	}

	merged := merge(outer)
	for _, iv := range inner {
		covered := false
		for _, candidate := range merged {
			if candidate.covers(iv) {
				covered = true
				break
			}
		}
		if !covered {
			return false, nil
		}
	}
	return true, nil
}
