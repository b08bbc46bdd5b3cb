package semrange

import "sort"

// bound is one end of an interval. An upper bound may be open-ended;
// a lower bound never is, since every version is at least floor.
type bound struct {
	v         version
	inclusive bool
	unbounded bool
}

// interval is the set of versions a single comparator set admits.
type interval struct {
	lower bound
	upper bound
}

func inclusive(v version) bound { return bound{v: v, inclusive: true} }

func exclusive(v version) bound { return bound{v: v} }

func anyInterval() interval {
	return interval{lower: inclusive(floor), upper: bound{unbounded: true}}
}

func emptyInterval() interval {
	return interval{lower: inclusive(floor), upper: exclusive(floor)}
}

func between(from, to version) interval {
	return interval{lower: inclusive(from), upper: exclusive(to)}
}

func (iv interval) empty() bool {
	if iv.upper.unbounded {
		return false
	}
	c := iv.lower.v.compare(iv.upper.v)
	return c > 0 || (c == 0 && !(iv.lower.inclusive && iv.upper.inclusive))
}

func (iv interval) contains(v version) bool {
	c := iv.lower.v.compare(v)
	if c > 0 || (c == 0 && !iv.lower.inclusive) {
		return false
	}
	if iv.upper.unbounded {
		return true
	}
	c = v.compare(iv.upper.v)
	return c < 0 || (c == 0 && iv.upper.inclusive)
}

// higherLower picks the tighter of two lower bounds.
func higherLower(a, b bound) bound {
	switch c := a.v.compare(b.v); {
	case c > 0:
		return a
	case c < 0:
		return b
	default:
		return bound{v: a.v, inclusive: a.inclusive && b.inclusive}
	}
}

// lowerUpper picks the tighter of two upper bounds.
func lowerUpper(a, b bound) bound {
	switch {
	case a.unbounded:
		return b
	case b.unbounded:
		return a
	}
	switch c := a.v.compare(b.v); {
	case c < 0:
		return a
	case c > 0:
		return b
	default:
		return bound{v: a.v, inclusive: a.inclusive && b.inclusive}
	}
}

func (iv interval) intersect(o interval) interval {
	return interval{
		lower: higherLower(iv.lower, o.lower),
		upper: lowerUpper(iv.upper, o.upper),
	}
}

// covers reports whether iv contains every version of o.
func (iv interval) covers(o interval) bool {
	if higherLower(iv.lower, o.lower) != o.lower {
		return false
	}
	return lowerUpper(iv.upper, o.upper) == o.upper
}

// minVersion returns the smallest version inside the interval.
func (iv interval) minVersion() (version, bool) {
	candidate := iv.lower.v
	switch {
	case iv.lower.v == floor && iv.lower.inclusive:
		// prefer the first release over the first prerelease when possible
		if release := (version{}); iv.contains(release) {
			return release, true
		}
	case !iv.lower.inclusive:
		candidate = iv.lower.v.next()
	}
	return candidate, iv.contains(candidate)
}

// merge sorts intervals and joins those that overlap or touch, so that
// coverage checks can be made against a single interval.
func merge(ivs []interval) []interval {
	sorted := make([]interval, len(ivs))
	copy(sorted, ivs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].lower.v.compare(sorted[j].lower.v) < 0
	})

	var merged []interval
	for _, iv := range sorted {
		if n := len(merged); n > 0 && touches(merged[n-1], iv) {
			last := &merged[n-1]
			last.lower = lowerOfLowers(last.lower, iv.lower)
			last.upper = higherUpper(last.upper, iv.upper)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// touches reports whether b starts inside a or right where a ends. A gap
// made only of the prereleases of b's first release does not separate them.
func touches(a, b interval) bool {
	if a.upper.unbounded {
		return true
	}
	c := b.lower.v.compare(a.upper.v)
	if c > 0 && b.lower.v.pre == "" && sameRelease(a.upper.v, b.lower.v) {
		return true
	}
	return c < 0 || (c == 0 && (a.upper.inclusive || b.lower.inclusive))
}

func sameRelease(a, b version) bool {
	return a.major == b.major && a.minor == b.minor && a.patch == b.patch
}

func lowerOfLowers(a, b bound) bound {
	switch c := a.v.compare(b.v); {
	case c < 0:
		return a
	case c > 0:
		return b
	default:
		return bound{v: a.v, inclusive: a.inclusive || b.inclusive}
	}
}

func higherUpper(a, b bound) bound {
	switch {
	case a.unbounded:
		return a
	case b.unbounded:
		return b
	}
	switch c := a.v.compare(b.v); {
	case c > 0:
		return a
	case c < 0:
		return b
	default:
		return bound{v: a.v, inclusive: a.inclusive || b.inclusive}
	}
}
