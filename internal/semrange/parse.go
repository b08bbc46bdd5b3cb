package semrange

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RangeParseError reports a version range that does not follow the npm
// range grammar (e.g. "latest", "file:../pkg", "git+https://...").
type RangeParseError struct {
	Range  string
	Reason string
}

func (e *RangeParseError) Error() string {
	return fmt.Sprintf("invalid version range %q: %s", e.Range, e.Reason)
}

const (
	opCaret = "^"
	opTilde = "~"
	opGT    = ">"
	opGTE   = ">="
	opLT    = "<"
	opLTE   = "<="
	opEQ    = "="
)

var (
	partialPattern = regexp.MustCompile(
		`^v?(0|[1-9]\d*|[xX*])` +
			`(?:\.(0|[1-9]\d*|[xX*])` +
			`(?:\.(0|[1-9]\d*|[xX*])` +
			`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
			`(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?)?)?$`,
	)
	hyphenPattern   = regexp.MustCompile(`^(\S+)\s+-\s+(\S+)$`)
	operatorSpacing = regexp.MustCompile(`(~>?|\^|[<>]=?|=)\s+`)
)

// operatorPrefixes is ordered so that longer operators win ("~>" before "~", ">=" before ">").
var operatorPrefixes = []string{"~>", opGTE, opLTE, opTilde, opCaret, opGT, opLT, opEQ} //nolint:gochecknoglobals // lookup table

// partial is a possibly incomplete version such as "1", "1.2.x" or "1.2.3-rc.1".
// A component flagged as wild was omitted or written as x, X or *.
type partial struct {
	major, minor, patch             uint64
	wildMajor, wildMinor, wildPatch bool
	pre                             string
}

func (p partial) full() version {
	return version{major: p.major, minor: p.minor, patch: p.patch, pre: p.pre}
}

func isWild(s string) bool {
	return s == "" || s == "x" || s == "X" || s == "*"
}

func parsePartial(raw, token string) (partial, error) {
	m := partialPattern.FindStringSubmatch(token)
	if m == nil {
		return partial{}, &RangeParseError{Range: raw, Reason: fmt.Sprintf("unexpected %q", token)}
	}

	var p partial
	var err error
	components := []struct {
		text string
		num  *uint64
		wild *bool
	}{
		{m[1], &p.major, &p.wildMajor},
		{m[2], &p.minor, &p.wildMinor},
		{m[3], &p.patch, &p.wildPatch},
	}
	for i, c := range components {
		// anything after a wildcard is a wildcard too ("1.x.3" reads as "1.x")
		if isWild(c.text) || (i > 0 && *components[i-1].wild) {
			*c.wild = true
			continue
		}
		if *c.num, err = strconv.ParseUint(c.text, 10, 64); err != nil {
			return partial{}, &RangeParseError{Range: raw, Reason: err.Error()}
		}
	}
	if !p.wildPatch {
		p.pre = m[4]
	}
	return p, nil
}

// parseRange turns an npm range expression into the union of the intervals
// of its comparator sets. Unsatisfiable sets contribute nothing.
func parseRange(raw string) ([]interval, error) {
	var result []interval
	for _, set := range strings.Split(raw, "||") {
		iv, err := parseComparatorSet(raw, strings.TrimSpace(set))
		if err != nil {
			return nil, err
		}
		if !iv.empty() {
			result = append(result, iv)
		}
	}
	return result, nil
}

func parseComparatorSet(raw, set string) (interval, error) {
	if m := hyphenPattern.FindStringSubmatch(set); m != nil {
		return parseHyphen(raw, m[1], m[2])
	}

	acc := anyInterval()
	for _, token := range strings.Fields(operatorSpacing.ReplaceAllString(set, "$1")) {
		iv, err := parseComparator(raw, token)
		if err != nil {
			return interval{}, err
		}
		acc = acc.intersect(iv)
	}
	return acc, nil
}

func parseHyphen(raw, from, to string) (interval, error) {
	lo, err := parsePartial(raw, from)
	if err != nil {
		return interval{}, err
	}
	hi, err := parsePartial(raw, to)
	if err != nil {
		return interval{}, err
	}

	iv := anyInterval()
	switch {
	case lo.wildMajor:
	case lo.wildMinor:
		iv.lower = inclusive(version{major: lo.major})
	case lo.wildPatch:
		iv.lower = inclusive(version{major: lo.major, minor: lo.minor})
	default:
		iv.lower = inclusive(lo.full())
	}

	switch {
	case hi.wildMajor:
	case hi.wildMinor:
		iv.upper = exclusive(version{major: hi.major + 1, pre: "0"})
	case hi.wildPatch:
		iv.upper = exclusive(version{major: hi.major, minor: hi.minor + 1, pre: "0"})
	default:
		iv.upper = inclusive(hi.full())
	}
	return iv, nil
}

func splitOperator(token string) (string, string) {
	for _, op := range operatorPrefixes {
		if strings.HasPrefix(token, op) {
			if op == "~>" {
				return opTilde, token[len(op):]
			}
			return op, token[len(op):]
		}
	}
	return "", token
}

func parseComparator(raw, token string) (interval, error) {
	op, rest := splitOperator(token)
	if rest == "" && op != "" {
		return interval{}, &RangeParseError{Range: raw, Reason: fmt.Sprintf("operator %q without version", op)}
	}
	p, err := parsePartial(raw, rest)
	if err != nil {
		return interval{}, err
	}

	switch op {
	case opCaret:
		return caretInterval(p), nil
	case opTilde:
		return tildeInterval(p), nil
	case "", opEQ:
		return xInterval(p), nil
	default:
		return primitiveInterval(op, p), nil
	}
}

// xInterval covers bare partials: "1" is >=1.0.0 <2.0.0-0, "1.2.3" is =1.2.3.
func xInterval(p partial) interval {
	switch {
	case p.wildMajor:
		return anyInterval()
	case p.wildMinor:
		return between(version{major: p.major}, version{major: p.major + 1, pre: "0"})
	case p.wildPatch:
		return between(version{major: p.major, minor: p.minor}, version{major: p.major, minor: p.minor + 1, pre: "0"})
	default:
		v := p.full()
		return interval{lower: inclusive(v), upper: inclusive(v)}
	}
}

func tildeInterval(p partial) interval {
	if p.wildMajor || p.wildMinor || p.wildPatch {
		return xInterval(p)
	}
	return between(p.full(), version{major: p.major, minor: p.minor + 1, pre: "0"})
}

func caretInterval(p partial) interval {
	switch {
	case p.wildMajor, p.wildMinor:
		return xInterval(p)
	case p.wildPatch:
		if p.major == 0 {
			return between(version{minor: p.minor}, version{minor: p.minor + 1, pre: "0"})
		}
		return between(version{major: p.major, minor: p.minor}, version{major: p.major + 1, pre: "0"})
	case p.major == 0 && p.minor == 0:
		return between(p.full(), version{patch: p.patch + 1, pre: "0"})
	case p.major == 0:
		return between(p.full(), version{minor: p.minor + 1, pre: "0"})
	default:
		return between(p.full(), version{major: p.major + 1, pre: "0"})
	}
}

func primitiveInterval(op string, p partial) interval {
	iv := anyInterval()

	if p.wildMajor {
		if op == opGT || op == opLT {
			return emptyInterval()
		}
		return iv
	}

	if !p.wildMinor && !p.wildPatch {
		v := p.full()
		switch op {
		case opGT:
			iv.lower = exclusive(v)
		case opGTE:
			iv.lower = inclusive(v)
		case opLT:
			// "<2.0.0" leaves out the prereleases of 2.0.0 as well
			if v.pre == "" {
				v.pre = "0"
			}
			iv.upper = exclusive(v)
		case opLTE:
			iv.upper = inclusive(v)
		}
		return iv
	}

	// partial versions: the missing components are filled in the direction
	// that keeps the comparator meaningful (">1.2" means ">=1.3.0")
	base := version{major: p.major, minor: p.minor}
	bumped := version{major: p.major, minor: p.minor + 1}
	if p.wildMinor {
		base = version{major: p.major}
		bumped = version{major: p.major + 1}
	}
	switch op {
	case opGT:
		iv.lower = inclusive(bumped)
	case opGTE:
		iv.lower = inclusive(base)
	case opLT:
		base.pre = "0"
		iv.upper = exclusive(base)
	case opLTE:
		bumped.pre = "0"
		iv.upper = exclusive(bumped)
	}
	return iv
}
