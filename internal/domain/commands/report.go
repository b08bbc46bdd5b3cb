package commands

import (
	"sort"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/semrange"
)

// ReportOptions controls which dependencies end up in a report.
type ReportOptions struct {
	// Types lists the dependency types the report is about.
	Types []entities.DependencyType
	// TypesOnly requires every usage to have one of Types instead of at least one.
	TypesOnly bool
	// Ignore lists, per dependency, the ranges left out of the comparison.
	Ignore *entities.IgnoreRules
}

// GenerateReport compares the declared ranges of every dependency and sorts
// the misaligned ones into deduped and mismatched items.
func GenerateReport(dependencies *entities.Dependencies, opts ReportOptions) *entities.Report {
	report := entities.NewReport()

	dependencies.Each(func(name string, usages []entities.DependencyUsage) {
		ignored, _ := opts.Ignore.Get(name)
		remaining := withoutIgnored(usages, ignored)

		ranges := distinctRanges(remaining)
		if len(ranges) <= 1 {
			return
		}
		if !matchesTypes(remaining, opts.Types, opts.TypesOnly) {
			return
		}

		item := &entities.ReportItem{
			Versions: remaining,
			Fixes:    calculateReplacements(ranges),
		}
		if allIntersect(ranges) {
			report.Deduped.Set(name, item)
		} else {
			report.Mismatched.Set(name, item)
		}
	})

	return report
}

func withoutIgnored(usages []entities.DependencyUsage, ignored []string) []entities.DependencyUsage {
	skip := make(map[string]bool, len(ignored))
	for _, r := range ignored {
		skip[r] = true
	}

	result := make([]entities.DependencyUsage, 0, len(usages))
	for _, usage := range usages {
		if !skip[usage.Version] {
			result = append(result, usage)
		}
	}
	return result
}

func distinctRanges(usages []entities.DependencyUsage) []string {
	seen := make(map[string]bool, len(usages))
	var ranges []string
	for _, usage := range usages {
		if !seen[usage.Version] {
			seen[usage.Version] = true
			ranges = append(ranges, usage.Version)
		}
	}
	return ranges
}

// matchesTypes applies the type filter. Unclassified usages match no type.
func matchesTypes(usages []entities.DependencyUsage, types []entities.DependencyType, all bool) bool {
	wanted := make(map[entities.DependencyType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	for _, usage := range usages {
		matched := usage.Type != entities.DependencyTypeNone && wanted[usage.Type]
		if all && !matched {
			return false
		}
		if !all && matched {
			return true
		}
	}
	return all
}

// calculateReplacements maps every range the highest range is a subset of to
// the highest range, itself included.
func calculateReplacements(ranges []string) *entities.Fixes {
	fixes := entities.NewOrderedMap[string]()

	highest, ok := highestRange(ranges)
	if !ok {
		return fixes
	}
	for _, r := range ranges {
		// a range that does not parse gets no replacement
		if subset, err := semrange.Subset(highest, r); err == nil && subset {
			fixes.Set(r, highest)
		}
	}
	return fixes
}

type rangeCandidate struct {
	text       string
	minVersion string
	exact      bool
}

// highestRange returns the range with the greatest minimum version. Invalid,
// wildcard and unsatisfiable ranges never win. On equal minimum versions a
// range is preferred over an exact version, otherwise input order is kept.
func highestRange(ranges []string) (string, bool) {
	var candidates []rangeCandidate
	for _, r := range ranges {
		if semrange.IsWildcard(r) || !semrange.ValidRange(r) {
			continue
		}
		minVersion, err := semrange.MinVersion(r)
		if err != nil {
			continue
		}
		candidates = append(candidates, rangeCandidate{
			text:       r,
			minVersion: minVersion,
			exact:      semrange.ValidVersion(r),
		})
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if c := semrange.Compare(candidates[i].minVersion, candidates[j].minVersion); c != 0 {
			return c > 0
		}
		return !candidates[i].exact && candidates[j].exact
	})
	return candidates[0].text, true
}

// allIntersect reports whether every pair of ranges shares a version. A pair
// that cannot be compared counts as disjoint.
func allIntersect(ranges []string) bool {
	for i := range ranges {
		for _, other := range ranges[i+1:] {
			ok, err := semrange.Intersects(ranges[i], other)
			if err != nil || !ok {
				return false
			}
		}
	}
	return true
}
