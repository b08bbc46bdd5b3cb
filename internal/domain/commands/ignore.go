package commands

import (
	"github.com/rios0rios0/depalign/internal/domain/entities"
)

// NormalizeIgnore checks the ignore rules against a report built without
// them. Ranges no longer declared by any usage of their dependency are
// extraneous; a dependency missing from the report has all of its ranges
// extraneous. The cleaned rules keep only the ranges still in use and drop
// dependencies left without any.
func NormalizeIgnore(
	report *entities.Report,
	ignore *entities.IgnoreRules,
) (*entities.IgnoreRules, *entities.IgnoreRules) {
	cleaned := entities.NewIgnoreRules()
	extraneous := entities.NewIgnoreRules()

	ignore.Each(func(name string, ranges []string) {
		item, found := report.Get(name)
		if !found {
			extraneous.Set(name, ranges)
			return
		}

		declared := make(map[string]bool, len(item.Versions))
		for _, usage := range item.Versions {
			declared[usage.Version] = true
		}

		var kept, stale []string
		for _, r := range ranges {
			if declared[r] {
				kept = append(kept, r)
			} else {
				stale = append(stale, r)
			}
		}
		if len(stale) > 0 {
			extraneous.Set(name, stale)
		}
		if len(kept) > 0 {
			cleaned.Set(name, kept)
		}
	})

	return cleaned, extraneous
}
