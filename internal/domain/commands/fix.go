package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/depalign/internal/infrastructure/repositories"
)

var errNoLockfileManager = errors.New("no package manager registered to regenerate the lockfile") //nolint:gochecknoglobals // sentinel

// SelectFixes picks the report items an autofix run applies: every deduped
// item and, when includeMismatched is set, every mismatched one. A non-empty
// only list restricts the selection to those dependency names. The report
// itself is left as is; see FixCommand.Apply for what was actually fixed.
func SelectFixes(report *entities.Report, includeMismatched bool, only []string) *entities.ReportItems {
	allowed := make(map[string]bool, len(only))
	for _, name := range only {
		allowed[name] = true
	}

	selected := entities.NewReportItems()
	pick := func(name string, item *entities.ReportItem) {
		if len(allowed) > 0 && !allowed[name] {
			return
		}
		selected.Set(name, item)
	}
	report.Deduped.Each(pick)
	if includeMismatched {
		report.Mismatched.Each(pick)
	}
	return selected
}

// PlanFixes resolves the replacement range of every usage and groups the
// replacements per manifest, in the order manifests were first seen. A usage
// whose range has no fix takes the first fix of its item; items without any
// fix are left alone.
func PlanFixes(items *entities.ReportItems) []entities.ManifestUpdate {
	var updates []entities.ManifestUpdate
	index := make(map[string]int)

	items.Each(func(name string, item *entities.ReportItem) {
		for _, usage := range item.Versions {
			replacement, ok := item.Fixes.Get(usage.Version)
			if !ok {
				if _, replacement, ok = item.Fixes.First(); !ok {
					continue
				}
			}

			i, seen := index[usage.From]
			if !seen {
				i = len(updates)
				index[usage.From] = i
				updates = append(updates, entities.ManifestUpdate{
					Location:     usage.From,
					Replacements: entities.NewOrderedMap[string](),
				})
			}
			updates[i].Replacements.Set(name, replacement)
		}
	})

	return updates
}

// FixCommand rewrites manifests with the planned replacements and refreshes
// the lockfile afterwards.
type FixCommand struct {
	workspaceRepository repositories.WorkspaceRepository
	lockfileRegistry    *infraRepos.LockfileRegistry
}

// NewFixCommand creates a new FixCommand.
func NewFixCommand(
	workspaceRepository repositories.WorkspaceRepository,
	lockfileRegistry *infraRepos.LockfileRegistry,
) *FixCommand {
	return &FixCommand{
		workspaceRepository: workspaceRepository,
		lockfileRegistry:    lockfileRegistry,
	}
}

// Apply writes the fixes of the given items and returns the names of the
// dependencies that were rewritten. Items without any replacement are not
// counted. Manifests are written concurrently; the lockfile is regenerated
// once, after every write succeeded. A dry run only logs and returns nothing.
func (it *FixCommand) Apply(
	ctx context.Context,
	root string,
	items *entities.ReportItems,
	dryRun bool,
) ([]string, error) {
	updates := PlanFixes(items)
	fixed := plannedNames(items, updates)
	if len(updates) == 0 {
		logger.Debugf("Nothing to autofix")
		return nil, nil
	}

	logger.Infof(
		"Applying autofixes for %s in %s",
		english.Plural(len(fixed), "dependency", "dependencies"),
		english.Plural(len(updates), "manifest", ""),
	)

	if dryRun {
		for _, update := range updates {
			update.Replacements.Each(func(name, replacement string) {
				logger.Infof("[dry-run] %s: %s -> %s", update.Location, name, replacement)
			})
		}
		return nil, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, update := range updates {
		group.Go(func() error {
			logger.Debugf("Updating %s", update.Location)
			return it.workspaceRepository.Write(groupCtx, update)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	lockfile := it.lockfileRegistry.Detect(root)
	if lockfile == nil {
		return nil, &entities.WriteError{
			Path:  root,
			Cause: fmt.Errorf("%w (registered: %s)", errNoLockfileManager, strings.Join(it.lockfileRegistry.Names(), ", ")),
		}
	}
	logger.Infof("Regenerating the %s lockfile", lockfile.Name())
	if err := lockfile.Regenerate(ctx, root); err != nil {
		return nil, &entities.WriteError{Path: root, Cause: fmt.Errorf("%s lockfile: %w", lockfile.Name(), err)}
	}

	return fixed, nil
}

// plannedNames lists, in item order, the dependencies at least one update rewrites.
func plannedNames(items *entities.ReportItems, updates []entities.ManifestUpdate) []string {
	var names []string
	for _, name := range items.Keys() {
		for _, update := range updates {
			if update.Replacements.Has(name) {
				names = append(names, name)
				break
			}
		}
	}
	return names
}
