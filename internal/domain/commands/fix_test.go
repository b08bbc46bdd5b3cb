//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
	infraRepos "github.com/rios0rios0/depalign/internal/infrastructure/repositories"
	"github.com/rios0rios0/depalign/test/infrastructure/repositorydoubles"
)

func item(fixes map[string]string, fixOrder []string, usages ...entities.DependencyUsage) *entities.ReportItem {
	result := &entities.ReportItem{Versions: usages, Fixes: entities.NewOrderedMap[string]()}
	for _, from := range fixOrder {
		result.Fixes.Set(from, fixes[from])
	}
	return result
}

func usage(version, from string) entities.DependencyUsage {
	return entities.DependencyUsage{Version: version, From: from, Type: entities.DependencyTypeProd}
}

func sampleReport() *entities.Report {
	report := entities.NewReport()
	report.Deduped.Set("lodash", item(
		map[string]string{"^4.17.0": "^4.17.21", "^4.17.21": "^4.17.21"}, []string{"^4.17.0", "^4.17.21"},
		usage("^4.17.0", "/repo/a"), usage("^4.17.21", "/repo/b"),
	))
	report.Deduped.Set("chalk", item(
		map[string]string{"^5.0.0": "^5.3.0", "^5.3.0": "^5.3.0"}, []string{"^5.0.0", "^5.3.0"},
		usage("^5.0.0", "/repo/b"), usage("^5.3.0", "/repo"),
	))
	report.Mismatched.Set("react", item(
		map[string]string{"^17.0.0": "^17.0.0"}, []string{"^17.0.0"},
		usage("^16.0.0", "/repo/a"), usage("^17.0.0", "/repo/b"),
	))
	return report
}

func newRegistry(lockfiles ...*repositorydoubles.SpyLockfileRepository) *infraRepos.LockfileRegistry {
	registry := infraRepos.NewLockfileRegistry()
	for _, l := range lockfiles {
		registry.Register(l)
	}
	return registry
}

func TestSelectFixes(t *testing.T) {
	t.Parallel()

	t.Run("should select deduped items and leave the report untouched", func(t *testing.T) {
		t.Parallel()

		// given
		report := sampleReport()

		// when
		selected := commands.SelectFixes(report, false, nil)

		// then
		assert.Equal(t, []string{"lodash", "chalk"}, selected.Keys())
		assert.Equal(t, []string{"lodash", "chalk"}, report.Deduped.Keys())
		assert.Equal(t, []string{"react"}, report.Mismatched.Keys())
	})

	t.Run("should include mismatched items when opted in", func(t *testing.T) {
		t.Parallel()

		// given
		report := sampleReport()

		// when
		selected := commands.SelectFixes(report, true, nil)

		// then
		assert.Equal(t, []string{"lodash", "chalk", "react"}, selected.Keys())
	})

	t.Run("should restrict the selection to the allow-list", func(t *testing.T) {
		t.Parallel()

		// given
		report := sampleReport()

		// when
		selected := commands.SelectFixes(report, true, []string{"chalk", "react"})

		// then
		assert.Equal(t, []string{"chalk", "react"}, selected.Keys())
	})
}

func TestPlanFixes(t *testing.T) {
	t.Parallel()

	t.Run("should group replacements by manifest in first-seen order", func(t *testing.T) {
		t.Parallel()

		// given
		report := sampleReport()
		selected := commands.SelectFixes(report, false, nil)

		// when
		updates := commands.PlanFixes(selected)

		// then
		require.Len(t, updates, 3)
		assert.Equal(t, "/repo/a", updates[0].Location)
		assert.Equal(t, "/repo/b", updates[1].Location)
		assert.Equal(t, "/repo", updates[2].Location)
		assert.Equal(t, []string{"lodash", "chalk"}, updates[1].Replacements.Keys())
		chalk, _ := updates[1].Replacements.Get("chalk")
		assert.Equal(t, "^5.3.0", chalk)
	})

	t.Run("should fall back to the first fix for ranges without one", func(t *testing.T) {
		t.Parallel()

		// given
		report := sampleReport()
		selected := commands.SelectFixes(report, true, []string{"react"})

		// when
		updates := commands.PlanFixes(selected)

		// then
		require.Len(t, updates, 2)
		fromA, _ := updates[0].Replacements.Get("react")
		fromB, _ := updates[1].Replacements.Get("react")
		assert.Equal(t, "^17.0.0", fromA)
		assert.Equal(t, "^17.0.0", fromB)
	})

	t.Run("should leave items without any fix untouched", func(t *testing.T) {
		t.Parallel()

		// given
		items := entities.NewReportItems()
		items.Set("utils", item(nil, nil, usage("workspace:*", "/repo/a"), usage("file:../utils", "/repo/b")))

		// when
		updates := commands.PlanFixes(items)

		// then
		assert.Empty(t, updates)
	})
}

func TestFixCommand(t *testing.T) {
	t.Parallel()

	t.Run("should write every manifest and regenerate the lockfile once", func(t *testing.T) {
		t.Parallel()

		// given
		workspaces := &repositorydoubles.StubWorkspaceRepository{}
		yarn := &repositorydoubles.SpyLockfileRepository{ManagerName: "yarn", DetectResult: true}
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(workspaces, newRegistry(yarn, npm))
		selected := commands.SelectFixes(sampleReport(), false, nil)

		// when
		fixed, err := command.Apply(context.Background(), "/repo", selected, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"lodash", "chalk"}, fixed)
		assert.Equal(t, 3, workspaces.WriteCount())
		lodash, _ := workspaces.Writes()["/repo/a"].Get("lodash")
		assert.Equal(t, "^4.17.21", lodash)
		assert.Equal(t, []string{"/repo"}, yarn.RegeneratedRoots)
		assert.Empty(t, npm.RegeneratedRoots)
	})

	t.Run("should fall back to npm when no lockfile is detected", func(t *testing.T) {
		t.Parallel()

		// given
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(&repositorydoubles.StubWorkspaceRepository{}, newRegistry(npm))

		// when
		_, err := command.Apply(context.Background(), "/repo", commands.SelectFixes(sampleReport(), false, nil), false)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"/repo"}, npm.RegeneratedRoots)
	})

	t.Run("should not touch anything in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		workspaces := &repositorydoubles.StubWorkspaceRepository{}
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(workspaces, newRegistry(npm))

		// when
		fixed, err := command.Apply(context.Background(), "/repo", commands.SelectFixes(sampleReport(), false, nil), true)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixed)
		assert.Equal(t, 0, workspaces.WriteCount())
		assert.Empty(t, npm.RegeneratedRoots)
	})

	t.Run("should do nothing without selected items", func(t *testing.T) {
		t.Parallel()

		// given
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(&repositorydoubles.StubWorkspaceRepository{}, newRegistry(npm))

		// when
		fixed, err := command.Apply(context.Background(), "/repo", entities.NewReportItems(), false)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixed)
		assert.Empty(t, npm.RegeneratedRoots)
	})

	t.Run("should not count or regenerate anything for items without fixes", func(t *testing.T) {
		t.Parallel()

		// given
		workspaces := &repositorydoubles.StubWorkspaceRepository{}
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(workspaces, newRegistry(npm))
		items := entities.NewReportItems()
		items.Set("utils", item(nil, nil,
			usage("file:../utils", "/repo/a"), usage("git+https://github.com/acme/utils.git", "/repo/b")))

		// when
		fixed, err := command.Apply(context.Background(), "/repo", items, false)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixed)
		assert.Equal(t, 0, workspaces.WriteCount())
		assert.Empty(t, npm.RegeneratedRoots)
	})

	t.Run("should count only the items that were rewritten", func(t *testing.T) {
		t.Parallel()

		// given
		workspaces := &repositorydoubles.StubWorkspaceRepository{}
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(workspaces, newRegistry(npm))
		items := commands.SelectFixes(sampleReport(), false, []string{"chalk"})
		items.Set("utils", item(nil, nil, usage("workspace:*", "/repo/a"), usage("file:../utils", "/repo/b")))

		// when
		fixed, err := command.Apply(context.Background(), "/repo", items, false)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"chalk"}, fixed)
		assert.Equal(t, []string{"/repo"}, npm.RegeneratedRoots)
	})

	t.Run("should name the registered managers when none can regenerate the lockfile", func(t *testing.T) {
		t.Parallel()

		// given
		pnpm := &repositorydoubles.SpyLockfileRepository{ManagerName: "pnpm"}
		command := commands.NewFixCommand(&repositorydoubles.StubWorkspaceRepository{}, newRegistry(pnpm))

		// when
		_, err := command.Apply(context.Background(), "/repo", commands.SelectFixes(sampleReport(), false, nil), false)

		// then
		require.ErrorIs(t, err, entities.ErrWrite)
		assert.Contains(t, err.Error(), "registered: pnpm")
		assert.Empty(t, pnpm.RegeneratedRoots)
	})

	t.Run("should abort before the lockfile step when a write fails", func(t *testing.T) {
		t.Parallel()

		// given
		writeErr := &entities.WriteError{Path: "/repo/b/package.json", Cause: errors.New("disk full")}
		workspaces := &repositorydoubles.StubWorkspaceRepository{
			WriteErrs: map[string]error{"/repo/b": writeErr},
		}
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm"}
		command := commands.NewFixCommand(workspaces, newRegistry(npm))

		// when
		_, err := command.Apply(context.Background(), "/repo", commands.SelectFixes(sampleReport(), false, nil), false)

		// then
		require.ErrorIs(t, err, entities.ErrWrite)
		assert.Empty(t, npm.RegeneratedRoots)
	})

	t.Run("should report a failed lockfile regeneration as a write error", func(t *testing.T) {
		t.Parallel()

		// given
		npm := &repositorydoubles.SpyLockfileRepository{ManagerName: "npm", RegenerateErr: errors.New("exit status 1")}
		command := commands.NewFixCommand(&repositorydoubles.StubWorkspaceRepository{}, newRegistry(npm))

		// when
		_, err := command.Apply(context.Background(), "/repo", commands.SelectFixes(sampleReport(), false, nil), false)

		// then
		var writeErr *entities.WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, "/repo", writeErr.Path)
	})
}
