//go:build unit

package commands_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/test/domain/entitybuilders"
)

func defaultReportOptions() commands.ReportOptions {
	return commands.ReportOptions{
		Types:  entities.DefaultDependencyTypes(),
		Ignore: entities.NewIgnoreRules(),
	}
}

func fixesOf(t *testing.T, items *entities.ReportItems, name string) map[string]string {
	t.Helper()

	item, ok := items.Get(name)
	require.True(t, ok, "%s should be reported", name)
	result := make(map[string]string)
	item.Fixes.Each(func(from, to string) { result[from] = to })
	return result
}

func TestCollectDependencies(t *testing.T) {
	t.Parallel()

	t.Run("should visit manifests and sections in declaration order", func(t *testing.T) {
		t.Parallel()

		// given
		manifests := []entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").
				WithDevDependency("jest", "^29.0.0").
				WithDependency("lodash", "^4.17.0").
				BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").
				WithDependency("lodash", "^4.17.21").
				BuildManifest(),
		}

		// when
		dependencies := commands.CollectDependencies(manifests)

		// then
		assert.Equal(t, []string{"lodash", "jest"}, dependencies.Keys())
		lodash, _ := dependencies.Get("lodash")
		assert.Equal(t, []entities.DependencyUsage{
			{Version: "^4.17.0", From: "/repo/a", Type: entities.DependencyTypeProd},
			{Version: "^4.17.21", From: "/repo/b", Type: entities.DependencyTypeProd},
		}, lodash)
	})

	t.Run("should skip wildcard peer and optional dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		manifests := []entities.Manifest{
			entitybuilders.NewManifestBuilder().
				WithPeerDependency("react", "*").
				WithOptionalDependency("fsevents", "*").
				WithDependency("left-pad", "*").
				BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").
				WithPeerDependency("react", "x").
				WithPeerDependency("react-dom", "X").
				WithOptionalDependency("fsevents", "").
				BuildManifest(),
		}

		// when
		dependencies := commands.CollectDependencies(manifests)

		// then
		assert.Equal(t, []string{"left-pad"}, dependencies.Keys())
	})

	t.Run("should classify a range declared in several sections by priority", func(t *testing.T) {
		t.Parallel()

		// given
		manifests := []entities.Manifest{
			entitybuilders.NewManifestBuilder().
				WithDependency("react", "^18.0.0").
				WithPeerDependency("react", "^18.0.0").
				WithDevDependency("typescript", "^5.0.0").
				BuildManifest(),
		}

		// when
		dependencies := commands.CollectDependencies(manifests)

		// then
		react, _ := dependencies.Get("react")
		require.Len(t, react, 2)
		assert.Equal(t, entities.DependencyTypePeer, react[0].Type)
		assert.Equal(t, entities.DependencyTypePeer, react[1].Type)
		typescript, _ := dependencies.Get("typescript")
		assert.Equal(t, entities.DependencyTypeDev, typescript[0].Type)
	})
}

func TestGenerateReport(t *testing.T) {
	t.Parallel()

	t.Run("should dedupe compatible ranges and align them to the highest", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("lodash", "^4.17.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDependency("lodash", "^4.17.21").BuildManifest(),
		})

		// when
		report := commands.GenerateReport(dependencies, defaultReportOptions())

		// then
		assert.Equal(t, 0, report.Mismatched.Len())
		assert.Equal(t, map[string]string{
			"^4.17.0":  "^4.17.21",
			"^4.17.21": "^4.17.21",
		}, fixesOf(t, report.Deduped, "lodash"))
	})

	t.Run("should report incompatible majors as mismatched", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("react", "^16.0.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDependency("react", "^17.0.0").BuildManifest(),
		})

		// when
		report := commands.GenerateReport(dependencies, defaultReportOptions())

		// then
		assert.Equal(t, 0, report.Deduped.Len())
		assert.Equal(t, map[string]string{"^17.0.0": "^17.0.0"}, fixesOf(t, report.Mismatched, "react"))
		item, _ := report.Mismatched.Get("react")
		assert.Len(t, item.Versions, 2)
	})

	t.Run("should never report a dependency declared with a single range", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("lodash", "^4.17.21").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDevDependency("lodash", "^4.17.21").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo").WithDependency("chalk", "^5.0.0").BuildManifest(),
		})

		// when
		report := commands.GenerateReport(dependencies, defaultReportOptions())

		// then
		assert.True(t, report.Empty())
	})

	t.Run("should classify and fix the same regardless of workspace order", func(t *testing.T) {
		t.Parallel()

		// given
		manifests := []entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").
				WithDependency("lodash", "^4.17.0").WithDependency("react", "^16.8.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").
				WithDependency("lodash", "~4.17.21").WithDependency("react", "^17.0.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/c").
				WithDependency("lodash", "4.17.15").BuildManifest(),
		}
		reversed := slices.Clone(manifests)
		slices.Reverse(reversed)

		// when
		forward := commands.GenerateReport(commands.CollectDependencies(manifests), defaultReportOptions())
		backward := commands.GenerateReport(commands.CollectDependencies(reversed), defaultReportOptions())

		// then
		assert.ElementsMatch(t, forward.Deduped.Keys(), backward.Deduped.Keys())
		assert.ElementsMatch(t, forward.Mismatched.Keys(), backward.Mismatched.Keys())
		assert.Equal(t, fixesOf(t, forward.Mismatched, "lodash"), fixesOf(t, backward.Mismatched, "lodash"))
		assert.Equal(t, fixesOf(t, forward.Mismatched, "react"), fixesOf(t, backward.Mismatched, "react"))
	})

	t.Run("should only record fixes the highest range is a subset of", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("lodash", "^4.17.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDependency("lodash", "~4.17.21").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/c").WithDependency("lodash", "4.17.15").BuildManifest(),
		})

		// when
		report := commands.GenerateReport(dependencies, defaultReportOptions())

		// then
		assert.Equal(t, map[string]string{
			"^4.17.0":  "~4.17.21",
			"~4.17.21": "~4.17.21",
		}, fixesOf(t, report.Mismatched, "lodash"))
	})

	t.Run("should treat an unparseable range as mismatched without a fix", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("utils", "workspace:*").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDependency("utils", "^1.0.0").BuildManifest(),
		})

		// when
		report := commands.GenerateReport(dependencies, defaultReportOptions())

		// then
		assert.Equal(t, map[string]string{"^1.0.0": "^1.0.0"}, fixesOf(t, report.Mismatched, "utils"))
	})

	t.Run("should align the wildcard to the only concrete range", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("debug", "*").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDependency("debug", "^4.3.0").BuildManifest(),
		})

		// when
		report := commands.GenerateReport(dependencies, defaultReportOptions())

		// then
		assert.Equal(t, map[string]string{
			"*":      "^4.3.0",
			"^4.3.0": "^4.3.0",
		}, fixesOf(t, report.Deduped, "debug"))
	})

	t.Run("should leave out ignored ranges", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDependency("react", "^16.0.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithDependency("react", "^17.0.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/c").WithDependency("react", "^17.0.2").BuildManifest(),
		})
		opts := defaultReportOptions()
		opts.Ignore.Set("react", []string{"^16.0.0"})

		// when
		report := commands.GenerateReport(dependencies, opts)

		// then
		assert.Equal(t, 0, report.Mismatched.Len())
		item, ok := report.Deduped.Get("react")
		require.True(t, ok)
		assert.Len(t, item.Versions, 2)
	})

	t.Run("should require one wanted type by default and all of them with types-only", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithDevDependency("react", "^18.0.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithPeerDependency("react", "^18.2.0").BuildManifest(),
		})
		allOpts := defaultReportOptions()
		allOpts.TypesOnly = true

		// when
		anyReport := commands.GenerateReport(dependencies, defaultReportOptions())
		allReport := commands.GenerateReport(dependencies, allOpts)

		// then
		assert.True(t, anyReport.Deduped.Has("react"))
		assert.True(t, allReport.Empty())
	})

	t.Run("should skip dependencies with none of the wanted types", func(t *testing.T) {
		t.Parallel()

		// given
		dependencies := commands.CollectDependencies([]entities.Manifest{
			entitybuilders.NewManifestBuilder().WithLocation("/repo/a").WithPeerDependency("react", "^17.0.0").BuildManifest(),
			entitybuilders.NewManifestBuilder().WithLocation("/repo/b").WithPeerDependency("react", "^18.0.0").BuildManifest(),
		})
		peerOpts := defaultReportOptions()
		peerOpts.Types = []entities.DependencyType{entities.DependencyTypePeer}

		// when
		defaultReport := commands.GenerateReport(dependencies, defaultReportOptions())
		peerReport := commands.GenerateReport(dependencies, peerOpts)

		// then
		assert.True(t, defaultReport.Empty())
		assert.True(t, peerReport.Mismatched.Has("react"))
	})
}

func TestHighestRange(t *testing.T) {
	t.Parallel()

	t.Run("should pick the range with the greatest minimum version", func(t *testing.T) {
		t.Parallel()

		// when
		highest, ok := commands.HighestRange([]string{"^1.2.0", "~1.5.0", "1.3.0"})

		// then
		require.True(t, ok)
		assert.Equal(t, "~1.5.0", highest)
	})

	t.Run("should prefer a range over an exact version with the same minimum", func(t *testing.T) {
		t.Parallel()

		// when
		highest, ok := commands.HighestRange([]string{"1.2.3", "^1.2.3"})

		// then
		require.True(t, ok)
		assert.Equal(t, "^1.2.3", highest)
	})

	t.Run("should keep input order between equivalent candidates", func(t *testing.T) {
		t.Parallel()

		// when
		highest, ok := commands.HighestRange([]string{"~1.2.0", "^1.2.0"})

		// then
		require.True(t, ok)
		assert.Equal(t, "~1.2.0", highest)
	})

	t.Run("should find nothing among wildcard and invalid ranges", func(t *testing.T) {
		t.Parallel()

		// when
		_, ok := commands.HighestRange([]string{"*", "latest", "file:../utils"})

		// then
		assert.False(t, ok)
	})

	t.Run("should never pick the x or empty wildcards", func(t *testing.T) {
		t.Parallel()

		// when
		_, xFound := commands.HighestRange([]string{"x", "latest"})
		_, emptyFound := commands.HighestRange([]string{"", "file:../a"})
		_, upperFound := commands.HighestRange([]string{"X", "workspace:*"})
		highest, ok := commands.HighestRange([]string{"x", "^2.0.0", ""})

		// then
		assert.False(t, xFound)
		assert.False(t, emptyFound)
		assert.False(t, upperFound)
		assert.True(t, ok)
		assert.Equal(t, "^2.0.0", highest)
	})
}

func TestAllIntersect(t *testing.T) {
	t.Parallel()

	t.Run("should require every pair to intersect", func(t *testing.T) {
		t.Parallel()

		// given, when, then
		assert.True(t, commands.AllIntersect([]string{"^1.2.0", "^1.3.0", "~1.4.1"}))
		assert.False(t, commands.AllIntersect([]string{"^1.2.0", ">=1.0.0", "^2.0.0"}))
		assert.False(t, commands.AllIntersect([]string{"^1.2.0", "github:user/repo"}))
	})
}
