package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gobwas/glob"
	"github.com/natefinch/atomic"
	logger "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

const (
	pnpmWorkspaceFile = "pnpm-workspace.yaml"
	lernaFile         = "lerna.json"
	nodeModulesDir    = "node_modules"
	negationPrefix    = "!"
)

// WorkspaceRepository discovers and rewrites the package.json manifests of
// an npm, yarn or pnpm monorepo.
type WorkspaceRepository struct{}

var _ repositories.WorkspaceRepository = (*WorkspaceRepository)(nil)

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository() *WorkspaceRepository {
	return &WorkspaceRepository{}
}

// List returns the manifests of the workspaces declared by the root
// package.json (or pnpm-workspace.yaml, or lerna.json), sorted by location,
// followed by the root manifest.
func (it *WorkspaceRepository) List(ctx context.Context, root string) ([]entities.Manifest, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, &entities.DiscoveryError{Path: root, Cause: err}
	}

	rootManifest, err := readPackageJSON(root)
	if err != nil {
		return nil, err
	}

	patterns, err := workspacePatterns(root, rootManifest)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Workspace patterns: %v", patterns)

	locations, err := matchWorkspaces(ctx, root, patterns)
	if err != nil {
		return nil, err
	}
	locations = append(locations, root)

	manifests := make([]entities.Manifest, len(locations))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, location := range locations {
		group.Go(func() error {
			if ctxErr := groupCtx.Err(); ctxErr != nil {
				return ctxErr
			}
			document, readErr := readPackageJSON(location)
			if readErr != nil {
				return readErr
			}
			manifest, parseErr := document.manifest(location)
			if parseErr != nil {
				return &entities.DiscoveryError{Path: filepath.Join(location, manifestFile), Cause: parseErr}
			}
			manifests[i] = manifest
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, err
	}

	return manifests, nil
}

// Write replaces dependency ranges in one package.json. The file is
// replaced atomically through a temporary file in the same directory.
func (it *WorkspaceRepository) Write(_ context.Context, update entities.ManifestUpdate) error {
	path := filepath.Join(update.Location, manifestFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return &entities.WriteError{Path: path, Cause: err}
	}
	document, err := parsePackageJSON(data)
	if err != nil {
		return &entities.WriteError{Path: path, Cause: err}
	}

	var setErr error
	update.Replacements.Each(func(name, versionRange string) {
		for _, section := range entities.ManifestSections {
			if setErr != nil {
				return
			}
			var changed bool
			if changed, setErr = document.setDependency(section.Key, name, versionRange); changed {
				logger.Debugf("%s: %s %s -> %s", path, section.Key, name, versionRange)
			}
		}
	})
	if setErr != nil {
		return &entities.WriteError{Path: path, Cause: setErr}
	}

	if err = atomic.WriteFile(path, bytes.NewReader(document.encode())); err != nil {
		return &entities.WriteError{Path: path, Cause: err}
	}
	return nil
}

func readPackageJSON(location string) (*packageJSON, error) {
	path := filepath.Join(location, manifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &entities.DiscoveryError{Path: path, Cause: err}
	}
	document, err := parsePackageJSON(data)
	if err != nil {
		return nil, &entities.DiscoveryError{Path: path, Cause: err}
	}
	return document, nil
}

type packagesField struct {
	Packages []string `yaml:"packages"`
}

func stringValues(result gjson.Result) []string {
	var values []string
	for _, v := range result.Array() {
		if v.Type == gjson.String {
			values = append(values, v.Str)
		}
	}
	return values
}

// workspacePatterns reads the workspace globs, looking at the root
// package.json "workspaces" field first, then pnpm-workspace.yaml, then
// lerna.json.
func workspacePatterns(root string, rootManifest *packageJSON) ([]string, error) {
	if workspaces := rootManifest.get("workspaces"); workspaces.Exists() {
		switch {
		case workspaces.IsArray():
			return stringValues(workspaces), nil
		case workspaces.IsObject():
			return stringValues(workspaces.Get("packages")), nil
		default:
			return nil, &entities.DiscoveryError{
				Path:  filepath.Join(root, manifestFile),
				Cause: fmt.Errorf("unsupported workspaces field: %s", workspaces.Raw),
			}
		}
	}

	pnpmPath := filepath.Join(root, pnpmWorkspaceFile)
	if data, err := os.ReadFile(pnpmPath); err == nil {
		var config packagesField
		if err = yaml.Unmarshal(data, &config); err != nil {
			return nil, &entities.DiscoveryError{Path: pnpmPath, Cause: err}
		}
		return config.Packages, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, &entities.DiscoveryError{Path: pnpmPath, Cause: err}
	}

	lernaPath := filepath.Join(root, lernaFile)
	if data, err := os.ReadFile(lernaPath); err == nil {
		if !gjson.ValidBytes(data) {
			return nil, &entities.DiscoveryError{Path: lernaPath, Cause: errInvalidJSON}
		}
		if packages := stringValues(gjson.GetBytes(data, "packages")); len(packages) > 0 {
			return packages, nil
		}
		return []string{"packages/*"}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, &entities.DiscoveryError{Path: lernaPath, Cause: err}
	}

	return nil, nil
}

type workspaceMatcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func compilePatterns(root string, patterns []string) (*workspaceMatcher, error) {
	matcher := &workspaceMatcher{}
	for _, pattern := range patterns {
		negated := strings.HasPrefix(pattern, negationPrefix)
		cleaned := strings.TrimPrefix(pattern, negationPrefix)
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "./"), "/")

		compiled, err := glob.Compile(cleaned, '/')
		if err != nil {
			return nil, &entities.DiscoveryError{
				Path:  root,
				Cause: fmt.Errorf("invalid workspace pattern %q: %w", pattern, err),
			}
		}
		if negated {
			matcher.exclude = append(matcher.exclude, compiled)
		} else {
			matcher.include = append(matcher.include, compiled)
		}
	}
	return matcher, nil
}

func (m *workspaceMatcher) match(rel string) bool {
	for _, g := range m.exclude {
		if g.Match(rel) {
			return false
		}
	}
	for _, g := range m.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// matchWorkspaces walks root for directories holding a package.json whose
// slash-separated relative path matches the patterns. node_modules and
// hidden directories are not descended into.
func matchWorkspaces(ctx context.Context, root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	matcher, err := compilePatterns(root, patterns)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		locations []string
	)
	conf := fastwalk.Config{
		Follow: false,
	}
	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != root && (d.Name() == nodeModulesDir || strings.HasPrefix(d.Name(), ".")) {
				return fastwalk.SkipDir
			}
			return nil
		}
		if d.Name() != manifestFile {
			return nil
		}

		dir := filepath.Dir(path)
		rel, relErr := filepath.Rel(root, dir)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // the root manifest is appended by the caller
		}
		if matcher.match(filepath.ToSlash(rel)) {
			mu.Lock()
			locations = append(locations, dir)
			mu.Unlock()
		}
		return nil
	})
	if walkErr != nil {
		return nil, &entities.DiscoveryError{Path: root, Cause: walkErr}
	}

	sort.Strings(locations)
	return locations, nil
}
