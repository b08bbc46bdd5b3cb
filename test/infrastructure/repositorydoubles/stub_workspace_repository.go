//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// StubWorkspaceRepository implements repositories.WorkspaceRepository with
// canned manifests and records every write. Writes may arrive concurrently.
type StubWorkspaceRepository struct {
	// --- List ---
	Manifests []entities.Manifest
	ListErr   error
	ListRoots []string

	// --- Write ---
	WriteErr error
	// WriteErrs fails writes to specific locations.
	WriteErrs map[string]error

	mu     sync.Mutex
	writes []entities.ManifestUpdate
}

var _ repositories.WorkspaceRepository = (*StubWorkspaceRepository)(nil)

func (s *StubWorkspaceRepository) List(_ context.Context, root string) ([]entities.Manifest, error) {
	s.ListRoots = append(s.ListRoots, root)
	return s.Manifests, s.ListErr
}

func (s *StubWorkspaceRepository) Write(_ context.Context, update entities.ManifestUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.WriteErrs[update.Location]; ok {
		return err
	}
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.writes = append(s.writes, update)
	return nil
}

// Writes returns the successful writes keyed by location.
func (s *StubWorkspaceRepository) Writes() map[string]*entities.DependencyMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]*entities.DependencyMap, len(s.writes))
	for _, w := range s.writes {
		result[w.Location] = w.Replacements
	}
	return result
}

// WriteCount returns how many writes succeeded.
func (s *StubWorkspaceRepository) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writes)
}
