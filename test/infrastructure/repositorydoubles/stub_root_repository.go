//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// StubRootRepository implements repositories.RootRepository with a fixed answer.
type StubRootRepository struct {
	Root         string
	ResolveErr   error
	ResolvedDirs []string
}

var _ repositories.RootRepository = (*StubRootRepository)(nil)

func (s *StubRootRepository) Resolve(dir string) (string, error) {
	s.ResolvedDirs = append(s.ResolvedDirs, dir)
	return s.Root, s.ResolveErr
}
