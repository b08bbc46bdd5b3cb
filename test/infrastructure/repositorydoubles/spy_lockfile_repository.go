//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// SpyLockfileRepository implements repositories.LockfileRepository as a configurable spy.
type SpyLockfileRepository struct {
	// --- identity ---
	ManagerName string

	// --- Detect ---
	DetectResult bool

	// --- Regenerate ---
	RegenerateErr    error
	RegeneratedRoots []string
}

var _ repositories.LockfileRepository = (*SpyLockfileRepository)(nil)

func (s *SpyLockfileRepository) Name() string { return s.ManagerName }

func (s *SpyLockfileRepository) Detect(_ string) bool { return s.DetectResult }

func (s *SpyLockfileRepository) Regenerate(_ context.Context, root string) error {
	s.RegeneratedRoots = append(s.RegeneratedRoots, root)
	return s.RegenerateErr
}
