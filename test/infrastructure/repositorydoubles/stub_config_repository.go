//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// StubConfigRepository implements repositories.ConfigRepository with a canned config.
type StubConfigRepository struct {
	// --- Load ---
	Config        *entities.DepalignConfig
	LoadErr       error
	LoadedPaths   []string
	LoadExplicits []bool

	// --- Save ---
	SaveErr     error
	SavedPath   string
	SavedConfig *entities.DepalignConfig
	SaveCalls   int
}

var _ repositories.ConfigRepository = (*StubConfigRepository)(nil)

func (s *StubConfigRepository) Load(path string, explicit bool) (*entities.DepalignConfig, error) {
	s.LoadedPaths = append(s.LoadedPaths, path)
	s.LoadExplicits = append(s.LoadExplicits, explicit)
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Config == nil {
		return entities.NewDepalignConfig(), nil
	}
	return s.Config, nil
}

func (s *StubConfigRepository) Save(path string, config *entities.DepalignConfig) error {
	s.SaveCalls++
	s.SavedPath = path
	s.SavedConfig = config
	return s.SaveErr
}
