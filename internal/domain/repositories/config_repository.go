package repositories

import (
	"github.com/rios0rios0/depalign/internal/domain/entities"
)

// ConfigRepository loads and persists the depalign config file.
type ConfigRepository interface {
	// Load reads the config at path. A missing file yields an empty config
	// unless explicit is set, in which case it is a ConfigParseError.
	Load(path string, explicit bool) (*entities.DepalignConfig, error)

	// Save writes the config back to path in the format implied by its extension.
	Save(path string, config *entities.DepalignConfig) error
}
