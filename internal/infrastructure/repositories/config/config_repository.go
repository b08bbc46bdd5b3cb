package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

const (
	// DefaultConfigFile is the config looked up when no path is given.
	DefaultConfigFile = ".depalignrc.json"

	configFileMode = 0o644
	jsonIndent     = "  "
)

// FindConfigFile returns the first depalign config present in dir, or the
// default JSON path when there is none.
func FindConfigFile(dir string) string {
	patterns := []string{
		DefaultConfigFile,
		".depalignrc.yaml",
		".depalignrc.yml",
		".depalignrc",
	}

	for _, pat := range patterns {
		p := filepath.Join(dir, pat)
		if _, statErr := os.Stat(p); statErr == nil {
			return p
		}
	}

	return filepath.Join(dir, DefaultConfigFile)
}

// ConfigRepository reads and writes depalign configs in JSON or YAML.
type ConfigRepository struct{}

var _ repositories.ConfigRepository = (*ConfigRepository)(nil)

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// Load reads the config at path. JSON is read through the YAML decoder.
func (it *ConfigRepository) Load(path string, explicit bool) (*entities.DepalignConfig, error) {
	config := entities.NewDepalignConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return config, nil
		}
		return nil, &entities.ConfigParseError{Path: path, Cause: err}
	}

	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, &entities.ConfigParseError{Path: path, Cause: err}
	}
	return config, nil
}

// Save writes the config to path, as YAML for .yaml/.yml files and as
// two-space indented JSON otherwise. The file is replaced atomically.
func (it *ConfigRepository) Save(path string, config *entities.DepalignConfig) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = marshalJSON(config)
	}
	if err != nil {
		return &entities.WriteError{Path: path, Cause: err}
	}

	_, statErr := os.Stat(path)
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return &entities.WriteError{Path: path, Cause: err}
	}
	// an existing file keeps its mode, a new one gets the default
	if errors.Is(statErr, fs.ErrNotExist) {
		if err = os.Chmod(path, configFileMode); err != nil {
			return &entities.WriteError{Path: path, Cause: err}
		}
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func marshalJSON(config *entities.DepalignConfig) ([]byte, error) {
	compact, err := config.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err = json.Indent(&out, compact, "", jsonIndent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
