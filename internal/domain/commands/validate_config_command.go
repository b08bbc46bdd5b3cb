package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// ValidateConfig is the interface for the ignore-config validation command.
type ValidateConfig interface {
	Execute(ctx context.Context, opts ValidateConfigOptions) (*ValidateConfigResult, error)
}

// ValidateConfigOptions holds runtime options for the config validation.
type ValidateConfigOptions struct {
	Root      string `validate:"required"`
	Config    ConfigOptions
	Types     []entities.DependencyType `validate:"min=1,dive,oneof=prod dev peer optional"`
	TypesOnly bool
	Autofix   bool
	DryRun    bool
}

// ValidateConfigResult describes the stale ignore rules found.
type ValidateConfigResult struct {
	ConfigPath string
	// Original are the ignore rules as loaded.
	Original *entities.IgnoreRules
	// Extraneous are the ignored ranges no workspace declares anymore.
	Extraneous *entities.IgnoreRules
	Cleaned    *entities.IgnoreRules
	// Status is the number of dependencies with extraneous ranges.
	Status int
}

// ValidateConfigCommand checks the ignore rules against the live workspaces
// and optionally rewrites the config without the stale ones.
type ValidateConfigCommand struct {
	workspaceRepository repositories.WorkspaceRepository
	configRepository    repositories.ConfigRepository
}

// NewValidateConfigCommand creates a new ValidateConfigCommand.
func NewValidateConfigCommand(
	workspaceRepository repositories.WorkspaceRepository,
	configRepository repositories.ConfigRepository,
) *ValidateConfigCommand {
	return &ValidateConfigCommand{
		workspaceRepository: workspaceRepository,
		configRepository:    configRepository,
	}
}

// Execute runs the validation.
func (it *ValidateConfigCommand) Execute(
	ctx context.Context,
	opts ValidateConfigOptions,
) (*ValidateConfigResult, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	config, err := loadConfig(it.configRepository, opts.Config)
	if err != nil {
		return nil, err
	}

	// the rules are checked against every misaligned dependency, ignored or not
	report, err := collectReport(ctx, it.workspaceRepository, opts.Root, ReportOptions{
		Types:     opts.Types,
		TypesOnly: opts.TypesOnly,
		Ignore:    entities.NewIgnoreRules(),
	})
	if err != nil {
		return nil, err
	}

	cleaned, extraneous := NormalizeIgnore(report, config.Ignore)
	result := &ValidateConfigResult{
		ConfigPath: opts.Config.Path,
		Original:   config.Ignore,
		Extraneous: extraneous,
		Cleaned:    cleaned,
	}

	if opts.Autofix && extraneous.Len() > 0 {
		if opts.DryRun {
			logger.Infof("[dry-run] Would remove extraneous ignore rules from %s", opts.Config.Path)
		} else {
			if err = it.configRepository.Save(opts.Config.Path, config.WithIgnore(cleaned)); err != nil {
				return nil, err
			}
			logger.Infof("Removed extraneous ignore rules from %s", opts.Config.Path)
		}
		result.Extraneous = entities.NewIgnoreRules()
	}

	result.Status = result.Extraneous.Len()
	return result, nil
}
