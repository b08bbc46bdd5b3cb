package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/go-playground/validator/v10"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// ConfigOptions tells where the depalign config lives.
type ConfigOptions struct {
	Path string
	// Explicit is set when the user named the path, making a missing file an error.
	Explicit bool
	// Disabled skips the config file entirely.
	Disabled bool
}

func validateOptions(opts any) error {
	validate := validator.New()
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func loadConfig(configRepository repositories.ConfigRepository, opts ConfigOptions) (*entities.DepalignConfig, error) {
	if opts.Disabled {
		return entities.NewDepalignConfig(), nil
	}
	config, err := configRepository.Load(opts.Path, opts.Explicit)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Loaded %s from %s", english.Plural(config.Ignore.Len(), "ignore rule", ""), opts.Path)
	return config, nil
}

func collectReport(
	ctx context.Context,
	workspaceRepository repositories.WorkspaceRepository,
	root string,
	opts ReportOptions,
) (*entities.Report, error) {
	manifests, err := workspaceRepository.List(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.Infof("Found %s in %s", english.Plural(len(manifests), "manifest", ""), root)

	dependencies := CollectDependencies(manifests)
	report := GenerateReport(dependencies, opts)
	logger.Debugf(
		"Compared %s: %d deduped, %d mismatched",
		english.Plural(dependencies.Len(), "dependency", "dependencies"),
		report.Deduped.Len(), report.Mismatched.Len(),
	)
	return report, nil
}
