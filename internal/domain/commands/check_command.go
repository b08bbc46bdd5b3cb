package commands

import (
	"context"

	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// Check is the interface for the alignment check (and autofix) command.
type Check interface {
	Execute(ctx context.Context, opts CheckOptions) (*CheckResult, error)
}

// CheckOptions holds runtime options for the alignment check.
type CheckOptions struct {
	Root              string `validate:"required"`
	Config            ConfigOptions
	Types             []entities.DependencyType `validate:"min=1,dive,oneof=prod dev peer optional"`
	TypesOnly         bool
	SkipDeduped       bool
	Autofix           bool
	AutofixOnly       []string
	IncludeMismatched bool
	DryRun            bool
}

// CheckResult is what is left to report after an optional autofix.
type CheckResult struct {
	Report *entities.Report
	// Fixed is the number of dependencies rewritten by the autofix.
	Fixed int
	// Status is the number of mismatched dependencies.
	Status int
}

// CheckCommand builds the alignment report of a monorepo and optionally
// fixes what can be fixed.
type CheckCommand struct {
	workspaceRepository repositories.WorkspaceRepository
	configRepository    repositories.ConfigRepository
	fixCommand          *FixCommand
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	workspaceRepository repositories.WorkspaceRepository,
	configRepository repositories.ConfigRepository,
	fixCommand *FixCommand,
) *CheckCommand {
	return &CheckCommand{
		workspaceRepository: workspaceRepository,
		configRepository:    configRepository,
		fixCommand:          fixCommand,
	}
}

// Execute runs the check.
func (it *CheckCommand) Execute(ctx context.Context, opts CheckOptions) (*CheckResult, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	config, err := loadConfig(it.configRepository, opts.Config)
	if err != nil {
		return nil, err
	}

	report, err := collectReport(ctx, it.workspaceRepository, opts.Root, ReportOptions{
		Types:     opts.Types,
		TypesOnly: opts.TypesOnly,
		Ignore:    config.Ignore,
	})
	if err != nil {
		return nil, err
	}

	if opts.SkipDeduped {
		report.Deduped = entities.NewReportItems()
	}

	result := &CheckResult{Report: report}
	if opts.Autofix {
		selected := SelectFixes(report, opts.IncludeMismatched, opts.AutofixOnly)
		fixed, fixErr := it.fixCommand.Apply(ctx, opts.Root, selected, opts.DryRun)
		if fixErr != nil {
			return nil, fixErr
		}
		for _, name := range fixed {
			report.Remove(name)
		}
		result.Fixed = len(fixed)
	}

	result.Status = report.Mismatched.Len()
	return result, nil
}
