package controllers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize/english"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depalign/internal/domain/commands"
	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/domain/repositories"
	configRepo "github.com/rios0rios0/depalign/internal/infrastructure/repositories/config"
	"github.com/rios0rios0/depalign/internal/infrastructure/presenters"
)

const (
	flagJSON              = "json"
	flagSkipDeduped       = "skip-deduped"
	flagType              = "type"
	flagTypesOnly         = "types-only"
	flagAutofix           = "autofix"
	flagAutofixOnly       = "autofix-only"
	flagIncludeMismatched = "dangerously-include-mismatched"
	flagConfig            = "config"
	flagNoConfig          = "no-config"
	flagValidateConfig    = "validate-config"
	flagRoot              = "root"
	flagDryRun            = "dry-run"
	flagVerbose           = "verbose"
)

// CheckController handles the root command: the alignment report, the
// autofix and the ignore-config validation.
type CheckController struct {
	checkCommand          commands.Check
	validateConfigCommand commands.ValidateConfig
	rootRepository        repositories.RootRepository
}

// NewCheckController creates a new CheckController.
func NewCheckController(
	checkCommand commands.Check,
	validateConfigCommand commands.ValidateConfig,
	rootRepository repositories.RootRepository,
) *CheckController {
	return &CheckController{
		checkCommand:          checkCommand,
		validateConfigCommand: validateConfigCommand,
		rootRepository:        rootRepository,
	}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "depalign",
		Short: "Check that monorepo workspaces agree on dependency versions",
		Long: `Inspect every workspace package.json of a JavaScript monorepo and report
dependencies declared with more than one version range.

Deduped dependencies can be satisfied by a single version and are aligned
with --autofix. Mismatched dependencies have no common version; they are
only rewritten with --autofix --dangerously-include-mismatched.

The exit status is the number of mismatched dependencies, or the number of
extraneous ignore rules with --validate-config.`,
	}
}

// AddFlags registers the check flags on the given command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool(flagJSON, false, "Output the report as JSON")
	flags.Bool(flagSkipDeduped, false, "Don't report or autofix ranges that can be resolved to a single version")
	flags.StringSlice(flagType, typeNames(entities.DefaultDependencyTypes()),
		"Dependency types to check (prod, dev, peer, optional)")
	flags.Bool(flagTypesOnly, false, "Only report dependencies whose usages all have one of --type")
	flags.Bool(flagAutofix, false, "Align ranges to the highest possible range (or clean up the config)")
	flags.StringSlice(flagAutofixOnly, nil, "Only autofix these dependencies")
	flags.Bool(flagIncludeMismatched, false, "Include mismatched dependencies into autofix")
	flags.String(flagConfig, "", "Path to the depalign config (default: .depalignrc.json)")
	flags.Bool(flagNoConfig, false, "Don't read any depalign config")
	flags.Bool(flagValidateConfig, false, "Check the config for ignore rules that no longer apply")
	flags.String(flagRoot, "", "Monorepo root (default: enclosing git worktree)")
	flags.Bool(flagDryRun, false, "Show what would be done without making changes")
	flags.BoolP(flagVerbose, "v", false, "Enable verbose output")
}

// Execute runs the check, or the config validation, and returns the exit status.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) (int, error) {
	ctx := context.Background()

	if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return 0, fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := it.resolveRoot(cmd, workDir)
	if err != nil {
		return 0, err
	}
	logger.Debugf("Monorepo root: %s", root)

	asJSON, _ := cmd.Flags().GetBool(flagJSON)
	presenter := presenters.New(asJSON, workDir)
	out := cmd.OutOrStdout()

	typeValues, _ := cmd.Flags().GetStringSlice(flagType)
	typesOnly, _ := cmd.Flags().GetBool(flagTypesOnly)
	autofix, _ := cmd.Flags().GetBool(flagAutofix)
	dryRun, _ := cmd.Flags().GetBool(flagDryRun)
	config := configOptions(cmd, workDir)

	if validate, _ := cmd.Flags().GetBool(flagValidateConfig); validate {
		result, validateErr := it.validateConfigCommand.Execute(ctx, commands.ValidateConfigOptions{
			Root:      root,
			Config:    config,
			Types:     dependencyTypes(typeValues),
			TypesOnly: typesOnly,
			Autofix:   autofix,
			DryRun:    dryRun,
		})
		if validateErr != nil {
			return 0, validateErr
		}
		return result.Status, presenter.Validation(out, result)
	}

	skipDeduped, _ := cmd.Flags().GetBool(flagSkipDeduped)
	autofixOnly, _ := cmd.Flags().GetStringSlice(flagAutofixOnly)
	includeMismatched, _ := cmd.Flags().GetBool(flagIncludeMismatched)

	if autofix && includeMismatched {
		if err = presenter.MismatchedWarning(out); err != nil {
			return 0, err
		}
	}

	result, err := it.checkCommand.Execute(ctx, commands.CheckOptions{
		Root:              root,
		Config:            config,
		Types:             dependencyTypes(typeValues),
		TypesOnly:         typesOnly,
		SkipDeduped:       skipDeduped,
		Autofix:           autofix,
		AutofixOnly:       autofixOnly,
		IncludeMismatched: includeMismatched,
		DryRun:            dryRun,
	})
	if err != nil {
		return 0, err
	}
	if autofix {
		logger.Infof("Autofixed %s", english.Plural(result.Fixed, "dependency", "dependencies"))
	}

	return result.Status, presenter.Report(out, result.Report)
}

func (it *CheckController) resolveRoot(cmd *cobra.Command, workDir string) (string, error) {
	if root, _ := cmd.Flags().GetString(flagRoot); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("invalid root: %w", err)
		}
		return abs, nil
	}
	return it.rootRepository.Resolve(workDir)
}

func configOptions(cmd *cobra.Command, workDir string) commands.ConfigOptions {
	noConfig, _ := cmd.Flags().GetBool(flagNoConfig)
	path, _ := cmd.Flags().GetString(flagConfig)
	if path == "" {
		return commands.ConfigOptions{Path: configRepo.FindConfigFile(workDir), Disabled: noConfig}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	return commands.ConfigOptions{Path: path, Explicit: true, Disabled: noConfig}
}

func dependencyTypes(values []string) []entities.DependencyType {
	types := make([]entities.DependencyType, 0, len(values))
	for _, v := range values {
		types = append(types, entities.DependencyType(v))
	}
	return types
}

func typeNames(types []entities.DependencyType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
