package npm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// CommandRunner runs a program in dir and returns its combined output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs commands through os/exec.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// LockfileRepository regenerates the lockfile of one package manager.
type LockfileRepository struct {
	name     string
	lockfile string
	args     func(ctx context.Context, root string) []string
	runner   CommandRunner
}

var _ repositories.LockfileRepository = (*LockfileRepository)(nil)

// NewNpmLockfileRepository handles package-lock.json.
func NewNpmLockfileRepository(runner CommandRunner) *LockfileRepository {
	return &LockfileRepository{
		name:     "npm",
		lockfile: "package-lock.json",
		args:     fixedArgs("install", "--package-lock-only"),
		runner:   runner,
	}
}

// NewYarnLockfileRepository handles yarn.lock. Yarn 2+ can refresh the
// lockfile alone; Yarn 1 has no such mode, so it runs a full install with
// lifecycle scripts disabled.
func NewYarnLockfileRepository(runner CommandRunner) *LockfileRepository {
	repository := &LockfileRepository{
		name:     "yarn",
		lockfile: "yarn.lock",
		runner:   runner,
	}
	repository.args = repository.yarnArgs
	return repository
}

func fixedArgs(args ...string) func(context.Context, string) []string {
	return func(context.Context, string) []string { return args }
}

func (it *LockfileRepository) yarnArgs(ctx context.Context, root string) []string {
	berry := []string{"install", "--mode", "update-lockfile"}

	output, err := it.runner(ctx, root, it.name, "--version")
	if err != nil {
		logger.Warnf("[yarn] Could not read the yarn version, assuming Yarn 2+: %v", err)
		return berry
	}
	version, err := semver.NewVersion(strings.TrimSpace(string(output)))
	if err != nil {
		logger.Warnf("[yarn] Unrecognized yarn version %q, assuming Yarn 2+", strings.TrimSpace(string(output)))
		return berry
	}
	if version.Major() < 2 { //nolint:mnd // Yarn 2 introduced --mode
		logger.Debugf("[yarn] Yarn %s has no lockfile-only mode, running a full install", version)
		return []string{"install", "--ignore-scripts"}
	}
	return berry
}

// NewPnpmLockfileRepository handles pnpm-lock.yaml.
func NewPnpmLockfileRepository(runner CommandRunner) *LockfileRepository {
	return &LockfileRepository{
		name:     "pnpm",
		lockfile: "pnpm-lock.yaml",
		args:     fixedArgs("install", "--lockfile-only"),
		runner:   runner,
	}
}

// Name returns the package manager binary.
func (it *LockfileRepository) Name() string { return it.name }

// Detect returns true if root holds this package manager's lockfile.
func (it *LockfileRepository) Detect(root string) bool {
	_, err := os.Stat(filepath.Join(root, it.lockfile))
	return err == nil
}

// Regenerate updates the lockfile without installing anything.
func (it *LockfileRepository) Regenerate(ctx context.Context, root string) error {
	args := it.args(ctx, root)
	logger.Debugf("[%s] Running %s %v in %s", it.name, it.name, args, root)
	output, err := it.runner(ctx, root, it.name, args...)
	if err != nil {
		return fmt.Errorf("%s %v failed: %w\nOutput:\n%s", it.name, args, err, output)
	}
	logger.Debugf("[%s] Output:\n%s", it.name, output)
	return nil
}
