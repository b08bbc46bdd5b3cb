package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depalign/internal/domain/repositories"
)

// RootRepository resolves the monorepo root as the enclosing git worktree.
type RootRepository struct{}

var _ repositories.RootRepository = (*RootRepository)(nil)

// NewRootRepository creates a new RootRepository.
func NewRootRepository() *RootRepository {
	return &RootRepository{}
}

// Resolve returns the worktree root containing dir, or dir itself when it
// is not inside a git repository.
func (it *RootRepository) Resolve(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		logger.Debugf("%s is not inside a git repository, using it as the root", abs)
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %s: %w", abs, err)
	}

	worktree, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}
