package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/depalign/internal/domain/repositories"
	configRepo "github.com/rios0rios0/depalign/internal/infrastructure/repositories/config"
	gitRepo "github.com/rios0rios0/depalign/internal/infrastructure/repositories/git"
	npmRepo "github.com/rios0rios0/depalign/internal/infrastructure/repositories/npm"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register lockfile registry, most specific lockfiles first
	if err := container.Provide(func() *LockfileRegistry {
		reg := NewLockfileRegistry()
		reg.Register(npmRepo.NewPnpmLockfileRepository(npmRepo.ExecRunner))
		reg.Register(npmRepo.NewYarnLockfileRepository(npmRepo.ExecRunner))
		reg.Register(npmRepo.NewNpmLockfileRepository(npmRepo.ExecRunner))
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(func() repositories.WorkspaceRepository {
		return npmRepo.NewWorkspaceRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() repositories.ConfigRepository {
		return configRepo.NewConfigRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() repositories.RootRepository {
		return gitRepo.NewRootRepository()
	}); err != nil {
		return err
	}

	return nil
}
