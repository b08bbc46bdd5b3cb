package git_test

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depalign/internal/infrastructure/repositories/git"
)

func TestRootRepositoryResolve(t *testing.T) {
	t.Parallel()

	t.Run("should resolve a nested directory to the worktree root", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		_, err := gogit.PlainInit(root, false)
		require.NoError(t, err)
		nested := filepath.Join(root, "packages", "web")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		// when
		resolved, err := git.NewRootRepository().Resolve(nested)

		// then
		require.NoError(t, err)
		assert.Equal(t, root, resolved)
	})
}
