package npm_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depalign/internal/infrastructure/repositories/npm"
)

type recordedCommand struct {
	dir  string
	name string
	args []string
}

func recordingRunner(calls *[]recordedCommand, output string, err error) npm.CommandRunner {
	return func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, recordedCommand{dir: dir, name: name, args: args})
		return []byte(output), err
	}
}

// yarnRunner answers "yarn --version" with version and records every other
// command.
func yarnRunner(calls *[]recordedCommand, version string, versionErr error) npm.CommandRunner {
	return func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
		if len(args) == 1 && args[0] == "--version" {
			return []byte(version), versionErr
		}
		*calls = append(*calls, recordedCommand{dir: dir, name: name, args: args})
		return nil, nil
	}
}

func TestLockfileRepository(t *testing.T) {
	t.Parallel()

	t.Run("should run the lockfile-only install of each package manager", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []recordedCommand
		runner := recordingRunner(&calls, "", nil)

		// when
		require.NoError(t, npm.NewNpmLockfileRepository(runner).Regenerate(context.Background(), "/repo"))
		require.NoError(t, npm.NewPnpmLockfileRepository(runner).Regenerate(context.Background(), "/repo"))

		// then
		assert.Equal(t, []recordedCommand{
			{dir: "/repo", name: "npm", args: []string{"install", "--package-lock-only"}},
			{dir: "/repo", name: "pnpm", args: []string{"install", "--lockfile-only"}},
		}, calls)
	})

	t.Run("should pick the yarn install mode from the yarn version", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			version    string
			versionErr error
			want       []string
		}{
			{name: "berry", version: "4.1.0\n", want: []string{"install", "--mode", "update-lockfile"}},
			{name: "yarn 2", version: "2.4.3", want: []string{"install", "--mode", "update-lockfile"}},
			{name: "classic", version: "1.22.19\n", want: []string{"install", "--ignore-scripts"}},
			{name: "unparsable", version: "unknown", want: []string{"install", "--mode", "update-lockfile"}},
			{
				name:       "version lookup failed",
				versionErr: errors.New("executable file not found"),
				want:       []string{"install", "--mode", "update-lockfile"},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				// given
				var calls []recordedCommand
				repository := npm.NewYarnLockfileRepository(yarnRunner(&calls, tt.version, tt.versionErr))

				// when
				err := repository.Regenerate(context.Background(), "/repo")

				// then
				require.NoError(t, err)
				assert.Equal(t, []recordedCommand{{dir: "/repo", name: "yarn", args: tt.want}}, calls)
			})
		}
	})

	t.Run("should include the command output in failures", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []recordedCommand
		repository := npm.NewNpmLockfileRepository(recordingRunner(&calls, "ERESOLVE could not resolve", errors.New("exit status 1")))

		// when
		err := repository.Regenerate(context.Background(), "/repo")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ERESOLVE could not resolve")
	})

	t.Run("should detect the package manager from its lockfile", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "yarn.lock"), []byte(""), 0o644))

		// when, then
		assert.True(t, npm.NewYarnLockfileRepository(npm.ExecRunner).Detect(root))
		assert.False(t, npm.NewPnpmLockfileRepository(npm.ExecRunner).Detect(root))
		assert.False(t, npm.NewNpmLockfileRepository(npm.ExecRunner).Detect(root))
	})
}
