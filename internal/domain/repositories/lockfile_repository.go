package repositories

import (
	"context"
)

// LockfileRepository abstracts a package manager able to regenerate the
// lockfile after manifests were rewritten.
type LockfileRepository interface {
	// Name returns the package manager identifier (e.g. "npm", "pnpm").
	Name() string

	// Detect returns true if the monorepo at root is managed by this package manager.
	Detect(root string) bool

	// Regenerate refreshes the lockfile at root without installing packages.
	Regenerate(ctx context.Context, root string) error
}
