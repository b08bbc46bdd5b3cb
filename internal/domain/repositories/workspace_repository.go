package repositories

import (
	"context"

	"github.com/rios0rios0/depalign/internal/domain/entities"
)

// WorkspaceRepository abstracts the manifests of a monorepo. Implementations
// own workspace discovery (which directories hold a manifest) as well as
// reading and rewriting those manifests.
type WorkspaceRepository interface {
	// List returns every workspace manifest under root followed by the root
	// manifest itself. The order is stable between runs.
	List(ctx context.Context, root string) ([]entities.Manifest, error)

	// Write replaces the ranges of the named dependencies in the manifest at
	// update.Location, in every section where each dependency is declared.
	Write(ctx context.Context, update entities.ManifestUpdate) error
}
