package commands

import (
	"github.com/rios0rios0/depalign/internal/domain/entities"
	"github.com/rios0rios0/depalign/internal/semrange"
)

// typeLookupOrder is the priority used to classify a usage when the same
// dependency is declared in several sections of one manifest.
var typeLookupOrder = []entities.DependencyType{ //nolint:gochecknoglobals // lookup table
	entities.DependencyTypeDev,
	entities.DependencyTypePeer,
	entities.DependencyTypeOptional,
	entities.DependencyTypeProd,
}

// CollectDependencies flattens the manifests into one list of usages per
// dependency name. Manifests are visited in the given order and, inside each
// manifest, production, development, peer and optional entries in
// declaration order. Peer and optional entries declared as a wildcard ("*",
// "x" or "") say nothing about alignment and are skipped.
func CollectDependencies(manifests []entities.Manifest) *entities.Dependencies {
	dependencies := entities.NewDependencies()

	for i := range manifests {
		manifest := &manifests[i]
		for _, section := range entities.ManifestSections {
			skipWildcard := section.Type == entities.DependencyTypePeer ||
				section.Type == entities.DependencyTypeOptional

			manifest.Section(section.Type).Each(func(name, versionRange string) {
				if skipWildcard && semrange.IsWildcard(versionRange) {
					return
				}
				usages, _ := dependencies.Get(name)
				dependencies.Set(name, append(usages, entities.DependencyUsage{
					Version: versionRange,
					From:    manifest.Location,
					Type:    dependencyType(manifest, name, versionRange),
				}))
			})
		}
	}

	return dependencies
}

// dependencyType finds the section whose entry for name is exactly versionRange.
func dependencyType(manifest *entities.Manifest, name, versionRange string) entities.DependencyType {
	for _, t := range typeLookupOrder {
		if declared, ok := manifest.Section(t).Get(name); ok && declared == versionRange {
			return t
		}
	}
	return entities.DependencyTypeNone
}
