//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depalign/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

type declaration struct {
	depType       entities.DependencyType
	name, version string
}

// ManifestBuilder helps create test manifests with a fluent interface.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	location     string
	name         string
	declarations []declaration
}

// NewManifestBuilder creates a new manifest builder with sensible defaults.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		location:    "/repo",
		name:        "test-package",
	}
}

// WithLocation sets the workspace directory.
func (b *ManifestBuilder) WithLocation(location string) *ManifestBuilder {
	b.location = location
	return b
}

// WithName sets the package name.
func (b *ManifestBuilder) WithName(name string) *ManifestBuilder {
	b.name = name
	return b
}

// WithDependency declares a production dependency.
func (b *ManifestBuilder) WithDependency(name, version string) *ManifestBuilder {
	return b.with(entities.DependencyTypeProd, name, version)
}

// WithDevDependency declares a development dependency.
func (b *ManifestBuilder) WithDevDependency(name, version string) *ManifestBuilder {
	return b.with(entities.DependencyTypeDev, name, version)
}

// WithPeerDependency declares a peer dependency.
func (b *ManifestBuilder) WithPeerDependency(name, version string) *ManifestBuilder {
	return b.with(entities.DependencyTypePeer, name, version)
}

// WithOptionalDependency declares an optional dependency.
func (b *ManifestBuilder) WithOptionalDependency(name, version string) *ManifestBuilder {
	return b.with(entities.DependencyTypeOptional, name, version)
}

func (b *ManifestBuilder) with(depType entities.DependencyType, name, version string) *ManifestBuilder {
	b.declarations = append(b.declarations, declaration{depType: depType, name: name, version: version})
	return b
}

// Build creates the manifest (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildManifest()
}

// BuildManifest creates the manifest with a concrete return type.
func (b *ManifestBuilder) BuildManifest() entities.Manifest {
	manifest := entities.Manifest{
		Location:             b.location,
		Name:                 b.name,
		Dependencies:         entities.NewOrderedMap[string](),
		DevDependencies:      entities.NewOrderedMap[string](),
		PeerDependencies:     entities.NewOrderedMap[string](),
		OptionalDependencies: entities.NewOrderedMap[string](),
	}
	for _, d := range b.declarations {
		manifest.Section(d.depType).Set(d.name, d.version)
	}
	return manifest
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.location = "/repo"
	b.name = "test-package"
	b.declarations = nil
	return b
}

// Clone creates a deep copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	return &ManifestBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		location:     b.location,
		name:         b.name,
		declarations: append([]declaration(nil), b.declarations...),
	}
}
