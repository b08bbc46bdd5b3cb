package entities

import (
	"encoding/json"
)

// DependencyType classifies the manifest section a dependency was declared in.
type DependencyType string

const (
	DependencyTypeProd     DependencyType = "prod"
	DependencyTypeDev      DependencyType = "dev"
	DependencyTypePeer     DependencyType = "peer"
	DependencyTypeOptional DependencyType = "optional"
	// DependencyTypeNone marks a usage whose range matched none of the
	// manifest's sections (the same name declared twice with different ranges).
	DependencyTypeNone DependencyType = ""
)

// DefaultDependencyTypes are the types reported when none are requested.
func DefaultDependencyTypes() []DependencyType {
	return []DependencyType{DependencyTypeProd, DependencyTypeDev, DependencyTypeOptional}
}

// MarshalJSON writes unclassified types as null.
func (t DependencyType) MarshalJSON() ([]byte, error) {
	if t == DependencyTypeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// DependencyMap maps a dependency name to its declared version range,
// in declaration order.
type DependencyMap = OrderedMap[string]

// Manifest is the dependency view of one workspace's package.json.
type Manifest struct {
	Location             string // absolute directory of the workspace
	Name                 string
	Dependencies         *DependencyMap
	DevDependencies      *DependencyMap
	PeerDependencies     *DependencyMap
	OptionalDependencies *DependencyMap
}

// Section returns the mapping holding dependencies of the given type.
func (m *Manifest) Section(t DependencyType) *DependencyMap {
	switch t {
	case DependencyTypeProd:
		return m.Dependencies
	case DependencyTypeDev:
		return m.DevDependencies
	case DependencyTypePeer:
		return m.PeerDependencies
	case DependencyTypeOptional:
		return m.OptionalDependencies
	default:
		return nil
	}
}

// ManifestSections lists the four dependency sections and the package.json
// key each one is stored under.
var ManifestSections = []struct { //nolint:gochecknoglobals // lookup table
	Type DependencyType
	Key  string
}{
	{DependencyTypeProd, "dependencies"},
	{DependencyTypeDev, "devDependencies"},
	{DependencyTypePeer, "peerDependencies"},
	{DependencyTypeOptional, "optionalDependencies"},
}

// ManifestUpdate holds the replacement ranges to write into one manifest.
type ManifestUpdate struct {
	Location     string
	Replacements *DependencyMap // dependency name -> new range
}
