package entities

// DependencyUsage is one declaration of a dependency in one workspace.
type DependencyUsage struct {
	Version string         `json:"version"`
	From    string         `json:"from"`
	Type    DependencyType `json:"type"`
}

// Dependencies collects every usage of every dependency, keyed by name in
// the order the names were first seen.
type Dependencies = OrderedMap[[]DependencyUsage]

// NewDependencies creates an empty Dependencies collection.
func NewDependencies() *Dependencies {
	return NewOrderedMap[[]DependencyUsage]()
}
