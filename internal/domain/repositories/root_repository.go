package repositories

// RootRepository resolves the monorepo root for a working directory.
type RootRepository interface {
	Resolve(dir string) (string, error)
}
