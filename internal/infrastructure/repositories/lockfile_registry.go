package repositories

import (
	domainRepos "github.com/rios0rios0/depalign/internal/domain/repositories"
)

// DefaultLockfileManager is used when no known lockfile is found.
const DefaultLockfileManager = "npm"

// LockfileRegistry manages all registered lockfile implementations, in
// registration order.
type LockfileRegistry struct {
	lockfiles []domainRepos.LockfileRepository
}

// NewLockfileRegistry creates an empty lockfile registry.
func NewLockfileRegistry() *LockfileRegistry {
	return &LockfileRegistry{}
}

// Register adds a lockfile implementation. Earlier registrations win detection.
func (r *LockfileRegistry) Register(l domainRepos.LockfileRepository) {
	r.lockfiles = append(r.lockfiles, l)
}

// Get returns the implementation with the given name, or nil if not registered.
func (r *LockfileRegistry) Get(name string) domainRepos.LockfileRepository {
	for _, l := range r.lockfiles {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// Detect returns the first implementation whose lockfile exists at root,
// falling back to npm.
func (r *LockfileRegistry) Detect(root string) domainRepos.LockfileRepository {
	for _, l := range r.lockfiles {
		if l.Detect(root) {
			return l
		}
	}
	return r.Get(DefaultLockfileManager)
}

// Names returns the registered package manager names.
func (r *LockfileRegistry) Names() []string {
	names := make([]string, 0, len(r.lockfiles))
	for _, l := range r.lockfiles {
		names = append(names, l.Name())
	}
	return names
}
