// Package modscan discovers extension modules visible in an environment.
//
// An environment is the scope a compilation pass resolves names in: a type
// registry plus the places extension modules come from. Modules are either
// described by yaml manifests (*.extmodule.yaml) in the environment's
// module directories or registered in memory.
package modscan

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/stc/internal/typesystem"
)

// Environment is an opaque handle used as a cache key. Two environments
// are the same only if they are the same pointer.
type Environment struct {
	id       uuid.UUID
	name     string
	resolver typesystem.Resolver

	mu      sync.RWMutex
	dirs    []string
	modules []Module
}

// NewEnvironment creates an environment resolving names with r.
func NewEnvironment(name string, r typesystem.Resolver) *Environment {
	if r == nil {
		r = typesystem.Empty{}
	}
	return &Environment{id: uuid.New(), name: name, resolver: r}
}

// LoadEnvironment creates an environment over a fresh registry and the
// manifests found in dirs. Classes declared by the manifests are defined
// in the registry.
func LoadEnvironment(name string, dirs ...string) (*Environment, error) {
	reg := typesystem.NewRegistry()
	var manifests []*Manifest
	for _, dir := range dirs {
		found, err := LoadManifests(dir)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, found...)
	}
	if err := DefineClasses(reg, manifests...); err != nil {
		return nil, fmt.Errorf("environment %s: %w", name, err)
	}
	env := NewEnvironment(name, reg)
	env.dirs = append(env.dirs, dirs...)
	return env, nil
}

// ID returns the unique identity of the environment.
func (e *Environment) ID() uuid.UUID { return e.id }

// Name returns the display name given at creation.
func (e *Environment) Name() string { return e.name }

// Resolver returns the name table of the environment.
func (e *Environment) Resolver() typesystem.Resolver { return e.resolver }

func (e *Environment) String() string {
	return fmt.Sprintf("%s(%s)", e.name, e.id)
}

// AddModuleDir adds a directory scanned for manifests.
func (e *Environment) AddModuleDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirs = append(e.dirs, dir)
}

// ModuleDirs returns the manifest directories in registration order.
func (e *Environment) ModuleDirs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.dirs...)
}

// AddModule registers an in-memory module.
func (e *Environment) AddModule(m Module) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modules = append(e.modules, m)
}

// Modules returns the in-memory modules in registration order.
func (e *Environment) Modules() []Module {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Module(nil), e.modules...)
}
