package classpath

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
)

// Variables is the concurrency-safe classpath variable table.
type Variables struct {
	mu     sync.RWMutex
	values map[string]domain.Path
}

// NewVariables creates an empty variable table.
func NewVariables() *Variables {
	return &Variables{values: make(map[string]domain.Path)}
}

// Set binds a variable.
func (v *Variables) Set(name string, value domain.Path) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[name] = value
}

// SetAll replaces the whole table.
func (v *Variables) SetAll(values map[string]domain.Path) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values = maps.Clone(values)
	if v.values == nil {
		v.values = make(map[string]domain.Path)
	}
}

// Get returns the value of a variable.
func (v *Variables) Get(name string) (domain.Path, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.values[name]
	return value, ok
}

// Remove unbinds a variable.
func (v *Variables) Remove(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.values, name)
}

// Names returns the bound variable names in sorted order.
func (v *Variables) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Sorted(maps.Keys(v.values))
}

// Resolve expands the first segment of a variable path. Only one level of
// indirection is followed. ok is false when the variable is unbound.
func (v *Variables) Resolve(path domain.Path) (domain.Path, bool) {
	name := path.FirstSegment()
	if name == "" {
		return "", false
	}
	value, ok := v.Get(name)
	if !ok || value.IsEmpty() {
		return "", false
	}
	rest := path.RemoveFirstSegments(1)
	if rest.IsEmpty() {
		return value.Canonical(), true
	}
	return value.Append(string(rest)).Canonical(), true
}
