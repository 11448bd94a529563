// Package cache holds the per-project classpath cache and its invalidation rules.
package cache

import (
	"slices"
	"sync"
)

// Table is the concurrency-safe table of project cache records.
// The lock is only held for single lookups and updates.
type Table struct {
	mu    sync.RWMutex
	infos map[string]*ProjectInfo
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{infos: make(map[string]*ProjectInfo)}
}

// Get returns the record of a project, creating it on first access.
func (t *Table) Get(project string) *ProjectInfo {
	t.mu.RLock()
	info, ok := t.infos[project]
	t.mu.RUnlock()
	if ok {
		return info
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if info, ok := t.infos[project]; ok {
		return info
	}
	info = newProjectInfo(project)
	t.infos[project] = info
	return info
}

// Lookup returns the record of a project without creating it.
func (t *Table) Lookup(project string) (*ProjectInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.infos[project]
	return info, ok
}

// Remove drops the record of a project.
func (t *Table) Remove(project string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.infos, project)
}

// Clear drops every record.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.infos)
}

// Projects returns the names of the cached projects in sorted order.
func (t *Table) Projects() []string {
	t.mu.RLock()
	names := make([]string, 0, len(t.infos))
	for name := range t.infos {
		names = append(names, name)
	}
	t.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Dependents returns the projects whose classpath references project, directly
// or through other projects, in sorted order.
func (t *Table) Dependents(project string) []string {
	t.mu.RLock()
	infos := make([]*ProjectInfo, 0, len(t.infos))
	for _, info := range t.infos {
		infos = append(infos, info)
	}
	t.mu.RUnlock()

	seen := map[string]struct{}{project: {}}
	queue := []string{project}
	var dependents []string
	for len(queue) > 0 {
		target := queue[0]
		queue = queue[1:]
		for _, info := range infos {
			if _, done := seen[info.name]; done {
				continue
			}
			if info.references(target) {
				seen[info.name] = struct{}{}
				dependents = append(dependents, info.name)
				queue = append(queue, info.name)
			}
		}
	}
	slices.Sort(dependents)
	return dependents
}

// ResetWithDependents resets the caches of project and of every dependent
// project and returns the names of the records that were reset.
func (t *Table) ResetWithDependents(project string) []string {
	names := append([]string{project}, t.Dependents(project)...)
	reset := make([]string, 0, len(names))
	for _, name := range names {
		if info, ok := t.Lookup(name); ok {
			info.ResetCaches()
			reset = append(reset, name)
		}
	}
	return reset
}
