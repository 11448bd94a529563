package delta

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
)

// RootTable indexes the package fragment roots of the open Java projects by path.
// A path can be a root of several projects, e.g. a shared external archive.
type RootTable struct {
	byPath   map[domain.Path][]domain.RootInfo
	projects map[string][]domain.RootInfo
}

// NewRootTable creates an empty table.
func NewRootTable() *RootTable {
	return &RootTable{
		byPath:   make(map[domain.Path][]domain.RootInfo),
		projects: make(map[string][]domain.RootInfo),
	}
}

// Add registers a root.
func (t *RootTable) Add(info domain.RootInfo) {
	t.byPath[info.Path] = append(t.byPath[info.Path], info)
	name := info.ProjectName()
	t.projects[name] = append(t.projects[name], info)
}

// Roots returns every root registered at path.
func (t *RootTable) Roots(path domain.Path) []domain.RootInfo {
	return slices.Clone(t.byPath[path])
}

// Root returns the root of project registered at path.
func (t *RootTable) Root(project string, path domain.Path) (domain.RootInfo, bool) {
	for _, info := range t.byPath[path] {
		if info.ProjectName() == project {
			return info, true
		}
	}
	return domain.RootInfo{}, false
}

// ProjectRoots returns the roots of a project in classpath order.
func (t *RootTable) ProjectRoots(project string) []domain.RootInfo {
	return slices.Clone(t.projects[project])
}

// HasNestedRoot reports whether a root of project lies strictly below path.
func (t *RootTable) HasNestedRoot(project string, path domain.Path) bool {
	for _, info := range t.projects[project] {
		if info.Path != path && path.IsPrefixOf(info.Path) {
			return true
		}
	}
	return false
}

// Paths returns every registered root path.
func (t *RootTable) Paths() []domain.Path {
	out := make([]domain.Path, 0, len(t.byPath))
	for p := range t.byPath {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered roots.
func (t *RootTable) Len() int {
	n := 0
	for _, infos := range t.byPath {
		n += len(infos)
	}
	return n
}

// rootState holds the current root table, the table it replaced and the
// staleness flag. The old table is only meaningful during a processing pass.
type rootState struct {
	mu      sync.Mutex
	current *RootTable
	old     *RootTable
	stale   bool
	built   bool
}

func newRootState() *rootState {
	return &rootState{current: NewRootTable(), old: NewRootTable(), stale: true}
}

func (s *rootState) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *rootState) tables() (current, old *RootTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.old
}

// refresh rebuilds the table when it is stale. The replaced table becomes the
// old one; the first build serves as both.
func (s *rootState) refresh(ctx context.Context, build func(context.Context) *RootTable) {
	s.mu.Lock()
	stale := s.stale
	s.stale = false
	s.mu.Unlock()
	if !stale {
		return
	}

	table := build(ctx)

	s.mu.Lock()
	s.old = s.current
	if !s.built {
		s.old = table
		s.built = true
	}
	s.current = table
	s.mu.Unlock()
}

// settle forgets the old table at the end of a pass.
func (s *rootState) settle() {
	s.mu.Lock()
	s.old = s.current
	s.mu.Unlock()
}
