package cache

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
)

// Snapshot is a consistent copy of the classpath state of a project.
type Snapshot struct {
	Project    string
	Loaded     bool
	Raw        domain.Entries
	Referenced domain.Entries
	Output     domain.Path
	RawStatus  domain.Status
	Timestamp  uint64
}

// ProjectInfo is the cache record of one project.
//
// A resolved classpath is only valid for the raw timestamp it was computed
// against; SetRawClasspath bumps the timestamp and so invalidates any
// resolution still in flight.
type ProjectInfo struct {
	name      string
	temporary bool

	mu             sync.Mutex
	loaded         bool
	raw            domain.Entries
	referenced     domain.Entries
	output         domain.Path
	rawStatus      domain.Status
	timestamp      uint64
	resolved       *domain.ResolvedClasspath
	resolvedStamp  uint64
	expanded       domain.Entries
	expandedStamp  uint64
	options        *domain.ProjectOptions
	secondaryTypes map[string]domain.Path
}

func newProjectInfo(name string) *ProjectInfo {
	return &ProjectInfo{name: name}
}

// NewTemporary creates an unregistered record seeded from a snapshot. It is used
// to finish a resolution whose snapshot went stale without publishing the result.
func NewTemporary(snap Snapshot) *ProjectInfo {
	info := newProjectInfo(snap.Project)
	info.temporary = true
	info.loaded = snap.Loaded
	info.raw = slices.Clone(snap.Raw)
	info.referenced = slices.Clone(snap.Referenced)
	info.output = snap.Output
	info.rawStatus = snap.RawStatus
	info.timestamp = snap.Timestamp
	return info
}

// Name returns the project name.
func (p *ProjectInfo) Name() string { return p.name }

// IsTemporary reports whether the record is a stale-retry record.
func (p *ProjectInfo) IsTemporary() bool { return p.temporary }

// Snapshot returns the current raw classpath state.
func (p *ProjectInfo) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Project:    p.name,
		Loaded:     p.loaded,
		Raw:        slices.Clone(p.raw),
		Referenced: slices.Clone(p.referenced),
		Output:     p.output,
		RawStatus:  p.rawStatus,
		Timestamp:  p.timestamp,
	}
}

// Timestamp returns the raw classpath timestamp.
func (p *ProjectInfo) Timestamp() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timestamp
}

// SetRawClasspath replaces the raw classpath, drops the derived caches and
// returns the new timestamp.
func (p *ProjectInfo) SetRawClasspath(raw, referenced domain.Entries, output domain.Path, status domain.Status) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = true
	p.raw = slices.Clone(raw)
	p.referenced = slices.Clone(referenced)
	p.output = output
	p.rawStatus = status
	p.timestamp++
	p.resolved = nil
	p.expanded = nil
	return p.timestamp
}

// Unload forgets the raw classpath so that it is read again on next use.
func (p *ProjectInfo) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.raw = nil
	p.referenced = nil
	p.output = ""
	p.rawStatus = domain.OKStatus()
	p.timestamp++
	p.resolved = nil
	p.expanded = nil
}

// Resolved returns the resolved classpath when it matches the raw timestamp.
func (p *ProjectInfo) Resolved() (*domain.ResolvedClasspath, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolved == nil || p.resolvedStamp != p.timestamp {
		return nil, false
	}
	return p.resolved, true
}

// SetResolved publishes a resolved classpath computed against timestamp.
// It reports false and drops the result when the raw classpath changed meanwhile.
func (p *ProjectInfo) SetResolved(res *domain.ResolvedClasspath, timestamp uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if timestamp != p.timestamp {
		return false
	}
	p.resolved = res
	p.resolvedStamp = timestamp
	return true
}

// Expanded returns the cached expanded classpath when it matches the raw timestamp.
func (p *ProjectInfo) Expanded() (domain.Entries, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.expanded == nil || p.expandedStamp != p.timestamp {
		return nil, false
	}
	return slices.Clone(p.expanded), true
}

// SetExpanded caches an expanded classpath computed against timestamp.
func (p *ProjectInfo) SetExpanded(entries domain.Entries, timestamp uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if timestamp != p.timestamp {
		return false
	}
	p.expanded = slices.Clone(entries)
	p.expandedStamp = timestamp
	return true
}

// ResetCaches drops the resolved and expanded classpaths, the options and the
// secondary types. The raw classpath is kept.
func (p *ProjectInfo) ResetCaches() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolved = nil
	p.expanded = nil
	p.options = nil
	p.secondaryTypes = nil
}

// Options returns the cached project options.
func (p *ProjectInfo) Options() (domain.ProjectOptions, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.options == nil {
		return domain.ProjectOptions{}, false
	}
	return *p.options, true
}

// SetOptions caches the project options.
func (p *ProjectInfo) SetOptions(opts domain.ProjectOptions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = &opts
}

// SecondaryTypes returns the known secondary types, keyed by type name.
func (p *ProjectInfo) SecondaryTypes() map[string]domain.Path {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.secondaryTypes)
}

// SetSecondaryType records the file declaring a secondary type.
func (p *ProjectInfo) SetSecondaryType(typeName string, file domain.Path) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.secondaryTypes == nil {
		p.secondaryTypes = make(map[string]domain.Path)
	}
	p.secondaryTypes[typeName] = file
}

// RemoveSecondaryTypes forgets the secondary types declared in file.
func (p *ProjectInfo) RemoveSecondaryTypes(file domain.Path) {
	p.mu.Lock()
	defer p.mu.Unlock()
	maps.DeleteFunc(p.secondaryTypes, func(_ string, declaring domain.Path) bool {
		return declaring == file
	})
}

// ResetSecondaryTypes forgets every secondary type.
func (p *ProjectInfo) ResetSecondaryTypes() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.secondaryTypes = nil
}

// references reports whether the raw or resolved classpath names project.
func (p *ProjectInfo) references(project string) bool {
	target := domain.ProjectPath(project)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.raw.IndexOf(domain.EntryProject, target) >= 0 {
		return true
	}
	if p.resolved == nil {
		return false
	}
	e, ok := p.resolved.EntryFor(target)
	return ok && e.Kind() == domain.EntryProject
}
