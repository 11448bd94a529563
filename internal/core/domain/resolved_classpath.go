package domain

import "slices"

// ResolvedClasspath is the outcome of one resolution run. It is never mutated once built.
type ResolvedClasspath struct {
	entries    []ClasspathEntry
	rawByPath  map[Path]ClasspathEntry
	byPath     map[Path]ClasspathEntry
	referenced []ClasspathEntry
	output     Path
	status     Status
}

// Entries returns the resolved entries in discovery order.
func (r *ResolvedClasspath) Entries() Entries {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}

// Len returns the number of resolved entries.
func (r *ResolvedClasspath) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// EntryFor returns the resolved entry for a resolved path.
func (r *ResolvedClasspath) EntryFor(path Path) (ClasspathEntry, bool) {
	if r == nil {
		return ClasspathEntry{}, false
	}
	e, ok := r.byPath[path]
	return e, ok
}

// RawEntryFor returns the raw entry a resolved path was produced from.
func (r *ResolvedClasspath) RawEntryFor(path Path) (ClasspathEntry, bool) {
	if r == nil {
		return ClasspathEntry{}, false
	}
	e, ok := r.rawByPath[path]
	return e, ok
}

// Contains reports whether a resolved path is on the classpath.
func (r *ResolvedClasspath) Contains(path Path) bool {
	_, ok := r.EntryFor(path)
	return ok
}

// ReferencedEntries returns the referenced entries carried over from the classpath file.
func (r *ResolvedClasspath) ReferencedEntries() Entries {
	if r == nil {
		return nil
	}
	return slices.Clone(r.referenced)
}

// OutputLocation returns the project's default output location.
func (r *ResolvedClasspath) OutputLocation() Path {
	if r == nil {
		return ""
	}
	return r.output
}

// Status returns the unresolved entry status.
func (r *ResolvedClasspath) Status() Status {
	if r == nil {
		return OKStatus()
	}
	return r.status
}

// Equal reports whether two resolved classpaths hold the same entries in the same order.
func (r *ResolvedClasspath) Equal(o *ResolvedClasspath) bool {
	return Entries(r.Entries()).Equal(o.Entries()) && r.OutputLocation() == o.OutputLocation()
}

// ResolvedBuilder accumulates a ResolvedClasspath. First occurrence of a path wins.
type ResolvedBuilder struct {
	r        *ResolvedClasspath
	statuses []Status
}

// NewResolvedBuilder creates an empty builder.
func NewResolvedBuilder() *ResolvedBuilder {
	return &ResolvedBuilder{
		r: &ResolvedClasspath{
			rawByPath: make(map[Path]ClasspathEntry),
			byPath:    make(map[Path]ClasspathEntry),
		},
	}
}

// Add appends a resolved entry produced from raw. It reports false and drops the
// entry when its path is already on the classpath.
func (b *ResolvedBuilder) Add(raw, resolved ClasspathEntry) bool {
	path := resolved.Path()
	if _, dup := b.r.byPath[path]; dup {
		return false
	}
	b.r.rawByPath[path] = raw
	b.r.byPath[path] = resolved
	b.r.entries = append(b.r.entries, resolved)
	return true
}

// Has reports whether a path was already added.
func (b *ResolvedBuilder) Has(path Path) bool {
	_, ok := b.r.byPath[path]
	return ok
}

// SetOutputLocation records the output location.
func (b *ResolvedBuilder) SetOutputLocation(path Path) {
	b.r.output = path
}

// SetReferencedEntries records the referenced entries.
func (b *ResolvedBuilder) SetReferencedEntries(entries []ClasspathEntry) {
	b.r.referenced = slices.Clone(entries)
}

// Report records a problem. OK statuses are ignored.
func (b *ResolvedBuilder) Report(s Status) {
	if s.IsOK() {
		return
	}
	b.statuses = append(b.statuses, s)
}

// Build returns the resolved classpath. The builder must not be used afterwards.
func (b *ResolvedBuilder) Build() *ResolvedClasspath {
	b.r.status = MergeStatus(b.statuses...)
	return b.r
}
