package classpath

import (
	"context"
	"slices"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
)

// ChangeResult tells what a classpath change contributed to a delta.
type ChangeResult uint8

const (
	// HasDelta means the change recorded something on the delta.
	HasDelta ChangeResult = 1 << iota
	// HasProjectChange means project references were added, removed or reordered.
	HasProjectChange
	// HasLibraryChange means libraries were added or removed.
	HasLibraryChange
)

// Change is the difference between the old and new classpath of a project.
type Change struct {
	engine *Engine

	Project     string
	OldRaw      domain.Entries
	NewRaw      domain.Entries
	OldOutput   domain.Path
	NewOutput   domain.Path
	OldResolved *domain.ResolvedClasspath

	newResolved *domain.ResolvedClasspath
}

// NewResolved returns the classpath resolved by Generate.
func (c *Change) NewResolved() *domain.ResolvedClasspath {
	return c.newResolved
}

// Generate resolves the new classpath and records the change on delta: the
// project is flagged with FClasspathChanged and FResolvedClasspathChanged and
// each affected root with FAddedToClasspath, FRemovedFromClasspath or FReorder.
func (c *Change) Generate(ctx context.Context, delta *domain.ElementDelta) (ChangeResult, error) {
	var result ChangeResult
	projectElement := domain.ProjectElement(c.Project)

	if !c.OldRaw.Equal(c.NewRaw) || c.OldOutput != c.NewOutput {
		delta.Changed(projectElement, domain.FClasspathChanged)
		result |= HasDelta

		for _, old := range c.OldRaw {
			if old.Kind() == domain.EntryContainer && c.NewRaw.IndexOf(domain.EntryContainer, old.Path()) < 0 {
				c.engine.containers.Reset(c.Project, old.Path())
			}
		}
	}

	res, err := c.engine.Resolve(ctx, c.Project)
	if err != nil {
		return result, err
	}
	c.newResolved = res

	if c.OldResolved == nil {
		delta.Changed(projectElement, domain.FResolvedClasspathChanged)
		return result | HasDelta, nil
	}
	if c.OldResolved.Equal(res) {
		return result, nil
	}
	delta.Changed(projectElement, domain.FResolvedClasspathChanged)
	result |= HasDelta

	oldEntries := c.OldResolved.Entries()
	newEntries := res.Entries()

	for i, old := range oldEntries {
		index := indexOfEntry(newEntries, old)
		switch {
		case index < 0:
			if old.Kind() == domain.EntryProject {
				result |= HasProjectChange
				continue
			}
			if old.Kind() == domain.EntryLibrary {
				result |= HasLibraryChange
			}
			delta.Changed(domain.RootElement(c.Project, old.Path()), domain.FRemovedFromClasspath)
		case index != i:
			if old.Kind() == domain.EntryProject {
				result |= HasProjectChange
				continue
			}
			delta.Changed(domain.RootElement(c.Project, old.Path()), domain.FReorder)
		}
	}

	for _, entry := range newEntries {
		if indexOfEntry(oldEntries, entry) >= 0 {
			continue
		}
		if entry.Kind() == domain.EntryProject {
			result |= HasProjectChange
			continue
		}
		if entry.Kind() == domain.EntryLibrary {
			result |= HasLibraryChange
		}
		delta.Changed(domain.RootElement(c.Project, entry.Path()), domain.FAddedToClasspath)
	}
	return result, nil
}

// RequestIndexing asks the indexer to drop the roots that left the classpath
// and to index the ones that joined it. It must run after Generate.
func (c *Change) RequestIndexing(indexer ports.Indexer) {
	if c.OldResolved == nil || c.newResolved == nil {
		indexer.IndexAll(c.Project)
		return
	}
	oldEntries := c.OldResolved.Entries()
	newEntries := c.newResolved.Entries()

	for _, old := range oldEntries {
		if indexOfEntry(newEntries, old) >= 0 {
			continue
		}
		switch old.Kind() {
		case domain.EntrySource:
			indexer.RemoveSourceFolder(c.Project, old.Path(), old.InclusionPatterns(), old.ExclusionPatterns())
		case domain.EntryLibrary:
			if !c.usedByOtherProject(old.Path()) {
				indexer.DiscardJobs(old.Path().String())
				indexer.RemoveIndex(old.Path())
			}
		}
	}

	for _, entry := range newEntries {
		if indexOfEntry(oldEntries, entry) >= 0 && entry.ReferencingEntry() == nil {
			continue
		}
		switch entry.Kind() {
		case domain.EntryLibrary:
			c.indexLibrary(indexer, oldEntries, entry)
		case domain.EntrySource:
			indexer.IndexSourceFolder(c.Project, entry.Path(), entry.InclusionPatterns(), entry.ExclusionPatterns())
		}
	}
}

// indexLibrary schedules a library unless it was already indexed from the
// same index location.
func (c *Change) indexLibrary(indexer ports.Indexer, oldEntries domain.Entries, entry domain.ClasspathEntry) {
	newLocation, hasNew := entry.ExtraAttribute(domain.AttributeIndexLocation)
	changed := true
	for _, old := range oldEntries {
		if old.Path() != entry.Path() {
			continue
		}
		oldLocation, hasOld := old.ExtraAttribute(domain.AttributeIndexLocation)
		switch {
		case !hasOld && !hasNew:
			changed = false
		case hasOld && hasNew:
			changed = oldLocation != newLocation
		case hasOld:
			indexer.RemoveIndex(entry.Path())
		}
		break
	}
	if changed {
		indexer.IndexLibrary(entry.Path(), c.Project, newLocation)
	}
}

// usedByOtherProject reports whether another project's resolved classpath holds path.
func (c *Change) usedByOtherProject(path domain.Path) bool {
	table := c.engine.table
	for _, name := range table.Projects() {
		if name == c.Project {
			continue
		}
		info, ok := table.Lookup(name)
		if !ok {
			continue
		}
		if res, ok := info.Resolved(); ok && res.Contains(path) {
			return true
		}
	}
	return false
}

func indexOfEntry(entries domain.Entries, entry domain.ClasspathEntry) int {
	return slices.IndexFunc(entries, func(e domain.ClasspathEntry) bool { return e.Equal(entry) })
}
