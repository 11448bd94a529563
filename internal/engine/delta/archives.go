package delta

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"sync"
	"time"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// statParallelism bounds the concurrent stat calls of an archive check.
const statParallelism = 8

type archiveStamp struct {
	modTime time.Time
	size    int64
}

// archiveStamps remembers the last seen stamp of each external archive.
type archiveStamps struct {
	mu     sync.Mutex
	stamps map[domain.Path]archiveStamp
}

func newArchiveStamps() *archiveStamps {
	return &archiveStamps{stamps: make(map[domain.Path]archiveStamp)}
}

type archiveState uint8

const (
	archiveMissing archiveState = iota
	archivePresent
	archiveUnreachable
)

type archiveProbe struct {
	state archiveState
	stamp archiveStamp
}

// CheckExternalArchives compares the external archives on the resolved
// classpaths of the open Java projects against their remembered stamps.
// Added, changed and removed archives are reported as root deltas, fired to
// the post-change listeners and reindexed. The fired delta is returned.
func (m *Manager) CheckExternalArchives(ctx context.Context) (*domain.ElementDelta, error) {
	ctx, span := m.tracer.Start(ctx, "delta.check_external_archives")
	defer span.End()

	m.pass.Lock()
	users := m.externalArchives(ctx)
	paths := make([]domain.Path, 0, len(users))
	for path := range users {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	span.SetAttribute("archives", len(paths))

	probes := make([]archiveProbe, len(paths))
	var g errgroup.Group
	g.SetLimit(statParallelism)
	for i, path := range paths {
		g.Go(func() error {
			probes[i] = m.probe(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.pass.Unlock()
		span.RecordError(err)
		return nil, err
	}

	delta := domain.NewElementDelta(domain.ModelElement())
	m.archives.mu.Lock()
	for i, path := range paths {
		old, known := m.archives.stamps[path]
		probe := probes[i]

		var kind domain.DeltaKind
		switch {
		case probe.state == archiveUnreachable:
			continue
		case probe.state == archivePresent && !known:
			kind = domain.DeltaAdded
			m.archives.stamps[path] = probe.stamp
		case probe.state == archivePresent && old != probe.stamp:
			kind = domain.DeltaChanged
			m.archives.stamps[path] = probe.stamp
		case probe.state == archiveMissing && known:
			kind = domain.DeltaRemoved
			delete(m.archives.stamps, path)
		default:
			continue
		}
		m.archiveChanged(delta, path, users[path], kind)
	}
	m.archives.mu.Unlock()
	m.pass.Unlock()

	m.enqueue(delta)
	return m.fire(ctx, ports.EventPostChange), nil
}

// externalArchives maps every external archive on a resolved classpath to the
// projects using it.
func (m *Manager) externalArchives(ctx context.Context) map[domain.Path][]string {
	users := make(map[domain.Path][]string)
	for _, p := range m.ws.Projects() {
		if !p.Open || !p.JavaNature {
			continue
		}
		res, err := m.engine.Resolve(ctx, p.Name)
		if err != nil {
			m.logger.Error(err)
			continue
		}
		for _, entry := range res.Entries() {
			if entry.Kind() != domain.EntryLibrary || !entry.Path().IsArchive() {
				continue
			}
			if _, internal := m.ws.Location(entry.Path()); internal {
				continue
			}
			users[entry.Path()] = append(users[entry.Path()], p.Name)
		}
	}
	return users
}

func (m *Manager) probe(path domain.Path) archiveProbe {
	osPath, _ := m.ws.Location(path)
	st, err := m.ws.Stat(osPath)
	switch {
	case err == nil && !st.IsDir:
		return archiveProbe{state: archivePresent, stamp: archiveStamp{modTime: st.ModTime, size: st.Size}}
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return archiveProbe{state: archiveMissing}
	default:
		return archiveProbe{state: archiveUnreachable}
	}
}

func (m *Manager) archiveChanged(delta *domain.ElementDelta, path domain.Path, projects []string, kind domain.DeltaKind) {
	m.engine.ArchiveChanged(path)
	for _, project := range projects {
		root := domain.RootElement(project, path)
		switch kind {
		case domain.DeltaAdded:
			delta.Added(root, 0)
			m.Model().AddChild(root)
		case domain.DeltaChanged:
			delta.Changed(root, domain.FContent|domain.FArchiveContentChanged)
			m.Model().Close(root)
		case domain.DeltaRemoved:
			delta.Removed(root, 0)
			m.Model().Remove(root)
		}
		m.engine.Table().ResetWithDependents(project)
	}
	m.roots.markStale()

	if kind == domain.DeltaRemoved {
		m.indexer.DiscardJobs(path.String())
		m.indexer.RemoveIndex(path)
		return
	}
	m.indexer.IndexLibrary(path, projects[0], "")
}
