// Package delta turns resource changes into Java element deltas and keeps the
// element model, the root table and the caches consistent with the workspace.
package delta

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.trai.ch/jmodel/internal/engine/model"
)

// Manager processes resource deltas and notifies delta listeners.
//
// Processing passes are serialized; each pass runs a fresh processor confined
// to the calling goroutine.
type Manager struct {
	ws      ports.Workspace
	engine  *classpath.Engine
	indexer ports.Indexer
	tracer  ports.Tracer
	logger  ports.Logger

	// elements is swapped by Sync and read without holding pass.
	elements  atomic.Pointer[model.Model]
	roots     *rootState
	listeners *listeners
	archives  *archiveStamps

	pass sync.Mutex
	// javaProjects holds the open Java projects seen by the last pass. Guarded by pass.
	javaProjects map[string]bool

	mu    sync.Mutex
	queue []*domain.ElementDelta
}

// New creates a Manager. The open Java projects of the workspace at this point
// are taken as known.
func New(
	ws ports.Workspace,
	engine *classpath.Engine,
	indexer ports.Indexer,
	tracer ports.Tracer,
	logger ports.Logger,
) *Manager {
	m := &Manager{
		ws:        ws,
		engine:    engine,
		indexer:   indexer,
		tracer:    tracer,
		logger:    logger,
		roots:     newRootState(),
		listeners: &listeners{logger: logger},
		archives:  newArchiveStamps(),
	}
	m.elements.Store(model.New(model.DefaultCapacity))
	m.javaProjects = m.openJavaProjects()
	return m
}

// Sync takes the open Java projects of the workspace as known and drops the
// element model and the root table. It is called after the workspace was
// rooted somewhere else.
func (m *Manager) Sync() {
	m.pass.Lock()
	defer m.pass.Unlock()
	m.javaProjects = m.openJavaProjects()
	m.elements.Store(model.New(model.DefaultCapacity))
	m.roots = newRootState()
	m.archives = newArchiveStamps()
}

func (m *Manager) openJavaProjects() map[string]bool {
	known := make(map[string]bool)
	for _, p := range m.ws.Projects() {
		if p.Open && p.JavaNature {
			known[p.Name] = true
		}
	}
	return known
}

// Model returns the element model.
func (m *Manager) Model() *model.Model { return m.elements.Load() }

// Subscribe registers a listener for the event types in mask. A zero mask
// subscribes to every event type.
func (m *Manager) Subscribe(listener ports.DeltaListener, mask ports.EventType) uuid.UUID {
	return m.listeners.add(listener, mask)
}

// Unsubscribe removes a listener. It reports whether the subscription existed.
func (m *Manager) Unsubscribe(id uuid.UUID) bool {
	return m.listeners.remove(id)
}

// Roots returns the current root table, rebuilding it first when it is stale.
func (m *Manager) Roots(ctx context.Context) *RootTable {
	m.pass.Lock()
	defer m.pass.Unlock()
	m.roots.refresh(ctx, m.buildRoots)
	m.roots.settle()
	current, _ := m.roots.tables()
	return current
}

// ResourceChanged translates a resource delta rooted at the workspace root into
// an element delta, fires it to the post-change listeners and returns it. It
// returns nil when nothing Java related changed.
func (m *Manager) ResourceChanged(ctx context.Context, rd *domain.ResourceDelta) (*domain.ElementDelta, error) {
	if rd == nil {
		return nil, nil
	}
	if rd.Type != domain.TypeRoot {
		rd = &domain.ResourceDelta{Kind: domain.ResourceChanged, Path: "/", Type: domain.TypeRoot, Children: []*domain.ResourceDelta{rd}}
	}
	if !isAffectedBy(rd) {
		return nil, nil
	}

	ctx, span := m.tracer.Start(ctx, "delta.resource_changed", ports.WithAttribute("projects", len(rd.Children)))
	defer span.End()

	m.pass.Lock()
	p := newProcessor(m)
	p.run(ctx, rd)
	m.roots.settle()
	m.pass.Unlock()

	m.enqueue(p.delta)
	fired := m.fire(ctx, ports.EventPostChange)
	span.SetAttribute("fired", fired != nil)
	return fired, nil
}

// isAffectedBy reports whether rd holds a change beyond marker and
// synchronization updates. Flags are only inspected on leaf deltas.
func isAffectedBy(rd *domain.ResourceDelta) bool {
	switch rd.Kind {
	case domain.ResourceAdded, domain.ResourceRemoved:
		return true
	}
	if len(rd.Children) == 0 {
		return rd.Flags&^(domain.FlagMarkers|domain.FlagSync) != 0
	}
	for _, child := range rd.Children {
		if isAffectedBy(child) {
			return true
		}
	}
	return false
}

// Reconciled notifies the post-reconcile listeners of a working copy delta.
func (m *Manager) Reconciled(ctx context.Context, delta *domain.ElementDelta) {
	if delta == nil || delta.IsEmpty() {
		return
	}
	m.listeners.notify(ctx, ports.ElementChangedEvent{Delta: delta, Type: ports.EventPostReconcile})
}

// Children returns the children of an element, opening it on first use.
func (m *Manager) Children(ctx context.Context, element domain.Element) ([]domain.Element, error) {
	if children, ok := m.Model().Children(element); ok {
		return children, nil
	}

	m.pass.Lock()
	defer m.pass.Unlock()
	elements := m.Model()
	m.roots.refresh(ctx, m.buildRoots)
	m.roots.settle()

	children, nonJava, err := m.open(element)
	if err != nil {
		return nil, err
	}
	info := model.Info{NonJava: nonJava}
	for _, c := range children {
		info.Children = append(info.Children, elements.Handle(c))
	}
	elements.Open(element, info)
	return children, nil
}

func (m *Manager) isJavaProject(name string) bool {
	return m.javaProjects[name]
}

func (m *Manager) setJavaProject(name string, java bool) {
	if java {
		m.javaProjects[name] = true
		return
	}
	delete(m.javaProjects, name)
}

func (m *Manager) enqueue(delta *domain.ElementDelta) {
	if delta == nil || delta.IsEmpty() {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, delta)
	m.mu.Unlock()
}

// fire merges the queued deltas and notifies the listeners of type.
func (m *Manager) fire(ctx context.Context, typ ports.EventType) *domain.ElementDelta {
	m.mu.Lock()
	queued := m.queue
	m.queue = nil
	m.mu.Unlock()

	if len(queued) == 0 {
		return nil
	}
	merged := domain.NewElementDelta(domain.ModelElement())
	for _, d := range queued {
		merged.InsertDeltaTree(domain.ModelElement(), d)
	}
	if merged.IsEmpty() {
		return nil
	}
	m.listeners.notify(ctx, ports.ElementChangedEvent{Delta: merged, Type: typ})
	return merged
}

// buildRoots computes the root table from the resolved classpaths of the open
// Java projects.
func (m *Manager) buildRoots(ctx context.Context) *RootTable {
	table := NewRootTable()
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
			switch entry.Kind() {
			case domain.EntrySource, domain.EntryLibrary:
				table.Add(domain.NewRootInfo(p.Name, entry))
			}
		}
	}
	return table
}
