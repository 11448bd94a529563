// Package model holds the in-memory element tree of the Java workspace.
//
// Elements live in an arena and are addressed by IDs that stay stable for the
// lifetime of the element. The children of an element are only known once the
// element was opened; opened infos of roots, packages and files are kept in an
// LRU and dropped when the cache is full.
package model

import (
	"cmp"
	"container/list"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
)

// DefaultCapacity is the number of opened infos kept when no capacity is given.
const DefaultCapacity = 5000

// ID addresses an element in the arena. The zero ID is never assigned.
type ID uint32

// Info is the opened state of an element.
type Info struct {
	// Children are the child elements in discovery order.
	Children []ID
	// NonJava are the resources attached to the element that are not Java elements.
	NonJava []domain.Path
}

func (i Info) clone() Info {
	return Info{Children: slices.Clone(i.Children), NonJava: slices.Clone(i.NonJava)}
}

type slot struct {
	element domain.Element
	parent  ID
	// kids are the registered children, opened or not.
	kids  map[ID]struct{}
	alive bool
}

type lruEntry struct {
	id   ID
	info Info
}

// Model is the element arena. It is safe for concurrent use.
type Model struct {
	mu       sync.Mutex
	slots    []slot
	free     []ID
	ids      map[string]ID
	pinned   map[ID]Info
	opened   map[ID]*list.Element
	lru      *list.List
	capacity int
	working  map[ID]struct{}
}

// New creates a model keeping at most capacity opened infos of roots,
// packages and files. The model and project infos are never evicted.
func New(capacity int) *Model {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Model{
		slots:    make([]slot, 1),
		ids:      make(map[string]ID),
		pinned:   make(map[ID]Info),
		opened:   make(map[ID]*list.Element),
		lru:      list.New(),
		capacity: capacity,
		working:  make(map[ID]struct{}),
	}
	m.intern(domain.ModelElement())
	return m
}

// Handle returns the ID of an element, registering it and its ancestors on first use.
func (m *Model) Handle(e domain.Element) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intern(e)
}

// Lookup returns the ID of a registered element.
func (m *Model) Lookup(e domain.Element) (ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[e.Key()]
	return id, ok
}

// Element returns the element addressed by id.
func (m *Model) Element(id ID) (domain.Element, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid(id) {
		return domain.Element{}, false
	}
	return m.slots[id].element, true
}

// Parent returns the ID of the parent of id. The model root has no parent.
func (m *Model) Parent(id ID) (ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.valid(id) || m.slots[id].parent == 0 {
		return 0, false
	}
	return m.slots[id].parent, true
}

// Len returns the number of registered elements.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ids)
}

// OpenCount returns the number of opened infos, pinned ones included.
func (m *Model) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pinned) + m.lru.Len()
}

// Open stores the opened info of an element, replacing a previous one.
func (m *Model) Open(e domain.Element, info Info) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.intern(e)
	m.put(id, info.clone())
	return id
}

// Info returns the opened info of an element and marks it recently used.
func (m *Model) Info(e domain.Element) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[e.Key()]
	if !ok {
		return Info{}, false
	}
	info, ok := m.get(id)
	if !ok {
		return Info{}, false
	}
	return info.clone(), true
}

// IsOpen reports whether an element has an opened info.
func (m *Model) IsOpen(e domain.Element) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[e.Key()]
	if !ok {
		return false
	}
	_, pinned := m.pinned[id]
	_, opened := m.opened[id]
	return pinned || opened
}

// Children returns the child elements of an opened element.
func (m *Model) Children(e domain.Element) ([]domain.Element, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[e.Key()]
	if !ok {
		return nil, false
	}
	info, ok := m.get(id)
	if !ok {
		return nil, false
	}
	out := make([]domain.Element, 0, len(info.Children))
	for _, c := range info.Children {
		if m.valid(c) {
			out = append(out, m.slots[c].element)
		}
	}
	return out, true
}

// AddChild registers child under its parent. The parent's children only
// change when the parent is opened.
func (m *Model) AddChild(child domain.Element) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.intern(child)
	parent := m.slots[id].parent
	m.update(parent, func(info *Info) {
		if !slices.Contains(info.Children, id) {
			info.Children = append(info.Children, id)
		}
	})
	return id
}

// Close drops the opened info of an element and of every opened descendant.
func (m *Model) Close(e domain.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[e.Key()]; ok {
		m.closeTree(id)
	}
}

// Remove closes an element, detaches it from its parent and releases its ID
// and the IDs of its descendants for reuse.
func (m *Model) Remove(e domain.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[e.Key()]
	if !ok || id == m.ids[domain.ModelElement().Key()] {
		return
	}
	subtree := m.subtree(id)
	m.closeIDs(subtree)
	parent := m.slots[id].parent
	m.update(parent, func(info *Info) {
		info.Children = slices.DeleteFunc(info.Children, func(c ID) bool { return c == id })
	})
	delete(m.slots[parent].kids, id)
	for _, other := range subtree {
		m.release(other)
	}
}

// AddNonJava attaches a non-Java resource to an opened element.
func (m *Model) AddNonJava(e domain.Element, path domain.Path) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[e.Key()]; ok {
		m.update(id, func(info *Info) {
			if !slices.Contains(info.NonJava, path) {
				info.NonJava = append(info.NonJava, path)
			}
		})
	}
}

// RemoveNonJava detaches a non-Java resource from an opened element.
func (m *Model) RemoveNonJava(e domain.Element, path domain.Path) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[e.Key()]; ok {
		m.update(id, func(info *Info) {
			info.NonJava = slices.DeleteFunc(info.NonJava, func(p domain.Path) bool { return p == path })
		})
	}
}

// BecomeWorkingCopy registers a compilation unit as a working copy.
func (m *Model) BecomeWorkingCopy(e domain.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working[m.intern(e)] = struct{}{}
}

// DiscardWorkingCopy unregisters a working copy.
func (m *Model) DiscardWorkingCopy(e domain.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[e.Key()]; ok {
		delete(m.working, id)
	}
}

// IsWorkingCopy reports whether a compilation unit is a working copy.
func (m *Model) IsWorkingCopy(e domain.Element) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[e.Key()]
	if !ok {
		return false
	}
	_, ok = m.working[id]
	return ok
}

// WorkingCopies returns the registered working copies.
func (m *Model) WorkingCopies() []domain.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Element, 0, len(m.working))
	for id := range m.working {
		out = append(out, m.slots[id].element)
	}
	slices.SortFunc(out, func(a, b domain.Element) int { return cmp.Compare(a.Path, b.Path) })
	return out
}

func (m *Model) intern(e domain.Element) ID {
	key := e.Key()
	if id, ok := m.ids[key]; ok {
		return id
	}
	var parent ID
	if e.Type != domain.ElementModel {
		parent = m.intern(e.Parent())
	}
	id := m.allocate()
	m.slots[id] = slot{element: e, parent: parent, alive: true}
	if parent != 0 {
		if m.slots[parent].kids == nil {
			m.slots[parent].kids = make(map[ID]struct{})
		}
		m.slots[parent].kids[id] = struct{}{}
	}
	m.ids[key] = id
	return id
}

func (m *Model) allocate() ID {
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		return id
	}
	m.slots = append(m.slots, slot{})
	return ID(len(m.slots) - 1)
}

func (m *Model) valid(id ID) bool {
	return id > 0 && int(id) < len(m.slots) && m.slots[id].alive
}

func (m *Model) release(id ID) {
	s := &m.slots[id]
	delete(m.ids, s.element.Key())
	delete(m.working, id)
	delete(m.pinned, id)
	if el, ok := m.opened[id]; ok {
		m.lru.Remove(el)
		delete(m.opened, id)
	}
	*s = slot{}
	m.free = append(m.free, id)
}

// subtree returns root and its registered descendants, parents first.
func (m *Model) subtree(root ID) []ID {
	out := []ID{root}
	for i := 0; i < len(out); i++ {
		for kid := range m.slots[out[i]].kids {
			out = append(out, kid)
		}
	}
	return out
}

func isPinned(e domain.Element) bool {
	return e.Type == domain.ElementModel || e.Type == domain.ElementProject
}

func (m *Model) put(id ID, info Info) {
	if isPinned(m.slots[id].element) {
		m.pinned[id] = info
		return
	}
	if el, ok := m.opened[id]; ok {
		el.Value.(*lruEntry).info = info
		m.lru.MoveToFront(el)
		return
	}
	m.opened[id] = m.lru.PushFront(&lruEntry{id: id, info: info})
	for m.lru.Len() > m.capacity {
		oldest := m.lru.Back()
		m.lru.Remove(oldest)
		delete(m.opened, oldest.Value.(*lruEntry).id)
	}
}

func (m *Model) get(id ID) (Info, bool) {
	if info, ok := m.pinned[id]; ok {
		return info, true
	}
	el, ok := m.opened[id]
	if !ok {
		return Info{}, false
	}
	m.lru.MoveToFront(el)
	return el.Value.(*lruEntry).info, true
}

// update edits the opened info of id in place; closed elements are left alone.
func (m *Model) update(id ID, edit func(*Info)) {
	if info, ok := m.pinned[id]; ok {
		edit(&info)
		m.pinned[id] = info
		return
	}
	if el, ok := m.opened[id]; ok {
		edit(&el.Value.(*lruEntry).info)
	}
}

func (m *Model) closeTree(root ID) {
	m.closeIDs(m.subtree(root))
}

func (m *Model) closeIDs(ids []ID) {
	for _, id := range ids {
		delete(m.pinned, id)
		if el, ok := m.opened[id]; ok {
			m.lru.Remove(el)
			delete(m.opened, id)
		}
	}
}
