package domain

import (
	"slices"
	"strings"
)

// DeltaKind is the kind of change an element went through.
type DeltaKind uint8

const (
	// DeltaAdded marks an added element.
	DeltaAdded DeltaKind = iota + 1
	// DeltaRemoved marks a removed element.
	DeltaRemoved
	// DeltaChanged marks a changed element.
	DeltaChanged
)

// ElementFlags describe how an element changed.
type ElementFlags uint32

const (
	// FContent means the element content changed.
	FContent ElementFlags = 1 << iota
	// FChildren means children of the element changed.
	FChildren
	// FOpened means a project was opened.
	FOpened
	// FClosed means a project was closed.
	FClosed
	// FMovedFrom means the element was moved from MovedFromElement.
	FMovedFrom
	// FMovedTo means the element was moved to MovedToElement.
	FMovedTo
	// FAddedToClasspath means a root was added to its project's classpath.
	FAddedToClasspath
	// FRemovedFromClasspath means a root was removed from its project's classpath.
	FRemovedFromClasspath
	// FReorder means a root moved within its project's classpath.
	FReorder
	// FArchiveContentChanged means an archive root's content changed.
	FArchiveContentChanged
	// FPrimaryResource means the resource underneath a working copy changed.
	FPrimaryResource
	// FClasspathChanged means a project's raw classpath changed.
	FClasspathChanged
	// FResolvedClasspathChanged means a project's resolved classpath changed.
	FResolvedClasspathChanged
)

var flagNames = []struct {
	flag ElementFlags
	name string
}{
	{FChildren, "CHILDREN"},
	{FContent, "CONTENT"},
	{FMovedFrom, "MOVED_FROM"},
	{FMovedTo, "MOVED_TO"},
	{FAddedToClasspath, "ADDED TO CLASSPATH"},
	{FRemovedFromClasspath, "REMOVED FROM CLASSPATH"},
	{FReorder, "REORDERED"},
	{FArchiveContentChanged, "ARCHIVE CONTENT CHANGED"},
	{FOpened, "OPENED"},
	{FClosed, "CLOSED"},
	{FPrimaryResource, "PRIMARY RESOURCE"},
	{FClasspathChanged, "CLASSPATH CHANGED"},
	{FResolvedClasspathChanged, "RESOLVED CLASSPATH CHANGED"},
}

// ElementDelta is a node of a delta tree mirroring the element hierarchy.
type ElementDelta struct {
	element   Element
	kind      DeltaKind
	flags     ElementFlags
	movedFrom Element
	movedTo   Element
	children  []*ElementDelta
	resources []*ResourceDelta
}

// NewElementDelta creates an empty delta rooted at element.
func NewElementDelta(element Element) *ElementDelta {
	return &ElementDelta{element: element}
}

// Element returns the element the delta describes.
func (d *ElementDelta) Element() Element { return d.element }

// Kind returns the change kind; zero for a delta nothing was recorded on.
func (d *ElementDelta) Kind() DeltaKind { return d.kind }

// Flags returns the change flags.
func (d *ElementDelta) Flags() ElementFlags { return d.flags }

// HasFlags reports whether all of the given flags are set.
func (d *ElementDelta) HasFlags(flags ElementFlags) bool { return d.flags&flags == flags }

// MovedFromElement returns the source of a move, if FMovedFrom is set.
func (d *ElementDelta) MovedFromElement() Element { return d.movedFrom }

// MovedToElement returns the destination of a move, if FMovedTo is set.
func (d *ElementDelta) MovedToElement() Element { return d.movedTo }

// AffectedChildren returns the child deltas.
func (d *ElementDelta) AffectedChildren() []*ElementDelta { return slices.Clone(d.children) }

// ResourceDeltas returns the non-Java resource deltas attached to the element.
func (d *ElementDelta) ResourceDeltas() []*ResourceDelta { return slices.Clone(d.resources) }

// IsEmpty reports whether nothing was recorded on the delta tree.
func (d *ElementDelta) IsEmpty() bool {
	return d.kind == 0 && d.flags == 0 && len(d.children) == 0 && len(d.resources) == 0
}

// Find returns the delta node of an element, or nil.
func (d *ElementDelta) Find(element Element) *ElementDelta {
	if d.element == element {
		return d
	}
	for _, c := range d.children {
		if found := c.Find(element); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the delta and its descendants depth first until visit returns false.
func (d *ElementDelta) Walk(visit func(*ElementDelta) bool) bool {
	if !visit(d) {
		return false
	}
	for _, c := range d.children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// Added records that element was added.
func (d *ElementDelta) Added(element Element, flags ElementFlags) {
	added := &ElementDelta{element: element, kind: DeltaAdded, flags: flags}
	d.InsertDeltaTree(element, added)
}

// Removed records that element was removed, dropping whatever was recorded below it.
func (d *ElementDelta) Removed(element Element, flags ElementFlags) {
	removed := &ElementDelta{element: element, kind: DeltaRemoved, flags: flags}
	d.InsertDeltaTree(element, removed)
	if actual := d.Find(element); actual != nil {
		actual.kind = DeltaRemoved
		actual.flags |= flags
		actual.children = nil
	}
}

// Changed records that element changed and returns its delta node.
func (d *ElementDelta) Changed(element Element, flags ElementFlags) *ElementDelta {
	changed := &ElementDelta{element: element, kind: DeltaChanged, flags: flags}
	d.InsertDeltaTree(element, changed)
	if actual := d.Find(element); actual != nil {
		return actual
	}
	return changed
}

// MovedFrom records that movedFrom was moved to movedTo. The removed side carries FMovedTo.
func (d *ElementDelta) MovedFrom(movedFrom, movedTo Element) {
	removed := &ElementDelta{element: movedFrom, kind: DeltaRemoved, flags: FMovedTo, movedTo: movedTo}
	d.InsertDeltaTree(movedFrom, removed)
}

// MovedTo records that movedTo was moved from movedFrom. The added side carries FMovedFrom.
func (d *ElementDelta) MovedTo(movedTo, movedFrom Element) {
	added := &ElementDelta{element: movedTo, kind: DeltaAdded, flags: FMovedFrom, movedFrom: movedFrom}
	d.InsertDeltaTree(movedTo, added)
}

// Opened records that a project was opened.
func (d *ElementDelta) Opened(element Element) {
	d.Changed(element, FOpened)
}

// Closed records that a project was closed.
func (d *ElementDelta) Closed(element Element) {
	d.Changed(element, FClosed)
}

// AddResourceDelta attaches a non-Java resource delta to this node.
func (d *ElementDelta) AddResourceDelta(rd *ResourceDelta) {
	switch d.kind {
	case DeltaAdded, DeltaRemoved:
		return
	case DeltaChanged:
		d.flags |= FContent
	default:
		d.kind = DeltaChanged
		d.flags |= FContent
	}
	d.resources = append(d.resources, rd)
}

// InsertDeltaTree inserts delta for element, creating changed ancestors between
// this node and the element as needed.
func (d *ElementDelta) InsertDeltaTree(element Element, delta *ElementDelta) {
	if element == d.element {
		d.absorb(delta)
		return
	}

	chain := element.Ancestors()
	start := slices.Index(chain, d.element)
	if start >= 0 {
		chain = chain[start+1:]
	}

	child := delta
	for i := len(chain) - 1; i >= 0; i-- {
		parent := NewElementDelta(chain[i])
		parent.addAffectedChild(child)
		child = parent
	}
	d.addAffectedChild(child)
}

// absorb merges a delta for the same element into this node.
func (d *ElementDelta) absorb(o *ElementDelta) {
	if o.kind != 0 {
		d.kind = o.kind
	}
	d.flags |= o.flags
	if !o.movedFrom.IsZero() {
		d.movedFrom = o.movedFrom
	}
	if !o.movedTo.IsZero() {
		d.movedTo = o.movedTo
	}
	for _, c := range o.children {
		d.addAffectedChild(c)
	}
	d.resources = append(d.resources, o.resources...)
}

func (d *ElementDelta) addAffectedChild(child *ElementDelta) {
	switch d.kind {
	case DeltaAdded, DeltaRemoved:
		return
	case DeltaChanged:
		d.flags |= FChildren
	default:
		d.kind = DeltaChanged
		d.flags |= FChildren
	}

	idx := slices.IndexFunc(d.children, func(c *ElementDelta) bool { return c.element == child.element })
	if idx < 0 {
		d.children = append(d.children, child)
		return
	}

	existing := d.children[idx]
	switch existing.kind {
	case DeltaAdded:
		if child.kind == DeltaRemoved {
			// added then removed: nothing happened
			d.children = slices.Delete(d.children, idx, idx+1)
		}
	case DeltaRemoved:
		if child.kind == DeltaAdded {
			// removed then added: the element changed
			child.kind = DeltaChanged
			child.flags |= FContent
			d.children[idx] = child
		}
	case DeltaChanged:
		switch child.kind {
		case DeltaAdded, DeltaRemoved:
			d.children[idx] = child
		case DeltaChanged:
			for _, grandchild := range child.children {
				existing.addAffectedChild(grandchild)
			}
			childHadContent := child.flags&FContent != 0
			existingHadChildren := existing.flags&FChildren != 0
			existing.flags |= child.flags
			if childHadContent && existingHadChildren {
				existing.flags &^= FContent
			}
			if len(child.resources) > 0 {
				existing.resources = child.resources
			}
		}
	default:
		d.children[idx] = child
	}
}

// String renders the delta tree in the "name[+]: {FLAGS}" debug form.
func (d *ElementDelta) String() string {
	var b strings.Builder
	d.write(&b, 0)
	return b.String()
}

func (d *ElementDelta) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("\t", depth)
	b.WriteString(indent)
	b.WriteString(d.element.Name())
	b.WriteString("[")
	switch d.kind {
	case DeltaAdded:
		b.WriteString("+")
	case DeltaRemoved:
		b.WriteString("-")
	case DeltaChanged:
		b.WriteString("*")
	default:
		b.WriteString("?")
	}
	b.WriteString("]: {")
	b.WriteString(d.flagString())
	b.WriteString("}")

	for _, c := range d.children {
		b.WriteString("\n")
		c.write(b, depth+1)
	}
	for _, rd := range d.resources {
		b.WriteString("\n")
		b.WriteString(indent + "\t")
		b.WriteString("ResourceDelta(" + string(rd.Path) + ")[" + rd.Kind.symbol() + "]")
	}
}

func (d *ElementDelta) flagString() string {
	var parts []string
	for _, f := range flagNames {
		if d.flags&f.flag == 0 {
			continue
		}
		switch f.flag {
		case FMovedFrom:
			parts = append(parts, f.name+"("+d.movedFrom.Name()+")")
		case FMovedTo:
			parts = append(parts, f.name+"("+d.movedTo.Name()+")")
		default:
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, " | ")
}
