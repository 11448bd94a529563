package domain

import (
	"fmt"
	"strings"
)

// ResourceDeltaKind is the kind of change a resource went through.
type ResourceDeltaKind uint8

const (
	// ResourceAdded marks a new resource.
	ResourceAdded ResourceDeltaKind = iota + 1
	// ResourceRemoved marks a deleted resource.
	ResourceRemoved
	// ResourceChanged marks a resource whose content, flags or children changed.
	ResourceChanged
)

// ResourceFlags describe what changed on a resource.
type ResourceFlags uint32

const (
	// FlagContent means the file content changed.
	FlagContent ResourceFlags = 1 << iota
	// FlagEncoding means the file encoding changed.
	FlagEncoding
	// FlagMovedFrom means the resource was moved here from MovedFromPath.
	FlagMovedFrom
	// FlagMovedTo means the resource was moved to MovedToPath.
	FlagMovedTo
	// FlagLocalChanged means the local file system state changed.
	FlagLocalChanged
	// FlagDescription means a project description changed.
	FlagDescription
	// FlagOpen means a project was opened or closed.
	FlagOpen
	// FlagSync means synchronization state changed.
	FlagSync
	// FlagMarkers means markers changed.
	FlagMarkers
)

// ResourceType is the type of a resource.
type ResourceType uint8

const (
	// TypeFile is a file.
	TypeFile ResourceType = iota + 1
	// TypeFolder is a folder.
	TypeFolder
	// TypeProject is a project.
	TypeProject
	// TypeRoot is the workspace root.
	TypeRoot
)

// ResourceDelta is one node of a resource change tree rooted at the workspace.
type ResourceDelta struct {
	Kind          ResourceDeltaKind
	Flags         ResourceFlags
	Path          Path
	Type          ResourceType
	MovedFromPath Path
	MovedToPath   Path
	Children      []*ResourceDelta
}

// Name returns the last segment of the resource path.
func (d *ResourceDelta) Name() string {
	return d.Path.LastSegment()
}

// Has reports whether all of the given flags are set.
func (d *ResourceDelta) Has(flags ResourceFlags) bool {
	return d.Flags&flags == flags
}

// IsFolderLike reports whether the resource can have children.
func (d *ResourceDelta) IsFolderLike() bool {
	return d.Type != TypeFile
}

// FindMember returns the descendant delta for a path, or nil.
func (d *ResourceDelta) FindMember(path Path) *ResourceDelta {
	if d.Path == path {
		return d
	}
	if !d.Path.IsPrefixOf(path) {
		return nil
	}
	for _, c := range d.Children {
		if found := c.FindMember(path); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the delta and its descendants depth first until visit returns false.
func (d *ResourceDelta) Walk(visit func(*ResourceDelta) bool) bool {
	if !visit(d) {
		return false
	}
	for _, c := range d.Children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// String renders the delta in the form "/P/src/A.java[+]".
func (d *ResourceDelta) String() string {
	var b strings.Builder
	d.write(&b, 0)
	return b.String()
}

func (d *ResourceDelta) write(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("\t", depth))
	fmt.Fprintf(b, "%s[%s]", d.Path, d.Kind.symbol())
	for _, c := range d.Children {
		b.WriteString("\n")
		c.write(b, depth+1)
	}
}

func (k ResourceDeltaKind) symbol() string {
	switch k {
	case ResourceAdded:
		return "+"
	case ResourceRemoved:
		return "-"
	case ResourceChanged:
		return "*"
	default:
		return "?"
	}
}
