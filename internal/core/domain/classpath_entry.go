package domain

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// EntryKind is the kind of a classpath entry.
type EntryKind uint8

const (
	// EntrySource is a source folder of the project.
	EntrySource EntryKind = iota + 1
	// EntryLibrary is an archive or class folder.
	EntryLibrary
	// EntryProject references another project.
	EntryProject
	// EntryVariable is a library reached through a classpath variable.
	EntryVariable
	// EntryContainer is a named set of entries supplied by a container initializer.
	EntryContainer
	// EntryOutput is the pseudo entry holding the default output location.
	EntryOutput
)

// String returns the short name of the kind.
func (k EntryKind) String() string {
	switch k {
	case EntrySource:
		return "src"
	case EntryLibrary:
		return "lib"
	case EntryProject:
		return "prj"
	case EntryVariable:
		return "var"
	case EntryContainer:
		return "con"
	case EntryOutput:
		return "output"
	default:
		return "unknown"
	}
}

// rootIDTag returns the tag used in root identifiers.
func (k EntryKind) rootIDTag() string {
	switch k {
	case EntrySource:
		return "[SRC]"
	case EntryLibrary:
		return "[LIB]"
	case EntryProject:
		return "[PRJ]"
	case EntryVariable:
		return "[VAR]"
	case EntryContainer:
		return "[CON]"
	default:
		return "[OUT]"
	}
}

// ParseEntryKind parses the classpath file spelling of an entry kind.
// Project references are written with kind "src" and are told apart by the codec.
func ParseEntryKind(s string) (EntryKind, error) {
	switch s {
	case "src":
		return EntrySource, nil
	case "lib":
		return EntryLibrary, nil
	case "var":
		return EntryVariable, nil
	case "con":
		return EntryContainer, nil
	case "output":
		return EntryOutput, nil
	default:
		return 0, zerr.With(ErrUnknownEntryKind, "kind", s)
	}
}

// ContentKind tells whether an entry contributes source or binary content.
type ContentKind uint8

const (
	// ContentSource marks entries holding source files.
	ContentSource ContentKind = iota + 1
	// ContentBinary marks entries holding class files.
	ContentBinary
)

// Attribute is a name/value pair attached to an entry.
type Attribute struct {
	Name  string
	Value string
	// Unknown holds XML attributes of the attribute element the codec does
	// not interpret.
	Unknown []Attribute
}

// Equal reports whether both attributes hold the same name, value and
// preserved XML attributes.
func (a Attribute) Equal(o Attribute) bool {
	return a.Name == o.Name && a.Value == o.Value && slices.EqualFunc(a.Unknown, o.Unknown, Attribute.Equal)
}

const (
	// AttributeOptional marks an entry whose failures are not reported.
	AttributeOptional = "optional"
	// AttributeIndexLocation hints where a library's index can be found.
	AttributeIndexLocation = "index_location"
)

// ClasspathEntry is one declared dependency or source root of a project.
// Entries are immutable: options apply at construction and Derive returns a copy.
type ClasspathEntry struct {
	kind                 EntryKind
	contentKind          ContentKind
	path                 Path
	inclusion            []Path
	exclusion            []Path
	sourceAttachment     Path
	sourceAttachmentRoot Path
	outputLocation       Path
	exported             bool
	accessRules          []AccessRule
	hasAccessRules       bool
	combineAccessRules   bool
	attributes           []Attribute
	referencing          *ClasspathEntry
	unknownAttributes    []Attribute
	unknownChildren      []string
	unknownInAttributes  []string
	unknownInAccessRules []string
}

// EntryOption configures a ClasspathEntry at construction.
type EntryOption func(*ClasspathEntry)

// WithExported sets the exported flag.
func WithExported(exported bool) EntryOption {
	return func(e *ClasspathEntry) { e.exported = exported }
}

// WithInclusionPatterns sets the inclusion patterns.
func WithInclusionPatterns(patterns ...Path) EntryOption {
	return func(e *ClasspathEntry) { e.inclusion = slices.Clone(patterns) }
}

// WithExclusionPatterns sets the exclusion patterns.
func WithExclusionPatterns(patterns ...Path) EntryOption {
	return func(e *ClasspathEntry) { e.exclusion = slices.Clone(patterns) }
}

// WithSourceAttachment sets the source attachment path and its root path.
func WithSourceAttachment(path, root Path) EntryOption {
	return func(e *ClasspathEntry) {
		e.sourceAttachment = path
		e.sourceAttachmentRoot = root
	}
}

// WithOutputLocation sets the entry specific output location.
func WithOutputLocation(path Path) EntryOption {
	return func(e *ClasspathEntry) { e.outputLocation = path }
}

// WithAccessRules sets the access rules. An empty call still marks the entry as
// carrying an (empty) access rule set.
func WithAccessRules(rules ...AccessRule) EntryOption {
	return func(e *ClasspathEntry) {
		e.accessRules = slices.Clone(rules)
		e.hasAccessRules = true
	}
}

// WithCombineAccessRules sets whether referenced entries inherit this entry's rules.
func WithCombineAccessRules(combine bool) EntryOption {
	return func(e *ClasspathEntry) { e.combineAccessRules = combine }
}

// WithExtraAttributes sets the extra attributes, keeping their order.
func WithExtraAttributes(attrs ...Attribute) EntryOption {
	return func(e *ClasspathEntry) { e.attributes = slices.Clone(attrs) }
}

// WithContentKind overrides the content kind.
func WithContentKind(kind ContentKind) EntryOption {
	return func(e *ClasspathEntry) { e.contentKind = kind }
}

// WithReferencingEntry records the entry through which this one was discovered.
func WithReferencingEntry(ref *ClasspathEntry) EntryOption {
	return func(e *ClasspathEntry) { e.referencing = ref }
}

// WithUnknownAttributes keeps XML attributes the codec does not interpret.
func WithUnknownAttributes(attrs ...Attribute) EntryOption {
	return func(e *ClasspathEntry) { e.unknownAttributes = slices.Clone(attrs) }
}

// WithUnknownChildren keeps raw XML child elements the codec does not interpret.
func WithUnknownChildren(children ...string) EntryOption {
	return func(e *ClasspathEntry) { e.unknownChildren = slices.Clone(children) }
}

// WithUnknownAttributeChildren keeps raw XML elements found inside the
// attributes element that are not attribute elements.
func WithUnknownAttributeChildren(children ...string) EntryOption {
	return func(e *ClasspathEntry) { e.unknownInAttributes = slices.Clone(children) }
}

// WithUnknownAccessRuleChildren keeps raw XML elements found inside the
// access rules element that are not access rule elements.
func WithUnknownAccessRuleChildren(children ...string) EntryOption {
	return func(e *ClasspathEntry) {
		e.unknownInAccessRules = slices.Clone(children)
		if len(children) > 0 {
			e.hasAccessRules = true
		}
	}
}

// WithPath replaces the path. Only meaningful with Derive.
func WithPath(path Path) EntryOption {
	return func(e *ClasspathEntry) { e.path = path }
}

// WithKind replaces the kind. Only meaningful with Derive.
func WithKind(kind EntryKind) EntryOption {
	return func(e *ClasspathEntry) { e.kind = kind }
}

// NewEntry creates an entry of the given kind.
func NewEntry(kind EntryKind, path Path, opts ...EntryOption) ClasspathEntry {
	e := ClasspathEntry{
		kind:        kind,
		path:        path,
		contentKind: ContentBinary,
	}
	switch kind {
	case EntrySource:
		e.contentKind = ContentSource
	case EntryProject, EntryContainer:
		e.combineAccessRules = true
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewSourceEntry creates a source folder entry.
func NewSourceEntry(path Path, opts ...EntryOption) ClasspathEntry {
	return NewEntry(EntrySource, path, opts...)
}

// NewLibraryEntry creates a library entry.
func NewLibraryEntry(path Path, opts ...EntryOption) ClasspathEntry {
	return NewEntry(EntryLibrary, path, opts...)
}

// NewProjectEntry creates a project reference entry.
func NewProjectEntry(path Path, opts ...EntryOption) ClasspathEntry {
	return NewEntry(EntryProject, path, opts...)
}

// NewVariableEntry creates a variable entry.
func NewVariableEntry(path Path, opts ...EntryOption) ClasspathEntry {
	return NewEntry(EntryVariable, path, opts...)
}

// NewContainerEntry creates a container entry.
func NewContainerEntry(path Path, opts ...EntryOption) ClasspathEntry {
	return NewEntry(EntryContainer, path, opts...)
}

// NewOutputEntry creates the output pseudo entry.
func NewOutputEntry(path Path) ClasspathEntry {
	return NewEntry(EntryOutput, path)
}

// Derive returns a copy of the entry with the options applied.
func (e ClasspathEntry) Derive(opts ...EntryOption) ClasspathEntry {
	c := e
	c.inclusion = slices.Clone(e.inclusion)
	c.exclusion = slices.Clone(e.exclusion)
	c.accessRules = slices.Clone(e.accessRules)
	c.attributes = slices.Clone(e.attributes)
	c.unknownAttributes = slices.Clone(e.unknownAttributes)
	c.unknownChildren = slices.Clone(e.unknownChildren)
	c.unknownInAttributes = slices.Clone(e.unknownInAttributes)
	c.unknownInAccessRules = slices.Clone(e.unknownInAccessRules)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Kind returns the entry kind.
func (e ClasspathEntry) Kind() EntryKind { return e.kind }

// ContentKind returns the content kind.
func (e ClasspathEntry) ContentKind() ContentKind { return e.contentKind }

// Path returns the entry path.
func (e ClasspathEntry) Path() Path { return e.path }

// InclusionPatterns returns the inclusion patterns.
func (e ClasspathEntry) InclusionPatterns() []Path { return slices.Clone(e.inclusion) }

// ExclusionPatterns returns the exclusion patterns.
func (e ClasspathEntry) ExclusionPatterns() []Path { return slices.Clone(e.exclusion) }

// SourceAttachmentPath returns the source attachment path.
func (e ClasspathEntry) SourceAttachmentPath() Path { return e.sourceAttachment }

// SourceAttachmentRootPath returns the source attachment root path.
func (e ClasspathEntry) SourceAttachmentRootPath() Path { return e.sourceAttachmentRoot }

// OutputLocation returns the entry specific output location.
func (e ClasspathEntry) OutputLocation() Path { return e.outputLocation }

// IsExported reports whether the entry is visible to dependent projects.
// Source folders are always exported.
func (e ClasspathEntry) IsExported() bool {
	return e.exported || e.kind == EntrySource
}

// DeclaredExported returns the exported flag as declared, ignoring the source rule.
func (e ClasspathEntry) DeclaredExported() bool { return e.exported }

// AccessRules returns the access rules.
func (e ClasspathEntry) AccessRules() []AccessRule { return slices.Clone(e.accessRules) }

// HasAccessRules reports whether the entry carries an access rule set, possibly empty.
func (e ClasspathEntry) HasAccessRules() bool { return e.hasAccessRules || len(e.accessRules) > 0 }

// CombineAccessRules reports whether referenced entries inherit this entry's rules.
func (e ClasspathEntry) CombineAccessRules() bool { return e.combineAccessRules }

// ExtraAttributes returns the extra attributes in declaration order.
func (e ClasspathEntry) ExtraAttributes() []Attribute { return slices.Clone(e.attributes) }

// ExtraAttribute returns the value of the first extra attribute with the given name.
func (e ClasspathEntry) ExtraAttribute(name string) (string, bool) {
	for _, a := range e.attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// IsOptional reports whether the entry carries optional=true.
func (e ClasspathEntry) IsOptional() bool {
	v, ok := e.ExtraAttribute(AttributeOptional)
	return ok && strings.EqualFold(v, "true")
}

// ReferencingEntry returns the entry this one was discovered through, if any.
func (e ClasspathEntry) ReferencingEntry() *ClasspathEntry { return e.referencing }

// UnknownAttributes returns the preserved XML attributes.
func (e ClasspathEntry) UnknownAttributes() []Attribute { return slices.Clone(e.unknownAttributes) }

// UnknownChildren returns the preserved raw XML child elements.
func (e ClasspathEntry) UnknownChildren() []string { return slices.Clone(e.unknownChildren) }

// UnknownAttributeChildren returns the preserved raw XML elements of the
// attributes element.
func (e ClasspathEntry) UnknownAttributeChildren() []string {
	return slices.Clone(e.unknownInAttributes)
}

// UnknownAccessRuleChildren returns the preserved raw XML elements of the
// access rules element.
func (e ClasspathEntry) UnknownAccessRuleChildren() []string {
	return slices.Clone(e.unknownInAccessRules)
}

// RootID identifies the root an entry denotes; used for de-duplication and cycle detection.
func (e ClasspathEntry) RootID() string {
	return e.kind.rootIDTag() + string(e.path)
}

// CombineWith derives the entry as seen through a referring project or container entry.
// Without a referring entry, or when the referring entry is neither exported nor
// restricted, the entry is returned unchanged.
func (e ClasspathEntry) CombineWith(referring *ClasspathEntry) ClasspathEntry {
	if referring == nil {
		return e
	}
	if !referring.IsExported() && !referring.HasAccessRules() {
		return e
	}
	combine := e.kind == EntrySource || referring.combineAccessRules
	rules := CombineAccessRules(referring.accessRules, e.accessRules, combine)
	return e.Derive(func(c *ClasspathEntry) {
		c.exported = e.exported || referring.IsExported()
		c.accessRules = slices.Clone(rules)
		c.hasAccessRules = e.hasAccessRules || (combine && referring.HasAccessRules())
	})
}

// Equal reports whether two entries declare the same thing.
// The referencing entry is not compared.
func (e ClasspathEntry) Equal(o ClasspathEntry) bool {
	return e.kind == o.kind &&
		e.contentKind == o.contentKind &&
		e.path == o.path &&
		slices.Equal(e.inclusion, o.inclusion) &&
		slices.Equal(e.exclusion, o.exclusion) &&
		e.sourceAttachment == o.sourceAttachment &&
		e.sourceAttachmentRoot == o.sourceAttachmentRoot &&
		e.outputLocation == o.outputLocation &&
		e.exported == o.exported &&
		slices.EqualFunc(e.accessRules, o.accessRules, AccessRule.Equal) &&
		e.combineAccessRules == o.combineAccessRules &&
		slices.EqualFunc(e.attributes, o.attributes, Attribute.Equal) &&
		slices.EqualFunc(e.unknownAttributes, o.unknownAttributes, Attribute.Equal) &&
		slices.Equal(e.unknownChildren, o.unknownChildren) &&
		slices.Equal(e.unknownInAttributes, o.unknownInAttributes) &&
		slices.Equal(e.unknownInAccessRules, o.unknownInAccessRules)
}

// String renders the entry for diagnostics.
func (e ClasspathEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]", e.path, e.kind)
	if e.exported {
		b.WriteString("[exported]")
	}
	if len(e.accessRules) > 0 {
		rules := make([]string, len(e.accessRules))
		for i, r := range e.accessRules {
			rules[i] = r.Kind.String() + ":" + string(r.Pattern)
		}
		b.WriteString("[rules=" + strings.Join(rules, ",") + "]")
	}
	return b.String()
}

// Entries is an ordered list of classpath entries.
type Entries []ClasspathEntry

// Equal reports whether both lists hold equal entries in the same order.
func (es Entries) Equal(other Entries) bool {
	return slices.EqualFunc(es, other, func(a, b ClasspathEntry) bool { return a.Equal(b) })
}

// IndexOf returns the position of the first entry with the given path and kind, or -1.
func (es Entries) IndexOf(kind EntryKind, path Path) int {
	return slices.IndexFunc(es, func(e ClasspathEntry) bool {
		return e.kind == kind && e.path == path
	})
}
