package domain

// ClasspathFile is the decoded content of a project's classpath file.
type ClasspathFile struct {
	// Attributes holds the XML attributes of the root element, namespace
	// declarations included, in document order.
	Attributes []Attribute
	// Entries holds the raw classpath in declaration order, output entry included.
	Entries Entries
	// Referenced holds entries that are not on the raw classpath but keep user
	// settings for libraries reached through manifest chains.
	Referenced Entries
	// Unknown holds raw top level elements that are preserved verbatim.
	Unknown []string
}

// RawClasspath returns the entries without the output pseudo entry.
func (f ClasspathFile) RawClasspath() Entries {
	out := make(Entries, 0, len(f.Entries))
	for _, e := range f.Entries {
		if e.Kind() != EntryOutput {
			out = append(out, e)
		}
	}
	return out
}

// OutputLocation returns the path of the output pseudo entry, if any.
func (f ClasspathFile) OutputLocation() Path {
	for _, e := range f.Entries {
		if e.Kind() == EntryOutput {
			return e.Path()
		}
	}
	return ""
}
