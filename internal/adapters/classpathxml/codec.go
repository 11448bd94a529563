// Package classpathxml reads and writes the XML classpath file of a project.
package classpathxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	tagClasspath      = "classpath"
	tagClasspathEntry = "classpathentry"
	tagReferenced     = "referencedentry"
	tagAttributes     = "attributes"
	tagAttribute      = "attribute"
	tagAccessRules    = "accessrules"
	tagAccessRule     = "accessrule"

	attrKind               = "kind"
	attrPath               = "path"
	attrSourcePath         = "sourcepath"
	attrRootPath           = "rootpath"
	attrOutput             = "output"
	attrExported           = "exported"
	attrIncluding          = "including"
	attrExcluding          = "excluding"
	attrCombineAccessRules = "combineaccessrules"
	attrName               = "name"
	attrValue              = "value"
	attrPattern            = "pattern"
	attrIgnoreIfBetter     = "ignoreifbetter"

	xmlnsPrefix = "xmlns"
	xmlURL      = "http://www.w3.org/XML/1998/namespace"

	patternSeparator = "|"
	header           = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

var knownAttributes = map[string]struct{}{
	attrKind: {}, attrPath: {}, attrSourcePath: {}, attrRootPath: {}, attrOutput: {},
	attrExported: {}, attrIncluding: {}, attrExcluding: {}, attrCombineAccessRules: {},
}

// Codec implements ports.ClasspathCodec for the XML classpath file format.
type Codec struct{}

var _ ports.ClasspathCodec = (*Codec)(nil)

// New creates a Codec.
func New() *Codec {
	return &Codec{}
}

// Decode parses the classpath file of a project. Relative paths are taken
// relative to the project; unknown attributes and elements are kept verbatim.
func (c *Codec) Decode(project string, data []byte) (domain.ClasspathFile, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	var file domain.ClasspathFile

	root, err := nextStart(d)
	if err != nil {
		return file, decodeError(project, err)
	}
	if root.Name.Local != tagClasspath {
		return file, decodeError(project, zerr.With(zerr.New("unexpected root element"), "element", root.Name.Local))
	}
	ns := namespaces{xmlURL: "xml"}.with(root)
	for _, a := range root.Attr {
		file.Attributes = append(file.Attributes, domain.Attribute{Name: ns.name(a.Name), Value: a.Value})
	}

	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return file, decodeError(project, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return file, decodeError(project, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case tagClasspathEntry, tagReferenced:
				entry, err := decodeEntry(d, data, project, t, ns)
				if err != nil {
					return file, decodeError(project, err)
				}
				if t.Name.Local == tagReferenced {
					file.Referenced = append(file.Referenced, entry)
				} else {
					file.Entries = append(file.Entries, entry)
				}
			default:
				raw, err := rawElement(d, data, offset)
				if err != nil {
					return file, decodeError(project, err)
				}
				file.Unknown = append(file.Unknown, raw)
			}
		case xml.EndElement:
			return file, nil
		}
	}
}

// namespaces maps namespace URIs to the prefixes declared for them.
type namespaces map[string]string

// with returns the mapping extended by the declarations of start.
func (ns namespaces) with(start xml.StartElement) namespaces {
	out := ns
	for _, a := range start.Attr {
		if a.Name.Space != xmlnsPrefix {
			continue
		}
		if len(out) == len(ns) {
			out = maps.Clone(ns)
		}
		out[a.Value] = a.Name.Local
	}
	return out
}

// name spells n the way the document wrote it. The decoder replaces declared
// prefixes by their URI; undeclared prefixes are left as written.
func (ns namespaces) name(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case xmlnsPrefix:
		return xmlnsPrefix + ":" + n.Local
	}
	if prefix, ok := ns[n.Space]; ok {
		return prefix + ":" + n.Local
	}
	return n.Space + ":" + n.Local
}

func decodeEntry(d *xml.Decoder, data []byte, project string, start xml.StartElement, ns namespaces) (domain.ClasspathEntry, error) {
	ns = ns.with(start)
	attrs := make(map[string]string, len(start.Attr))
	var unknown []domain.Attribute
	for _, a := range start.Attr {
		name := ns.name(a.Name)
		if _, ok := knownAttributes[name]; ok {
			attrs[name] = a.Value
			continue
		}
		unknown = append(unknown, domain.Attribute{Name: name, Value: a.Value})
	}

	kindAttr, ok := attrs[attrKind]
	if !ok {
		return domain.ClasspathEntry{}, zerr.With(zerr.Wrap(domain.ErrUnknownEntryKind, "classpath entry has no kind"), "kind", "")
	}
	kind, err := domain.ParseEntryKind(kindAttr)
	if err != nil {
		return domain.ClasspathEntry{}, err
	}
	pathAttr, ok := attrs[attrPath]
	if !ok {
		return domain.ClasspathEntry{}, zerr.With(zerr.Wrap(domain.ErrMissingEntryPath, "classpath entry has no path"), "kind", kindAttr)
	}

	projectPath := domain.ProjectPath(project)
	path := toWorkspacePath(projectPath, pathAttr, kind)
	if kind == domain.EntrySource && path.FirstSegment() != project && path.SegmentCount() == 1 {
		kind = domain.EntryProject
	}

	opts := []domain.EntryOption{
		domain.WithExported(attrs[attrExported] == "true"),
	}
	if v, ok := attrs[attrIncluding]; ok {
		opts = append(opts, domain.WithInclusionPatterns(splitPatterns(v)...))
	}
	if v, ok := attrs[attrExcluding]; ok {
		opts = append(opts, domain.WithExclusionPatterns(splitPatterns(v)...))
	}
	if v, ok := attrs[attrSourcePath]; ok {
		source := domain.NewPath(v)
		if kind != domain.EntryVariable && !source.IsAbsolute() {
			source = projectPath.Append(v)
		}
		opts = append(opts, domain.WithSourceAttachment(source, domain.NewPath(attrs[attrRootPath])))
	}
	if v, ok := attrs[attrOutput]; ok {
		opts = append(opts, domain.WithOutputLocation(toWorkspacePath(projectPath, v, domain.EntryOutput)))
	}
	if v, ok := attrs[attrCombineAccessRules]; ok {
		opts = append(opts, domain.WithCombineAccessRules(v != "false"))
	}
	if len(unknown) > 0 {
		opts = append(opts, domain.WithUnknownAttributes(unknown...))
	}

	children, err := decodeChildren(d, data, ns)
	if err != nil {
		return domain.ClasspathEntry{}, err
	}
	if len(children.attributes) > 0 {
		opts = append(opts, domain.WithExtraAttributes(children.attributes...))
	}
	if len(children.unknownInAttributes) > 0 {
		opts = append(opts, domain.WithUnknownAttributeChildren(children.unknownInAttributes...))
	}
	if children.hasAccessRules {
		opts = append(opts, domain.WithAccessRules(children.accessRules...))
	}
	if len(children.unknownInAccessRules) > 0 {
		opts = append(opts, domain.WithUnknownAccessRuleChildren(children.unknownInAccessRules...))
	}
	if len(children.unknown) > 0 {
		opts = append(opts, domain.WithUnknownChildren(children.unknown...))
	}

	return domain.NewEntry(kind, path, opts...), nil
}

type entryChildren struct {
	attributes           []domain.Attribute
	unknownInAttributes  []string
	accessRules          []domain.AccessRule
	unknownInAccessRules []string
	hasAccessRules       bool
	unknown              []string
}

func decodeChildren(d *xml.Decoder, data []byte, ns namespaces) (entryChildren, error) {
	var out entryChildren
	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return out, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return out, nil
		case xml.StartElement:
			switch t.Name.Local {
			case tagAttributes:
				attrs, unknown, err := decodeAttributes(d, data, ns.with(t))
				if err != nil {
					return out, err
				}
				out.attributes = append(out.attributes, attrs...)
				out.unknownInAttributes = append(out.unknownInAttributes, unknown...)
			case tagAccessRules:
				rules, unknown, err := decodeAccessRules(d, data, ns.with(t))
				if err != nil {
					return out, err
				}
				out.accessRules = append(out.accessRules, rules...)
				out.unknownInAccessRules = append(out.unknownInAccessRules, unknown...)
				out.hasAccessRules = true
			default:
				raw, err := rawElement(d, data, offset)
				if err != nil {
					return out, err
				}
				out.unknown = append(out.unknown, raw)
			}
		}
	}
}

// splitAttrs separates the XML attributes of start named in known from the
// others, which are returned in document order.
func splitAttrs(start xml.StartElement, ns namespaces, known ...string) (map[string]string, []domain.Attribute) {
	values := make(map[string]string, len(known))
	var unknown []domain.Attribute
	for _, a := range start.Attr {
		name := ns.name(a.Name)
		if slices.Contains(known, name) {
			values[name] = a.Value
			continue
		}
		unknown = append(unknown, domain.Attribute{Name: name, Value: a.Value})
	}
	return values, unknown
}

func decodeAttributes(d *xml.Decoder, data []byte, ns namespaces) ([]domain.Attribute, []string, error) {
	var out []domain.Attribute
	var unknown []string
	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return out, unknown, nil
		case xml.StartElement:
			if t.Name.Local != tagAttribute {
				raw, err := rawElement(d, data, offset)
				if err != nil {
					return nil, nil, err
				}
				unknown = append(unknown, raw)
				continue
			}
			values, extra := splitAttrs(t, ns.with(t), attrName, attrValue)
			out = append(out, domain.Attribute{Name: values[attrName], Value: values[attrValue], Unknown: extra})
			if err := d.Skip(); err != nil {
				return nil, nil, err
			}
		}
	}
}

func decodeAccessRules(d *xml.Decoder, data []byte, ns namespaces) ([]domain.AccessRule, []string, error) {
	var out []domain.AccessRule
	var unknown []string
	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			return nil, nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return out, unknown, nil
		case xml.StartElement:
			if t.Name.Local != tagAccessRule {
				raw, err := rawElement(d, data, offset)
				if err != nil {
					return nil, nil, err
				}
				unknown = append(unknown, raw)
				continue
			}
			values, extra := splitAttrs(t, ns.with(t), attrPattern, attrKind, attrIgnoreIfBetter)
			kind, err := domain.ParseAccessRuleKind(values[attrKind])
			if err != nil {
				return nil, nil, err
			}
			out = append(out, domain.AccessRule{
				Pattern:        domain.NewPath(values[attrPattern]),
				Kind:           kind,
				IgnoreIfBetter: values[attrIgnoreIfBetter] == "true",
				Unknown:        extra,
			})
			if err := d.Skip(); err != nil {
				return nil, nil, err
			}
		}
	}
}

// rawElement returns the verbatim bytes of the element whose start tag begins
// at offset, consuming it from the decoder.
func rawElement(d *xml.Decoder, data []byte, offset int64) (string, error) {
	if err := d.Skip(); err != nil {
		return "", err
	}
	end := d.InputOffset()
	return string(data[offset:end]), nil
}

func nextStart(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func splitPatterns(v string) []domain.Path {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, patternSeparator)
	out := make([]domain.Path, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, domain.Path(strings.ReplaceAll(p, "\\", "/")))
	}
	return out
}

// toWorkspacePath anchors a project relative path at the project. Variable and
// container paths and paths climbing out of the project are kept as written.
func toWorkspacePath(projectPath domain.Path, v string, kind domain.EntryKind) domain.Path {
	p := domain.NewPath(v)
	if kind == domain.EntryVariable || kind == domain.EntryContainer || p.IsAbsolute() {
		return p
	}
	if p.Segment(0) == ".." {
		return p
	}
	return projectPath.Append(v)
}

// fromWorkspacePath is the inverse of toWorkspacePath.
func fromWorkspacePath(projectPath domain.Path, p domain.Path, kind domain.EntryKind) string {
	if kind == domain.EntryVariable || kind == domain.EntryContainer || !p.IsAbsolute() {
		return p.String()
	}
	if projectPath.IsPrefixOf(p) {
		return p.MakeRelativeTo(projectPath).String()
	}
	return p.String()
}

func decodeError(project string, err error) error {
	return zerr.With(zerr.Wrap(err, domain.ErrClasspathDecodeFailed.Error()), "project", project)
}

// Encode renders the classpath file of a project. Attributes are written in
// name order; preserved unknown content is re-emitted after the known content.
func (c *Codec) Encode(project string, file domain.ClasspathFile) ([]byte, error) {
	projectPath := domain.ProjectPath(project)
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("<" + tagClasspath)
	writeAttrs(&b, file.Attributes)
	b.WriteString(">\n")
	for _, e := range file.Entries {
		if e.Path().IsEmpty() && e.Kind() != domain.EntrySource {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingEntryPath, domain.ErrClasspathEncodeFailed.Error()), "project", project)
		}
		writeEntry(&b, tagClasspathEntry, projectPath, e)
	}
	for _, e := range file.Referenced {
		writeEntry(&b, tagReferenced, projectPath, e)
	}
	for _, raw := range file.Unknown {
		b.WriteString("\t" + raw + "\n")
	}
	b.WriteString("</" + tagClasspath + ">\n")
	return []byte(b.String()), nil
}

func writeEntry(b *strings.Builder, tag string, projectPath domain.Path, e domain.ClasspathEntry) {
	kind := e.Kind()
	attrs := []domain.Attribute{
		{Name: attrKind, Value: kindName(kind)},
		{Name: attrPath, Value: fromWorkspacePath(projectPath, e.Path(), kind)},
	}
	if kind == domain.EntryProject {
		attrs[1].Value = e.Path().String()
		if !e.CombineAccessRules() {
			attrs = append(attrs, domain.Attribute{Name: attrCombineAccessRules, Value: "false"})
		}
	}
	if e.DeclaredExported() {
		attrs = append(attrs, domain.Attribute{Name: attrExported, Value: "true"})
	}
	if incl := e.InclusionPatterns(); len(incl) > 0 {
		attrs = append(attrs, domain.Attribute{Name: attrIncluding, Value: joinPatterns(incl)})
	}
	if excl := e.ExclusionPatterns(); len(excl) > 0 {
		attrs = append(attrs, domain.Attribute{Name: attrExcluding, Value: joinPatterns(excl)})
	}
	if src := e.SourceAttachmentPath(); !src.IsEmpty() {
		value := src.String()
		if kind != domain.EntryVariable {
			value = fromWorkspacePath(projectPath, src, domain.EntryLibrary)
		}
		attrs = append(attrs, domain.Attribute{Name: attrSourcePath, Value: value})
		if root := e.SourceAttachmentRootPath(); !root.IsEmpty() {
			attrs = append(attrs, domain.Attribute{Name: attrRootPath, Value: root.String()})
		}
	}
	if out := e.OutputLocation(); !out.IsEmpty() {
		attrs = append(attrs, domain.Attribute{Name: attrOutput, Value: fromWorkspacePath(projectPath, out, domain.EntryOutput)})
	}
	attrs = append(attrs, e.UnknownAttributes()...)

	b.WriteString("\t<" + tag)
	writeAttrs(b, sortedAttrs(attrs))

	extras := e.ExtraAttributes()
	extrasUnknown := e.UnknownAttributeChildren()
	rules := e.AccessRules()
	rulesUnknown := e.UnknownAccessRuleChildren()
	unknown := e.UnknownChildren()
	if len(extras) == 0 && len(extrasUnknown) == 0 && !e.HasAccessRules() && len(unknown) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	if len(extras) > 0 || len(extrasUnknown) > 0 {
		b.WriteString("\t\t<" + tagAttributes + ">\n")
		for _, a := range extras {
			b.WriteString("\t\t\t<" + tagAttribute)
			known := []domain.Attribute{{Name: attrName, Value: a.Name}, {Name: attrValue, Value: a.Value}}
			writeAttrs(b, sortedAttrs(append(known, a.Unknown...)))
			b.WriteString("/>\n")
		}
		for _, raw := range extrasUnknown {
			b.WriteString("\t\t\t" + raw + "\n")
		}
		b.WriteString("\t\t</" + tagAttributes + ">\n")
	}
	if e.HasAccessRules() {
		if len(rules) == 0 && len(rulesUnknown) == 0 {
			b.WriteString("\t\t<" + tagAccessRules + "/>\n")
		} else {
			b.WriteString("\t\t<" + tagAccessRules + ">\n")
			for _, r := range rules {
				known := []domain.Attribute{{Name: attrKind, Value: r.Kind.String()}, {Name: attrPattern, Value: r.Pattern.String()}}
				if r.IgnoreIfBetter {
					known = append(known, domain.Attribute{Name: attrIgnoreIfBetter, Value: "true"})
				}
				b.WriteString("\t\t\t<" + tagAccessRule)
				writeAttrs(b, sortedAttrs(append(known, r.Unknown...)))
				b.WriteString("/>\n")
			}
			for _, raw := range rulesUnknown {
				b.WriteString("\t\t\t" + raw + "\n")
			}
			b.WriteString("\t\t</" + tagAccessRules + ">\n")
		}
	}
	for _, raw := range unknown {
		b.WriteString("\t\t" + raw + "\n")
	}
	b.WriteString("\t</" + tag + ">\n")
}

func sortedAttrs(attrs []domain.Attribute) []domain.Attribute {
	slices.SortStableFunc(attrs, func(x, y domain.Attribute) int { return strings.Compare(x.Name, y.Name) })
	return attrs
}

func writeAttrs(b *strings.Builder, attrs []domain.Attribute) {
	for _, a := range attrs {
		b.WriteString(" " + a.Name + `="` + escape(a.Value) + `"`)
	}
}

func kindName(kind domain.EntryKind) string {
	if kind == domain.EntryProject {
		return domain.EntrySource.String()
	}
	return kind.String()
}

func joinPatterns(patterns []domain.Path) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}
	return strings.Join(parts, patternSeparator)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

func escape(s string) string {
	return attrEscaper.Replace(s)
}
