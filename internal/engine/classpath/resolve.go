package classpath

import (
	"context"
	"fmt"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/engine/cache"
)

// resolution holds the state of one resolution pass of one project.
type resolution struct {
	e        *Engine
	ctx      context.Context
	project  string
	location string
	builder  *domain.ResolvedBuilder

	// rawLibraries holds the resolved paths of the raw library and variable
	// entries; chained libraries never duplicate them.
	rawLibraries map[domain.Path]struct{}
	referenced   map[domain.Path]domain.ClasspathEntry
}

func (e *Engine) resolve(ctx context.Context, snap cache.Snapshot) *domain.ResolvedClasspath {
	b := domain.NewResolvedBuilder()
	b.Report(snap.RawStatus)
	b.SetOutputLocation(snap.Output)
	b.SetReferencedEntries(snap.Referenced)

	r := &resolution{
		e:            e,
		ctx:          ctx,
		project:      snap.Project,
		builder:      b,
		rawLibraries: make(map[domain.Path]struct{}),
		referenced:   make(map[domain.Path]domain.ClasspathEntry, len(snap.Referenced)),
	}
	if p, ok := e.ws.Project(snap.Project); ok {
		r.location = p.Location
	}
	for _, ref := range snap.Referenced {
		r.referenced[ref.Path()] = ref
	}
	for _, raw := range snap.Raw {
		switch raw.Kind() {
		case domain.EntryLibrary:
			if path, ok := r.libraryPath(raw.Path()); ok {
				r.rawLibraries[path] = struct{}{}
			}
		case domain.EntryVariable:
			if path, ok := e.variables.Resolve(raw.Path()); ok {
				r.rawLibraries[path] = struct{}{}
			}
		}
	}

	for _, raw := range snap.Raw {
		r.add(raw)
	}
	return b.Build()
}

func (r *resolution) add(raw domain.ClasspathEntry) {
	switch raw.Kind() {
	case domain.EntrySource, domain.EntryProject:
		r.builder.Add(raw, raw)
	case domain.EntryLibrary:
		r.addLibrary(raw)
	case domain.EntryVariable:
		r.addVariable(raw)
	case domain.EntryContainer:
		r.addContainer(raw)
	case domain.EntryOutput:
		r.builder.SetOutputLocation(raw.Path())
	}
}

func (r *resolution) addLibrary(raw domain.ClasspathEntry) {
	path, ok := r.libraryPath(raw.Path())
	if !ok {
		r.report(raw, domain.NewStatus(
			domain.StatusInvalidPath,
			raw.Path(),
			fmt.Sprintf("illegal path for library entry in project %s: '%s'", r.project, raw.Path()),
		))
		return
	}
	resolved := raw
	if path != raw.Path() {
		resolved = raw.Derive(domain.WithPath(path))
	}
	r.addChained(raw, resolved)
	r.builder.Add(raw, resolved)
}

func (r *resolution) addVariable(raw domain.ClasspathEntry) {
	path, ok := r.e.variables.Resolve(raw.Path())
	if !ok {
		r.report(raw, domain.NewStatus(
			domain.StatusCpVariablePathUnbound,
			raw.Path(),
			fmt.Sprintf("unbound classpath variable: '%s' in project %s", raw.Path().FirstSegment(), r.project),
		))
		return
	}

	if path.IsAbsolute() && path.SegmentCount() == 1 {
		if _, isProject := r.e.ws.Project(path.FirstSegment()); isProject {
			resolved := raw.Derive(
				domain.WithKind(domain.EntryProject),
				domain.WithPath(path),
				domain.WithContentKind(domain.ContentSource),
				domain.WithCombineAccessRules(true),
			)
			r.builder.Add(raw, resolved)
			return
		}
	}

	resolved := raw.Derive(
		domain.WithKind(domain.EntryLibrary),
		domain.WithPath(path),
		domain.WithSourceAttachment(
			r.variablePath(raw.SourceAttachmentPath()),
			r.variablePath(raw.SourceAttachmentRootPath()),
		),
	)
	r.addChained(raw, resolved)
	r.builder.Add(raw, resolved)
}

// variablePath expands a source attachment path that starts with a bound variable.
func (r *resolution) variablePath(path domain.Path) domain.Path {
	if path.IsEmpty() || path.IsAbsolute() {
		return path
	}
	if resolved, ok := r.e.variables.Resolve(path); ok {
		return resolved
	}
	return path
}

func (r *resolution) addContainer(raw domain.ClasspathEntry) {
	container, status, err := r.e.containers.Container(r.ctx, r.project, raw.Path())
	if err != nil {
		if !isInProgress(err) {
			r.e.logger.Error(err)
		}
		if status.IsOK() {
			return
		}
	}
	if container == nil {
		r.report(raw, status)
		return
	}

	for _, sub := range container.Entries() {
		switch sub.Kind() {
		case domain.EntrySource, domain.EntryVariable, domain.EntryContainer, domain.EntryOutput:
			r.report(raw, domain.NewStatus(
				domain.StatusInvalidCpContainerEntry,
				sub.Path(),
				fmt.Sprintf("illegal entry in classpath container '%s' of project %s: %s", raw.Path(), r.project, sub.Path()),
			))
			continue
		}

		combined := sub.CombineWith(&raw)
		if combined.Kind() == domain.EntryLibrary {
			r.addChained(raw, combined)
		}
		r.builder.Add(raw, combined)
	}
}

// addChained adds the libraries reached through the Class-Path manifest chain
// of lib, in post order, ahead of lib itself.
func (r *resolution) addChained(raw, lib domain.ClasspathEntry) {
	if !lib.Path().IsArchive() {
		return
	}
	for _, extra := range r.chained(lib) {
		if _, isRaw := r.rawLibraries[extra.Path()]; isRaw {
			continue
		}
		r.builder.Add(raw, extra)
	}
}

func (r *resolution) chained(lib domain.ClasspathEntry) []domain.ClasspathEntry {
	visited := map[domain.Path]struct{}{lib.Path(): {}}
	var out []domain.ClasspathEntry
	referencing := lib

	var walk func(archive domain.Path)
	walk = func(archive domain.Path) {
		osPath, _ := r.e.ws.Location(archive)
		if _, err := r.e.ws.Stat(osPath); err != nil {
			return
		}
		dir := archive.Parent()
		for _, name := range r.e.chainer.classPath(r.ctx, osPath) {
			if name == "" {
				continue
			}
			extraPath := dir.Append(name).Canonical()
			if _, seen := visited[extraPath]; seen {
				continue
			}
			visited[extraPath] = struct{}{}
			walk(extraPath)
			out = append(out, r.chainedEntry(extraPath, &referencing))
		}
	}
	walk(lib.Path())
	return out
}

func (r *resolution) chainedEntry(path domain.Path, lib *domain.ClasspathEntry) domain.ClasspathEntry {
	opts := []domain.EntryOption{
		domain.WithExported(lib.DeclaredExported()),
		domain.WithInclusionPatterns(lib.InclusionPatterns()...),
		domain.WithExclusionPatterns(lib.ExclusionPatterns()...),
		domain.WithOutputLocation(lib.OutputLocation()),
		domain.WithExtraAttributes(lib.ExtraAttributes()...),
		domain.WithCombineAccessRules(lib.CombineAccessRules()),
		domain.WithReferencingEntry(lib),
	}
	if lib.HasAccessRules() {
		opts = append(opts, domain.WithAccessRules(lib.AccessRules()...))
	}
	if ref, ok := r.referenced[path]; ok {
		opts = append(opts, domain.WithSourceAttachment(ref.SourceAttachmentPath(), ref.SourceAttachmentRootPath()))
		if attrs := ref.ExtraAttributes(); len(attrs) > 0 {
			opts = append(opts, domain.WithExtraAttributes(attrs...))
		}
	}
	return domain.NewLibraryEntry(path, opts...)
}

// libraryPath normalizes a library path; relative paths are only accepted
// when their ".." segments anchor them to the project location.
func (r *resolution) libraryPath(path domain.Path) (domain.Path, bool) {
	resolved, ok := domain.ResolveDotDot(path, r.location, r.e.ws.Root())
	if !ok || !resolved.IsAbsolute() {
		return path, false
	}
	return resolved, true
}

// report records a problem unless the entry is optional.
func (r *resolution) report(raw domain.ClasspathEntry, status domain.Status) {
	if raw.IsOptional() {
		return
	}
	r.builder.Report(status)
}
