// Package classpath resolves raw project classpaths into flat resolved classpaths.
package classpath

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/cache"
	"go.trai.ch/zerr"
)

// DefaultOutputFolder is the output folder name of a project without a classpath file.
const DefaultOutputFolder = "bin"

// Engine resolves project classpaths and keeps the per-project cache consistent.
type Engine struct {
	ws         ports.Workspace
	codec      ports.ClasspathCodec
	table      *cache.Table
	variables  *Variables
	containers *Containers
	chainer    *chainer
	tracer     ports.Tracer
	logger     ports.Logger

	mu     sync.RWMutex
	config *domain.Config
	root   string
}

// New creates an Engine.
func New(
	ws ports.Workspace,
	codec ports.ClasspathCodec,
	reader ports.ManifestReader,
	table *cache.Table,
	tracer ports.Tracer,
	logger ports.Logger,
) *Engine {
	return &Engine{
		ws:         ws,
		codec:      codec,
		table:      table,
		variables:  NewVariables(),
		containers: NewContainers(),
		chainer:    newChainer(reader),
		tracer:     tracer,
		logger:     logger,
		config:     domain.DefaultConfig(),
	}
}

// Variables returns the classpath variable table.
func (e *Engine) Variables() *Variables { return e.variables }

// Containers returns the container registry.
func (e *Engine) Containers() *Containers { return e.containers }

// Table returns the per-project cache.
func (e *Engine) Table() *cache.Table { return e.table }

// Configure applies a workspace configuration: the variables are replaced and
// every cached resolution is dropped. When the workspace was re-rooted since
// the last call, every project record, container and archive outcome is
// dropped as well.
func (e *Engine) Configure(cfg *domain.Config) {
	if cfg == nil {
		cfg = domain.DefaultConfig()
	}
	root := e.ws.Root()
	e.mu.Lock()
	e.config = cfg
	moved := e.root != root
	e.root = root
	e.mu.Unlock()

	e.variables.SetAll(cfg.Variables)
	if moved {
		e.table.Clear()
		e.containers.Clear()
		e.ResetArchiveCaches()
		return
	}
	for _, name := range e.table.Projects() {
		if info, ok := e.table.Lookup(name); ok {
			info.ResetCaches()
		}
	}
}

// Options returns the options of a project, caching them on the project record.
func (e *Engine) Options(project string) domain.ProjectOptions {
	info := e.table.Get(project)
	if opts, ok := info.Options(); ok {
		return opts
	}
	e.mu.RLock()
	opts := e.config.ProjectOptions(project)
	e.mu.RUnlock()
	info.SetOptions(opts)
	return opts
}

// ArchiveChanged drops what is known about an archive so that its manifest is
// read again.
func (e *Engine) ArchiveChanged(path domain.Path) {
	osPath, _ := e.ws.Location(path)
	e.chainer.forget(osPath)
}

// ResetArchiveCaches drops every cached manifest outcome.
func (e *Engine) ResetArchiveCaches() {
	e.chainer.reset()
}

// RawClasspath returns the raw classpath of a project, reading the classpath
// file on first use.
func (e *Engine) RawClasspath(project string) (domain.Entries, error) {
	snap, err := e.snapshot(project)
	if err != nil {
		return nil, err
	}
	return snap.Raw, nil
}

// OutputLocation returns the default output location of a project.
func (e *Engine) OutputLocation(project string) (domain.Path, error) {
	snap, err := e.snapshot(project)
	if err != nil {
		return "", err
	}
	return snap.Output, nil
}

// Resolve returns the resolved classpath of a project.
//
// The computation runs against a snapshot of the raw classpath and is only
// published when the raw timestamp did not move meanwhile. A stale result is
// recomputed once against a fresh snapshot and returned unpublished.
func (e *Engine) Resolve(ctx context.Context, project string) (*domain.ResolvedClasspath, error) {
	info := e.table.Get(project)
	if res, ok := info.Resolved(); ok {
		return res, nil
	}
	if isResolving(ctx, project) {
		err := zerr.Wrap(domain.ErrResolutionInProgress, "resolve classpath")
		return nil, zerr.With(err, "project", project)
	}
	ctx = withResolving(ctx, project)

	ctx, span := e.tracer.Start(ctx, "classpath.resolve", ports.WithAttribute("project", project))
	defer span.End()

	snap, err := e.snapshot(project)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := e.resolve(ctx, snap)
	if info.SetResolved(res, snap.Timestamp) {
		span.SetAttribute("entries", res.Len())
		return res, nil
	}

	fresh, err := e.snapshot(project)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	tmp := cache.NewTemporary(fresh)
	res = e.resolve(ctx, tmp.Snapshot())
	span.SetAttribute("stale", true)
	span.SetAttribute("entries", res.Len())
	return res, nil
}

// Expanded returns the expanded classpath of a project: its resolved entries
// followed by the exported entries of the open Java projects it references,
// transitively, each seen through the referring project entry.
func (e *Engine) Expanded(ctx context.Context, project string) (domain.Entries, error) {
	info := e.table.Get(project)
	if entries, ok := info.Expanded(); ok {
		return entries, nil
	}

	ctx, span := e.tracer.Start(ctx, "classpath.expand", ports.WithAttribute("project", project))
	defer span.End()

	snap, err := e.snapshot(project)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var out domain.Entries
	rootIDs := make(map[string]struct{})
	if err := e.expand(ctx, project, nil, true, rootIDs, &out); err != nil {
		span.RecordError(err)
		return nil, err
	}
	info.SetExpanded(out, snap.Timestamp)
	return out, nil
}

func (e *Engine) expand(
	ctx context.Context,
	project string,
	referring *domain.ClasspathEntry,
	initial bool,
	rootIDs map[string]struct{},
	out *domain.Entries,
) error {
	projectID := domain.NewProjectEntry(domain.ProjectPath(project)).RootID()
	if _, seen := rootIDs[projectID]; seen {
		return nil
	}
	rootIDs[projectID] = struct{}{}

	res, err := e.Resolve(ctx, project)
	if err != nil {
		return err
	}

	for _, entry := range res.Entries() {
		if !initial && !entry.IsExported() {
			continue
		}
		id := entry.RootID()
		if _, seen := rootIDs[id]; seen {
			continue
		}
		combined := entry.CombineWith(referring)
		*out = append(*out, combined)

		if entry.Kind() != domain.EntryProject {
			rootIDs[id] = struct{}{}
			continue
		}
		name := entry.Path().FirstSegment()
		if p, ok := e.ws.Project(name); ok && p.Open && p.JavaNature {
			via := combined
			if err := e.expand(ctx, name, &via, false, rootIDs, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetRawClasspath writes a new raw classpath to the project's classpath file,
// updates the cache and resets the project and its dependents. entries may
// carry an output entry; without one the current output location is kept.
func (e *Engine) SetRawClasspath(
	ctx context.Context,
	project string,
	entries domain.Entries,
	referenced domain.Entries,
) (*Change, error) {
	_, span := e.tracer.Start(ctx, "classpath.set_raw", ports.WithAttribute("project", project))
	defer span.End()

	old, err := e.snapshot(project)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	info := e.table.Get(project)
	oldResolved, _ := info.Resolved()

	current, _, err := e.readClasspathFile(project)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	file := domain.ClasspathFile{Entries: entries, Referenced: referenced, Unknown: current.Unknown}
	if file.OutputLocation().IsEmpty() && !old.Output.IsEmpty() {
		file.Entries = append(slices.Clone(file.Entries), domain.NewOutputEntry(old.Output))
	}

	data, err := e.codec.Encode(project, file)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := e.ws.WriteFile(domain.ClasspathFilePath(project), data); err != nil {
		span.RecordError(err)
		return nil, err
	}

	info.SetRawClasspath(file.RawClasspath(), referenced, file.OutputLocation(), domain.OKStatus())
	e.table.ResetWithDependents(project)

	return &Change{
		engine:      e,
		Project:     project,
		OldRaw:      old.Raw,
		NewRaw:      file.RawClasspath(),
		OldOutput:   old.Output,
		NewOutput:   file.OutputLocation(),
		OldResolved: oldResolved,
	}, nil
}

// Reload re-reads the classpath file of a project. It returns nil when the
// classpath was never loaded or did not change.
func (e *Engine) Reload(ctx context.Context, project string) (*Change, error) {
	_, span := e.tracer.Start(ctx, "classpath.reload", ports.WithAttribute("project", project))
	defer span.End()

	info := e.table.Get(project)
	old := info.Snapshot()
	if !old.Loaded {
		return nil, nil
	}

	file, status, err := e.readClasspathFile(project)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	raw := file.RawClasspath()
	output := file.OutputLocation()
	if raw.Equal(old.Raw) && output == old.Output &&
		file.Referenced.Equal(old.Referenced) && status.String() == old.RawStatus.String() {
		return nil, nil
	}

	oldResolved, _ := info.Resolved()
	info.SetRawClasspath(raw, file.Referenced, output, status)
	e.table.ResetWithDependents(project)

	return &Change{
		engine:      e,
		Project:     project,
		OldRaw:      old.Raw,
		NewRaw:      raw,
		OldOutput:   old.Output,
		NewOutput:   output,
		OldResolved: oldResolved,
	}, nil
}

// Forget drops every cached state of a project.
func (e *Engine) Forget(project string) {
	e.table.Remove(project)
	e.containers.ResetProject(project)
}

// snapshot returns the raw classpath state of a project, loading it first when needed.
func (e *Engine) snapshot(project string) (cache.Snapshot, error) {
	info := e.table.Get(project)
	snap := info.Snapshot()
	if snap.Loaded {
		return snap, nil
	}

	file, status, err := e.readClasspathFile(project)
	if err != nil {
		return cache.Snapshot{}, err
	}
	info.SetRawClasspath(file.RawClasspath(), file.Referenced, file.OutputLocation(), status)
	return info.Snapshot(), nil
}

// readClasspathFile reads and decodes the classpath file of a project. A
// missing file yields the default classpath; an undecodable one yields an
// empty classpath and a status.
func (e *Engine) readClasspathFile(project string) (domain.ClasspathFile, domain.Status, error) {
	if _, ok := e.ws.Project(project); !ok {
		return domain.ClasspathFile{}, domain.OKStatus(), zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "cannot read classpath"), "project", project)
	}

	path := domain.ClasspathFilePath(project)
	if !e.ws.Exists(path) {
		return defaultClasspathFile(project), domain.OKStatus(), nil
	}

	data, err := e.ws.ReadFile(path)
	if err != nil {
		return domain.ClasspathFile{}, domain.OKStatus(), zerr.With(zerr.Wrap(err, domain.ErrClasspathReadFailed.Error()), "project", project)
	}

	file, err := e.codec.Decode(project, data)
	if err != nil {
		e.logger.Warn(fmt.Sprintf("invalid classpath file of project %s: %v", project, err))
		status := domain.NewStatus(domain.StatusInvalidPath, path, fmt.Sprintf("invalid classpath file: %v", err))
		return domain.ClasspathFile{}, status, nil
	}
	return file, domain.OKStatus(), nil
}

func defaultClasspathFile(project string) domain.ClasspathFile {
	root := domain.ProjectPath(project)
	return domain.ClasspathFile{
		Entries: domain.Entries{
			domain.NewSourceEntry(root),
			domain.NewOutputEntry(root.Append(DefaultOutputFolder)),
		},
	}
}

// isInProgress reports whether err is one of the re-entrancy sentinels.
func isInProgress(err error) bool {
	return errors.Is(err, domain.ErrResolutionInProgress) || errors.Is(err, domain.ErrContainerInitInProgress)
}
