// Package app implements the application layer for jmodel.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/jmodel/internal/adapters/containers"
	"go.trai.ch/jmodel/internal/adapters/indexer"
	"go.trai.ch/jmodel/internal/adapters/telemetry"
	"go.trai.ch/jmodel/internal/adapters/watcher"
	"go.trai.ch/jmodel/internal/adapters/workspace"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.trai.ch/jmodel/internal/engine/delta"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// watchBatchBuffer bounds the debounced batches waiting for a delta pass.
const watchBatchBuffer = 16

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	ws           *workspace.OS
	engine       *classpath.Engine
	manager      *delta.Manager
	indexer      *indexer.Indexer
	watcher      *watcher.Watcher
	logger       ports.Logger

	mu     sync.Mutex
	config *domain.Config
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	ws *workspace.OS,
	engine *classpath.Engine,
	manager *delta.Manager,
	ix *indexer.Indexer,
	w *watcher.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		ws:           ws,
		engine:       engine,
		manager:      manager,
		indexer:      ix,
		watcher:      w,
		logger:       log,
	}
}

// Open roots the application at the workspace enclosing dir: the
// configuration is loaded, the declared containers are registered and the
// index manifest is opened.
func (a *App) Open(dir string) error {
	root, err := a.configLoader.DiscoverRoot(dir)
	if err != nil {
		return zerr.Wrap(err, "failed to discover workspace root")
	}
	if err := a.ws.Open(root); err != nil {
		return err
	}
	cfg, err := a.configLoader.Load(root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	a.engine.Configure(cfg)
	for _, initializer := range containers.FromConfig(cfg) {
		a.engine.Containers().Register(initializer)
	}
	if err := a.indexer.Open(domain.DefaultIndexPath(root)); err != nil {
		return err
	}
	a.manager.Sync()

	a.mu.Lock()
	a.config = cfg
	a.mu.Unlock()
	return nil
}

// Root returns the workspace root, or "" before Open.
func (a *App) Root() string {
	return a.ws.Root()
}

func (a *App) currentConfig() *domain.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.config == nil {
		return domain.DefaultConfig()
	}
	return a.config
}

// projects returns the named project, which must be an open Java project, or
// every open Java project when name is empty.
func (a *App) projects(name string) ([]string, error) {
	if name == "" {
		var names []string
		for _, p := range a.ws.Projects() {
			if p.Open && p.JavaNature {
				names = append(names, p.Name)
			}
		}
		return names, nil
	}

	p, ok := a.ws.Project(name)
	switch {
	case !ok:
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "unknown project"), "project", name)
	case !p.Open:
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectClosed, "cannot use project"), "project", name)
	case !p.JavaNature:
		return nil, zerr.With(zerr.Wrap(domain.ErrNotJavaProject, "cannot use project"), "project", name)
	}
	return []string{name}, nil
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	Project  string
	Expanded bool
}

// ProjectClasspath is the classpath of one project.
type ProjectClasspath struct {
	Project string
	Entries domain.Entries
	Output  domain.Path
	Status  domain.Status
}

// Resolve computes the resolved, or expanded, classpath of a project or of
// every open Java project.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) ([]ProjectClasspath, error) {
	names, err := a.projects(opts.Project)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectClasspath, 0, len(names))
	for _, name := range names {
		res, err := a.engine.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		cp := ProjectClasspath{
			Project: name,
			Entries: res.Entries(),
			Output:  res.OutputLocation(),
			Status:  res.Status(),
		}
		if opts.Expanded {
			if cp.Entries, err = a.engine.Expanded(ctx, name); err != nil {
				return nil, err
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// ProjectStatus is the validation outcome of one project.
type ProjectStatus struct {
	Project string
	Status  domain.Status
}

// Validate checks the classpath of a project or of every open Java project.
// It returns domain.ErrValidationFailed along with the statuses when any
// problem has error severity.
func (a *App) Validate(ctx context.Context, project string) ([]ProjectStatus, error) {
	names, err := a.projects(project)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectStatus, 0, len(names))
	failed := 0
	for _, name := range names {
		status, err := a.engine.Validate(ctx, name)
		if err != nil {
			return nil, err
		}
		if status.HasErrors() {
			failed++
		}
		out = append(out, ProjectStatus{Project: name, Status: status})
	}
	if failed > 0 {
		return out, zerr.With(zerr.Wrap(domain.ErrValidationFailed, "classpath problems found"), "projects", failed)
	}
	return out, nil
}

// FormatClasspath rewrites the classpath file of a project in canonical form.
// It reports whether the file content changed.
func (a *App) FormatClasspath(ctx context.Context, project string) (bool, error) {
	if _, err := a.projects(project); err != nil {
		return false, err
	}

	path := domain.ClasspathFilePath(project)
	before, err := a.ws.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	raw, err := a.engine.RawClasspath(project)
	if err != nil {
		return false, err
	}
	referenced := a.engine.Table().Get(project).Snapshot().Referenced

	if _, err := a.engine.SetRawClasspath(ctx, project, raw, referenced); err != nil {
		return false, err
	}
	after, err := a.ws.ReadFile(path)
	if err != nil {
		return false, err
	}
	return !slices.Equal(before, after), nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Index bool
}

// Clean removes the workspace metadata selected by options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	root := a.ws.Root()
	if root == "" {
		return zerr.Wrap(domain.ErrWorkspaceNotFound, "workspace is not open")
	}

	if options.Index {
		path := domain.DefaultIndexPath(root)
		a.logger.Info(fmt.Sprintf("removing %s...", filepath.Base(path)))
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove index manifest"), "path", path)
		}
		if err := a.indexer.Open(path); err != nil {
			return err
		}
		a.logger.Info("removed index manifest")
	}
	return nil
}

// Watch watches the workspace until ctx is done. Debounced file changes are
// turned into resource deltas, processed by the delta manager and indexed;
// external archives are checked after every batch. listener, when not nil,
// receives the post-change element deltas.
func (a *App) Watch(ctx context.Context, listener ports.DeltaListener) error {
	root := a.ws.Root()
	if root == "" {
		return zerr.Wrap(domain.ErrWorkspaceNotFound, "workspace is not open")
	}
	cfg := a.currentConfig()

	builder := workspace.NewDeltaBuilder(a.ws, cfg.Watch.Ignore)
	if err := builder.Scan(); err != nil {
		return err
	}

	// The first check records the archives already present.
	if _, err := a.manager.CheckExternalArchives(ctx); err != nil {
		return err
	}
	names, _ := a.projects("")
	for _, name := range names {
		if _, ok := a.indexer.Store().Get(domain.ProjectPath(name)); !ok {
			a.indexer.IndexAll(name)
		}
	}
	if err := a.indexer.Flush(ctx); err != nil {
		return err
	}
	if listener != nil {
		id := a.manager.Subscribe(listener, ports.EventPostChange)
		defer a.manager.Unsubscribe(id)
	}

	a.watcher.Ignore(cfg.Watch.Ignore...)
	if err := a.watcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()
	a.logger.Info(fmt.Sprintf("watching %s", root))

	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan []string, watchBatchBuffer)
	debouncer := watcher.NewDebouncer(cfg.Watch.Debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-batches:
				a.process(ctx, builder, paths)
			}
		}
	})

	return g.Wait()
}

// process runs one delta pass for a batch of changed OS paths. Failures are
// logged so that watching goes on.
func (a *App) process(ctx context.Context, builder *workspace.DeltaBuilder, paths []string) {
	rd, err := builder.Build(paths)
	if err != nil {
		a.logger.Error(err)
		return
	}
	if rd != nil {
		if _, err := a.manager.ResourceChanged(ctx, rd); err != nil {
			a.logger.Error(err)
		}
	}
	if _, err := a.manager.CheckExternalArchives(ctx); err != nil {
		a.logger.Error(err)
	}
	if err := a.indexer.Flush(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error(err)
	}
}

// EnableTracing reports slow and failed spans through the logger. The returned
// function flushes and uninstalls the tracer provider.
func (a *App) EnableTracing() func(context.Context) error {
	return telemetry.Install(a.logger, telemetry.DefaultSlowSpan)
}

// SetJSONLogs switches the logger to JSON lines when it supports them.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}
