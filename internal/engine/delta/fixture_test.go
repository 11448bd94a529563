package delta_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/adapters/classpathxml"
	"go.trai.ch/jmodel/internal/adapters/telemetry"
	"go.trai.ch/jmodel/internal/adapters/workspace"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports/mocks"
	"go.trai.ch/jmodel/internal/engine/cache"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.trai.ch/jmodel/internal/engine/delta"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	t       *testing.T
	ctrl    *gomock.Controller
	ws      *workspace.Memory
	codec   *classpathxml.Codec
	engine  *classpath.Engine
	indexer *mocks.MockIndexer
	logger  *mocks.MockLogger
	manager *delta.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockManifestReader(ctrl)
	reader.EXPECT().ReadClassPath(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	f := &fixture{
		t:       t,
		ctrl:    ctrl,
		ws:      workspace.NewMemory("/ws"),
		codec:   classpathxml.New(),
		indexer: mocks.NewMockIndexer(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	f.engine = classpath.New(f.ws, f.codec, reader, cache.NewTable(), telemetry.NewNoOpTracer(), f.logger)
	return f
}

// lenient accepts any log call.
func (f *fixture) lenient() *fixture {
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return f
}

// anyIndexing accepts any indexing request.
func (f *fixture) anyIndexing() *fixture {
	f.indexer.EXPECT().IndexAll(gomock.Any()).AnyTimes()
	f.indexer.EXPECT().IndexLibrary(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.indexer.EXPECT().IndexSourceFolder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.indexer.EXPECT().RemoveSourceFolder(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.indexer.EXPECT().RemoveIndex(gomock.Any()).AnyTimes()
	f.indexer.EXPECT().RemoveIndexFamily(gomock.Any()).AnyTimes()
	f.indexer.EXPECT().AddSource(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	f.indexer.EXPECT().AddBinary(gomock.Any(), gomock.Any()).AnyTimes()
	f.indexer.EXPECT().Remove(gomock.Any(), gomock.Any()).AnyTimes()
	f.indexer.EXPECT().DiscardJobs(gomock.Any()).AnyTimes()
	return f
}

// start creates the manager. Projects created before start are known to it.
func (f *fixture) start() *fixture {
	f.manager = delta.New(f.ws, f.engine, f.indexer, telemetry.NewNoOpTracer(), f.logger)
	return f
}

// project creates an open Java project whose classpath file holds entries
// followed by the output folder /<name>/bin.
func (f *fixture) project(name string, entries ...domain.ClasspathEntry) {
	f.t.Helper()
	f.ws.AddProject(name, true)
	f.writeClasspath(name, entries...)
}

func (f *fixture) writeClasspath(name string, entries ...domain.ClasspathEntry) {
	f.t.Helper()
	file := domain.ClasspathFile{Entries: append(entries, domain.NewOutputEntry(domain.ProjectPath(name).Append("bin")))}
	data, err := f.codec.Encode(name, file)
	require.NoError(f.t, err)
	require.NoError(f.t, f.ws.WriteFile(domain.ClasspathFilePath(name), data))
}

func (f *fixture) touch(paths ...domain.Path) {
	f.t.Helper()
	for _, p := range paths {
		require.NoError(f.t, f.ws.WriteFile(p, []byte("class X {}")))
	}
}

func (f *fixture) process(rd *domain.ResourceDelta) *domain.ElementDelta {
	f.t.Helper()
	d, err := f.manager.ResourceChanged(context.Background(), rd)
	require.NoError(f.t, err)
	return d
}

func (f *fixture) children(element domain.Element) []domain.Element {
	f.t.Helper()
	children, err := f.manager.Children(context.Background(), element)
	require.NoError(f.t, err)
	return children
}

func render(d *domain.ElementDelta) string {
	if d == nil {
		return "<nil>"
	}
	return d.String()
}

func workspaceDelta(projects ...*domain.ResourceDelta) *domain.ResourceDelta {
	return &domain.ResourceDelta{Kind: domain.ResourceChanged, Path: "/", Type: domain.TypeRoot, Children: projects}
}

func projectDelta(kind domain.ResourceDeltaKind, name string, flags domain.ResourceFlags, children ...*domain.ResourceDelta) *domain.ResourceDelta {
	return &domain.ResourceDelta{Kind: kind, Flags: flags, Path: domain.ProjectPath(name), Type: domain.TypeProject, Children: children}
}

func folderDelta(kind domain.ResourceDeltaKind, path domain.Path, children ...*domain.ResourceDelta) *domain.ResourceDelta {
	return &domain.ResourceDelta{Kind: kind, Path: path, Type: domain.TypeFolder, Children: children}
}

func fileDelta(kind domain.ResourceDeltaKind, path domain.Path, flags domain.ResourceFlags) *domain.ResourceDelta {
	return &domain.ResourceDelta{Kind: kind, Flags: flags, Path: path, Type: domain.TypeFile}
}

func movedTo(d *domain.ResourceDelta, to domain.Path) *domain.ResourceDelta {
	d.Flags |= domain.FlagMovedTo
	d.MovedToPath = to
	return d
}

func movedFrom(d *domain.ResourceDelta, from domain.Path) *domain.ResourceDelta {
	d.Flags |= domain.FlagMovedFrom
	d.MovedFromPath = from
	return d
}

// inPackage wraps changes below /P/src/com/acme into their enclosing deltas.
func inPackage(changes ...*domain.ResourceDelta) *domain.ResourceDelta {
	return workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceChanged, "/P/src",
				folderDelta(domain.ResourceChanged, "/P/src/com",
					folderDelta(domain.ResourceChanged, "/P/src/com/acme", changes...),
				),
			),
		),
	)
}

var (
	acme  = domain.PackageElement("P", "/P/src", "com.acme")
	unitA = domain.CompilationUnitElement(acme, "A.java")
	unitB = domain.CompilationUnitElement(acme, "B.java")
)

// sourceProject creates project P with the source folder /P/src and the
// package com.acme.
func (f *fixture) sourceProject() {
	f.project("P", domain.NewSourceEntry("/P/src"))
	f.ws.Mkdir("/P/src/com/acme")
}
