package classpath_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/adapters/classpathxml"
	"go.trai.ch/jmodel/internal/adapters/telemetry"
	"go.trai.ch/jmodel/internal/adapters/workspace"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/core/ports/mocks"
	"go.trai.ch/jmodel/internal/engine/cache"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const root = "/ws"

type fixture struct {
	t      *testing.T
	ctrl   *gomock.Controller
	ws     *workspace.Memory
	codec  *classpathxml.Codec
	logger *mocks.MockLogger
	engine *classpath.Engine

	mu        sync.Mutex
	manifests map[string][]string
	broken    map[string]bool
	reads     map[string]int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		t:         t,
		ctrl:      ctrl,
		ws:        workspace.NewMemory(root),
		codec:     classpathxml.New(),
		logger:    mocks.NewMockLogger(ctrl),
		manifests: make(map[string][]string),
		broken:    make(map[string]bool),
		reads:     make(map[string]int),
	}

	reader := mocks.NewMockManifestReader(ctrl)
	reader.EXPECT().ReadClassPath(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, archive string) ([]string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			key := filepath.ToSlash(archive)
			f.reads[key]++
			if f.broken[key] {
				return nil, zerr.Wrap(domain.ErrArchiveOpenFailed, "open archive")
			}
			return f.manifests[key], nil
		}).AnyTimes()

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

// project creates an open Java project with the given classpath file entries.
// Without entries no classpath file is written.
func (f *fixture) project(name string, entries ...domain.ClasspathEntry) {
	f.t.Helper()
	f.ws.AddProject(name, true)
	if len(entries) > 0 {
		f.writeClasspath(name, domain.ClasspathFile{Entries: entries})
	}
}

func (f *fixture) writeClasspath(name string, file domain.ClasspathFile) {
	f.t.Helper()
	if file.OutputLocation().IsEmpty() {
		file.Entries = append(file.Entries, domain.NewOutputEntry(domain.ProjectPath(name).Append("bin")))
	}
	data, err := f.codec.Encode(name, file)
	require.NoError(f.t, err)
	require.NoError(f.t, f.ws.WriteFile(domain.ClasspathFilePath(name), data))
}

// archive creates a workspace file standing for an archive, chaining to names.
func (f *fixture) archive(path domain.Path, chained ...string) {
	f.t.Helper()
	require.NoError(f.t, f.ws.WriteFile(path, []byte("PK")))
	f.chain(path, chained...)
}

// external creates an archive outside the workspace.
func (f *fixture) external(osPath string, chained ...string) {
	f.ws.WriteExternal(osPath, []byte("PK"))
	f.chain(domain.NewPath(osPath), chained...)
}

func (f *fixture) chain(path domain.Path, names ...string) {
	osPath, _ := f.ws.Location(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manifests[filepath.ToSlash(osPath)] = names
}

func (f *fixture) breakArchive(path domain.Path) {
	osPath, _ := f.ws.Location(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken[filepath.ToSlash(osPath)] = true
}

func (f *fixture) manifestReads(path domain.Path) int {
	osPath, _ := f.ws.Location(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[filepath.ToSlash(osPath)]
}

func (f *fixture) resolve(project string) *domain.ResolvedClasspath {
	f.t.Helper()
	res, err := f.engine.Resolve(context.Background(), project)
	require.NoError(f.t, err)
	return res
}

// staticContainer is a container with a fixed entry list.
type staticContainer struct {
	description string
	entries     domain.Entries
}

func (c *staticContainer) Description() string     { return c.description }
func (c *staticContainer) Entries() domain.Entries { return c.entries }

var _ ports.Container = (*staticContainer)(nil)

func initializerFor(ctrl *gomock.Controller, id string) *mocks.MockContainerInitializer {
	initializer := mocks.NewMockContainerInitializer(ctrl)
	initializer.EXPECT().ID().Return(id).AnyTimes()
	return initializer
}

func paths(entries domain.Entries) []domain.Path {
	out := make([]domain.Path, len(entries))
	for i, e := range entries {
		out[i] = e.Path()
	}
	return out
}

func codes(status domain.Status) []domain.StatusCode {
	var out []domain.StatusCode
	for _, p := range status.Problems() {
		out = append(out, p.Code)
	}
	return out
}
