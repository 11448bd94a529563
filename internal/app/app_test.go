package app_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/adapters/archive"
	"go.trai.ch/jmodel/internal/adapters/classpathxml"
	"go.trai.ch/jmodel/internal/adapters/config"
	"go.trai.ch/jmodel/internal/adapters/indexer"
	"go.trai.ch/jmodel/internal/adapters/telemetry"
	"go.trai.ch/jmodel/internal/adapters/watcher"
	"go.trai.ch/jmodel/internal/adapters/workspace"
	"go.trai.ch/jmodel/internal/app"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/core/ports/mocks"
	"go.trai.ch/jmodel/internal/engine/cache"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.trai.ch/jmodel/internal/engine/delta"
	"go.uber.org/mock/gomock"
)

const javaProject = `<?xml version="1.0" encoding="UTF-8"?>
<projectDescription>
	<natures>
		<nature>org.eclipse.jdt.core.javanature</nature>
	</natures>
</projectDescription>
`

const classpathP = `<?xml version="1.0" encoding="UTF-8"?>
<classpath>
	<classpathentry path="src"   kind="src"/>
	<classpathentry kind="lib" path="lib/a.jar"/>
	<classpathentry kind="src" path="/Q"/>
	<classpathentry kind="con" path="JRE/lib"/>
	<classpathentry kind="output" path="bin"/>
</classpath>
`

const classpathQ = `<?xml version="1.0" encoding="UTF-8"?>
<classpath>
	<classpathentry kind="src" path="src"/>
	<classpathentry kind="output" path="bin"/>
</classpath>
`

const workfile = `containers:
  JRE/lib:
    description: Java runtime
    entries:
      - { kind: lib, path: /opt/jre/rt.jar }
watch:
  debounce: 10ms
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

// newWorkspace creates the Java projects P and Q, where P references Q and
// misses its library.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.ConfigFileName), workfile)
	for _, name := range []string{"P", "Q"} {
		writeFile(t, filepath.Join(root, name, domain.ProjectFileName), javaProject)
		writeFile(t, filepath.Join(root, name, "src", "A.java"), "class A {}")
	}
	writeFile(t, filepath.Join(root, "P", domain.ClasspathFileName), classpathP)
	writeFile(t, filepath.Join(root, "Q", domain.ClasspathFileName), classpathQ)
	return root
}

func newApp(t *testing.T, root string) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	tracer := telemetry.NewNoOpTracer()
	ws := workspace.NewOS()
	engine := classpath.New(ws, classpathxml.New(), archive.NewManifestReader(), cache.NewTable(), tracer, log)
	ix := indexer.New(ws, tracer, log)
	manager := delta.New(ws, engine, ix, tracer, log)
	a := app.New(config.NewLoader(log), ws, engine, manager, ix, watcher.NewWatcher(log), log)
	require.NoError(t, a.Open(root))
	return a
}

func entryPaths(entries domain.Entries) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path().String())
	}
	return out
}

func TestApp_Open_DiscoversRoot(t *testing.T) {
	t.Parallel()
	root := newWorkspace(t)

	a := newApp(t, filepath.Join(root, "P", "src"))
	resolved, err := filepath.EvalSymlinks(a.Root())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

func TestApp_Open_NewRootDropsCachedClasspaths(t *testing.T) {
	t.Parallel()
	a := newApp(t, newWorkspace(t))

	got, err := a.Resolve(context.Background(), app.ResolveOptions{Project: "P"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, entryPaths(got[0].Entries), "/P/lib/a.jar")

	other := t.TempDir()
	writeFile(t, filepath.Join(other, domain.ConfigFileName), workfile)
	writeFile(t, filepath.Join(other, "P", domain.ProjectFileName), javaProject)
	writeFile(t, filepath.Join(other, "P", domain.ClasspathFileName), classpathQ)
	require.NoError(t, a.Open(other))

	got, err = a.Resolve(context.Background(), app.ResolveOptions{Project: "P"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"/P/src"}, entryPaths(got[0].Entries))
}

func TestApp_Resolve(t *testing.T) {
	t.Parallel()
	a := newApp(t, newWorkspace(t))

	got, err := a.Resolve(context.Background(), app.ResolveOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "P", got[0].Project)
	assert.Equal(t, []string{"/P/src", "/P/lib/a.jar", "/Q", "/opt/jre/rt.jar"}, entryPaths(got[0].Entries))
	assert.Equal(t, domain.Path("/P/bin"), got[0].Output)
	assert.True(t, got[0].Status.IsOK())

	assert.Equal(t, "Q", got[1].Project)
	assert.Equal(t, []string{"/Q/src"}, entryPaths(got[1].Entries))
}

func TestApp_Resolve_Expanded(t *testing.T) {
	t.Parallel()
	a := newApp(t, newWorkspace(t))

	got, err := a.Resolve(context.Background(), app.ResolveOptions{Project: "P", Expanded: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"/P/src", "/P/lib/a.jar", "/Q", "/Q/src", "/opt/jre/rt.jar"}, entryPaths(got[0].Entries))
}

func TestApp_Resolve_UnknownProject(t *testing.T) {
	t.Parallel()
	a := newApp(t, newWorkspace(t))

	_, err := a.Resolve(context.Background(), app.ResolveOptions{Project: "Nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProjectNotFound))
}

func TestApp_Validate(t *testing.T) {
	t.Parallel()
	a := newApp(t, newWorkspace(t))

	got, err := a.Validate(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidationFailed))
	require.Len(t, got, 2)

	problems := got[0].Status.Problems()
	require.NotEmpty(t, problems)
	codes := make([]domain.StatusCode, 0, len(problems))
	for _, p := range problems {
		codes = append(codes, p.Code)
	}
	assert.Contains(t, codes, domain.StatusUnboundLibrary)
	assert.True(t, got[1].Status.IsOK())

	qOnly, err := a.Validate(context.Background(), "Q")
	require.NoError(t, err)
	require.Len(t, qOnly, 1)
}

func TestApp_FormatClasspath(t *testing.T) {
	t.Parallel()
	root := newWorkspace(t)
	a := newApp(t, root)

	changed, err := a.FormatClasspath(context.Background(), "P")
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(filepath.Join(root, "P", domain.ClasspathFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<classpathentry kind="src" path="src"/>`)

	changed, err = a.FormatClasspath(context.Background(), "P")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = a.FormatClasspath(context.Background(), "Q")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestApp_Clean(t *testing.T) {
	t.Parallel()
	root := newWorkspace(t)
	a := newApp(t, root)
	writeFile(t, domain.DefaultIndexPath(root), `{"version":1,"indexes":{}}`)

	require.NoError(t, a.Clean(context.Background(), app.CleanOptions{Index: true}))
	_, err := os.Stat(domain.DefaultIndexPath(root))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApp_Watch(t *testing.T) {
	t.Parallel()
	root := newWorkspace(t)
	a := newApp(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deltas := make(chan *domain.ElementDelta, 8)
	listener := ports.DeltaListenerFunc(func(_ context.Context, event ports.ElementChangedEvent) error {
		select {
		case deltas <- event.Delta:
		default:
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, listener) }()

	// Writes are repeated with new content until the watcher is up and
	// reports them.
	var got *domain.ElementDelta
	revision := 0
	require.Eventually(t, func() bool {
		revision++
		content := fmt.Sprintf("class B { int r = %d; }", revision)
		_ = os.WriteFile(filepath.Join(root, "Q", "src", "B.java"), []byte(content), domain.FilePerm)
		select {
		case got = <-deltas:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	assert.NotNil(t, got.Find(domain.ProjectElement("Q")))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	_, err := os.Stat(domain.DefaultIndexPath(root))
	require.NoError(t, err)
}

func TestApp_Watch_NotOpen(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	ws := workspace.NewOS()
	tracer := telemetry.NewNoOpTracer()
	engine := classpath.New(ws, classpathxml.New(), archive.NewManifestReader(), cache.NewTable(), tracer, log)
	ix := indexer.New(ws, tracer, log)
	a := app.New(config.NewLoader(log), ws, engine, delta.New(ws, engine, ix, tracer, log), ix, watcher.NewWatcher(log), log)

	err := a.Watch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWorkspaceNotFound))
}
