package delta_test

import (
	"context"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.uber.org/mock/gomock"
)

func TestResourceChanged_CompilationUnitAdded(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.start()

	assert.Empty(t, f.children(acme))

	f.indexer.EXPECT().AddSource(domain.Path("/P/src/com/acme/A.java"), domain.Path("/P"), "")

	var events []ports.ElementChangedEvent
	f.manager.Subscribe(ports.DeltaListenerFunc(func(_ context.Context, e ports.ElementChangedEvent) error {
		events = append(events, e)
		return nil
	}), ports.EventPostChange)

	f.touch("/P/src/com/acme/A.java")
	d := f.process(inPackage(fileDelta(domain.ResourceAdded, "/P/src/com/acme/A.java", 0)))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN}\n"+
		"\t\tsrc[*]: {CHILDREN}\n"+
		"\t\t\tcom.acme[*]: {CHILDREN}\n"+
		"\t\t\t\tA.java[+]: {}", render(d))

	require.Len(t, events, 1)
	assert.Same(t, d, events[0].Delta)
	assert.Equal(t, ports.EventPostChange, events[0].Type)
	assert.Equal(t, []domain.Element{unitA}, f.children(acme))
}

func TestResourceChanged_CompilationUnitRemoved(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.touch("/P/src/com/acme/A.java")
	f.start()

	assert.Equal(t, []domain.Element{unitA}, f.children(acme))

	f.indexer.EXPECT().Remove(domain.Path("src/com/acme/A.java"), domain.Path("/P"))

	f.ws.Delete("/P/src/com/acme/A.java")
	d := f.process(inPackage(fileDelta(domain.ResourceRemoved, "/P/src/com/acme/A.java", 0)))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN}\n"+
		"\t\tsrc[*]: {CHILDREN}\n"+
		"\t\t\tcom.acme[*]: {CHILDREN}\n"+
		"\t\t\t\tA.java[-]: {}", render(d))
	assert.Empty(t, f.children(acme))
	_, known := f.manager.Model().Lookup(unitA)
	assert.False(t, known)
}

func TestResourceChanged_MoveWithinPackage(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.touch("/P/src/com/acme/A.java")
	f.start()

	gomock.InOrder(
		f.indexer.EXPECT().Remove(domain.Path("src/com/acme/A.java"), domain.Path("/P")),
		f.indexer.EXPECT().AddSource(domain.Path("/P/src/com/acme/B.java"), domain.Path("/P"), ""),
	)

	d := f.process(inPackage(
		movedTo(fileDelta(domain.ResourceRemoved, "/P/src/com/acme/A.java", 0), "/P/src/com/acme/B.java"),
		movedFrom(fileDelta(domain.ResourceAdded, "/P/src/com/acme/B.java", 0), "/P/src/com/acme/A.java"),
	))

	g := goldie.New(t)
	g.Assert(t, "move_within_package", []byte(render(d)))

	removed := d.Find(unitA)
	require.NotNil(t, removed)
	assert.Equal(t, unitB, removed.MovedToElement())
	added := d.Find(unitB)
	require.NotNil(t, added)
	assert.Equal(t, unitA, added.MovedFromElement())
}

func TestResourceChanged_MoveOutOfSourceFolder(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.touch("/P/src/com/acme/A.java")
	f.start()

	f.indexer.EXPECT().Remove(domain.Path("src/com/acme/A.java"), domain.Path("/P"))

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceChanged, "/P/src",
				folderDelta(domain.ResourceChanged, "/P/src/com",
					folderDelta(domain.ResourceChanged, "/P/src/com/acme",
						movedTo(fileDelta(domain.ResourceRemoved, "/P/src/com/acme/A.java", 0), "/P/docs/A.java"),
					),
				),
			),
			folderDelta(domain.ResourceAdded, "/P/docs",
				movedFrom(fileDelta(domain.ResourceAdded, "/P/docs/A.java", 0), "/P/src/com/acme/A.java"),
			),
		),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN | CONTENT}\n"+
		"\t\tsrc[*]: {CHILDREN}\n"+
		"\t\t\tcom.acme[*]: {CHILDREN}\n"+
		"\t\t\t\tA.java[-]: {}\n"+
		"\t\tResourceDelta(/P/docs)[+]", render(d))
}

func TestResourceChanged_ContentChanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.touch("/P/src/com/acme/A.java", "/P/src/com/acme/B.java")
	f.start()

	f.manager.Model().BecomeWorkingCopy(unitB)
	f.indexer.EXPECT().AddSource(domain.Path("/P/src/com/acme/A.java"), domain.Path("/P"), "")
	f.indexer.EXPECT().AddSource(domain.Path("/P/src/com/acme/B.java"), domain.Path("/P"), "")

	d := f.process(inPackage(
		fileDelta(domain.ResourceChanged, "/P/src/com/acme/A.java", domain.FlagContent),
		fileDelta(domain.ResourceChanged, "/P/src/com/acme/B.java", domain.FlagContent),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN}\n"+
		"\t\tsrc[*]: {CHILDREN}\n"+
		"\t\t\tcom.acme[*]: {CHILDREN}\n"+
		"\t\t\t\tA.java[*]: {CONTENT}\n"+
		"\t\t\t\tB.java[*]: {CONTENT | PRIMARY RESOURCE}", render(d))
}

func TestResourceChanged_MarkerOnlyChangeFiresNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.touch("/P/src/com/acme/A.java")
	f.start()

	fired := false
	f.manager.Subscribe(ports.DeltaListenerFunc(func(context.Context, ports.ElementChangedEvent) error {
		fired = true
		return nil
	}), 0)

	d := f.process(inPackage(fileDelta(domain.ResourceChanged, "/P/src/com/acme/A.java", domain.FlagMarkers)))

	assert.Nil(t, d)
	assert.False(t, fired)
}

func TestResourceChanged_MarkerAndSyncOnlyNonJavaChangesFireNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.touch("/P/readme.txt")
	f.touch("/P/notes.txt")
	f.start()
	f.children(domain.ProjectElement("P"))

	fired := 0
	f.manager.Subscribe(ports.DeltaListenerFunc(func(context.Context, ports.ElementChangedEvent) error {
		fired++
		return nil
	}), 0)

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			fileDelta(domain.ResourceChanged, "/P/readme.txt", domain.FlagMarkers),
			fileDelta(domain.ResourceChanged, "/P/notes.txt", domain.FlagSync|domain.FlagMarkers),
		),
	))
	assert.Nil(t, d)
	assert.Zero(t, fired)

	d = f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			fileDelta(domain.ResourceChanged, "/P/readme.txt", domain.FlagContent|domain.FlagMarkers),
		),
	))
	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CONTENT}\n"+
		"\t\tResourceDelta(/P/readme.txt)[*]", render(d))
	assert.Equal(t, 1, fired)
}

func TestResourceChanged_NonJavaResource(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.start()

	project := domain.ProjectElement("P")
	f.children(project)

	f.touch("/P/readme.txt")
	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0, fileDelta(domain.ResourceAdded, "/P/readme.txt", 0)),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CONTENT}\n"+
		"\t\tResourceDelta(/P/readme.txt)[+]", render(d))

	info, ok := f.manager.Model().Info(project)
	require.True(t, ok)
	assert.Contains(t, info.NonJava, domain.Path("/P/readme.txt"))
}

func TestResourceChanged_InvalidPackageFolder(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.start()

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceChanged, "/P/src",
				folderDelta(domain.ResourceAdded, "/P/src/my-dir",
					fileDelta(domain.ResourceAdded, "/P/src/my-dir/X.java", 0),
				),
			),
		),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN}\n"+
		"\t\tsrc[*]: {CONTENT}\n"+
		"\t\t\tResourceDelta(/P/src/my-dir)[+]", render(d))
}

func TestResourceChanged_OutputFolderIsFiltered(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.start()

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceChanged, "/P/bin",
				fileDelta(domain.ResourceAdded, "/P/bin/A.class", 0),
			),
		),
	))

	assert.Nil(t, d)
}

func TestResourceChanged_NestedRootBelowNonJavaFolder(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/a/src"))
	f.ws.Mkdir("/P/a/src")
	f.start()

	f.indexer.EXPECT().AddSource(domain.Path("/P/a/src/X.java"), domain.Path("/P"), "")

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceChanged, "/P/a",
				folderDelta(domain.ResourceChanged, "/P/a/src",
					fileDelta(domain.ResourceAdded, "/P/a/src/X.java", 0),
				),
				fileDelta(domain.ResourceAdded, "/P/a/notes.txt", 0),
			),
		),
	))

	g := goldie.New(t)
	g.Assert(t, "nested_root", []byte(render(d)))
}

func TestResourceChanged_SourceFolderAdded(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/src"), domain.NewSourceEntry("/P/gen"))
	f.ws.Mkdir("/P/src")
	f.start()

	f.indexer.EXPECT().IndexSourceFolder("P", domain.Path("/P/gen"), gomock.Nil(), gomock.Nil())

	f.touch("/P/gen/G.java")
	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceAdded, "/P/gen",
				fileDelta(domain.ResourceAdded, "/P/gen/G.java", 0),
			),
		),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN}\n"+
		"\t\tgen[+]: {}", render(d))
}

func TestResourceChanged_ArchiveContentChanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/src"), domain.NewLibraryEntry("/P/lib/a.jar"))
	f.ws.Mkdir("/P/src")
	f.touch("/P/lib/a.jar")
	f.start()

	f.indexer.EXPECT().IndexLibrary(domain.Path("/P/lib/a.jar"), "P", "")

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			folderDelta(domain.ResourceChanged, "/P/lib",
				fileDelta(domain.ResourceChanged, "/P/lib/a.jar", domain.FlagContent),
			),
		),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CHILDREN}\n"+
		"\t\tlib/a.jar[*]: {CONTENT | ARCHIVE CONTENT CHANGED}", render(d))

	info, ok := f.engine.Table().Lookup("P")
	require.True(t, ok)
	_, resolved := info.Resolved()
	assert.False(t, resolved)
}

func TestResourceChanged_ClasspathFileChanged(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/src"))
	f.ws.Mkdir("/P/src")
	f.touch("/P/lib/a.jar")
	f.start()

	roots := f.manager.Roots(context.Background())
	assert.Equal(t, 1, roots.Len())

	f.indexer.EXPECT().IndexLibrary(domain.Path("/P/lib/a.jar"), "P", "")

	f.writeClasspath("P", domain.NewSourceEntry("/P/src"), domain.NewLibraryEntry("/P/lib/a.jar"))
	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			fileDelta(domain.ResourceChanged, domain.ClasspathFilePath("P"), domain.FlagContent),
		),
	))

	g := goldie.New(t)
	g.Assert(t, "classpath_changed", []byte(render(d)))

	roots = f.manager.Roots(context.Background())
	_, ok := roots.Root("P", "/P/lib/a.jar")
	assert.True(t, ok)
	assert.Equal(t, 2, roots.Len())
}

func TestResourceChanged_UnchangedClasspathFile(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/src"))
	f.ws.Mkdir("/P/src")
	f.start()
	f.manager.Roots(context.Background())

	d := f.process(workspaceDelta(
		projectDelta(domain.ResourceChanged, "P", 0,
			fileDelta(domain.ResourceChanged, domain.ClasspathFilePath("P"), domain.FlagContent),
		),
	))

	assert.Equal(t, "Java Model[*]: {CHILDREN}\n"+
		"\tP[*]: {CONTENT}\n"+
		"\t\tResourceDelta(/P/.classpath)[*]", render(d))
}

func TestResourceChanged_ProjectLifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(f *fixture)
		change func(f *fixture) *domain.ResourceDelta
		expect func(f *fixture)
		want   string
	}{
		{
			name:  "added",
			setup: func(*fixture) {},
			change: func(f *fixture) *domain.ResourceDelta {
				f.project("Q", domain.NewSourceEntry("/Q/src"))
				return workspaceDelta(projectDelta(domain.ResourceAdded, "Q", 0))
			},
			expect: func(f *fixture) {
				f.indexer.EXPECT().IndexAll("Q")
			},
			want: "Java Model[*]: {CHILDREN}\n\tQ[+]: {}",
		},
		{
			name:  "removed",
			setup: func(*fixture) {},
			change: func(f *fixture) *domain.ResourceDelta {
				f.ws.RemoveProject("P")
				return workspaceDelta(projectDelta(domain.ResourceRemoved, "P", 0))
			},
			expect: func(f *fixture) {
				f.indexer.EXPECT().DiscardJobs("P")
				f.indexer.EXPECT().RemoveIndexFamily(domain.Path("/P"))
			},
			want: "Java Model[*]: {CHILDREN}\n\tP[-]: {}",
		},
		{
			name:  "closed",
			setup: func(*fixture) {},
			change: func(f *fixture) *domain.ResourceDelta {
				f.ws.SetOpen("P", false)
				return workspaceDelta(projectDelta(domain.ResourceChanged, "P", domain.FlagOpen))
			},
			expect: func(f *fixture) {
				f.indexer.EXPECT().DiscardJobs("P")
				f.indexer.EXPECT().RemoveIndexFamily(domain.Path("/P"))
			},
			want: "Java Model[*]: {CHILDREN}\n\tP[*]: {CLOSED}",
		},
		{
			name: "opened",
			setup: func(f *fixture) {
				f.ws.SetOpen("P", false)
			},
			change: func(f *fixture) *domain.ResourceDelta {
				f.ws.SetOpen("P", true)
				return workspaceDelta(projectDelta(domain.ResourceChanged, "P", domain.FlagOpen))
			},
			expect: func(f *fixture) {
				f.indexer.EXPECT().IndexAll("P")
			},
			want: "Java Model[*]: {CHILDREN}\n\tP[*]: {OPENED}",
		},
		{
			name:  "nature removed",
			setup: func(*fixture) {},
			change: func(f *fixture) *domain.ResourceDelta {
				f.ws.SetJavaNature("P", false)
				return workspaceDelta(projectDelta(domain.ResourceChanged, "P", domain.FlagDescription))
			},
			expect: func(f *fixture) {
				f.indexer.EXPECT().DiscardJobs("P")
				f.indexer.EXPECT().RemoveIndexFamily(domain.Path("/P"))
			},
			want: "Java Model[*]: {CHILDREN}\n\tP[-]: {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t).lenient()
			f.sourceProject()
			tt.setup(f)
			f.start()

			tt.expect(f)
			d := f.process(tt.change(f))
			assert.Equal(t, tt.want, render(d))
		})
	}
}

func TestResourceChanged_WrapsProjectDelta(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.start()

	f.touch("/P/readme.txt")
	d := f.process(projectDelta(domain.ResourceChanged, "P", 0, fileDelta(domain.ResourceAdded, "/P/readme.txt", 0)))

	require.NotNil(t, d)
	assert.NotNil(t, d.Find(domain.ProjectElement("P")))
}

func TestResourceChanged_Nil(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient().start()

	d, err := f.manager.ResourceChanged(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestChildren(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/src"), domain.NewLibraryEntry("/P/lib/a.jar"))
	f.ws.Mkdir("/P/src/my-dir")
	f.ws.Mkdir("/P/bin")
	f.touch(
		"/P/src/Top.java",
		"/P/src/com/acme/A.java",
		"/P/src/com/acme/notes.txt",
		"/P/lib/a.jar",
		"/P/readme.txt",
	)
	f.ws.AddProject("Plain", false)
	f.start()

	model := f.manager.Model()
	project := domain.ProjectElement("P")
	src := domain.RootElement("P", "/P/src")
	lib := domain.RootElement("P", "/P/lib/a.jar")
	defaultPackage := domain.PackageElement("P", "/P/src", "")
	com := domain.PackageElement("P", "/P/src", "com")

	assert.Equal(t, []domain.Element{project}, f.children(domain.ModelElement()))
	info, _ := model.Info(domain.ModelElement())
	assert.Equal(t, []domain.Path{"/Plain"}, info.NonJava)

	assert.Equal(t, []domain.Element{src, lib}, f.children(project))
	info, _ = model.Info(project)
	assert.Equal(t, []domain.Path{"/P/.classpath", "/P/readme.txt"}, info.NonJava)

	assert.Equal(t, []domain.Element{defaultPackage, com, acme}, f.children(src))
	info, _ = model.Info(src)
	assert.Equal(t, []domain.Path{"/P/src/my-dir"}, info.NonJava)

	assert.Equal(t, []domain.Element{domain.CompilationUnitElement(defaultPackage, "Top.java")}, f.children(defaultPackage))
	assert.Equal(t, []domain.Element{unitA}, f.children(acme))
	info, _ = model.Info(acme)
	assert.Equal(t, []domain.Path{"/P/src/com/acme/notes.txt"}, info.NonJava)

	assert.Empty(t, f.children(lib))
}

func TestChildren_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient()
	f.sourceProject()
	f.ws.AddProject("Closed", true)
	f.ws.SetOpen("Closed", false)
	f.start()
	ctx := context.Background()

	_, err := f.manager.Children(ctx, domain.ProjectElement("Missing"))
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = f.manager.Children(ctx, domain.ProjectElement("Closed"))
	require.ErrorIs(t, err, domain.ErrProjectClosed)

	_, err = f.manager.Children(ctx, domain.RootElement("P", "/P/nope"))
	require.ErrorIs(t, err, domain.ErrResourceNotFound)
}

func TestSync_TakesExistingProjectsAsKnown(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient().start()

	f.project("Q", domain.NewSourceEntry("/Q/src"))
	f.manager.Sync()

	d := f.process(workspaceDelta(projectDelta(domain.ResourceChanged, "Q", 0)))
	assert.Nil(t, d)
	assert.Equal(t, []domain.Element{domain.RootElement("Q", "/Q/src")}, f.children(domain.ProjectElement("Q")))
}

func TestSync_ConcurrentWithModelReaders(t *testing.T) {
	t.Parallel()
	f := newFixture(t).lenient().anyIndexing()
	f.sourceProject()
	f.start()
	project := domain.ProjectElement("P")
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			f.manager.Sync()
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			f.manager.Model().IsOpen(project)
			_, err := f.manager.Children(ctx, project)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Equal(t, []domain.Element{domain.RootElement("P", "/P/src")}, f.children(project))
}
