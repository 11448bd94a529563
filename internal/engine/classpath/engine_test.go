package classpath_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/core/ports"
	"go.trai.ch/jmodel/internal/engine/classpath"
	"go.uber.org/mock/gomock"
)

func TestEngine_Resolve(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P",
		domain.NewSourceEntry("/P/src"),
		domain.NewLibraryEntry("/P/lib/a.jar"),
		domain.NewContainerEntry("JRE"),
	)
	f.ws.Mkdir("/P/src")
	f.archive("/P/lib/a.jar", "b.jar")
	f.archive("/P/lib/b.jar")

	jre := initializerFor(f.ctrl, "JRE")
	jre.EXPECT().Initialize(gomock.Any(), domain.Path("JRE"), "P").
		Return(&staticContainer{entries: domain.Entries{domain.NewLibraryEntry("/jdk/rt.jar")}}, nil).
		Times(1)
	f.engine.Containers().Register(jre)

	res := f.resolve("P")

	assert.Equal(t, []domain.Path{"/P/src", "/P/lib/b.jar", "/P/lib/a.jar", "/jdk/rt.jar"}, paths(res.Entries()))
	assert.True(t, res.Status().IsOK())
	assert.Equal(t, domain.Path("/P/bin"), res.OutputLocation())

	chained, ok := res.EntryFor("/P/lib/b.jar")
	require.True(t, ok)
	assert.Equal(t, domain.EntryLibrary, chained.Kind())
	require.NotNil(t, chained.ReferencingEntry())
	assert.Equal(t, domain.Path("/P/lib/a.jar"), chained.ReferencingEntry().Path())

	raw, ok := res.RawEntryFor("/P/lib/b.jar")
	require.True(t, ok)
	assert.Equal(t, domain.Path("/P/lib/a.jar"), raw.Path())

	raw, ok = res.RawEntryFor("/jdk/rt.jar")
	require.True(t, ok)
	assert.Equal(t, domain.EntryContainer, raw.Kind())
	assert.Equal(t, classpath.StateDone, f.engine.Containers().State("P", "JRE"))
}

func TestEngine_Resolve_IsCachedAndIdempotent(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P", domain.NewLibraryEntry("/P/lib/a.jar"))
	f.archive("/P/lib/a.jar", "b.jar")
	f.archive("/P/lib/b.jar")

	first := f.resolve("P")
	assert.Same(t, first, f.resolve("P"))

	f.engine.Table().Get("P").ResetCaches()
	again := f.resolve("P")
	assert.NotSame(t, first, again)
	assert.True(t, first.Equal(again))

	// Each manifest is read once until its archive changes, chaining or not.
	assert.Equal(t, 1, f.manifestReads("/P/lib/a.jar"))
	assert.Equal(t, 1, f.manifestReads("/P/lib/b.jar"))

	f.engine.ArchiveChanged("/P/lib/b.jar")
	f.engine.Table().Get("P").ResetCaches()
	f.resolve("P")
	assert.Equal(t, 1, f.manifestReads("/P/lib/a.jar"))
	assert.Equal(t, 2, f.manifestReads("/P/lib/b.jar"))

	f.engine.ArchiveChanged("/P/lib/a.jar")
	f.engine.Table().Get("P").ResetCaches()
	assert.True(t, first.Equal(f.resolve("P")))
	assert.Equal(t, 2, f.manifestReads("/P/lib/a.jar"))
}

func TestEngine_Resolve_ManifestCycle(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P", domain.NewLibraryEntry("/P/lib/a.jar"))
	f.archive("/P/lib/a.jar", "b.jar", "a.jar")
	f.archive("/P/lib/b.jar", "a.jar", "sub/../b.jar")

	res := f.resolve("P")
	assert.Equal(t, []domain.Path{"/P/lib/b.jar", "/P/lib/a.jar"}, paths(res.Entries()))
}

func TestEngine_Resolve_ChainedRawLibraryKeepsRawPosition(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P",
		domain.NewLibraryEntry("/P/lib/a.jar"),
		domain.NewLibraryEntry("/P/lib/b.jar"),
	)
	f.archive("/P/lib/a.jar", "b.jar", "missing.jar")
	f.archive("/P/lib/b.jar")

	res := f.resolve("P")
	assert.Equal(t, []domain.Path{"/P/lib/missing.jar", "/P/lib/a.jar", "/P/lib/b.jar"}, paths(res.Entries()))

	raw, ok := res.RawEntryFor("/P/lib/b.jar")
	require.True(t, ok)
	assert.Equal(t, domain.Path("/P/lib/b.jar"), raw.Path())
}

func TestEngine_Resolve_ChainedInheritsLibrarySettings(t *testing.T) {
	f := newFixture(t).lenient()
	rule := domain.AccessRule{Pattern: "com/internal/**", Kind: domain.AccessNonAccessible}
	f.ws.AddProject("P", true)
	f.writeClasspath("P", domain.ClasspathFile{
		Entries: domain.Entries{
			domain.NewLibraryEntry("/P/lib/a.jar",
				domain.WithExported(true),
				domain.WithAccessRules(rule),
				domain.WithExtraAttributes(domain.Attribute{Name: "javadoc_location", Value: "https://example.org/api"}),
			),
		},
		Referenced: domain.Entries{
			domain.NewLibraryEntry("/P/lib/b.jar", domain.WithSourceAttachment("/P/lib/b-src.zip", "")),
		},
	})
	f.archive("/P/lib/a.jar", "b.jar")
	f.archive("/P/lib/b.jar")

	res := f.resolve("P")

	chained, ok := res.EntryFor("/P/lib/b.jar")
	require.True(t, ok)
	assert.True(t, chained.IsExported())
	assert.Equal(t, []domain.AccessRule{rule}, chained.AccessRules())
	assert.Equal(t, domain.Path("/P/lib/b-src.zip"), chained.SourceAttachmentPath())
	location, ok := chained.ExtraAttribute("javadoc_location")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/api", location)
	assert.Len(t, res.ReferencedEntries(), 1)
}

func TestEngine_Resolve_DefaultClasspath(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P")

	res := f.resolve("P")
	assert.Equal(t, []domain.Path{"/P"}, paths(res.Entries()))
	assert.Equal(t, domain.Path("/P/bin"), res.OutputLocation())
}

func TestEngine_Resolve_InvalidClasspathFile(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)
	f.ws.AddProject("P", true)
	require.NoError(t, f.ws.WriteFile(domain.ClasspathFilePath("P"), []byte("<classpath><classpathentry")))

	res := f.resolve("P")
	assert.Empty(t, res.Entries())
	assert.Equal(t, []domain.StatusCode{domain.StatusInvalidPath}, codes(res.Status()))
}

func TestEngine_Resolve_UnknownProject(t *testing.T) {
	f := newFixture(t).lenient()

	_, err := f.engine.Resolve(context.Background(), "Nope")
	assert.ErrorContains(t, err, "project not found")
}

func TestEngine_Resolve_Variables(t *testing.T) {
	optional := domain.WithExtraAttributes(domain.Attribute{Name: domain.AttributeOptional, Value: "true"})

	tests := []struct {
		name       string
		entry      domain.ClasspathEntry
		wantPaths  []domain.Path
		wantKind   domain.EntryKind
		wantSource domain.Path
		wantCodes  []domain.StatusCode
	}{
		{
			name:       "bound library",
			entry:      domain.NewVariableEntry("LIBS/x.jar", domain.WithSourceAttachment("LIBS/x-src.zip", "")),
			wantPaths:  []domain.Path{"/ext/libs/x.jar"},
			wantKind:   domain.EntryLibrary,
			wantSource: "/ext/libs/x-src.zip",
		},
		{
			name:      "dot dot segments",
			entry:     domain.NewVariableEntry("LIBS/../shared/y.jar"),
			wantPaths: []domain.Path{"/ext/shared/y.jar"},
			wantKind:  domain.EntryLibrary,
		},
		{
			name:      "bound to project",
			entry:     domain.NewVariableEntry("OTHER"),
			wantPaths: []domain.Path{"/Q"},
			wantKind:  domain.EntryProject,
		},
		{
			name:      "unbound",
			entry:     domain.NewVariableEntry("NOPE/x.jar"),
			wantPaths: []domain.Path{},
			wantCodes: []domain.StatusCode{domain.StatusCpVariablePathUnbound},
		},
		{
			name:      "unbound optional",
			entry:     domain.NewVariableEntry("NOPE/x.jar", optional),
			wantPaths: []domain.Path{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t).lenient()
			f.project("Q")
			f.project("P", tt.entry)
			f.engine.Variables().Set("LIBS", "/ext/libs")
			f.engine.Variables().Set("OTHER", "/Q")

			res := f.resolve("P")
			assert.Equal(t, tt.wantPaths, paths(res.Entries()))
			assert.Equal(t, tt.wantCodes, codes(res.Status()))
			if len(tt.wantPaths) == 0 {
				return
			}
			entry := res.Entries()[0]
			assert.Equal(t, tt.wantKind, entry.Kind())
			assert.Equal(t, tt.wantSource, entry.SourceAttachmentPath())
		})
	}
}

func TestEngine_Resolve_FirstOccurrenceWins(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P",
		domain.NewLibraryEntry("/ext/x.jar"),
		domain.NewVariableEntry("EXT/x.jar"),
	)
	f.engine.Variables().Set("EXT", "/ext")

	res := f.resolve("P")
	require.Equal(t, []domain.Path{"/ext/x.jar"}, paths(res.Entries()))
	raw, _ := res.RawEntryFor("/ext/x.jar")
	assert.Equal(t, domain.EntryLibrary, raw.Kind())
}

func TestEngine_Resolve_StaleSnapshotIsNotPublished(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P", domain.NewContainerEntry("STALE"))

	initializer := initializerFor(f.ctrl, "STALE")
	initializer.EXPECT().Initialize(gomock.Any(), domain.Path("STALE"), "P").DoAndReturn(
		func(_ context.Context, _ domain.Path, _ string) (ports.Container, error) {
			info := f.engine.Table().Get("P")
			snap := info.Snapshot()
			raw := append(slices.Clone(snap.Raw), domain.NewSourceEntry("/P/src"))
			info.SetRawClasspath(raw, nil, snap.Output, domain.OKStatus())
			return &staticContainer{entries: domain.Entries{domain.NewLibraryEntry("/jdk/rt.jar")}}, nil
		}).Times(1)
	f.engine.Containers().Register(initializer)

	res := f.resolve("P")
	assert.Equal(t, []domain.Path{"/jdk/rt.jar", "/P/src"}, paths(res.Entries()))

	info := f.engine.Table().Get("P")
	_, published := info.Resolved()
	assert.False(t, published)

	again := f.resolve("P")
	assert.True(t, res.Equal(again))
	_, published = info.Resolved()
	assert.True(t, published)
}

func TestEngine_Resolve_ReentrantQueriesReportInProgress(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P", domain.NewContainerEntry("REC"))

	var resolveErr, containerErr error
	initializer := initializerFor(f.ctrl, "REC")
	initializer.EXPECT().Initialize(gomock.Any(), domain.Path("REC"), "P").DoAndReturn(
		func(ctx context.Context, path domain.Path, project string) (ports.Container, error) {
			_, resolveErr = f.engine.Resolve(ctx, project)
			_, _, containerErr = f.engine.Containers().Container(ctx, project, path)
			return &staticContainer{entries: domain.Entries{domain.NewLibraryEntry("/jdk/rt.jar")}}, nil
		}).Times(1)
	f.engine.Containers().Register(initializer)

	res := f.resolve("P")
	assert.Equal(t, []domain.Path{"/jdk/rt.jar"}, paths(res.Entries()))
	assert.True(t, errors.Is(resolveErr, domain.ErrResolutionInProgress))
	assert.True(t, errors.Is(containerErr, domain.ErrContainerInitInProgress))
}

func TestEngine_Expanded_ProjectCycle(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P1",
		domain.NewSourceEntry("/P1/src"),
		domain.NewProjectEntry("/P2"),
	)
	f.project("P2",
		domain.NewSourceEntry("/P2/src"),
		domain.NewProjectEntry("/P1", domain.WithExported(true)),
	)

	expanded, err := f.engine.Expanded(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/P1/src", "/P2", "/P2/src"}, paths(expanded))

	cached, err := f.engine.Expanded(context.Background(), "P1")
	require.NoError(t, err)
	assert.True(t, expanded.Equal(cached))
}

func TestEngine_Expanded_ExportsOnlyExportedEntries(t *testing.T) {
	f := newFixture(t).lenient()
	rule := domain.AccessRule{Pattern: "com/secret/**", Kind: domain.AccessNonAccessible}
	f.project("P1",
		domain.NewSourceEntry("/P1/src"),
		domain.NewProjectEntry("/P2", domain.WithAccessRules(rule)),
	)
	f.project("P2",
		domain.NewSourceEntry("/P2/src"),
		domain.NewLibraryEntry("/ext/x.jar", domain.WithExported(true)),
		domain.NewLibraryEntry("/ext/y.jar"),
	)

	expanded, err := f.engine.Expanded(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/P1/src", "/P2", "/P2/src", "/ext/x.jar"}, paths(expanded))

	x := expanded[3]
	assert.True(t, x.IsExported())
	assert.Equal(t, []domain.AccessRule{rule}, x.AccessRules())
}

func TestEngine_Expanded_ContainerEntriesKeepTheirOwnExportFlag(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("A",
		domain.NewSourceEntry("/A/src"),
		domain.NewProjectEntry("/B", domain.WithExported(true)),
	)
	f.project("B",
		domain.NewSourceEntry("/B/src"),
		domain.NewContainerEntry("LIB"),
	)
	f.project("C",
		domain.NewSourceEntry("/C/src"),
		domain.NewProjectEntry("/A"),
	)
	f.engine.Containers().Bind("B", "LIB", &staticContainer{entries: domain.Entries{
		domain.NewLibraryEntry("/ext/public.jar", domain.WithExported(true)),
		domain.NewLibraryEntry("/ext/private.jar"),
	}})

	own, err := f.engine.Expanded(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/B/src", "/ext/public.jar", "/ext/private.jar"}, paths(own))

	viaB, err := f.engine.Expanded(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/A/src", "/B", "/B/src", "/ext/public.jar"}, paths(viaB))

	viaA, err := f.engine.Expanded(context.Background(), "C")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/C/src", "/A", "/A/src", "/B", "/B/src", "/ext/public.jar"}, paths(viaA))
	assert.NotContains(t, paths(viaA), domain.Path("/ext/private.jar"))
}

func TestEngine_Expanded_SkipsClosedProjects(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P1", domain.NewProjectEntry("/P2"))
	f.project("P2", domain.NewLibraryEntry("/ext/x.jar", domain.WithExported(true)))
	f.ws.SetOpen("P2", false)

	expanded, err := f.engine.Expanded(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/P2"}, paths(expanded))
}

func TestEngine_Configure_ResetsResolutions(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P", domain.NewVariableEntry("LIB/x.jar"))

	cfg := domain.DefaultConfig()
	cfg.Variables["LIB"] = "/ext"
	f.engine.Configure(cfg)
	assert.Equal(t, []domain.Path{"/ext/x.jar"}, paths(f.resolve("P").Entries()))

	cfg = domain.DefaultConfig()
	cfg.Variables["LIB"] = "/other"
	f.engine.Configure(cfg)
	assert.Equal(t, []domain.Path{"/other/x.jar"}, paths(f.resolve("P").Entries()))
	assert.Equal(t, []string{"LIB"}, f.engine.Variables().Names())
}

func TestEngine_RawClasspathAndOutput(t *testing.T) {
	f := newFixture(t).lenient()
	f.project("P", domain.NewSourceEntry("/P/src"), domain.NewOutputEntry("/P/classes"))

	raw, err := f.engine.RawClasspath("P")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/P/src"}, paths(raw))

	out, err := f.engine.OutputLocation("P")
	require.NoError(t, err)
	assert.Equal(t, domain.Path("/P/classes"), out)
}
