package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/adapters/workspace"
	"go.trai.ch/jmodel/internal/core/domain"
)

func newBuilder(t *testing.T, ignore ...string) (*workspace.DeltaBuilder, string) {
	t.Helper()
	ws, root := newWorkspace(t)
	b := workspace.NewDeltaBuilder(ws, ignore)
	require.NoError(t, b.Scan())
	return b, root
}

func TestDeltaBuilder_NoChange(t *testing.T) {
	b, root := newBuilder(t)

	rd, err := b.Build([]string{filepath.Join(root, "P", "src", "A.java")})
	require.NoError(t, err)
	assert.Nil(t, rd)
}

func TestDeltaBuilder_AddAndChange(t *testing.T) {
	b, root := newBuilder(t)
	writeFile(t, filepath.Join(root, "P", "src", "A.java"), "class A { int x; }")
	writeFile(t, filepath.Join(root, "P", "src", "com", "B.java"), "class B {}")

	rd, err := b.Build([]string{
		filepath.Join(root, "P", "src", "A.java"),
		filepath.Join(root, "P", "src", "com"),
	})
	require.NoError(t, err)
	require.NotNil(t, rd)

	assert.Equal(t, "/[*]\n\t/P[*]\n\t\t/P/src[*]\n\t\t\t/P/src/A.java[*]\n\t\t\t/P/src/com[+]\n\t\t\t\t/P/src/com/B.java[+]", rd.String())

	changed := rd.FindMember("/P/src/A.java")
	require.NotNil(t, changed)
	assert.True(t, changed.Has(domain.FlagContent))
	assert.Equal(t, domain.TypeFile, changed.Type)
	assert.Equal(t, domain.TypeFolder, rd.FindMember("/P/src/com").Type)
	assert.Equal(t, domain.TypeProject, rd.FindMember("/P").Type)

	again, err := b.Build([]string{filepath.Join(root, "P", "src")})
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestDeltaBuilder_Move(t *testing.T) {
	b, root := newBuilder(t)
	require.NoError(t, os.Rename(filepath.Join(root, "P", "src", "A.java"), filepath.Join(root, "P", "src", "C.java")))

	rd, err := b.Build([]string{
		filepath.Join(root, "P", "src", "A.java"),
		filepath.Join(root, "P", "src", "C.java"),
	})
	require.NoError(t, err)
	require.NotNil(t, rd)

	from := rd.FindMember("/P/src/A.java")
	require.NotNil(t, from)
	assert.Equal(t, domain.ResourceRemoved, from.Kind)
	assert.True(t, from.Has(domain.FlagMovedTo))
	assert.Equal(t, domain.Path("/P/src/C.java"), from.MovedToPath)

	to := rd.FindMember("/P/src/C.java")
	require.NotNil(t, to)
	assert.Equal(t, domain.ResourceAdded, to.Kind)
	assert.True(t, to.Has(domain.FlagMovedFrom))
	assert.Equal(t, domain.Path("/P/src/A.java"), to.MovedFromPath)
}

func TestDeltaBuilder_ProjectLifecycle(t *testing.T) {
	b, root := newBuilder(t)

	writeFile(t, filepath.Join(root, "Q", domain.ProjectFileName), javaProjectFile)
	rd, err := b.Build([]string{filepath.Join(root, "Q", domain.ProjectFileName)})
	require.NoError(t, err)
	require.NotNil(t, rd)
	q := rd.FindMember("/Q")
	require.NotNil(t, q)
	assert.Equal(t, domain.ResourceAdded, q.Kind)
	assert.Equal(t, domain.TypeProject, q.Type)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "P")))
	rd, err = b.Build([]string{filepath.Join(root, "P", "src")})
	require.NoError(t, err)
	require.NotNil(t, rd)
	p := rd.FindMember("/P")
	require.NotNil(t, p)
	assert.Equal(t, domain.ResourceRemoved, p.Kind)
}

func TestDeltaBuilder_Ignored(t *testing.T) {
	b, root := newBuilder(t, "target")
	writeFile(t, filepath.Join(root, "P", "target", "out.class"), "cafebabe")
	writeFile(t, filepath.Join(root, "docs", "other.md"), "not in a project")

	rd, err := b.Build([]string{
		filepath.Join(root, "P", "target", "out.class"),
		filepath.Join(root, "docs", "other.md"),
		filepath.Join(t.TempDir(), "outside"),
	})
	require.NoError(t, err)
	assert.Nil(t, rd)
}
