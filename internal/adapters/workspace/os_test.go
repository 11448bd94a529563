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

const javaProjectFile = `<?xml version="1.0" encoding="UTF-8"?>
<projectDescription>
	<name>P</name>
	<natures>
		<nature>org.eclipse.jdt.core.javanature</nature>
	</natures>
</projectDescription>
`

const plainProjectFile = `<?xml version="1.0" encoding="UTF-8"?>
<projectDescription>
	<name>Plain</name>
	<natures/>
</projectDescription>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

// newWorkspace creates a directory with the Java project P, the plain project
// Plain and the folder docs, which is not a project.
func newWorkspace(t *testing.T) (*workspace.OS, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "P", domain.ProjectFileName), javaProjectFile)
	writeFile(t, filepath.Join(root, "P", "src", "A.java"), "class A {}")
	writeFile(t, filepath.Join(root, "Plain", domain.ProjectFileName), plainProjectFile)
	writeFile(t, filepath.Join(root, "docs", "readme.md"), "# docs")

	ws := workspace.NewOS()
	require.NoError(t, ws.Open(root))
	return ws, root
}

func TestOS_Projects(t *testing.T) {
	ws, root := newWorkspace(t)

	projects := ws.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "P", projects[0].Name)
	assert.True(t, projects[0].Open)
	assert.True(t, projects[0].JavaNature)
	assert.Equal(t, filepath.Join(root, "P"), projects[0].Location)
	assert.Equal(t, "Plain", projects[1].Name)
	assert.False(t, projects[1].JavaNature)

	_, ok := ws.Project("docs")
	assert.False(t, ok)
}

func TestOS_Open_Errors(t *testing.T) {
	ws := workspace.NewOS()
	err := ws.Open(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrWorkspaceNotFound.Error())

	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, "")
	require.ErrorIs(t, ws.Open(file), domain.ErrWorkspaceNotFound)
}

func TestOS_Resources(t *testing.T) {
	ws, root := newWorkspace(t)

	assert.True(t, ws.Exists("/P/src/A.java"))
	assert.True(t, ws.IsFolder("/P/src"))
	assert.True(t, ws.IsFolder("/P"))
	assert.False(t, ws.IsFolder("/P/src/A.java"))
	assert.False(t, ws.Exists("/docs/readme.md"))

	osPath, internal := ws.Location("/P/src/A.java")
	assert.True(t, internal)
	assert.Equal(t, filepath.Join(root, "P", "src", "A.java"), osPath)

	osPath, internal = ws.Location("/opt/lib/a.jar")
	assert.False(t, internal)
	assert.Equal(t, filepath.FromSlash("/opt/lib/a.jar"), osPath)

	members, err := ws.Members("/P")
	require.NoError(t, err)
	assert.Equal(t, []domain.Path{"/P/.project", "/P/src"}, members)

	require.NoError(t, ws.WriteFile("/P/gen/B.java", []byte("class B {}")))
	data, err := ws.ReadFile("/P/gen/B.java")
	require.NoError(t, err)
	assert.Equal(t, "class B {}", string(data))

	_, err = ws.ReadFile("/P/missing.txt")
	require.ErrorIs(t, err, os.ErrNotExist)

	err = ws.WriteFile("/Q/a.txt", nil)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	st, err := ws.Stat(filepath.Join(root, "P", "src", "A.java"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("class A {}")), st.Size)
	assert.False(t, st.IsDir)
}

func TestOS_OpenClose(t *testing.T) {
	ws, _ := newWorkspace(t)

	rd := ws.CloseProject("P")
	require.NotNil(t, rd)
	assert.Equal(t, domain.ResourceChanged, rd.Kind)
	assert.True(t, rd.Has(domain.FlagOpen))
	assert.Equal(t, domain.TypeProject, rd.Type)

	p, ok := ws.Project("P")
	require.True(t, ok)
	assert.False(t, p.Open)

	assert.Nil(t, ws.CloseProject("P"))
	assert.Nil(t, ws.CloseProject("Missing"))

	require.NotNil(t, ws.OpenProject("P"))
	p, _ = ws.Project("P")
	assert.True(t, p.Open)
	assert.Nil(t, ws.OpenProject("P"))
}
