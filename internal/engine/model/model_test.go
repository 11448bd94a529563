package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/engine/model"
)

var (
	project = domain.ProjectElement("P")
	root    = domain.RootElement("P", "/P/src")
	pkg     = domain.PackageElement("P", "/P/src", "com.acme")
	unit    = domain.CompilationUnitElement(pkg, "A.java")
)

func TestModel_HandleRegistersAncestors(t *testing.T) {
	m := model.New(10)

	id := m.Handle(unit)
	again := m.Handle(unit)
	assert.Equal(t, id, again)
	assert.Equal(t, 5, m.Len(), "model, project, root, package and unit")

	parent, ok := m.Parent(id)
	require.True(t, ok)
	got, ok := m.Element(parent)
	require.True(t, ok)
	assert.Equal(t, pkg, got)

	modelID, ok := m.Lookup(domain.ModelElement())
	require.True(t, ok)
	_, ok = m.Parent(modelID)
	assert.False(t, ok)
}

func TestModel_AddChildOnlyTouchesOpenedParents(t *testing.T) {
	m := model.New(10)

	m.AddChild(root)
	assert.False(t, m.IsOpen(project))

	m.Open(project, model.Info{})
	m.AddChild(root)
	m.AddChild(root)

	children, ok := m.Children(project)
	require.True(t, ok)
	assert.Equal(t, []domain.Element{root}, children)
}

func TestModel_RemoveDetachesAndReleases(t *testing.T) {
	m := model.New(10)
	m.Open(project, model.Info{})
	m.AddChild(root)
	m.Open(root, model.Info{})
	m.AddChild(pkg)
	unitID := m.Handle(unit)
	m.BecomeWorkingCopy(unit)

	m.Remove(root)

	children, ok := m.Children(project)
	require.True(t, ok)
	assert.Empty(t, children)
	assert.False(t, m.IsOpen(root))
	_, ok = m.Lookup(pkg)
	assert.False(t, ok)
	_, ok = m.Element(unitID)
	assert.False(t, ok)
	assert.False(t, m.IsWorkingCopy(unit))
}

func TestModel_RemoveReusesReleasedIDs(t *testing.T) {
	m := model.New(10)
	sibling := domain.ProjectElement("Q")
	siblingID := m.Handle(sibling)
	unitID := m.Handle(unit)
	before := m.Len()

	m.Remove(project)
	assert.Equal(t, 2, m.Len(), "model and Q")
	got, ok := m.Element(siblingID)
	require.True(t, ok)
	assert.Equal(t, sibling, got)

	m.Handle(unit)
	assert.Equal(t, before, m.Len())
	got, ok = m.Element(unitID)
	require.True(t, ok, "a released id is handed out again")
	assert.NotEqual(t, domain.ModelElement(), got)
	assert.NotEqual(t, sibling, got)

	m.Remove(project)
	m.Handle(domain.ProjectElement("R"))
	assert.Equal(t, 3, m.Len())
}

func TestModel_CloseEvictsDescendants(t *testing.T) {
	m := model.New(10)
	m.Open(project, model.Info{})
	m.Open(root, model.Info{})
	m.Open(pkg, model.Info{})
	m.Open(domain.RootElement("P", "/P/lib.jar"), model.Info{})

	m.Close(root)

	assert.True(t, m.IsOpen(project))
	assert.False(t, m.IsOpen(root))
	assert.False(t, m.IsOpen(pkg))
	assert.True(t, m.IsOpen(domain.RootElement("P", "/P/lib.jar")))
	_, ok := m.Lookup(pkg)
	assert.True(t, ok, "closing keeps the handle")
}

func TestModel_LRUEviction(t *testing.T) {
	m := model.New(2)
	a := domain.PackageElement("P", "/P/src", "a")
	b := domain.PackageElement("P", "/P/src", "b")
	c := domain.PackageElement("P", "/P/src", "c")

	m.Open(project, model.Info{})
	m.Open(a, model.Info{})
	m.Open(b, model.Info{})
	_, ok := m.Info(a)
	require.True(t, ok)

	m.Open(c, model.Info{})

	assert.True(t, m.IsOpen(a), "recently used")
	assert.False(t, m.IsOpen(b), "least recently used")
	assert.True(t, m.IsOpen(c))
	assert.True(t, m.IsOpen(project), "projects are pinned")
	assert.Equal(t, 3, m.OpenCount())
}

func TestModel_NonJavaResources(t *testing.T) {
	m := model.New(10)
	m.AddNonJava(project, "/P/readme.txt")
	m.Open(project, model.Info{NonJava: []domain.Path{"/P/build.xml"}})

	m.AddNonJava(project, "/P/readme.txt")
	m.AddNonJava(project, "/P/readme.txt")
	m.RemoveNonJava(project, "/P/build.xml")

	info, ok := m.Info(project)
	require.True(t, ok)
	assert.Equal(t, []domain.Path{"/P/readme.txt"}, info.NonJava)
}

func TestModel_InfoIsCopied(t *testing.T) {
	m := model.New(10)
	m.Open(project, model.Info{NonJava: []domain.Path{"/P/a"}})

	info, _ := m.Info(project)
	info.NonJava[0] = "/P/b"

	again, _ := m.Info(project)
	assert.Equal(t, []domain.Path{"/P/a"}, again.NonJava)
}

func TestModel_WorkingCopies(t *testing.T) {
	m := model.New(10)
	other := domain.CompilationUnitElement(pkg, "B.java")
	m.BecomeWorkingCopy(other)
	m.BecomeWorkingCopy(unit)

	assert.Equal(t, []domain.Element{unit, other}, m.WorkingCopies())

	m.DiscardWorkingCopy(other)
	assert.False(t, m.IsWorkingCopy(other))
	assert.True(t, m.IsWorkingCopy(unit))
}
