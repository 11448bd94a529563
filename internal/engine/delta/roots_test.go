package delta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/jmodel/internal/core/domain"
	"go.trai.ch/jmodel/internal/engine/delta"
)

func TestRootTable(t *testing.T) {
	t.Parallel()
	table := delta.NewRootTable()
	table.Add(domain.NewRootInfo("P", domain.NewSourceEntry("/P/a/src")))
	table.Add(domain.NewRootInfo("P", domain.NewLibraryEntry("/ext/shared.jar")))
	table.Add(domain.NewRootInfo("R", domain.NewLibraryEntry("/ext/shared.jar")))

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []domain.Path{"/P/a/src", "/ext/shared.jar"}, table.Paths())
	assert.Len(t, table.Roots("/ext/shared.jar"), 2)

	info, ok := table.Root("R", "/ext/shared.jar")
	assert.True(t, ok)
	assert.Equal(t, "R", info.ProjectName())
	assert.True(t, info.IsArchive())

	_, ok = table.Root("R", "/P/a/src")
	assert.False(t, ok)

	roots := table.ProjectRoots("P")
	assert.Len(t, roots, 2)
	assert.True(t, roots[0].IsSource())

	assert.True(t, table.HasNestedRoot("P", "/P/a"))
	assert.True(t, table.HasNestedRoot("P", "/P"))
	assert.False(t, table.HasNestedRoot("P", "/P/a/src"))
	assert.False(t, table.HasNestedRoot("R", "/P"))
}
