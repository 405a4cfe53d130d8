package tasks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/tasks"
	"github.com/nhle/do-it-later/tests/testutil"
)

func TestRenderList(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)
	solo := testutil.MustAdd(t, m, "call mom", model.ListToday, "")
	m.ToggleImportance(solo.ID)

	today := m.RenderList(model.ListToday)
	require.Len(t, today, 2)

	assert.Equal(t, "call mom", today[0].Task.Text)
	assert.False(t, today[0].HasChildren)

	trip := today[1]
	assert.Equal(t, parent.ID, trip.Task.ID)
	assert.False(t, trip.Ghost)
	assert.True(t, trip.HasChildren)
	require.Len(t, trip.Children, 1)
	assert.Equal(t, "tickets", trip.Children[0].Task.Text)
	assert.Equal(t, tasks.MovePush, trip.MoveAction)
	assert.Equal(t, "→", trip.MoveIcon)
}

func TestRenderList_GhostParent(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)

	later := m.RenderList(model.ListLater)
	require.Len(t, later, 1)

	assert.True(t, later[0].Ghost)
	assert.Equal(t, parent.ID, later[0].Task.ID)
	require.Len(t, later[0].Children, 1)
	assert.Equal(t, "visa", later[0].Children[0].Task.Text)
	assert.Equal(t, tasks.MovePull, later[0].Children[0].MoveAction)
	assert.Equal(t, "←", later[0].Children[0].MoveIcon)
}

func TestRenderList_ReturnsCopies(t *testing.T) {
	m := testutil.NewManager(t, now)
	task := testutil.MustAdd(t, m, "trip", model.ListToday, "")

	nodes := m.RenderList(model.ListToday)
	nodes[0].Task.Text = "changed"

	assert.Equal(t, "trip", task.Text)
}
