package tasks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/tasks"
	"github.com/nhle/do-it-later/tests/testutil"
)

func countCompleted(set *model.TaskSet) int {
	n := 0
	for _, t := range set.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func TestToggleCompletion_ParentCascadesToAllChildren(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	s1 := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	testutil.MustAdd(t, m, "hotel", model.ListToday, parent.ID)
	testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)

	m.ToggleCompletion(s1.ID)
	require.Equal(t, 1, m.Set().TotalCompleted)
	require.False(t, parent.Completed)

	res, ok := m.ToggleCompletion(parent.ID)
	require.True(t, ok)

	assert.True(t, res.NewState)
	assert.Len(t, res.Cascaded, 2)
	assert.Equal(t, 4, countCompleted(m.Set()))
	// Parent plus the two subtasks that were still open.
	assert.Equal(t, 4, m.Set().TotalCompleted)
}

func TestToggleCompletion_ParentUncompleteCascades(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)

	m.ToggleCompletion(parent.ID)
	require.Equal(t, 3, m.Set().TotalCompleted)

	res, _ := m.ToggleCompletion(parent.ID)

	assert.False(t, res.NewState)
	assert.Len(t, res.Cascaded, 2)
	assert.Zero(t, countCompleted(m.Set()))
	assert.Zero(t, m.Set().TotalCompleted)
}

func TestToggleCompletion_LastSubtaskCompletesParent(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	s1 := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	s2 := testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)

	res, _ := m.ToggleCompletion(s1.ID)
	assert.Empty(t, res.Cascaded)
	assert.False(t, parent.Completed)

	res, _ = m.ToggleCompletion(s2.ID)
	require.Len(t, res.Cascaded, 1)
	assert.Equal(t, parent.ID, res.Cascaded[0].ID)
	assert.True(t, parent.Completed)
	assert.Equal(t, 3, m.Set().TotalCompleted)
}

func TestToggleCompletion_SubtaskReopensParent(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	s1 := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	s2 := testutil.MustAdd(t, m, "visa", model.ListToday, parent.ID)
	m.ToggleCompletion(parent.ID)

	res, _ := m.ToggleCompletion(s1.ID)

	assert.False(t, res.NewState)
	assert.False(t, parent.Completed)
	assert.True(t, s2.Completed)
	assert.Equal(t, 1, m.Set().TotalCompleted)
}

func TestToggleCompletion_NotFound(t *testing.T) {
	m := testutil.NewManager(t, now)

	_, ok := m.ToggleCompletion("missing")
	assert.False(t, ok)
}

func TestToggleImportance_DoesNotCascade(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	child := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)

	task, ok := m.ToggleImportance(parent.ID)
	require.True(t, ok)
	assert.True(t, task.Important)
	assert.False(t, child.Important)

	_, ok = m.ToggleImportance("missing")
	assert.False(t, ok)
}

func TestDeleteWithSubtasks(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)
	other := testutil.MustAdd(t, m, "laundry", model.ListToday, "")

	assert.Equal(t, 3, m.DeleteWithSubtasks(parent.ID))
	require.Equal(t, 1, m.Set().Len())
	assert.Equal(t, other.ID, m.Set().Tasks[0].ID)

	assert.Zero(t, m.DeleteWithSubtasks(parent.ID))
}

func TestDeleteWithSubtasks_SubtaskOnly(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	child := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	sibling := testutil.MustAdd(t, m, "visa", model.ListToday, parent.ID)

	assert.Equal(t, 1, m.DeleteWithSubtasks(child.ID))

	_, ok := m.FindByID(parent.ID)
	assert.True(t, ok)
	_, ok = m.FindByID(sibling.ID)
	assert.True(t, ok)
}

func TestMoveTask_TopLevelTakesChildren(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	s1 := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	s2 := testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)

	require.True(t, m.MoveTask(parent.ID, model.ListLater))

	assert.Equal(t, model.ListLater, parent.List)
	assert.Equal(t, model.ListLater, s1.List)
	assert.Equal(t, model.ListLater, s2.List)
}

func TestMoveTask_SubtaskMovesAlone(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	s1 := testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	s2 := testutil.MustAdd(t, m, "visa", model.ListToday, parent.ID)

	require.True(t, m.MoveTask(s1.ID, model.ListLater))

	assert.Equal(t, model.ListLater, s1.List)
	assert.Equal(t, model.ListToday, parent.List)
	assert.Equal(t, model.ListToday, s2.List)

	assert.False(t, m.MoveTask("missing", model.ListLater))
}

func TestChildren(t *testing.T) {
	m := testutil.NewManager(t, now)
	parent := testutil.MustAdd(t, m, "trip", model.ListToday, "")
	testutil.MustAdd(t, m, "tickets", model.ListToday, parent.ID)
	testutil.MustAdd(t, m, "visa", model.ListLater, parent.ID)

	later := model.ListLater
	assert.Len(t, m.Children(parent.ID, nil), 2)
	require.Len(t, m.Children(parent.ID, &later), 1)
	assert.Equal(t, "visa", m.Children(parent.ID, &later)[0].Text)
	assert.Empty(t, m.Children("", nil))
}

func TestSortForDisplay(t *testing.T) {
	a := &model.Task{ID: "A", Important: true, CreatedAt: 10}
	b := &model.Task{ID: "B", Important: true, CreatedAt: 20}
	c := &model.Task{ID: "C", CreatedAt: 30}

	got := tasks.SortForDisplay([]*model.Task{a, b, c})

	assert.Equal(t, []*model.Task{b, a, c}, got)
}

func TestSortForDisplay_StableAndIgnoresCompletion(t *testing.T) {
	a := &model.Task{ID: "A", CreatedAt: 10, Completed: true}
	b := &model.Task{ID: "B", CreatedAt: 10}
	c := &model.Task{ID: "C", CreatedAt: 10, Completed: true}
	input := []*model.Task{a, b, c}

	got := tasks.SortForDisplay(input)

	assert.Equal(t, []*model.Task{a, b, c}, got)
	// Input slice is untouched.
	assert.Equal(t, []*model.Task{a, b, c}, input)
}
