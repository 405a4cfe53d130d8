package rollover_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/tests/testutil"
)

var (
	yesterday = testutil.Day(2025, 3, 13)
	now       = testutil.Day(2025, 3, 14)
	today     = civil.DateOf(now)
)

func staleSet(tasks ...*model.Task) *model.TaskSet {
	set := model.NewTaskSet(yesterday)
	set.Tasks = append(set.Tasks, tasks...)
	return set
}

func date(d civil.Date) *civil.Date { return &d }

func TestRun_NoopWhenCurrent(t *testing.T) {
	set := model.NewTaskSet(now)
	set.Tasks = append(set.Tasks, &model.Task{ID: "1", Text: "done", Completed: true, List: model.ListToday})

	r := rollover.Run(set, now)

	assert.False(t, r.Rolled)
	assert.Len(t, set.Tasks, 1)
	assert.Empty(t, r.Summary())
}

func TestRun_Idempotent(t *testing.T) {
	set := staleSet(
		&model.Task{ID: "1", Text: "done", Completed: true, List: model.ListToday},
		&model.Task{ID: "2", Text: "old", List: model.ListLater, CreatedAt: now.Add(-30 * 24 * time.Hour).UnixMilli()},
		&model.Task{ID: "3", Text: "due", List: model.ListLater, Deadline: date(today.AddDays(1)), CreatedAt: now.UnixMilli()},
	)

	first := rollover.Run(set, now)
	require.True(t, first.Rolled)
	assert.True(t, first.Changed())
	snapshot := set.Clone()

	second := rollover.Run(set, now.Add(time.Hour))

	assert.False(t, second.Rolled)
	assert.False(t, second.Changed())
	assert.Equal(t, snapshot, set)
}

func TestRun_RemovesCompletedFromBothLists(t *testing.T) {
	set := staleSet(
		&model.Task{ID: "1", Text: "a", Completed: true, List: model.ListToday},
		&model.Task{ID: "2", Text: "b", Completed: true, List: model.ListLater, CreatedAt: now.UnixMilli()},
		&model.Task{ID: "3", Text: "c", List: model.ListToday},
	)
	set.TotalCompleted = 2

	r := rollover.Run(set, now)

	assert.Equal(t, 2, r.Cleaned)
	require.Len(t, set.Tasks, 1)
	assert.Equal(t, "3", set.Tasks[0].ID)
	assert.Equal(t, 2, set.TotalCompleted)
	assert.Equal(t, today.String(), set.CurrentDate)
}

func TestRun_PromotionBoundary(t *testing.T) {
	week := 7 * 24 * time.Hour
	set := staleSet(
		&model.Task{ID: "old", Text: "old", List: model.ListLater, CreatedAt: now.Add(-week - time.Millisecond).UnixMilli()},
		&model.Task{ID: "exact", Text: "exact", List: model.ListLater, CreatedAt: now.Add(-week).UnixMilli()},
		&model.Task{ID: "young", Text: "young", List: model.ListLater, CreatedAt: now.Add(-6*24*time.Hour - 23*time.Hour).UnixMilli()},
	)

	r := rollover.Run(set, now)

	assert.Equal(t, 2, r.Promoted)
	assert.Equal(t, model.ListToday, set.Tasks[0].List)
	assert.Equal(t, model.ListToday, set.Tasks[1].List)
	assert.Equal(t, model.ListLater, set.Tasks[2].List)
}

func TestRun_Deadlines(t *testing.T) {
	fresh := now.UnixMilli()
	set := staleSet(
		&model.Task{ID: "due", Text: "due", List: model.ListLater, CreatedAt: fresh, Deadline: date(today)},
		&model.Task{ID: "soon", Text: "soon", List: model.ListLater, CreatedAt: fresh, Deadline: date(today.AddDays(3))},
		&model.Task{ID: "far", Text: "far", List: model.ListLater, CreatedAt: fresh, Deadline: date(today.AddDays(4))},
		&model.Task{ID: "past", Text: "past", List: model.ListToday, CreatedAt: fresh, Deadline: date(today.AddDays(-2))},
		&model.Task{ID: "flagged", Text: "flagged", List: model.ListToday, CreatedAt: fresh, Important: true, Deadline: date(today)},
	)

	r := rollover.Run(set, now)

	assert.Equal(t, 1, r.DeadlineMoved)
	assert.Equal(t, 3, r.MarkedImportant)

	tasks := make(map[string]*model.Task)
	for _, task := range set.Tasks {
		tasks[task.ID] = task
	}
	assert.Equal(t, model.ListToday, tasks["due"].List)
	assert.True(t, tasks["due"].Important)
	assert.Equal(t, model.ListLater, tasks["soon"].List)
	assert.True(t, tasks["soon"].Important)
	assert.False(t, tasks["far"].Important)
	assert.True(t, tasks["past"].Important)
}

func TestRun_FutureDateIsStale(t *testing.T) {
	set := model.NewTaskSet(now.Add(48 * time.Hour))
	set.Tasks = append(set.Tasks, &model.Task{ID: "1", Text: "done", Completed: true, List: model.ListToday})

	r := rollover.Run(set, now)

	assert.True(t, r.Rolled)
	assert.Empty(t, set.Tasks)
	assert.Equal(t, today.String(), set.CurrentDate)
}

func TestRun_PromotesOrphans(t *testing.T) {
	set := staleSet(
		&model.Task{ID: "p", Text: "parent", Completed: true, List: model.ListToday},
		&model.Task{ID: "c", Text: "child", ParentID: "p", List: model.ListToday},
	)

	r := rollover.Run(set, now)

	require.Len(t, set.Tasks, 1)
	assert.Empty(t, set.Tasks[0].ParentID)
	assert.Equal(t, 1, r.Orphaned)
}

func TestReport_Summary(t *testing.T) {
	r := rollover.Report{Rolled: true, Cleaned: 2, Promoted: 1, DeadlineMoved: 1, MarkedImportant: 3}

	assert.Equal(t,
		"New day! 2 completed tasks cleaned up, 1 week-old tasks moved to Today, "+
			"1 deadline tasks moved to Today, 3 tasks marked important (deadline approaching)",
		r.Summary())

	assert.Equal(t, "New day! 4 completed tasks cleaned up", rollover.Report{Cleaned: 4}.Summary())
}
