package session_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/session"
	"github.com/nhle/do-it-later/internal/store"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/internal/tasks"
	"github.com/nhle/do-it-later/tests/testutil"
)

var now = testutil.Day(2025, 3, 14)

func open(t *testing.T, st store.Store, redraws *int) *session.Session {
	t.Helper()

	s, _ := session.Open(context.Background(), session.Options{
		Store:        st,
		Now:          testutil.NewClock(now).Now,
		Location:     time.Local,
		SaveDebounce: time.Hour,
		Redraw:       func() { *redraws++ },
	})
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func stored(t *testing.T, st store.Store) *model.TaskSet {
	t.Helper()

	payload, err := st.Get(context.Background(), store.KeyData)
	require.NoError(t, err)
	set, err := sync.DecodeJSON(payload, now)
	require.NoError(t, err)
	return set
}

func TestOpen_EmptyStore(t *testing.T) {
	var redraws int
	s := open(t, store.NewMemoryStore(), &redraws)

	assert.Zero(t, s.Set().Len())
	assert.Equal(t, "2025-03-14", s.Set().CurrentDate)
	assert.Zero(t, redraws)
}

func TestOpen_RollsOverStaleSet(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	old := model.NewTaskSet(now.Add(-24 * time.Hour))
	old.Tasks = append(old.Tasks,
		&model.Task{ID: "1", Text: "done", Completed: true, List: model.ListToday},
		&model.Task{ID: "2", Text: "open", List: model.ListToday, CreatedAt: now.UnixMilli()},
	)
	require.True(t, session.Save(ctx, st, old, log.New(&bytes.Buffer{})))

	s, report := session.Open(ctx, session.Options{
		Store:        st,
		Now:          func() time.Time { return now },
		SaveDebounce: time.Hour,
	})

	assert.True(t, report.Rolled)
	assert.Equal(t, "New day! 1 completed tasks cleaned up", report.Summary())
	require.NoError(t, s.Close(ctx))

	saved := stored(t, st)
	require.Len(t, saved.Tasks, 1)
	assert.Equal(t, "open", saved.Tasks[0].Text)
	assert.Equal(t, "2025-03-14", saved.CurrentDate)
}

func TestLoad_UnreadableFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Put(ctx, store.KeyData, "not json at all"))

	var buf bytes.Buffer
	set := session.Load(ctx, st, now, log.New(&buf))

	assert.Zero(t, set.Len())
	assert.Contains(t, buf.String(), "unreadable")
}

func TestSave_ReportsFailure(t *testing.T) {
	st := store.NewMemoryStore()
	st.FailPuts = true

	ok := session.Save(context.Background(), st, model.NewTaskSet(now), log.New(&bytes.Buffer{}))

	assert.False(t, ok)
}

func TestBatch_OnlyOutermostCommits(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	var redraws int
	s := open(t, st, &redraws)

	s.Begin()
	s.Begin()
	_, err := s.Tasks().AddTask("first", model.ListToday, "")
	require.NoError(t, err)
	s.End()
	assert.Zero(t, redraws)
	assert.True(t, s.InBatch())

	require.NoError(t, s.Saver().Flush(ctx))
	_, err = st.Get(ctx, store.KeyData)
	assert.ErrorIs(t, err, store.ErrNotFound)

	s.End()
	assert.Equal(t, 1, redraws)
	assert.False(t, s.InBatch())

	require.NoError(t, s.Saver().Flush(ctx))
	assert.Len(t, stored(t, st).Tasks, 1)
}

func TestUpdate_NestedRunCommitsOnce(t *testing.T) {
	var redraws int
	s := open(t, store.NewMemoryStore(), &redraws)

	err := s.Update(func(m *tasks.Manager) error {
		parent, err := m.AddTask("trip", model.ListToday, "")
		if err != nil {
			return err
		}
		s.Run(func() {
			m.AddTask("tickets", model.ListToday, parent.ID)
			m.AddTask("hotel", model.ListToday, parent.ID)
		})
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, redraws)
	assert.Equal(t, 3, s.Set().Len())
}

func TestSaver_CoalescesRequests(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	saver := session.NewSaver(st, time.Hour, log.New(&bytes.Buffer{}))
	defer saver.Stop()

	for i := 1; i <= 5; i++ {
		set := model.NewTaskSet(now)
		set.TotalCompleted = i
		saver.Request(set)
	}
	require.NoError(t, saver.Flush(ctx))

	assert.Equal(t, 1, saver.Writes())
	assert.Equal(t, 5, stored(t, st).TotalCompleted)
}

func TestSaver_WritesAfterDelay(t *testing.T) {
	st := store.NewMemoryStore()
	saver := session.NewSaver(st, 10*time.Millisecond, log.New(&bytes.Buffer{}))
	defer saver.Stop()

	saver.Request(model.NewTaskSet(now))

	assert.Eventually(t, func() bool { return saver.Writes() == 1 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, saver.LastError())
}

func TestSaver_SurfacesErrors(t *testing.T) {
	st := store.NewMemoryStore()
	st.FailPuts = true
	var buf bytes.Buffer
	saver := session.NewSaver(st, time.Hour, log.New(&buf))
	defer saver.Stop()

	saver.Request(model.NewTaskSet(now))
	err := saver.Flush(context.Background())

	assert.Error(t, err)
	assert.Equal(t, err, saver.LastError())
	assert.Contains(t, buf.String(), "saving tasks failed")
}

func TestImport_MergeAndReplace(t *testing.T) {
	ctx := context.Background()
	var redraws int
	s := open(t, store.NewMemoryStore(), &redraws)
	require.NoError(t, s.Update(func(m *tasks.Manager) error {
		_, err := m.AddTask("Buy milk", model.ListToday, "")
		return err
	}))

	format, err := s.Import(ctx, "T:Buy milk|Walk dog~C:3", sync.ModeMerge)
	require.NoError(t, err)
	assert.Equal(t, sync.FormatCompact, format)
	assert.Equal(t, 2, s.Set().Len())
	assert.Equal(t, 3, s.Set().TotalCompleted)

	_, err = s.Import(ctx, "L:Only this", sync.ModeReplace)
	require.NoError(t, err)
	require.Equal(t, 1, s.Set().Len())
	assert.Equal(t, "Only this", s.Set().Tasks[0].Text)

	// The manager still operates on the live set.
	_, ok := s.Tasks().FindByID(s.Set().Tasks[0].ID)
	assert.True(t, ok)

	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, 2, s.Set().Len())
}

func TestImport_Unrecognized(t *testing.T) {
	var redraws int
	s := open(t, store.NewMemoryStore(), &redraws)

	_, err := s.Import(context.Background(), "what is this", sync.ModeMerge)

	assert.ErrorIs(t, err, model.ErrUnrecognizedFormat)
	assert.Zero(t, redraws)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	var redraws int
	s := open(t, store.NewMemoryStore(), &redraws)

	assert.Empty(t, s.Theme(ctx))
	require.NoError(t, s.SetTheme(ctx, model.ThemeLight))
	assert.Equal(t, model.ThemeLight, s.Theme(ctx))
	assert.ErrorIs(t, s.SetTheme(ctx, "neon"), model.ErrValidation)
}
