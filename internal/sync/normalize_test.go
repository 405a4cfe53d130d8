package sync_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/sync"
)

func byText(set *model.TaskSet) map[string]*model.Task {
	out := make(map[string]*model.Task, len(set.Tasks))
	for _, t := range set.Tasks {
		out[t.Text] = t
	}
	return out
}

func TestDecodeJSON_V1Shape(t *testing.T) {
	payload := `{
		"today": [{"id": "a", "text": "first", "completed": true, "createdAt": 100}],
		"tomorrow": [{"id": "b", "text": "second", "expandedInLater": false}],
		"totalCompleted": 1,
		"currentDate": "2025-03-10",
		"lastUpdated": 200
	}`

	set, err := sync.DecodeJSON(payload, now)
	require.NoError(t, err)

	require.Len(t, set.Tasks, 2)
	assert.Equal(t, model.ListToday, set.Tasks[0].List)
	assert.True(t, set.Tasks[0].Completed)
	assert.Equal(t, int64(100), set.Tasks[0].CreatedAt)
	assert.Equal(t, model.ListLater, set.Tasks[1].List)
	assert.False(t, set.Tasks[1].IsExpanded)
	assert.Equal(t, "2025-03-10", set.CurrentDate)
	assert.Equal(t, model.CurrentVersion, set.Version)
}

func TestDecodeJSON_TomorrowAliasAndDeadline(t *testing.T) {
	payload := `{"tasks": [
		{"id": "a", "text": "alias", "list": "tomorrow", "deadline": "2025-03-20"},
		{"id": "b", "text": "bad date", "list": "today", "deadline": "soon"}
	], "version": 2}`

	set, err := sync.DecodeJSON(payload, now)
	require.NoError(t, err)

	tasks := byText(set)
	assert.Equal(t, model.ListLater, tasks["alias"].List)
	require.NotNil(t, tasks["alias"].Deadline)
	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 20}, *tasks["alias"].Deadline)
	assert.Nil(t, tasks["bad date"].Deadline)
}

func TestNormalize_Repairs(t *testing.T) {
	raw := sync.RawState{
		Tasks: []sync.RawTask{
			{ID: "p", Text: "parent", List: "today"},
			{ID: "c", Text: "child", List: "later", ParentID: "p"},
			{ID: "g", Text: "grandchild", List: "today", ParentID: "c"},
			{ID: "o", Text: "orphan", List: "today", ParentID: "gone"},
			{ID: "p", Text: "duplicate id", List: "today"},
			{Text: "no id", List: "today"},
			{ID: "x", Text: "   ", List: "today"},
			{ID: "l1", Text: "loop one", ParentID: "l2"},
			{ID: "l2", Text: "loop two", ParentID: "l1"},
		},
		TotalCompleted: -3,
	}

	set := sync.Normalize(raw, now)
	tasks := byText(set)

	assert.Len(t, set.Tasks, 8)
	assert.NotContains(t, tasks, "")
	assert.Equal(t, "p", tasks["child"].ParentID)
	assert.Equal(t, "p", tasks["grandchild"].ParentID)
	assert.Empty(t, tasks["orphan"].ParentID)
	assert.NotEqual(t, "p", tasks["duplicate id"].ID)
	assert.NotEmpty(t, tasks["no id"].ID)
	assert.Empty(t, tasks["loop one"].ParentID)
	assert.Equal(t, "l1", tasks["loop two"].ParentID)

	assert.Zero(t, set.TotalCompleted)
	assert.Equal(t, civil.DateOf(now).String(), set.CurrentDate)
	assert.Equal(t, now.UnixMilli(), set.LastUpdated)
}

func TestJSONRoundTrip(t *testing.T) {
	deadline := civil.Date{Year: 2025, Month: 4, Day: 1}
	set := newSet(
		&model.Task{ID: "p", Text: "parent", List: model.ListToday, Important: true, CreatedAt: 10, Deadline: &deadline, IsExpanded: true},
		&model.Task{ID: "c", Text: "<child & co>", List: model.ListLater, ParentID: "p", Completed: true, CreatedAt: 20},
	)
	set.TotalCompleted = 9

	payload, err := sync.EncodeJSON(set)
	require.NoError(t, err)
	assert.Contains(t, payload, "<child & co>")

	got, err := sync.DecodeJSON(payload, now)
	require.NoError(t, err)
	assert.Equal(t, set.Tasks, got.Tasks)
	assert.Equal(t, set.TotalCompleted, got.TotalCompleted)
	assert.Equal(t, set.CurrentDate, got.CurrentDate)
}
