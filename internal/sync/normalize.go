// Package sync converts task sets to and from every exchange format the
// app has ever produced: the human-editable text export, the compact
// QR/clipboard grammar with its JSON predecessors, and the canonical JSON
// backup. Every decoder hands its result to Normalize, so callers always
// receive a current-shape TaskSet.
//
// Nothing here performs I/O.
package sync

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/nhle/do-it-later/internal/model"
)

// RawTask is the permissive decoding target for any task shape that has
// been persisted or exchanged.
type RawTask struct {
	ID         looseString `json:"id"`
	Text       string      `json:"text"`
	Completed  looseBool   `json:"completed"`
	Important  looseBool   `json:"important"`
	CreatedAt  int64       `json:"createdAt"`
	Deadline   string      `json:"deadline"`
	ParentID   looseString `json:"parentId"`
	List       string      `json:"list"`
	IsExpanded *bool       `json:"isExpanded"`

	// Per-list expansion flags written by releases that rendered a
	// parent separately in each list.
	ExpandedInToday *bool `json:"expandedInToday"`
	ExpandedInLater *bool `json:"expandedInLater"`
}

// RawState is the permissive decoding target for a whole task set. The
// v2 shape uses Tasks; v1 stored Today and Tomorrow arrays instead.
type RawState struct {
	Tasks    []RawTask `json:"tasks"`
	Today    []RawTask `json:"today"`
	Tomorrow []RawTask `json:"tomorrow"`

	TotalCompleted int    `json:"totalCompleted"`
	CurrentDate    string `json:"currentDate"`
	LastUpdated    int64  `json:"lastUpdated"`
	Version        int    `json:"version"`
}

// Normalize upgrades any accepted shape to a current TaskSet and repairs
// what would otherwise break the hierarchy rules: blank tasks are
// dropped, missing or duplicate ids are regenerated, and parent links
// that dangle or nest too deep are re-pointed or cleared.
func Normalize(raw RawState, now time.Time) *model.TaskSet {
	set := &model.TaskSet{
		Tasks:          make([]*model.Task, 0, len(raw.Tasks)+len(raw.Today)+len(raw.Tomorrow)),
		TotalCompleted: max(raw.TotalCompleted, 0),
		CurrentDate:    raw.CurrentDate,
		LastUpdated:    raw.LastUpdated,
		Version:        model.CurrentVersion,
	}
	if set.CurrentDate == "" {
		set.CurrentDate = civil.DateOf(now).String()
	}
	if set.LastUpdated <= 0 {
		set.LastUpdated = now.UnixMilli()
	}

	ids := make(map[string]bool)
	add := func(rt RawTask, fallback model.List) {
		t, ok := normalizeTask(rt, fallback, now)
		if !ok {
			return
		}
		if t.ID == "" || ids[t.ID] {
			t.ID = uuid.NewString()
		}
		ids[t.ID] = true
		set.Tasks = append(set.Tasks, t)
	}

	for _, rt := range raw.Tasks {
		add(rt, model.ListToday)
	}
	for _, rt := range raw.Today {
		add(rt, model.ListToday)
	}
	for _, rt := range raw.Tomorrow {
		add(rt, model.ListLater)
	}

	repairParents(set.Tasks)
	return set
}

func normalizeTask(rt RawTask, fallback model.List, now time.Time) (*model.Task, bool) {
	text := strings.TrimSpace(rt.Text)
	if text == "" {
		return nil, false
	}

	list := fallback
	if rt.List != "" {
		if l, err := model.ParseList(rt.List); err == nil {
			list = l
		}
	}

	t := &model.Task{
		ID:         strings.TrimSpace(string(rt.ID)),
		Text:       text,
		Completed:  bool(rt.Completed),
		Important:  bool(rt.Important),
		CreatedAt:  rt.CreatedAt,
		ParentID:   strings.TrimSpace(string(rt.ParentID)),
		List:       list,
		IsExpanded: true,
	}
	if t.CreatedAt <= 0 {
		t.CreatedAt = now.UnixMilli()
	}
	if d, err := model.ParseDeadline(rt.Deadline); err == nil {
		t.Deadline = d
	}

	switch {
	case rt.IsExpanded != nil:
		t.IsExpanded = *rt.IsExpanded
	case list == model.ListToday && rt.ExpandedInToday != nil:
		t.IsExpanded = *rt.ExpandedInToday
	case list == model.ListLater && rt.ExpandedInLater != nil:
		t.IsExpanded = *rt.ExpandedInLater
	}
	return t, true
}

// repairParents enforces that every parent link resolves to a top-level
// task. A link to a subtask is re-pointed at that subtask's root; links
// that dangle or loop are cleared, promoting the task to top-level.
func repairParents(tasks []*model.Task) {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	for _, t := range tasks {
		if t.ParentID == "" {
			continue
		}
		root := findRoot(t, byID)
		if root == nil {
			t.ParentID = ""
			continue
		}
		t.ParentID = root.ID
	}
}

func findRoot(t *model.Task, byID map[string]*model.Task) *model.Task {
	visited := map[string]bool{t.ID: true}
	cur := byID[t.ParentID]
	for cur != nil {
		if visited[cur.ID] {
			return nil
		}
		if cur.ParentID == "" {
			return cur
		}
		visited[cur.ID] = true
		cur = byID[cur.ParentID]
	}
	return nil
}
