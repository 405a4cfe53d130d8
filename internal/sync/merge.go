package sync

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/do-it-later/internal/model"
)

// MergeMode selects how an imported set combines with the current one.
type MergeMode string

const (
	// ModeReplace discards the current set.
	ModeReplace MergeMode = "replace"

	// ModeMerge appends imported tasks whose text and list are not
	// already present.
	ModeMerge MergeMode = "merge"
)

// ParseMergeMode validates a user supplied mode name.
func ParseMergeMode(s string) (MergeMode, error) {
	switch m := MergeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeReplace, ModeMerge:
		return m, nil
	default:
		return "", fmt.Errorf("unknown import mode %q, use replace or merge: %w", s, model.ErrValidation)
	}
}

type dedupKey struct {
	text string
	list model.List
}

// Apply combines imported into current and returns the resulting set.
// Neither argument is modified.
//
// In merge mode each imported task is compared, by exact text and list,
// against the set as it grows, so duplicates inside the import collapse
// too. The lifetime counter becomes the larger of the two.
func Apply(current, imported *model.TaskSet, mode MergeMode) *model.TaskSet {
	if mode == ModeReplace {
		return imported.Clone()
	}

	out := current.Clone()
	out.TotalCompleted = max(current.TotalCompleted, imported.TotalCompleted)
	out.LastUpdated = max(current.LastUpdated, imported.LastUpdated)

	byKey := make(map[dedupKey]*model.Task, len(out.Tasks))
	ids := make(map[string]bool, len(out.Tasks))
	for _, t := range out.Tasks {
		k := dedupKey{t.Text, t.List}
		if _, dup := byKey[k]; !dup {
			byKey[k] = t
		}
		ids[t.ID] = true
	}

	// remap tracks where each imported id ended up in out.
	remap := make(map[string]string, len(imported.Tasks))
	var added []*model.Task

	for _, it := range imported.Tasks {
		k := dedupKey{it.Text, it.List}
		if twin, dup := byKey[k]; dup {
			remap[it.ID] = twin.ID
			continue
		}

		t := it.Clone()
		if ids[t.ID] {
			t.ID = uuid.NewString()
		}
		remap[it.ID] = t.ID
		ids[t.ID] = true
		byKey[k] = t
		added = append(added, t)
		out.Tasks = append(out.Tasks, t)
	}

	byID := make(map[string]*model.Task, len(out.Tasks))
	for _, t := range out.Tasks {
		byID[t.ID] = t
	}
	for _, t := range added {
		if t.ParentID == "" {
			continue
		}
		parent, ok := byID[remap[t.ParentID]]
		if !ok || parent.IsSubtask() || parent.ID == t.ID {
			t.ParentID = ""
			continue
		}
		t.ParentID = parent.ID
	}

	return out
}
