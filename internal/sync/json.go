package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/do-it-later/internal/model"
)

// EncodeJSON renders set in the canonical persisted shape. It is the only
// lossless format.
func EncodeJSON(set *model.TaskSet) (string, error) {
	out := *set
	if out.Tasks == nil {
		out.Tasks = []*model.Task{}
	}
	out.Version = model.CurrentVersion

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return "", fmt.Errorf("encoding task set: %w", err)
	}
	return buf.String(), nil
}

// DecodeJSON parses a persisted task set in either the v2 shape or the
// v1 today/tomorrow shape.
func DecodeJSON(payload string, now time.Time) (*model.TaskSet, error) {
	payload = strings.TrimSpace(payload)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &keys); err != nil {
		return nil, fmt.Errorf("parsing task set: %w", model.ErrUnrecognizedFormat)
	}
	if !hasAnyKey(keys, "tasks", "today", "tomorrow") {
		return nil, fmt.Errorf("parsing task set: no tasks field: %w", model.ErrUnrecognizedFormat)
	}

	var raw RawState
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("parsing task set: %v: %w", err, model.ErrUnrecognizedFormat)
	}
	return Normalize(raw, now), nil
}

func hasAnyKey(m map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
