package sync

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/do-it-later/internal/model"
)

// legacyTask is one entry of the earliest QR payload: {i, x, c}.
type legacyTask struct {
	I looseString `json:"i"`
	X string      `json:"x"`
	C looseBool   `json:"c"`
}

type legacyEnvelope struct {
	T  json.RawMessage `json:"t"`
	L  json.RawMessage `json:"l"`
	C  int             `json:"c"`
	TC int             `json:"tc"`
	TS int64           `json:"ts"`
}

// parseLegacyJSON recognizes the object-array shape {t:[{i,x,c}],l,tc,ts}
// and the string-array shape {t:[...],l:[...],c}.
func parseLegacyJSON(payload string, now time.Time) (RawState, error) {
	var env legacyEnvelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &env); err != nil {
		return RawState{}, fmt.Errorf("parsing sync payload: %w", model.ErrUnrecognizedFormat)
	}
	if len(env.T) == 0 || env.T[0] != '[' {
		return RawState{}, fmt.Errorf("parsing sync payload: no task array: %w", model.ErrUnrecognizedFormat)
	}

	if objects, ok := decodeLegacyObjects(env.T); ok {
		later, _ := decodeLegacyObjects(env.L)
		ts := env.TS
		if ts <= 0 {
			ts = now.UnixMilli()
		}
		return RawState{
			Today:          legacyToRaw(objects, ts),
			Tomorrow:       legacyToRaw(later, ts),
			TotalCompleted: env.TC,
			LastUpdated:    ts,
		}, nil
	}

	var today, later []string
	if err := json.Unmarshal(env.T, &today); err != nil {
		return RawState{}, fmt.Errorf("parsing sync payload: %w", model.ErrUnrecognizedFormat)
	}
	if len(env.L) > 0 {
		if err := json.Unmarshal(env.L, &later); err != nil {
			return RawState{}, fmt.Errorf("parsing sync payload: %w", model.ErrUnrecognizedFormat)
		}
	}
	return RawState{
		Today:          stringsToRaw(today),
		Tomorrow:       stringsToRaw(later),
		TotalCompleted: env.C,
	}, nil
}

// decodeLegacyObjects succeeds only when the first element carries an id,
// which is how the object-array shape is told apart.
func decodeLegacyObjects(data json.RawMessage) ([]legacyTask, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var items []legacyTask
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	if len(items) == 0 || items[0].I == "" {
		return nil, false
	}
	return items, true
}

func legacyToRaw(items []legacyTask, createdAt int64) []RawTask {
	out := make([]RawTask, 0, len(items))
	for _, it := range items {
		out = append(out, RawTask{
			ID:        it.I,
			Text:      it.X,
			Completed: it.C,
			CreatedAt: createdAt,
		})
	}
	return out
}

func stringsToRaw(texts []string) []RawTask {
	out := make([]RawTask, 0, len(texts))
	for _, text := range texts {
		out = append(out, RawTask{Text: text})
	}
	return out
}
