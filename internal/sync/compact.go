package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/do-it-later/internal/model"
)

// Compact grammar tokens.
const (
	todayPrefix      = "T:"
	laterPrefix      = "L:"
	countPrefix      = "C:"
	taskDelimiter    = "|"
	sectionDelimiter = "~"
)

var delimiterStripper = strings.NewReplacer(taskDelimiter, "", sectionDelimiter, "")

// compactJSON is the denser JSON fallback of the compact grammar, and the
// string-array shape older releases emitted.
type compactJSON struct {
	T []string `json:"t"`
	L []string `json:"l"`
	C int      `json:"c"`
}

// EncodeSync renders the incomplete tasks of set in the compact grammar,
// T:a|b~L:c~C:5, for QR codes and clipboard sync. Completed tasks,
// importance, deadlines and hierarchy are not carried. When the JSON
// fallback is shorter it is returned instead.
func EncodeSync(set *model.TaskSet) string {
	fallback := compactJSON{T: []string{}, L: []string{}, C: set.TotalCompleted}
	var parts []string

	for _, list := range model.Lists {
		var texts []string
		for _, t := range set.Tasks {
			if t.List != list || t.Completed {
				continue
			}
			if list == model.ListToday {
				fallback.T = append(fallback.T, t.Text)
			} else {
				fallback.L = append(fallback.L, t.Text)
			}
			if clean := strings.TrimSpace(delimiterStripper.Replace(t.Text)); clean != "" {
				texts = append(texts, clean)
			}
		}
		if len(texts) == 0 {
			continue
		}
		prefix := todayPrefix
		if list == model.ListLater {
			prefix = laterPrefix
		}
		parts = append(parts, prefix+strings.Join(texts, taskDelimiter))
	}
	if set.TotalCompleted > 0 {
		parts = append(parts, fmt.Sprintf("%s%d", countPrefix, set.TotalCompleted))
	}
	compact := strings.Join(parts, sectionDelimiter)

	if js, err := marshalCompact(fallback); err == nil && len(js) < len(compact) {
		return js
	}
	return compact
}

func marshalCompact(v compactJSON) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// ParseSync decodes a QR or clipboard payload: the compact grammar when
// any section prefix is present, else one of the two legacy JSON shapes.
// Reconstructed tasks get fresh ids and timestamps and are never
// important or dated.
func ParseSync(payload string, now time.Time) (*model.TaskSet, error) {
	if isCompact(payload) {
		return Normalize(parseCompact(payload), now), nil
	}

	raw, err := parseLegacyJSON(payload, now)
	if err != nil {
		return nil, err
	}
	return Normalize(raw, now), nil
}

func isCompact(payload string) bool {
	return strings.Contains(payload, todayPrefix) ||
		strings.Contains(payload, laterPrefix) ||
		strings.Contains(payload, countPrefix)
}

func parseCompact(payload string) RawState {
	var raw RawState
	for _, part := range strings.Split(payload, sectionDelimiter) {
		switch {
		case strings.HasPrefix(part, todayPrefix):
			raw.Today = splitCompactTasks(part[len(todayPrefix):])
		case strings.HasPrefix(part, laterPrefix):
			raw.Tomorrow = splitCompactTasks(part[len(laterPrefix):])
		case strings.HasPrefix(part, countPrefix):
			raw.TotalCompleted = leadingInt(strings.TrimSpace(part[len(countPrefix):]))
		}
	}
	return raw
}

func splitCompactTasks(section string) []RawTask {
	var out []RawTask
	for _, text := range strings.Split(section, taskDelimiter) {
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, RawTask{Text: text})
		}
	}
	return out
}
