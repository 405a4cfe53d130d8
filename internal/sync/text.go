package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/do-it-later/internal/model"
)

// AppName heads every text export.
const AppName = "Do It (Later)"

const (
	lifetimeLabel  = "Tasks Completed Lifetime:"
	sectionRule    = "======"
	markDone       = "✓"
	markOpen       = "□"
	textDateLayout = "Monday, January 2, 2006"
	textTimeLayout = "1/2/2006, 3:04:05 PM"
)

func sectionHeader(list model.List) string {
	return strings.ToUpper(string(list)) + ":"
}

// EncodeText renders set as the human-editable export. Only text and
// completion survive; hierarchy is flattened into list order.
func EncodeText(set *model.TaskSet, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n", AppName, now.Format(textDateLayout))
	fmt.Fprintf(&b, "Exported: %s\n", now.Format(textTimeLayout))
	fmt.Fprintf(&b, "%s %d\n\n", lifetimeLabel, set.TotalCompleted)

	for _, list := range model.Lists {
		b.WriteString(sectionHeader(list) + "\n")
		b.WriteString(sectionRule + "\n")

		n := 0
		for _, t := range set.Tasks {
			if t.List != list {
				continue
			}
			mark := markOpen
			if t.Completed {
				mark = markDone
			}
			fmt.Fprintf(&b, "%s %s\n", mark, t.Text)
			n++
		}
		if n == 0 {
			fmt.Fprintf(&b, "(No tasks for %s)\n", list)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "This file can be imported back into %s\n", AppName)
	b.WriteString("or edited manually and re-imported.\n")

	return b.String()
}

// looksLikeText reports whether payload has a section header line.
func looksLikeText(payload string) bool {
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		for _, list := range model.Lists {
			if line == sectionHeader(list) {
				return true
			}
		}
	}
	return false
}

// DecodeText parses a text export, including one edited by hand. Tasks
// come back flat with fresh ids and timestamps; lines outside a section
// or without a checkbox are ignored.
func DecodeText(payload string, now time.Time) (*model.TaskSet, error) {
	if !looksLikeText(payload) {
		return nil, fmt.Errorf("parsing text export: no TODAY: or LATER: section: %w", model.ErrUnrecognizedFormat)
	}

	var (
		raw     RawState
		section *[]RawTask
	)
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)

		if rest, ok := strings.CutPrefix(line, lifetimeLabel); ok {
			raw.TotalCompleted = leadingInt(strings.TrimSpace(rest))
			continue
		}

		switch line {
		case sectionHeader(model.ListToday):
			section = &raw.Today
			continue
		case sectionHeader(model.ListLater):
			section = &raw.Tomorrow
			continue
		}
		if section == nil {
			continue
		}

		var completed bool
		rest, ok := strings.CutPrefix(line, markOpen)
		if !ok {
			rest, ok = strings.CutPrefix(line, markDone)
			completed = true
		}
		if !ok {
			continue
		}
		if text := strings.TrimSpace(rest); text != "" {
			*section = append(*section, RawTask{Text: text, Completed: looseBool(completed)})
		}
	}

	return Normalize(raw, now), nil
}
