package sync

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/do-it-later/internal/model"
)

// Format names a payload encoding.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatCompact Format = "compact"
)

// Decode detects the format of payload and parses it: a text export,
// then a persisted JSON task set, then a QR/clipboard payload.
func Decode(payload string, now time.Time) (*model.TaskSet, Format, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, "", fmt.Errorf("decoding payload: empty input: %w", model.ErrUnrecognizedFormat)
	}

	if looksLikeText(payload) {
		set, err := DecodeText(payload, now)
		return set, FormatText, err
	}

	if strings.HasPrefix(strings.TrimSpace(payload), "{") {
		set, err := DecodeJSON(payload, now)
		if err == nil {
			return set, FormatJSON, nil
		}
		if !errors.Is(err, model.ErrUnrecognizedFormat) {
			return nil, FormatJSON, err
		}
	}

	set, err := ParseSync(payload, now)
	if err != nil {
		return nil, "", err
	}
	return set, FormatCompact, nil
}
