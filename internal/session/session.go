// Package session wires the task core to persistence: it loads and
// upgrades the stored task set, runs the daily rollover when the app
// opens, brackets mutations in batches and saves once the outermost batch
// closes.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/rollover"
	"github.com/nhle/do-it-later/internal/store"
	"github.com/nhle/do-it-later/internal/sync"
	"github.com/nhle/do-it-later/internal/tasks"
)

// Options configures Open.
type Options struct {
	Store  store.Store
	Logger *log.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// Location decides where a calendar day starts. Defaults to time.Local.
	Location *time.Location

	SaveDebounce time.Duration

	// Redraw is called once after every outermost batch.
	Redraw func()
}

// Session owns the task set for the lifetime of the app.
type Session struct {
	set    *model.TaskSet
	tasks  *tasks.Manager
	store  store.Store
	saver  *Saver
	logger *log.Logger
	now    func() time.Time
	loc    *time.Location
	redraw func()

	depth int
}

// Open loads the stored task set, applies the rollover if the day has
// changed and starts the background saver. The report is never nil.
func Open(ctx context.Context, opts Options) (*Session, rollover.Report) {
	s := &Session{
		store:  opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
		loc:    opts.Location,
		redraw: opts.Redraw,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}

	s.set = Load(ctx, s.store, s.Now(), s.logger)
	s.tasks = tasks.New(s.set)
	s.tasks.Now = s.Now
	s.saver = NewSaver(s.store, opts.SaveDebounce, s.logger)

	report := s.CheckRollover()
	return s, report
}

// Now returns the current time in the session's location.
func (s *Session) Now() time.Time { return s.now().In(s.loc) }

// Tasks returns the manager over the session's set. Mutations made
// through it outside Update are not saved until the next batch closes.
func (s *Session) Tasks() *tasks.Manager { return s.tasks }

// Set returns the live task set.
func (s *Session) Set() *model.TaskSet { return s.set }

// Saver returns the background saver.
func (s *Session) Saver() *Saver { return s.saver }

// CheckRollover runs the daily rollover if the date has changed since the
// last check, saving and redrawing when it fires.
func (s *Session) CheckRollover() rollover.Report {
	report := rollover.Run(s.set, s.Now())
	if !report.Rolled {
		return report
	}

	s.logger.Info("rolled over",
		"from", report.Previous,
		"to", report.Date,
		"cleaned", report.Cleaned,
		"promoted", report.Promoted,
		"important", report.MarkedImportant,
	)
	s.commit()
	return report
}

// Import decodes payload in any supported format and combines it with the
// current set. Before a replace the stored set is snapshotted when the
// store supports it, so Restore can undo the import.
func (s *Session) Import(ctx context.Context, payload string, mode sync.MergeMode) (sync.Format, error) {
	imported, format, err := sync.Decode(payload, s.Now())
	if err != nil {
		return "", fmt.Errorf("importing: %w", err)
	}

	if mode == sync.ModeReplace {
		if err := s.saver.Flush(ctx); err != nil {
			s.logger.Warn("flushing before import", "err", err)
		}
		if snap, ok := s.store.(store.Snapshotter); ok {
			if err := snap.Snapshot(ctx, store.KeyData); err != nil {
				return "", fmt.Errorf("importing: %w", err)
			}
		}
	}

	s.Run(func() {
		result := sync.Apply(s.set, imported, mode)
		result.Touch(s.Now())
		*s.set = *result
	})
	s.logger.Info("imported tasks", "format", format, "mode", mode, "tasks", imported.Len())
	return format, nil
}

// Restore reverts the most recent replace import.
func (s *Session) Restore(ctx context.Context) error {
	snap, ok := s.store.(store.Snapshotter)
	if !ok {
		return errors.New("restoring: store keeps no history")
	}
	if err := s.saver.Flush(ctx); err != nil {
		return fmt.Errorf("restoring: %w", err)
	}
	if err := snap.Restore(ctx, store.KeyData); err != nil {
		return fmt.Errorf("restoring: %w", err)
	}

	restored := Load(ctx, s.store, s.Now(), s.logger)
	s.Run(func() { *s.set = *restored })
	return nil
}

// Theme returns the stored theme preference, or "" when none is stored.
func (s *Session) Theme(ctx context.Context) string {
	v, err := s.store.Get(ctx, store.KeyTheme)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("reading theme", "err", err)
		}
		return ""
	}
	return v
}

// SetTheme stores the theme preference.
func (s *Session) SetTheme(ctx context.Context, name string) error {
	if name != model.ThemeDark && name != model.ThemeLight {
		return fmt.Errorf("unknown theme %q: %w", name, model.ErrValidation)
	}
	return s.store.Put(ctx, store.KeyTheme, name)
}

// Close flushes pending writes and stops the saver. The store is left
// open for the caller to close.
func (s *Session) Close(ctx context.Context) error {
	err := s.saver.Flush(ctx)
	s.saver.Stop()
	return err
}

// Load reads the task set stored in st. A missing or unreadable value
// yields an empty set dated now; the failure is logged, not returned.
func Load(ctx context.Context, st store.Store, now time.Time, logger *log.Logger) *model.TaskSet {
	payload, err := st.Get(ctx, store.KeyData)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("loading tasks failed, starting empty", "err", err)
		}
		return model.NewTaskSet(now)
	}

	set, err := sync.DecodeJSON(payload, now)
	if err != nil {
		logger.Warn("stored tasks unreadable, starting empty", "err", err)
		return model.NewTaskSet(now)
	}
	return set
}

// Save writes set to st synchronously and reports success. Failures are
// logged.
func Save(ctx context.Context, st store.Store, set *model.TaskSet, logger *log.Logger) bool {
	if err := put(ctx, st, store.KeyData, set); err != nil {
		logger.Error("saving tasks failed", "err", err)
		return false
	}
	return true
}
