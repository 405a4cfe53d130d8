package session

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/do-it-later/internal/model"
	"github.com/nhle/do-it-later/internal/store"
	"github.com/nhle/do-it-later/internal/sync"
)

// DefaultSaveDebounce is the coalescing delay used when none is configured.
const DefaultSaveDebounce = 100 * time.Millisecond

// writeTimeout bounds a single background write.
const writeTimeout = 5 * time.Second

// Saver coalesces save requests and writes the latest snapshot once the
// debounce delay passes without a newer request arriving first.
type Saver struct {
	store  store.Store
	key    string
	delay  time.Duration
	logger *log.Logger

	requestCh chan *model.TaskSet
	flushCh   chan chan error
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  gosync.Once

	mu      gosync.Mutex
	lastErr error
	writes  int
}

// NewSaver starts a Saver writing to st under store.KeyData.
func NewSaver(st store.Store, delay time.Duration, logger *log.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDebounce
	}
	s := &Saver{
		store:     st,
		key:       store.KeyData,
		delay:     delay,
		logger:    logger,
		requestCh: make(chan *model.TaskSet, 16),
		flushCh:   make(chan chan error),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// Request schedules set to be written. The caller must not mutate set
// afterwards; pass a clone.
func (s *Saver) Request(set *model.TaskSet) {
	select {
	case s.requestCh <- set:
	case <-s.doneCh:
	}
}

// Flush writes any pending snapshot immediately and returns the write
// error, if any.
func (s *Saver) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.flushCh <- reply:
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop writes any pending snapshot and halts the background goroutine.
func (s *Saver) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

// LastError returns the error of the most recent write, nil after a
// successful one.
func (s *Saver) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Writes returns how many writes have been attempted.
func (s *Saver) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Saver) loop() {
	defer close(s.doneCh)

	var (
		pending *model.TaskSet
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timerC = nil
	}
	drain := func() {
		for {
			select {
			case set := <-s.requestCh:
				pending = set
			default:
				return
			}
		}
	}
	writePending := func() error {
		if pending == nil {
			return nil
		}
		err := s.write(pending)
		pending = nil
		return err
	}

	for {
		select {
		case set := <-s.requestCh:
			pending = set
			if timerC == nil {
				timer = time.NewTimer(s.delay)
				timerC = timer.C
			}

		case <-timerC:
			timerC = nil
			drain()
			writePending()

		case reply := <-s.flushCh:
			stopTimer()
			drain()
			reply <- writePending()

		case <-s.stopCh:
			stopTimer()
			drain()
			writePending()
			return
		}
	}
}

func (s *Saver) write(set *model.TaskSet) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	err := put(ctx, s.store, s.key, set)

	s.mu.Lock()
	s.lastErr = err
	s.writes++
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("saving tasks failed", "err", err)
		return err
	}
	s.logger.Debug("saved tasks", "count", set.Len())
	return nil
}

func put(ctx context.Context, st store.Store, key string, set *model.TaskSet) error {
	payload, err := sync.EncodeJSON(set)
	if err != nil {
		return err
	}
	if err := st.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}
