package session

import "github.com/nhle/do-it-later/internal/tasks"

// Begin opens a batch. Batches nest; saving and redrawing are deferred
// until the outermost batch ends.
func (s *Session) Begin() { s.depth++ }

// End closes a batch. Closing the outermost one requests a save and a
// redraw; closing a nested one does nothing else.
func (s *Session) End() {
	if s.depth > 0 {
		s.depth--
	}
	s.commit()
}

// commit requests a save and a redraw unless a batch is still open.
func (s *Session) commit() {
	if s.depth > 0 {
		return
	}
	s.saver.Request(s.set.Clone())
	if s.redraw != nil {
		s.redraw()
	}
}

// InBatch reports whether a batch is open.
func (s *Session) InBatch() bool { return s.depth > 0 }

// Run calls fn inside a batch.
func (s *Session) Run(fn func()) {
	s.Begin()
	defer s.End()
	fn()
}

// Update calls fn with the task manager inside a batch and returns its
// error.
func (s *Session) Update(fn func(m *tasks.Manager) error) error {
	s.Begin()
	defer s.End()
	return fn(s.tasks)
}
