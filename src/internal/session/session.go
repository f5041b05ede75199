package session

import (
	"sync"
	"time"
)

// Session is one logged-in account. It owns exactly one Timer, the sort
// preference for the movement list and any deferred work scheduled on it.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time

	timer   *Timer
	publish func(Event)

	// held while a deferred callback runs so that terminate waits for it
	runMu sync.Mutex

	mu      sync.Mutex
	active  bool
	sorted  bool
	nextID  uint64
	pending map[uint64]*time.Timer
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ResetTimer restarts the logout countdown. It reports false, and leaves the
// timer stopped, once the session has ended.
func (s *Session) ResetTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}
	return s.timer.Reset()
}

func (s *Session) TimerDisplay() string {
	return s.timer.Display()
}

func (s *Session) TimerRemaining() int {
	return s.timer.Remaining()
}

func (s *Session) TimerState() State {
	return s.timer.State()
}

// ToggleSort flips the movement ordering and returns the new value.
func (s *Session) ToggleSort() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sorted = !s.sorted
	return s.sorted
}

func (s *Session) Sorted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted
}

// Defer runs fn after delay if the session is still active then. Work that
// has not fired when the session ends is dropped. fn must not end the
// session it was scheduled on.
func (s *Session) Defer(delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}

	id := s.nextID
	s.nextID++
	s.pending[id] = time.AfterFunc(delay, func() {
		s.runMu.Lock()
		defer s.runMu.Unlock()

		s.mu.Lock()
		_, scheduled := s.pending[id]
		delete(s.pending, id)
		active := s.active
		s.mu.Unlock()

		if scheduled && active {
			fn()
		}
	})
	return true
}

func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Publish sends an event to this session's subscribers.
func (s *Session) Publish(eventType EventType) {
	if s.publish == nil {
		return
	}
	s.publish(Event{Type: eventType, SessionID: s.ID, Remaining: s.TimerDisplay()})
}

// terminate reports false if the session had already ended.
func (s *Session) terminate() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return false
	}
	s.active = false
	s.sorted = false
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
	// cancelled under mu so a concurrent ResetTimer cannot restart it
	s.timer.Cancel()
	s.mu.Unlock()
	return true
}
