package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/api-sage/bankist/src/internal/commons"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/google/uuid"
)

const (
	ReasonExpired  = "expired"
	ReasonLogout   = "logout"
	ReasonClosed   = "account_closed"
	ReasonShutdown = "shutdown"
)

type Config struct {
	Ticks        int
	TickInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Ticks <= 0 {
		c.Ticks = 300
	}
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	return c
}

// Manager owns the live sessions. Ending a session stops its timer, drops
// its deferred work, resets its sort flag and tells subscribers it logged
// out.
type Manager struct {
	cfg    Config
	tokens *Tokens
	hub    *Hub
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cfg Config, tokens *Tokens, hub *Hub) *Manager {
	if hub == nil {
		hub = NewHub()
	}
	return &Manager{
		cfg:      cfg.withDefaults(),
		tokens:   tokens,
		hub:      hub,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Hub() *Hub { return m.hub }

// Duration is how long an idle session lives.
func (m *Manager) Duration() time.Duration {
	return time.Duration(m.cfg.Ticks) * m.cfg.TickInterval
}

// Open starts a session for username with its timer running and returns it
// with a signed token naming it.
func (m *Manager) Open(username string) (*Session, string, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: m.now().UTC(),
		publish:   m.hub.Publish,
		active:    true,
		pending:   make(map[uint64]*time.Timer),
	}

	token := ""
	if m.tokens != nil {
		signed, _, err := m.tokens.Issue(s.ID, username)
		if err != nil {
			return nil, "", err
		}
		token = signed
	}

	id := s.ID
	s.timer = NewTimer(m.cfg.Ticks, m.cfg.TickInterval, Hooks{
		OnTick: func(display string) {
			m.hub.Publish(Event{Type: EventTick, SessionID: id, Remaining: display})
		},
		OnExpire: func() {
			m.End(id, ReasonExpired)
		},
	})

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	s.timer.Start()

	logger.Info("session opened", logger.Fields{
		"sessionId": id,
		"username":  username,
	})
	return s, token, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || !s.Active() {
		return nil, commons.ErrSessionNotFound
	}
	return s, nil
}

// Authenticate resolves a bearer token to its live session.
func (m *Manager) Authenticate(raw string) (*Session, error) {
	if m.tokens == nil {
		return nil, errors.New("session tokens are not configured")
	}
	claims, err := m.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}

	s, err := m.Get(claims.SessionID)
	if err != nil {
		return nil, err
	}
	if s.Username != claims.Username {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	return s, nil
}

// End terminates the session. It reports false when no live session had
// that id.
func (m *Manager) End(id string, reason string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok || !s.terminate() {
		return false
	}

	m.hub.Publish(Event{Type: EventLoggedOut, SessionID: id, Reason: reason, Remaining: s.TimerDisplay()})
	m.hub.Close(id)

	logger.Info("session ended", logger.Fields{
		"sessionId": id,
		"username":  s.Username,
		"reason":    reason,
	})
	return true
}

// EndForUsername ends every session of username and returns how many ended.
func (m *Manager) EndForUsername(username string, reason string) int {
	m.mu.RLock()
	ids := make([]string, 0)
	for id, s := range m.sessions {
		if s.Username == username {
			ids = append(ids, id)
		}
	}
	m.mu.RUnlock()

	ended := 0
	for _, id := range ids {
		if m.End(id, reason) {
			ended++
		}
	}
	return ended
}

func (m *Manager) Shutdown() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.End(id, ReasonShutdown)
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
