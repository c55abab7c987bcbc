package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/checkgrid/internal/config"
	"github.com/JonMunkholm/checkgrid/internal/selection"
)

// Session is one browser's selection state: the server-side document
// mirroring its grids plus the keys it has checked on every page.
type Session struct {
	ID string

	doc      *selection.Document
	ctrl     *selection.Controller
	rebinder *selection.Rebinder

	mu       sync.Mutex
	selected map[string]map[string]bool // container id -> row key -> checked state
	lastSeen time.Time
}

func newSession(id string, logger *slog.Logger) *Session {
	doc := selection.NewDocument()
	ctrl := selection.NewController(doc, logger)
	rb := selection.NewRebinder(ctrl, logger)
	rb.Attach(doc)

	return &Session{
		ID:       id,
		doc:      doc,
		ctrl:     ctrl,
		rebinder: rb,
		selected: make(map[string]map[string]bool),
	}
}

// Document returns the session's selection document.
func (s *Session) Document() *selection.Document { return s.doc }

// Controller returns the session's highlight controller.
func (s *Session) Controller() *selection.Controller { return s.ctrl }

// Rebinder returns the session's rebind lifecycle.
func (s *Session) Rebinder() *selection.Rebinder { return s.rebinder }

// Lookup returns the stored checked state of key. The second value is
// false when the row was never toggled or rendered in this session.
func (s *Session) Lookup(containerID, key string) (checked, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	checked, ok = s.selected[containerID][key]
	return checked, ok
}

// SelectedCount returns the number of checked keys across all pages.
func (s *Session) SelectedCount(containerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, on := range s.selected[containerID] {
		if on {
			n++
		}
	}
	return n
}

// Record copies the checked state of the container's current rows into
// the session.
func (s *Session) Record(containerID string) {
	s.doc.View(containerID, func(c *selection.Container) {
		s.mu.Lock()
		defer s.mu.Unlock()

		set, ok := s.selected[containerID]
		if !ok {
			set = make(map[string]bool)
			s.selected[containerID] = set
		}
		for _, r := range c.Rows() {
			set[r.Key] = r.Checked
		}
	})
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionStore keeps sessions keyed by a UUID cookie and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cookie string
	secure bool
	idle   time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionStore returns an empty store.
func NewSessionStore(cfg config.SessionConfig, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		cookie:   cfg.CookieName,
		secure:   cfg.SecureCookie,
		idle:     cfg.IdleTimeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the request's session, creating one and setting the cookie
// when the cookie is missing, malformed, or names an expired session.
func (st *SessionStore) Get(w http.ResponseWriter, r *http.Request) *Session {
	now := st.now()

	if c, err := r.Cookie(st.cookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			st.mu.Lock()
			s, ok := st.sessions[id.String()]
			st.mu.Unlock()
			if ok && s.idleSince(now) < st.idle {
				s.touch(now)
				return s
			}
		}
	}

	id := uuid.NewString()
	s := newSession(id, st.logger.With("session", id))
	s.touch(now)

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     st.cookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Sweep removes sessions idle for longer than the timeout and returns how
// many were removed.
func (st *SessionStore) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince(now) >= st.idle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Run sweeps expired sessions until ctx is done.
func (st *SessionStore) Run(ctx context.Context) {
	ticker := time.NewTicker(max(st.idle/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Debug("expired selection sessions", "count", n, "live", st.Len())
			}
		}
	}
}
