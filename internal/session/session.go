// Package session is the identity/session collaborator: it tells the engine
// whether a request is authenticated, whether the user can moderate, and
// which posts the session has already viewed, so that view counters are not
// inflated by refresh spamming.
package session

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Session is the per-visitor state the engine consults.
type Session struct {
	UserID        uint
	Authenticated bool
	Moderator     bool

	viewed *xsync.MapOf[uint, struct{}]
}

func newSession(userID uint, authenticated bool) *Session {
	return &Session{
		UserID:        userID,
		Authenticated: authenticated,
		viewed:        xsync.NewMapOf[uint, struct{}](),
	}
}

// MarkViewed records the post in the session's viewed set and reports
// whether this was the first time. Safe for concurrent use; duplicate
// requests from one session collapse to a single count.
func (s *Session) MarkViewed(postID uint) bool {
	_, loaded := s.viewed.LoadOrStore(postID, struct{}{})
	return !loaded
}

// Viewed reports whether the session has already been counted for the post.
func (s *Session) Viewed(postID uint) bool {
	_, ok := s.viewed.Load(postID)
	return ok
}

// Registry keeps live sessions keyed by an opaque session id.
type Registry struct {
	sessions *xsync.MapOf[string, *Session]
}

func NewRegistry() *Registry {
	return &Registry{sessions: xsync.NewMapOf[string, *Session]()}
}

// Get returns the session for the id, creating an anonymous one on first
// sight.
func (r *Registry) Get(id string) *Session {
	sess, _ := r.sessions.LoadOrCompute(id, func() *Session {
		return newSession(0, false)
	})
	return sess
}

// Bind associates the session id with an authenticated user.
func (r *Registry) Bind(id string, userID uint, moderator bool) *Session {
	sess := newSession(userID, true)
	sess.Moderator = moderator
	r.sessions.Store(id, sess)
	return sess
}

// Drop forgets the session, e.g. on logout.
func (r *Registry) Drop(id string) {
	r.sessions.Delete(id)
}
