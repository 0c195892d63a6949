package resolver

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// ClarificationSession freezes the candidate list shown to one user between
// the matcher's needs-clarification result and the user's follow-up choice.
// The user's reply is resolved against exactly this list, never against a
// re-run of the matcher.
type ClarificationSession struct {
	OriginalQuestion string
	CandidateIDs     []int64
	BestScore        int
	CreatedAt        time.Time
}

// SessionStore keeps per-user clarification sessions in a size-bounded LRU,
// so abandoned sessions age out without a dedicated sweeper.
type SessionStore struct {
	cache *lru.Cache
	ttl   time.Duration
}

func NewSessionStore(size int, ttl time.Duration) (*SessionStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

// Get returns the active session for a user, discarding it if it timed out.
func (s *SessionStore) Get(userID string) (ClarificationSession, bool) {
	value, ok := s.cache.Get(userID)
	if !ok {
		return ClarificationSession{}, false
	}
	session := value.(ClarificationSession)
	if s.ttl > 0 && time.Since(session.CreatedAt) > s.ttl {
		s.cache.Remove(userID)
		return ClarificationSession{}, false
	}
	return session, true
}

func (s *SessionStore) Put(userID string, session ClarificationSession) {
	s.cache.Add(userID, session)
}

// Consume removes and returns the session; a clarification reply uses it
// exactly once.
func (s *SessionStore) Consume(userID string) (ClarificationSession, bool) {
	session, ok := s.Get(userID)
	if ok {
		s.cache.Remove(userID)
	}
	return session, ok
}

func (s *SessionStore) Clear(userID string) {
	s.cache.Remove(userID)
}
