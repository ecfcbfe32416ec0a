package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/workflow"
)

// lockStripes is the number of per-user lock stripes guarding sessions
const lockStripes = 64

// SessionStore keeps in-progress registration sessions. Sessions expire after
// a period of inactivity.
type SessionStore struct {
	cache  *cache.Cache
	locks  [lockStripes]sync.Mutex
	logger *logrus.Logger
}

// NewSessionStore creates a session store whose sessions are evicted after ttl of inactivity
func NewSessionStore(ttl time.Duration, logger *logrus.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}

	c := cache.New(ttl, constants.SessionCleanupInterval)
	c.OnEvicted(func(key string, _ interface{}) {
		logger.Debugf("Session %s removed", key)
	})

	return &SessionStore{
		cache:  c,
		logger: logger,
	}
}

// Lock serializes work on one user's session and returns the unlock function
func (s *SessionStore) Lock(userID int64) func() {
	m := &s.locks[uint64(userID)%lockStripes]
	m.Lock()
	return m.Unlock
}

// Get returns the user's session, or an idle one if none exists
func (s *SessionStore) Get(userID int64) (workflow.Session, error) {
	key := sessionKey(userID)

	if data, found := s.cache.Get(key); found {
		if session, ok := data.(workflow.Session); ok {
			return session, nil
		}
		return workflow.Session{}, fmt.Errorf("invalid session type for user %d", userID)
	}

	return workflow.Session{UserID: userID, State: workflow.Idle}, nil
}

// Save stores the session, or deletes it once the conversation is idle
func (s *SessionStore) Save(session workflow.Session) {
	if session.State == workflow.Idle {
		s.Delete(session.UserID)
		return
	}

	s.cache.Set(sessionKey(session.UserID), session, cache.DefaultExpiration)
	s.logger.Debugf("Set session for user %d: %s", session.UserID, session.State)
}

// Delete removes the user's session
func (s *SessionStore) Delete(userID int64) {
	s.cache.Delete(sessionKey(userID))
	s.logger.Debugf("Cleared session for user %d", userID)
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}

// Flush removes every session
func (s *SessionStore) Flush() {
	s.cache.Flush()
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session_%d", userID)
}
