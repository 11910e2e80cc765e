// Package session owns the per-tab analysis state. One store for the whole
// process: the single source of truth for the at-most-one-in-flight guard,
// the stored result or error, and the ephemeral badge signal. All
// read-modify-write goes through the store mutex so transitions stay atomic
// under concurrent handlers.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/cartscope/cartscope/pkg/domain"
)

// Store holds sessions keyed by tab identity in a bounded, optionally
// expiring LRU. TTL 0 means entries never expire, mirroring the historical
// behavior; MaxEntries 0 means unbounded. Eviction policy is an explicit
// configuration choice, not an implicit one.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *domain.Session]
}

// NewStore creates a session store. maxEntries bounds the number of tabs
// with retained state (0 = unlimited); ttl expires idle sessions (0 = never).
func NewStore(maxEntries int, ttl time.Duration) *Store {
	return &Store{
		cache: expirable.NewLRU[string, *domain.Session](maxEntries, nil, ttl),
	}
}

// Begin attempts the transition into Requesting for the tab. Returns false
// when the session is already Requesting, in which case nothing changes and
// the caller must not issue a network call. Otherwise the prior result and
// error are cleared, the in-flight marker is set and the badge switches to
// in-progress.
func (s *Store) Begin(tabID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(tabID); ok && sess.State == domain.StateRequesting {
		return false
	}
	s.cache.Add(tabID, &domain.Session{
		State:  domain.StateRequesting,
		Signal: domain.SignalInProgress,
	})
	return true
}

// Complete stores the result and moves the session to Completed. The result
// pointer is set whole under the lock, so readers never observe a torn
// value. A session evicted mid-flight is written back rather than dropped.
func (s *Store) Complete(tabID string, result *domain.OptimizationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(tabID, &domain.Session{
		State:  domain.StateCompleted,
		Result: result,
		Signal: domain.SignalSuccess,
	})
}

// Fail stores a human-readable error and moves the session to Failed.
func (s *Store) Fail(tabID, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(tabID, &domain.Session{
		State:  domain.StateFailed,
		Error:  msg,
		Signal: domain.SignalError,
	})
}

// ClearSignal resets only the badge signal for the tab, leaving state,
// result and error untouched. Called on page-navigation-completed: a
// finished analysis stays queryable after the badge resets.
func (s *Store) ClearSignal(tabID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(tabID)
	if !ok {
		return
	}
	if sess.Signal != domain.SignalNone {
		log.Printf("[DEBUG] badge cleared for tab %s (state %s kept)", tabID, sess.State)
	}
	sess.Signal = domain.SignalNone
}

// Snapshot returns the read-only projection for the tab. Unknown tabs get
// the zero snapshot.
func (s *Store) Snapshot(tabID string) domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(tabID)
	if !ok {
		return domain.SessionSnapshot{}
	}
	return domain.SessionSnapshot{
		IsLoading: sess.State == domain.StateRequesting,
		Result:    sess.Result,
		Error:     sess.Error,
	}
}

// Signal returns the current badge signal for the tab.
func (s *Store) Signal(tabID string) domain.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(tabID)
	if !ok {
		return domain.SignalNone
	}
	return sess.Signal
}

// Len returns the number of retained sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
