package memory

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// SessionStore keeps values per session key in memory and forgets sessions
// that have been idle longer than the TTL. It is NOT persistent.
type SessionStore[V any] struct {
	cache *gocache.Cache
}

// NewSessionStore creates a store whose entries expire after ttl without a
// Get or Put. ttl <= 0 disables expiry.
func NewSessionStore[V any](ttl time.Duration) *SessionStore[V] {
	if ttl <= 0 {
		return &SessionStore[V]{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &SessionStore[V]{cache: gocache.New(ttl, ttl/2)}
}

// OnEvicted registers a callback run when a session expires or is deleted.
func (s *SessionStore[V]) OnEvicted(fn func(id domain.SessionID, v V)) {
	s.cache.OnEvicted(func(key string, value any) {
		if v, ok := value.(V); ok {
			fn(domain.SessionID(key), v)
		}
	})
}

func (s *SessionStore[V]) Put(id domain.SessionID, v V) error {
	s.cache.SetDefault(string(id), v)
	return nil
}

// Get returns the session and refreshes its expiry.
func (s *SessionStore[V]) Get(id domain.SessionID) (V, error) {
	var zero V

	raw, ok := s.cache.Get(string(id))
	if !ok {
		return zero, domain.ErrSessionNotFound
	}
	v, ok := raw.(V)
	if !ok {
		return zero, domain.ErrSessionNotFound
	}

	s.cache.SetDefault(string(id), v)
	return v, nil
}

func (s *SessionStore[V]) Delete(id domain.SessionID) error {
	if _, ok := s.cache.Get(string(id)); !ok {
		return domain.ErrSessionNotFound
	}
	s.cache.Delete(string(id))
	return nil
}

func (s *SessionStore[V]) Count() int {
	return s.cache.ItemCount()
}
