package cache

import (
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Entry is one cached HTTP response.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

// Store is the process-wide response cache. It is injected into the article
// service, which calls Reset after every successful mutation: any article
// change may affect any cached listing, so invalidation is whole-cache.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, entry Entry)
	Reset()
}

// InMemoryStore backs Store with a TTL-bearing in-process cache.
type InMemoryStore struct {
	c *gocache.Cache
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a store whose entries expire after ttl and are
// swept every cleanupInterval.
func NewInMemoryStore(ttl, cleanupInterval time.Duration) *InMemoryStore {
	return &InMemoryStore{
		c: gocache.New(ttl, cleanupInterval),
	}
}

func (s *InMemoryStore) Get(key string) (Entry, bool) {
	v, found := s.c.Get(key)
	if !found {
		return Entry{}, false
	}
	entry, ok := v.(Entry)
	return entry, ok
}

func (s *InMemoryStore) Set(key string, entry Entry) {
	s.c.Set(key, entry, gocache.DefaultExpiration)
}

func (s *InMemoryStore) Reset() {
	s.c.Flush()
}

// Key derives the cache key from the request signature: method, path and
// query string together identify one cacheable response.
func Key(r *http.Request) string {
	return fmt.Sprintf("%s-%s", r.Method, r.URL.RequestURI())
}
