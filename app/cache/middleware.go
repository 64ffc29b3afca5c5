package cache

import (
	"bytes"
	"net/http"
)

// responseRecorder tees the response to the client while keeping a copy
// for the cache.
type responseRecorder struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (rec *responseRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	rec.buf.Write(b)
	return rec.ResponseWriter.Write(b)
}

// Middleware serves GET responses from the store and fills it on misses.
// Only successful responses are cached; anything but GET passes straight
// through untouched.
func Middleware(store Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := Key(r)
			if entry, found := store.Get(key); found {
				if entry.ContentType != "" {
					w.Header().Set("Content-Type", entry.ContentType)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(entry.Status)
				_, _ = w.Write(entry.Body)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				store.Set(key, Entry{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.buf.Bytes(),
				})
			}
		})
	}
}
