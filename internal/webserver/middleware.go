package webserver

import (
	"bufio"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alfredlabs/missionctl/internal/debug"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		debug.LogKV("webserver", "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

// authMiddleware requires a bearer token on API and WebSocket routes.
// An empty token disables authentication. The index page and static assets
// are always reachable; the browser provides the token from there.
// WebSocket clients can pass the token as a query parameter since browsers
// cannot set headers on WebSocket upgrades.
func authMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		provided := ""
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			provided = strings.TrimPrefix(h, "Bearer ")
		}
		if provided == "" {
			provided = r.URL.Query().Get("token")
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

// staleBucketAge is how long an idle client's bucket survives. An idle
// bucket has refilled to full burst, so dropping it loses nothing.
const staleBucketAge = time.Minute

// sweepStaleBuckets drops buckets whose owners have been idle for at
// least staleBucketAge. Caller holds the bucket lock.
func sweepStaleBuckets(buckets map[string]*rateBucket, now time.Time) {
	for host, b := range buckets {
		if now.Sub(b.last) >= staleBucketAge {
			delete(buckets, host)
		}
	}
}

// rateLimitMiddleware applies a per-client token bucket at the given
// requests-per-second rate. A rate of 0 or less disables limiting.
func rateLimitMiddleware(limit float64, next http.Handler) http.Handler {
	if limit <= 0 {
		return next
	}

	burst := limit * 2
	if burst < 1 {
		burst = 1
	}

	var mu sync.Mutex
	buckets := make(map[string]*rateBucket)
	lastSweep := time.Now()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		now := time.Now()
		mu.Lock()
		if now.Sub(lastSweep) >= staleBucketAge {
			sweepStaleBuckets(buckets, now)
			lastSweep = now
		}
		b, ok := buckets[host]
		if !ok {
			b = &rateBucket{tokens: burst, last: now}
			buckets[host] = b
		}
		b.tokens += now.Sub(b.last).Seconds() * limit
		if b.tokens > burst {
			b.tokens = burst
		}
		b.last = now
		allowed := b.tokens >= 1
		if allowed {
			b.tokens--
		}
		mu.Unlock()

		if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
