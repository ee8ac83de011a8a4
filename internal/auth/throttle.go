package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle tracks login attempt rates per key (typically an account email)
// with expiration of idle entries.
type Throttle struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewThrottle constructs a per-key throttle that allows up to `attempts`
// events per `window` with an additional burst capacity. Entries expire after
// the provided ttl when no longer used.
func NewThrottle(attempts int, window time.Duration, burst int, ttl time.Duration) *Throttle {
	if attempts <= 0 {
		attempts = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Throttle{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(attempts)),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow reports whether the key may attempt another login right now.
func (t *Throttle) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := t.now()

	t.mu.Lock()
	v := t.getVisitorLocked(key, now)
	t.gcLocked(now)
	t.mu.Unlock()

	return v.limiter.Allow()
}

func (t *Throttle) getVisitorLocked(key string, now time.Time) *visitor {
	if v, ok := t.visitors[key]; ok {
		v.lastSeen = now
		return v
	}

	v := &visitor{limiter: rate.NewLimiter(t.limit, t.burst), lastSeen: now}
	t.visitors[key] = v
	return v
}

func (t *Throttle) gcLocked(now time.Time) {
	for key, v := range t.visitors {
		if now.Sub(v.lastSeen) > t.ttl {
			delete(t.visitors, key)
		}
	}
}
