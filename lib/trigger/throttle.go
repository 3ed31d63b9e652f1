package trigger

import (
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
)

// Decision is a throttle verdict for a reply
type Decision int

// decisions, see Throttle.Check
const (
	Allow Decision = iota
	Warn
	Suppress
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Suppress:
		return "suppress"
	}
	return "unknown"
}

// ThrottleParams defines throttle limits
type ThrottleParams struct {
	Delay          time.Duration // cooldown after the warning
	MaxConsecutive int           // allowed firings before the warning, default 2
	MaxKeys        int           // max number of tracked replies, least recently used dropped first
	TTL            time.Duration // how long an idle reply record is kept, at least 2*Delay
}

// Throttle limits how often the same reply can be sent, thread-safe.
// State is global per reply text, not per chat.
type Throttle struct {
	delay time.Duration
	limit int
	ttl   time.Duration

	mu    sync.Mutex
	state cache.Cache[string, throttleState]
}

type throttleState struct {
	nextAllowedAt time.Time
	consecutive   int
}

const (
	defaultMaxConsecutive = 2
	defaultMaxKeys        = 10000
	defaultStateTTL       = 24 * time.Hour
)

// NewThrottle makes a throttle with the given params
func NewThrottle(p ThrottleParams) *Throttle {
	if p.MaxConsecutive <= 0 {
		p.MaxConsecutive = defaultMaxConsecutive
	}
	// cooldown never moves nextAllowedAt backwards
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.MaxKeys <= 0 {
		p.MaxKeys = defaultMaxKeys
	}
	if p.TTL <= 0 {
		p.TTL = defaultStateTTL
	}
	// record outlives the cooldown
	if p.TTL < 2*p.Delay {
		p.TTL = 2 * p.Delay
	}
	return &Throttle{
		delay: p.Delay,
		limit: p.MaxConsecutive,
		ttl:   p.TTL,
		state: cache.NewCache[string, throttleState]().WithMaxKeys(p.MaxKeys).WithLRU().WithTTL(p.TTL),
	}
}

// Check decides if the reply can be sent at the given time and updates the reply's record.
// The whole read-modify-write runs under the lock, concurrent checks of the same reply never lose updates.
func (t *Throttle) Check(reply string, now time.Time) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.state.Get(reply)
	if !ok {
		st = throttleState{nextAllowedAt: now}
	}

	var res Decision
	switch {
	case now.Before(st.nextAllowedAt): // still in cooldown
		st.consecutive = 0
		res = Suppress
	case st.consecutive >= t.limit:
		st.nextAllowedAt = now.Add(t.delay)
		st.consecutive = 0
		res = Warn
	default:
		st.consecutive++
		res = Allow
	}

	t.state.Set(reply, st, t.ttl)
	return res
}

// Len returns the number of tracked replies
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Len()
}

// Reset drops all records
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Purge()
}
