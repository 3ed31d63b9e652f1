package trigger

import (
	"math/rand/v2"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Match is a result of matching a single rule against a text
type Match struct {
	Triggered bool
	Reply     string // picked reply, empty if not triggered
}

// Picker picks an index in [0, n)
type Picker interface {
	IntN(n int) int
}

// MatchRules matches text against all rules and returns one Match per rule, in rules order.
// A rule is triggered if any of its patterns is a case-insensitive substring of the text.
func MatchRules(text string, rules []Rule, picker Picker) []Match {
	folded := fold(text)
	res := make([]Match, 0, len(rules))
	for _, r := range rules {
		if !containsAny(folded, r.Patterns) || len(r.Replies) == 0 {
			res = append(res, Match{})
			continue
		}
		reply := r.Replies[0]
		if len(r.Replies) > 1 {
			reply = r.Replies[picker.IntN(len(r.Replies))]
		}
		res = append(res, Match{Triggered: true, Reply: reply})
	}
	return res
}

func containsAny(foldedText string, patterns []string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(foldedText, fold(p)) {
			return true
		}
	}
	return false
}

// fold makes locale independent caseless form, Caser is not safe for concurrent use
func fold(s string) string {
	return cases.Fold().String(s)
}

// RandomPicker is a thread-safe seeded random source
type RandomPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPicker makes a picker with the given seed, 0 seeds it randomly
func NewRandomPicker(seed uint64) *RandomPicker {
	if seed == 0 {
		return &RandomPicker{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))} //nolint:gosec // not for security
	}
	return &RandomPicker{rnd: rand.New(rand.NewPCG(seed, seed))} //nolint:gosec // not for security
}

// IntN returns a random index in [0, n)
func (p *RandomPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}
