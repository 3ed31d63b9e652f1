package trigger

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// DefaultWarnMsg is sent instead of a reply which fired too often
const DefaultWarnMsg = "Хорош спамить, я отдыхаю"

// Engine matches texts against rules and throttles replies, thread-safe.
type Engine struct {
	Config
	throttle *Throttle
	picker   Picker
	rules    []Rule
	lock     sync.RWMutex
}

// Config is a set of parameters for Engine.
type Config struct {
	Format         Format        // rules text format, DefaultFormat if empty
	SpamDelay      time.Duration // cooldown after the warning
	MaxConsecutive int           // allowed firings of the same reply before the warning, default 2
	MaxKeys        int           // max number of replies tracked by the throttle
	StateTTL       time.Duration // idle reply record lifetime
	Seed           uint64        // seed for replies selection, 0 for random seed
	WarnMsg        string        // text sent on Warn, DefaultWarnMsg if empty
}

// Response is a result of Engine.Check
type Response struct {
	Send     bool     // true if Text should be sent
	Text     string   // reply or warning
	Decision Decision // throttle decision for the fired rule
	Rule     int      // index of the fired rule
}

func (r Response) String() string {
	if !r.Send {
		return "no reply"
	}
	return fmt.Sprintf("rule %d, %s: %q", r.Rule, r.Decision, r.Text)
}

// Stats is a snapshot of engine state
type Stats struct {
	Rules          int `json:"rules"`
	TrackedReplies int `json:"tracked_replies"`
}

// NewEngine makes a new Engine with the given config, no rules loaded.
func NewEngine(cfg Config) *Engine {
	if cfg.Format.Separator == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.WarnMsg == "" {
		cfg.WarnMsg = DefaultWarnMsg
	}
	return &Engine{
		Config: cfg,
		throttle: NewThrottle(ThrottleParams{Delay: cfg.SpamDelay, MaxConsecutive: cfg.MaxConsecutive,
			MaxKeys: cfg.MaxKeys, TTL: cfg.StateTTL}),
		picker: NewRandomPicker(cfg.Seed),
		rules:  []Rule{},
	}
}

// Load parses rules from the reader and replaces current rules. Throttle state is kept.
func (e *Engine) Load(r io.Reader) (LoadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read rules: %w", err)
	}
	rules, lr := ParseRules(string(data), e.Format)
	e.SetRules(rules)
	return lr, nil
}

// SetRules replaces current rules
func (e *Engine) SetRules(rules []Rule) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.rules = rules
}

// Rules returns a copy of current rules
func (e *Engine) Rules() []Rule {
	e.lock.RLock()
	defer e.lock.RUnlock()
	res := make([]Rule, len(e.rules))
	copy(res, e.rules)
	return res
}

// Match matches text against current rules, one Match per rule
func (e *Engine) Match(text string) []Match {
	e.lock.RLock()
	rules := e.rules
	e.lock.RUnlock()
	return MatchRules(text, rules, e.picker)
}

// Check finds the first triggered rule allowed by the throttle. Suppressed rules are skipped
// and the next triggered rule is tried. Returns Response with Send=false if nothing fired.
func (e *Engine) Check(text string, now time.Time) Response {
	for i, m := range e.Match(text) {
		if !m.Triggered {
			continue
		}
		switch d := e.throttle.Check(m.Reply, now); d {
		case Allow:
			return Response{Send: true, Text: m.Reply, Decision: d, Rule: i}
		case Warn:
			log.Printf("[INFO] reply %q fired too often, cooldown %v", m.Reply, e.SpamDelay)
			return Response{Send: true, Text: e.WarnMsg, Decision: d, Rule: i}
		default:
			log.Printf("[DEBUG] reply %q suppressed", m.Reply)
		}
	}
	return Response{}
}

// Stats returns the number of rules and tracked replies
func (e *Engine) Stats() Stats {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return Stats{Rules: len(e.rules), TrackedReplies: e.throttle.Len()}
}
