package trigger

import (
	"log"
	"strings"
)

// Rule is a set of patterns mapped to a set of replies
type Rule struct {
	Patterns []string `json:"patterns"`
	Replies  []string `json:"replies"`
}

// Format defines delimiters of the rules text
type Format struct {
	Separator    string // splits a line into patterns and replies, exactly one per line
	PatternDelim string // splits patterns
	ReplyDelim   string // splits replies, empty means the whole right side is a single reply
}

var (
	// DefaultFormat is "p1;p2=r1;r2"
	DefaultFormat = Format{Separator: "=", PatternDelim: ";", ReplyDelim: ";"}
	// LegacyFormat is "p1,p2=reply", one reply per rule
	LegacyFormat = Format{Separator: "=", PatternDelim: ",", ReplyDelim: ""}
)

// FormatByName returns a known format by its name, "default" or "legacy"
func FormatByName(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultFormat, true
	case "legacy":
		return LegacyFormat, true
	}
	return Format{}, false
}

// LoadResult is a result of parsing rules text
type LoadResult struct {
	Rules   int // number of parsed rules
	Skipped int // number of malformed lines
}

// ParseRules parses rules text, one rule per line. Malformed lines are logged and skipped.
// Empty text is not an error, it produces no rules.
func ParseRules(text string, f Format) ([]Rule, LoadResult) {
	if f.Separator == "" {
		f = DefaultFormat
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("[WARN] trigger list is empty")
		return []Rule{}, LoadResult{}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	res := []Rule{}
	lr := LoadResult{}
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rule, ok := parseLine(line, f)
		if !ok {
			log.Printf("[WARN] can't parse trigger line %d: %q", i, line)
			lr.Skipped++
			continue
		}
		res = append(res, rule)
	}
	lr.Rules = len(res)
	return res, lr
}

func parseLine(line string, f Format) (Rule, bool) {
	if strings.Count(line, f.Separator) != 1 {
		return Rule{}, false
	}
	left, right, _ := strings.Cut(line, f.Separator)

	rule := Rule{Patterns: splitTokens(left, f.PatternDelim), Replies: splitTokens(right, f.ReplyDelim)}
	if len(rule.Patterns) == 0 || len(rule.Replies) == 0 {
		return Rule{}, false
	}
	return rule, true
}

// splitTokens splits by delim and returns trimmed non-empty tokens, empty delim keeps the whole string
func splitTokens(s, delim string) []string {
	parts := []string{s}
	if delim != "" {
		parts = strings.Split(s, delim)
	}
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
