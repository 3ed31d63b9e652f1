// Package trigger provides keyword triggers with canned replies and anti-spam throttling.
// The primary type in this package is the Engine, which matches incoming texts against a set of
// rules and decides if a reply should be sent. It is initialized with parameters defined in the
// Config struct.
//
// The Engine is thread-safe and supports concurrent usage.
//
// Rules are loaded with Engine.Load from a plain text source, one rule per line:
//
//	pattern1;pattern2=reply1;reply2
//	даун=Единственный тут даун это ты
//
// Patterns and replies are split by delimiters defined by Format. DefaultFormat splits both
// groups by ";", LegacyFormat splits patterns by "," and keeps the whole right side as a single reply.
// Lines with no separator, more than one separator, or an empty side are skipped with a warning.
//
// A rule is triggered if any of its patterns is a case-insensitive substring of the text. The reply
// of a triggered rule is picked at random from its replies, using a seeded source (Config.Seed)
// so the same build produces the same sequence of replies.
//
// Every picked reply goes through the Throttle. The throttle keeps a record per reply text:
//
//   - during the cooldown the reply is suppressed (Suppress) and the counter reset;
//   - after Config.MaxConsecutive allowed firings the next one is replaced with the warning (Warn)
//     and the reply goes into cooldown for Config.SpamDelay;
//   - otherwise the reply is allowed (Allow) and the counter incremented.
//
// Engine.Check returns the first allowed reply or warning, skipping suppressed rules.
package trigger
