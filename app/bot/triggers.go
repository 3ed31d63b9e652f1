package bot

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/prandsen/telebot/lib/trigger"
)

//go:generate moq --out mocks/engine.go --pkg mocks --skip-ensure --with-resets . Engine

// Triggers bot replies to messages matching keyword rules, with throttling done by Engine.
// Guards are checked first, they are not throttled and the first match wins.
type Triggers struct {
	Engine
	loader *Loader
	params TriggersConfig
	picker trigger.Picker
}

// TriggersConfig is a full set of parameters for the triggers bot
type TriggersConfig struct {
	Guards          []trigger.Rule // static guards, checked before triggers
	WatchDelay      time.Duration  // delay before reloading a changed local rules file
	RefreshInterval time.Duration  // periodic refetch of rules, 0 to fetch once
	FetchTimeout    time.Duration  // timeout of a single rules fetch
	Seed            uint64         // seed for guards replies selection
}

// Engine is a trigger engine interface, satisfied by trigger.Engine
type Engine interface {
	Load(r io.Reader) (trigger.LoadResult, error)
	Check(text string, now time.Time) trigger.Response
	Rules() []trigger.Rule
	Stats() trigger.Stats
}

// NewTriggers makes the triggers bot. Rules are fetched from src on the first message.
// Local file source is watched for changes, remote source refetched if RefreshInterval set.
func NewTriggers(ctx context.Context, engine Engine, src Source, params TriggersConfig) *Triggers {
	res := &Triggers{
		Engine: engine,
		loader: NewLoader(src, engine, params.FetchTimeout),
		params: params,
		picker: trigger.NewRandomPicker(params.Seed),
	}

	if fs, ok := src.(*FileSource); ok {
		go func() {
			if err := watch(ctx, fs.Path, params.WatchDelay, func() error { return res.loader.Refresh(ctx) }); err != nil {
				log.Printf("[WARN] triggers file watcher failed: %v", err)
			}
		}()
	}
	if params.RefreshInterval > 0 {
		go res.refresh(ctx, params.RefreshInterval)
	}
	return res
}

// OnMessage checks the message against guards and triggers and makes the reply if anything fired
func (t *Triggers) OnMessage(ctx context.Context, msg Message) Response {
	if strings.TrimSpace(msg.Text) == "" {
		return Response{}
	}

	if reply, ok := t.guard(msg.Text); ok {
		log.Printf("[INFO] guard fired for %s: %q", DisplayName(msg), reply)
		return Response{Send: true, Text: reply, ReplyTo: msg.ID, Kind: "guard"}
	}

	if err := t.loader.Ensure(ctx); err != nil {
		log.Printf("[WARN] triggers not loaded, %v", err)
	}

	resp := t.Check(msg.Text, time.Now())
	if !resp.Send {
		return Response{}
	}
	log.Printf("[INFO] trigger fired for %s: %v", DisplayName(msg), resp)
	kind := "trigger"
	if resp.Decision == trigger.Warn {
		kind = "warn"
	}
	return Response{Send: true, Text: resp.Text, ReplyTo: msg.ID, Kind: kind}
}

// Reload fetches rules from the source again
func (t *Triggers) Reload(ctx context.Context) error {
	return t.loader.Refresh(ctx)
}

func (t *Triggers) guard(text string) (string, bool) {
	for _, m := range trigger.MatchRules(text, t.params.Guards, t.picker) {
		if m.Triggered {
			return m.Reply, true
		}
	}
	return "", false
}

func (t *Triggers) refresh(ctx context.Context, interval time.Duration) {
	log.Printf("[DEBUG] refresh triggers every %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DEBUG] triggers refresh stopped")
			return
		case <-ticker.C:
			if err := t.loader.Refresh(ctx); err != nil {
				log.Printf("[WARN] can't refresh triggers, %v", err)
			}
		}
	}
}
