package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/prandsen/telebot/lib/trigger"
)

// RulesLoader loads parsed rules from a reader, satisfied by trigger.Engine
type RulesLoader interface {
	Load(r io.Reader) (trigger.LoadResult, error)
}

// Loader fetches rules from the source once and keeps them for the process lifetime.
// Concurrent first callers share a single in-flight fetch. A failed fetch is not memoized,
// the next call tries again.
type Loader struct {
	src     Source
	dst     RulesLoader
	timeout time.Duration

	group  singleflight.Group
	loaded atomic.Bool
}

const loaderKey = "rules"

// NewLoader makes a Loader pushing fetched rules to dst. Timeout limits a single fetch, default 1m.
func NewLoader(src Source, dst RulesLoader, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Loader{src: src, dst: dst, timeout: timeout}
}

// Ensure loads rules if not loaded yet. Returns right away if already loaded.
func (l *Loader) Ensure(ctx context.Context) error {
	if l.loaded.Load() {
		return nil
	}
	return l.do(ctx, false)
}

// Refresh fetches rules again, replacing the loaded ones on success
func (l *Loader) Refresh(ctx context.Context) error {
	return l.do(ctx, true)
}

// Loaded returns true if rules were loaded at least once
func (l *Loader) Loaded() bool { return l.loaded.Load() }

func (l *Loader) do(ctx context.Context, force bool) error {
	ch := l.group.DoChan(loaderKey, func() (any, error) {
		if !force && l.loaded.Load() {
			return nil, nil
		}
		// the fetch is shared by all waiting callers and doesn't depend on cancellation of the first one
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return nil, l.load(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (l *Loader) load(ctx context.Context) error {
	text, err := l.src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("can't fetch rules from %s: %w", l.src, err)
	}
	lr, err := l.dst.Load(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("can't load rules from %s: %w", l.src, err)
	}
	l.loaded.Store(true)
	log.Printf("[INFO] loaded triggers from %s - rules: %d, skipped: %d", l.src, lr.Rules, lr.Skipped)
	return nil
}
