package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prandsen/telebot/app/server/mocks"
	"github.com/prandsen/telebot/lib/trigger"
)

func TestServer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(Config{ListenAddr: "127.0.0.1:9876", Version: "dev", Triggers: &mocks.TriggersMock{}})
	done := make(chan struct{})
	go func() {
		err := srv.Run(ctx)
		assert.NoError(t, err)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://127.0.0.1:9876/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Contains(t, resp.Header.Get("App-Name"), "telebot")
	assert.Contains(t, resp.Header.Get("App-Version"), "dev")

	cancel()
	<-done
}

func TestServer_routes(t *testing.T) {
	trMock := &mocks.TriggersMock{
		RulesFunc: func() []trigger.Rule {
			return []trigger.Rule{{Patterns: []string{"даун"}, Replies: []string{"сам такой", "нет ты"}}}
		},
		StatsFunc: func() trigger.Stats { return trigger.Stats{Rules: 1, TrackedReplies: 5} },
	}
	srv := NewServer(Config{Version: "dev", Triggers: trMock, SpamDelay: time.Minute, SpamLimit: 2})
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	t.Run("rules", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/rules")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res struct {
			Count int            `json:"count"`
			Rules []trigger.Rule `json:"rules"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, trMock.RulesFunc(), res.Rules)
	})

	t.Run("throttle", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/throttle")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		res := map[string]any{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, map[string]any{"rules": 1.0, "tracked_replies": 5.0, "spam_delay": "1m0s", "spam_limit": 2.0}, res)
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/unknown")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("ping", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/ping")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	assert.Len(t, trMock.RulesCalls(), 1)
	assert.Len(t, trMock.StatsCalls(), 1)
}
