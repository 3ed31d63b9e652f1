package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prandsen/telebot/app/bot"
	"github.com/prandsen/telebot/lib/trigger"
)

func TestMakeReplyLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := makeReplyLogger(buf)

	msg := &bot.Message{ID: 1, ChatID: 100, Text: "он\nдаун", From: bot.User{ID: 5, Username: "user", DisplayName: "John"}}
	logger.Save(msg, &bot.Response{Send: true, Text: "Единственный тут даун это ты", Kind: "trigger"})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotEmpty(t, rec["ts"])
	delete(rec, "ts")
	assert.Equal(t, map[string]any{"chat_id": 100.0, "display_name": "John", "user_name": "user", "user_id": 5.0,
		"text": "он даун", "reply": "Единственный тут даун это ты", "kind": "trigger"}, rec)
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
}

func TestMakeReplyLogWriter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		var opts options
		wr, err := makeReplyLogWriter(opts)
		require.NoError(t, err)
		_, ok := wr.(nopWriteCloser)
		assert.True(t, ok)
		assert.NoError(t, wr.Close())
	})

	t.Run("enabled", func(t *testing.T) {
		var opts options
		opts.Logger.Enabled = true
		opts.Logger.FileName = filepath.Join(t.TempDir(), "replies.log")
		opts.Logger.MaxSize = "10M"
		opts.Logger.MaxBackups = 3

		wr, err := makeReplyLogWriter(opts)
		require.NoError(t, err)
		lj, ok := wr.(*lumberjack.Logger)
		require.True(t, ok)
		assert.Equal(t, 10, lj.MaxSize)
		assert.Equal(t, 3, lj.MaxBackups)

		_, err = wr.Write([]byte("line\n"))
		require.NoError(t, err)
		require.NoError(t, wr.Close())
		assert.FileExists(t, opts.Logger.FileName)
	})

	t.Run("bad size", func(t *testing.T) {
		var opts options
		opts.Logger.Enabled = true
		opts.Logger.MaxSize = "10X"
		_, err := makeReplyLogWriter(opts)
		require.Error(t, err)
	})
}

func TestSizeParse(t *testing.T) {
	tests := []struct {
		inp  string
		want uint64
		err  bool
	}{
		{"", 0, true},
		{"100", 100, false},
		{"10k", 10 * 1024, false},
		{"10K", 10 * 1024, false},
		{"100M", 100 * 1024 * 1024, false},
		{"1g", 1024 * 1024 * 1024, false},
		{"1T", 1024 * 1024 * 1024 * 1024, false},
		{"abcM", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.inp, func(t *testing.T) {
			res, err := sizeParse(tt.inp)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestParseGuards(t *testing.T) {
	guards, err := parseGuards([]string{"либераха;1984=Сам ты либераха", "@down_yt_ig_bot=Чего надо?"}, trigger.DefaultFormat)
	require.NoError(t, err)
	assert.Equal(t, []trigger.Rule{
		{Patterns: []string{"либераха", "1984"}, Replies: []string{"Сам ты либераха"}},
		{Patterns: []string{"@down_yt_ig_bot"}, Replies: []string{"Чего надо?"}},
	}, guards)

	guards, err = parseGuards(nil, trigger.DefaultFormat)
	require.NoError(t, err)
	assert.Empty(t, guards)

	_, err = parseGuards([]string{"no separator"}, trigger.DefaultFormat)
	assert.EqualError(t, err, `invalid guard "no separator"`)

	_, err = parseGuards([]string{"a=b\nc=d"}, trigger.DefaultFormat)
	assert.Error(t, err, "one rule per guard")
}

func TestMakeTriggers(t *testing.T) {
	rulesFile := filepath.Join(t.TempDir(), "TriggerList.txt")
	require.NoError(t, os.WriteFile(rulesFile, []byte("даун=Единственный тут даун это ты\nпривет;здравствуй=здарова;салют"), 0o600))

	opts := options{SpamLimit: 2, SpamMsg: "хватит"}
	opts.Triggers.Source = rulesFile
	opts.Triggers.Format = "default"
	opts.Triggers.Seed = 1984
	opts.Guards = []string{"бот тупой=сам тупой"}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tb, err := makeTriggers(ctx, opts)
	require.NoError(t, err)

	resp := tb.OnMessage(ctx, bot.Message{ID: 1, Text: "он даун"})
	assert.Equal(t, bot.Response{Send: true, Text: "Единственный тут даун это ты", ReplyTo: 1, Kind: "trigger"}, resp)
	resp = tb.OnMessage(ctx, bot.Message{ID: 2, Text: "бот тупой"})
	assert.Equal(t, bot.Response{Send: true, Text: "сам тупой", ReplyTo: 2, Kind: "guard"}, resp)
	assert.Len(t, tb.Rules(), 2)

	t.Run("legacy format", func(t *testing.T) {
		o := opts
		o.Triggers.Format = "legacy"
		o.Guards = []string{"a,b=c;d"}
		_, err := makeTriggers(ctx, o)
		require.NoError(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		o := opts
		o.Triggers.Format = "xml"
		_, err := makeTriggers(ctx, o)
		assert.EqualError(t, err, `unknown triggers format "xml"`)
	})

	t.Run("negative spam delay", func(t *testing.T) {
		o := opts
		o.SpamDelay = -time.Minute
		_, err := makeTriggers(ctx, o)
		assert.EqualError(t, err, "spam delay can't be negative, -1m0s")
	})

	t.Run("bad guard", func(t *testing.T) {
		o := opts
		o.Guards = []string{"a=b=c"}
		_, err := makeTriggers(ctx, o)
		require.Error(t, err)
	})
}

func TestExecuteNoToken(t *testing.T) {
	var opts options
	opts.Telegram.Token = "  "
	err := execute(context.Background(), opts)
	assert.EqualError(t, err, "telegram token is required")
}

func TestMakeLimiter(t *testing.T) {
	assert.Nil(t, makeLimiter(0))
	assert.Nil(t, makeLimiter(-1))

	lim := makeLimiter(25)
	require.NotNil(t, lim)
	assert.InDelta(t, 25.0, float64(lim.Limit()), 0.001)
	assert.Equal(t, 25, lim.Burst())

	lim = makeLimiter(0.5)
	require.NotNil(t, lim)
	assert.Equal(t, 1, lim.Burst())
}
