package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = w.Write([]byte("даун=сам такой"))
		}))
		defer ts.Close()

		src := &HTTPSource{URL: ts.URL, Client: ts.Client()}
		text, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "даун=сам такой", text)
		assert.Equal(t, ts.URL, src.String())
	})

	t.Run("retried after failure", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("a=b"))
		}))
		defer ts.Close()

		src := &HTTPSource{URL: ts.URL, Client: ts.Client(), Attempts: 3, Delay: time.Millisecond}
		text, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a=b", text)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("non-200 status", func(t *testing.T) {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		src := &HTTPSource{URL: ts.URL, Client: ts.Client(), Attempts: 2, Delay: time.Millisecond}
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code 404")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("too large", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("a=b\nc=d"))
		}))
		defer ts.Close()

		src := &HTTPSource{URL: ts.URL, Client: ts.Client(), Attempts: 1, MaxSize: 5}
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "larger than 5 bytes")

		src.MaxSize = 7
		text, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a=b\nc=d", text, "body of exactly max size accepted")
	})

	t.Run("bad url", func(t *testing.T) {
		src := &HTTPSource{URL: "http://127.0.0.1:1/rules", Attempts: 1, Delay: time.Millisecond}
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
	})
}

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte("a=b\nc=d"), 0o600))

	src := &FileSource{Path: path}
	text, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a=b\nc=d", text)
	assert.Equal(t, path, src.String())

	_, err = (&FileSource{Path: filepath.Join(t.TempDir(), "missing")}).Fetch(context.Background())
	require.Error(t, err)
}

func TestNewSource(t *testing.T) {
	src := NewSource("https://example.com/rules.txt", nil, 5)
	hs, ok := src.(*HTTPSource)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/rules.txt", hs.URL)
	assert.Equal(t, 5, hs.Attempts)

	src = NewSource("http://example.com/rules.txt", nil, 0)
	_, ok = src.(*HTTPSource)
	assert.True(t, ok)

	src = NewSource("/etc/rules.txt", nil, 0)
	fs, ok := src.(*FileSource)
	require.True(t, ok)
	assert.Equal(t, "/etc/rules.txt", fs.Path)
}
