package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"
)

//go:generate moq --out mocks/source.go --pkg mocks --skip-ensure --with-resets . Source

// Source provides raw rules text
type Source interface {
	Fetch(ctx context.Context) (string, error)
	String() string
}

// HTTPClient is an interface for http client, satisfied by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultMaxRulesSize = 10 * 1024 * 1024

// HTTPSource fetches rules text with GET request, retried on failures
type HTTPSource struct {
	URL      string
	Client   HTTPClient
	Attempts int           // total attempts, default 3
	Delay    time.Duration // delay between attempts, default 1s
	MaxSize  int64         // max response size, default 10M
}

// Fetch gets the rules text. Any status other than 200 is an error.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	attempts, delay := s.Attempts, s.Delay
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = time.Second
	}
	maxSize := s.MaxSize
	if maxSize <= 0 {
		maxSize = defaultMaxRulesSize
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	var body []byte
	err := repeater.NewDefault(attempts, delay).Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
		if err != nil {
			return fmt.Errorf("failed to make request %s: %w", s.URL, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Printf("[DEBUG] failed to get %s: %v", s.URL, err)
			return fmt.Errorf("failed to send request %s: %w", s.URL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("getting %s returned status code %d", s.URL, resp.StatusCode)
		}
		if body, err = io.ReadAll(io.LimitReader(resp.Body, maxSize+1)); err != nil {
			return fmt.Errorf("failed to read response from %s: %w", s.URL, err)
		}
		if int64(len(body)) > maxSize {
			return fmt.Errorf("response from %s is larger than %d bytes", s.URL, maxSize)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (s *HTTPSource) String() string { return s.URL }

// FileSource reads rules text from a local file
type FileSource struct {
	Path string
}

// Fetch reads the whole file
func (s *FileSource) Fetch(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return string(data), nil
}

func (s *FileSource) String() string { return s.Path }

// NewSource makes HTTPSource for http(s) locations and FileSource for everything else
func NewSource(location string, client HTTPClient, attempts int) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location, Client: client, Attempts: attempts}
	}
	return &FileSource{Path: location}
}
