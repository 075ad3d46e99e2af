// Package transport holds the HTTP plumbing shared by the price providers:
// a daily disk cache, a rate limiter and a JSON GET helper.
package transport

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sonwamoh/perfomance-attribution/date"
	"github.com/sonwamoh/perfomance-attribution/logger"
)

// Options configures NewClient.
type Options struct {
	// Name prefixes cache entries, e.g. "eodhd".
	Name              string
	RequestsPerMinute int
	Timeout           time.Duration
	// CacheDir holds raw responses for the day. Empty disables it.
	CacheDir string
	// Keep reports whether a dumped response is worth caching. Nil keeps all
	// successful responses.
	Keep   func(content []byte) bool
	Logger *zap.Logger
}

// NewClient returns an http.Client throttled to opts.RequestsPerMinute, and
// caching on disk when opts.CacheDir is set.
func NewClient(opts Options) *http.Client {
	perMinute := max(opts.RequestsPerMinute, 1)
	var rt http.RoundTripper = &Limited{
		Base:    http.DefaultTransport,
		Limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
	if opts.CacheDir != "" {
		rt = &DiskCache{
			Base:   rt,
			Dir:    opts.CacheDir,
			Prefix: opts.Name,
			Logger: opts.Logger,
			Today:  date.Today,
			Keep:   opts.Keep,
		}
	}
	return &http.Client{Transport: rt, Timeout: opts.Timeout}
}

// DiskCache implements a simple disk cache for HTTP responses.
// Entries expire every day.
type DiskCache struct {
	Base   http.RoundTripper
	Dir    string
	Prefix string
	Logger *zap.Logger
	Today  func() date.Date
	Keep   func(content []byte) bool
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *DiskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	l := logger.OrNop(c.Logger)
	key := fmt.Sprintf("%s %s %s", c.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%s-%x", c.Prefix, sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		l.Debug("cache hit", zap.String("path", req.URL.Path))
		return cached, nil
	}

	resp, err := c.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	l.Debug("http", zap.String("method", req.Method), zap.String("host", req.URL.Host), zap.String("status", resp.Status))
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		l.Warn("cache write failed (ignored)", zap.Error(err))
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *DiskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.Dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache. The response body remains readable.
func (c *DiskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if c.Keep != nil && !c.Keep(content) {
		return nil
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Dir, key), content, 0o644)
}

// Limited delays requests to respect the provider's rate limit.
type Limited struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

func (l *Limited) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return l.Base.RoundTrip(req)
}

// StatusError is returned by GetJSON on a non 200 answer.
type StatusError struct {
	URL    string
	Status int
	Text   string
}

func (e *StatusError) Error() string { return fmt.Sprintf("cannot http GET %s: %s", e.URL, e.Text) }

// GetJSON performs an HTTP GET request to the given address and unmarshals the
// JSON response body into data.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			URL:    resp.Request.URL.Host + resp.Request.URL.Path,
			Status: resp.StatusCode,
			Text:   resp.Status,
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
