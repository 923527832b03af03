package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arthur-debert/ovm/pkg/errors"
	"github.com/arthur-debert/ovm/pkg/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultURL is the community plugins list published by Obsidian
const DefaultURL = "https://raw.githubusercontent.com/obsidianmd/obsidian-releases/master/community-plugins.json"

// RateLimitMessage is shown when GitHub refuses requests
const RateLimitMessage = "API rate limit exceeded, Try again later. Check out Github documentation for rate limit."

// Entry is one plugin of the community list
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Repo        string `json:"repo"`
}

// Client fetches the community plugins list
type Client struct {
	URL   string
	HTTP  *http.Client
	Cache Cache

	group singleflight.Group
}

// NewClient returns a client for url. cache may be nil.
func NewClient(url string, cache Cache) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:   url,
		HTTP:  &http.Client{Timeout: 30 * time.Second},
		Cache: cache,
	}
}

// CacheKey identifies a request in the cache
func CacheKey(method, url string) string {
	key, _ := json.Marshal([]string{method, url})
	return string(key)
}

// Fetch returns the full plugin list. Concurrent callers share one request,
// which is bounded by the HTTP client timeout rather than by any single
// caller's context.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(c.URL, func() (interface{}, error) {
		return c.fetch(shared)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrRegistryFetch, "Failed to fetch plugins")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Entry), nil
	}
}

// Find returns the entry for id, or nil when the registry has no such plugin
func (c *Client) Find(ctx context.Context, id string) (*Entry, error) {
	entries, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			entry := entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (c *Client) fetch(ctx context.Context) ([]Entry, error) {
	logger := logging.GetLogger("registry").With().Str("url", c.URL).Logger()
	key := CacheKey(http.MethodGet, c.URL)

	if c.Cache != nil {
		if body, ok := c.Cache.Get(ctx, key); ok {
			entries, err := decode(body)
			if err == nil {
				logger.Trace().Int("plugins", len(entries)).Msg("Registry served from cache")
				return entries, nil
			}
			logger.Debug().Err(err).Msg("Ignoring undecodable cached registry")
		}
	}

	defer logging.LogDuration(time.Now(), "registry fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistryFetch, "Failed to fetch plugins")
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, AsRateLimit(errors.Wrap(err, errors.ErrRegistryFetch, "Failed to fetch plugins"))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistryFetch, "Failed to fetch plugins")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if err := CheckRateLimit(resp.StatusCode, body); err != nil {
			return nil, err
		}
		return nil, errors.Newf(errors.ErrRegistryFetch, "Failed to fetch plugins: %s", resp.Status).
			WithDetail("status", resp.StatusCode)
	}

	entries, err := decode(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRegistryFetch, "Failed to decode plugins list")
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, key, body); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache registry response")
		}
	}

	logger.Debug().Int("plugins", len(entries)).Msg("Registry fetched")
	return entries, nil
}

func decode(body []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CheckRateLimit returns a RATE_LIMIT_EXCEEDED error when a GitHub response
// signals throttling
func CheckRateLimit(status int, body []byte) error {
	if status == http.StatusTooManyRequests ||
		(status == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "rate limit")) {
		return errors.New(errors.ErrRateLimitExceeded, RateLimitMessage).
			WithDetail("status", status)
	}
	return nil
}

// IsRateLimit reports whether err is, or mentions, a rate limit condition
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.IsErrorCode(err, errors.ErrRateLimitExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

// AsRateLimit re-raises a rate limit condition as the typed error and
// returns any other error unchanged
func AsRateLimit(err error) error {
	if !IsRateLimit(err) || errors.IsErrorCode(err, errors.ErrRateLimitExceeded) {
		return err
	}
	return errors.Wrap(err, errors.ErrRateLimitExceeded, RateLimitMessage)
}

// String implements fmt.Stringer
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s by %s)", e.ID, e.Repo, e.Author)
}
