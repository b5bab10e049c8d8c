package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// Client resolves service names against the registry. Lookups are cached
// briefly, and each name can carry a static fallback URL so callers keep
// working when the registry itself is down.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.RWMutex
	fallbacks map[string]string
	cached    map[string]cachedURL
}

type cachedURL struct {
	url     string
	expires time.Time
}

const lookupCacheTTL = 30 * time.Second

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 5 * time.Second},
		fallbacks: make(map[string]string),
		cached:    make(map[string]cachedURL),
	}
}

// WithFallback sets the URL used for name when the registry has no answer.
func (c *Client) WithFallback(name, url string) *Client {
	c.mu.Lock()
	c.fallbacks[name] = url
	c.mu.Unlock()
	return c
}

// Resolve returns the base URL for a service name.
func (c *Client) Resolve(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	entry, ok := c.cached[name]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expires) {
		return entry.url, nil
	}

	url, err := c.lookup(ctx, name)
	if err != nil {
		c.mu.RLock()
		fallback, ok := c.fallbacks[name]
		c.mu.RUnlock()
		if ok {
			return fallback, nil
		}
		return "", err
	}

	c.mu.Lock()
	c.cached[name] = cachedURL{url: url, expires: time.Now().Add(lookupCacheTTL)}
	c.mu.Unlock()
	return url, nil
}

func (c *Client) lookup(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/registry/services/"+name, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("registry lookup for %s failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry lookup for %s returned status %d", name, resp.StatusCode)
	}

	var inst Instance
	if err := json.NewDecoder(resp.Body).Decode(&inst); err != nil {
		return "", fmt.Errorf("registry lookup for %s: bad response: %w", name, err)
	}
	return inst.URL, nil
}

// Register announces a service instance to the registry.
func (c *Client) Register(ctx context.Context, name, url string, ttl time.Duration) error {
	body, _ := json.Marshal(registerRequest{
		Name:       name,
		URL:        url,
		TTLSeconds: int(ttl / time.Second),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/registry/services", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("registry register for %s failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry register for %s returned status %d", name, resp.StatusCode)
	}
	return nil
}

// Heartbeat keeps a registration alive until ctx is cancelled, re-registering
// at a third of the TTL. Registry outages are logged and retried; the service
// keeps running without discovery in the meantime.
func (c *Client) Heartbeat(ctx context.Context, name, url string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	ticker := time.NewTicker(ttl / 3)
	defer ticker.Stop()

	if err := c.Register(ctx, name, url, ttl); err != nil {
		log.Printf("Initial registry registration failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Register(ctx, name, url, ttl); err != nil {
				log.Printf("Registry heartbeat failed: %v", err)
			}
		}
	}
}
