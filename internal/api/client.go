// Package api fetches the published weapon sheet and the enemy document.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultWeaponsURL is the published CSV export of the weapon sheet.
const DefaultWeaponsURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTeLqZ5-maEmzrM6SUDMRXpHEhV0tQImiBdgMCil9lSA11IiY_nGdamE54W7DAiSXn1XuJljdF4P537/pub?gid=0&single=true&output=csv"

// DefaultEnemySource is the enemy document shipped next to the binary.
const DefaultEnemySource = "enemies/enemydata.json"

// Config holds retrieval configuration.
type Config struct {
	WeaponsURL  string
	EnemySource string // http(s) URL or file path
	Timeout     time.Duration
	CacheTTL    time.Duration
}

type cacheEntry struct {
	body []byte
	at   time.Time
}

// Client fetches sources over HTTP (or from disk for file paths) and caches
// bodies for CacheTTL.
type Client struct {
	config Config
	http   *http.Client
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
		cache:  map[string]cacheEntry{},
	}
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Code)
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// cacheBust appends a timestamp so intermediate caches serve a fresh copy.
func (c *Client) cacheBust(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) apiGet(ctx context.Context, src, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cacheBust(src), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: src, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return body, nil
}

func (c *Client) load(ctx context.Context, src, accept string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("no source configured")
	}
	c.mu.RLock()
	e, ok := c.cache[src]
	c.mu.RUnlock()
	if ok && c.config.CacheTTL > 0 && c.now().Sub(e.at) < c.config.CacheTTL {
		return e.body, nil
	}

	var body []byte
	var err error
	if isRemote(src) {
		body, err = c.apiGet(ctx, src, accept)
	} else {
		body, err = os.ReadFile(src)
		if err != nil {
			err = fmt.Errorf("read %s: %w", src, err)
		}
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[src] = cacheEntry{body: body, at: c.now()}
	c.mu.Unlock()
	return body, nil
}

// FetchWeaponsCSV returns the weapon sheet as delimited text.
func (c *Client) FetchWeaponsCSV(ctx context.Context) (string, error) {
	body, err := c.load(ctx, c.config.WeaponsURL, "text/csv, text/plain")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchEnemyData returns the raw enemy document.
func (c *Client) FetchEnemyData(ctx context.Context) ([]byte, error) {
	return c.load(ctx, c.config.EnemySource, "application/json")
}

// Invalidate drops every cached body.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.cache = map[string]cacheEntry{}
	c.mu.Unlock()
}
