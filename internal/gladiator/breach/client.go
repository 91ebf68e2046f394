// Package breach is a client for an HIBP-style breach intelligence API.
package breach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/metrics"
)

const (
	DefaultBaseURL   = "https://haveibeenpwned.com/api/v3"
	DefaultUserAgent = "gladiatorrx-breach-client"
	APIKeyHeader     = "hibp-api-key"

	maxResponseBytes = 4 << 20
)

var (
	ErrRateLimited  = errors.New("breach: provider rate limited")
	ErrUnauthorized = errors.New("breach: provider rejected api key")
	ErrBadQuery     = errors.New("breach: provider rejected query")
	ErrUnavailable  = errors.New("breach: provider unavailable")
)

type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Client looks up breaches for an email account or a domain.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// wireBreach is the provider's JSON shape.
type wireBreach struct {
	Name        string   `json:"Name"`
	Title       string   `json:"Title"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	AddedDate   string   `json:"AddedDate"`
	PwnCount    int64    `json:"PwnCount"`
	DataClasses []string `json:"DataClasses"`
	IsVerified  bool     `json:"IsVerified"`
	IsSensitive bool     `json:"IsSensitive"`
}

// Lookup returns the breaches matching query. A query with no breaches
// returns an empty slice and no error.
func (c *Client) Lookup(ctx context.Context, query string, kind domain.BreachQueryType) ([]domain.Breach, error) {
	start := time.Now()
	out, err := c.lookup(ctx, query, kind)
	metrics.BreachLookupDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.BreachLookupsTotal.WithLabelValues("error").Inc()
	case len(out) > 0:
		metrics.BreachLookupsTotal.WithLabelValues("hit").Inc()
	default:
		metrics.BreachLookupsTotal.WithLabelValues("clean").Inc()
	}
	return out, err
}

func (c *Client) lookup(ctx context.Context, query string, kind domain.BreachQueryType) ([]domain.Breach, error) {
	var endpoint string
	switch kind {
	case domain.BreachQueryEmail:
		endpoint = c.baseURL + "/breachedaccount/" + url.PathEscape(query) + "?truncateResponse=false"
	case domain.BreachQueryDomain:
		endpoint = c.baseURL + "/breaches?" + url.Values{"domain": {query}}.Encode()
	default:
		return nil, fmt.Errorf("%w: unknown query type %q", ErrBadQuery, kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create breach request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return []domain.Breach{}, nil
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w (retry-after %s)", ErrRateLimited, resp.Header.Get("Retry-After"))
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusBadRequest:
		return nil, ErrBadQuery
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var wire []wireBreach
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode breach response: %w", err)
	}

	out := make([]domain.Breach, 0, len(wire))
	for _, w := range wire {
		b := domain.Breach{
			Name:        w.Name,
			Title:       w.Title,
			Domain:      w.Domain,
			BreachDate:  w.BreachDate,
			PwnCount:    w.PwnCount,
			DataClasses: w.DataClasses,
			IsVerified:  w.IsVerified,
			IsSensitive: w.IsSensitive,
		}
		if t, err := time.Parse(time.RFC3339, w.AddedDate); err == nil {
			b.AddedDate = t.UTC()
		}
		out = append(out, b)
	}
	return out, nil
}
