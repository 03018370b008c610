package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://www.googleapis.com"

// Config holds Google Custom Search credentials and query settings.
type Config struct {
	APIKey string
	CSEID  string
	// QuerySuffix is appended to every query to bias results towards food
	// photography, e.g. "dish".
	QuerySuffix string
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
	Timeout time.Duration
}

// GoogleProvider searches the Google Custom Search JSON API for a single
// image result.
type GoogleProvider struct {
	client      *resty.Client
	cseID       string
	querySuffix string
}

// NewGoogleProvider creates a provider from the given credentials.
func NewGoogleProvider(cfg Config) *GoogleProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetQueryParam("key", cfg.APIKey)

	return &GoogleProvider{
		client:      client,
		cseID:       cfg.CSEID,
		querySuffix: cfg.QuerySuffix,
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Link string `json:"link"`
}

// Search returns the first usable image URL for the query, or ErrNoResult.
func (p *GoogleProvider) Search(ctx context.Context, query string) (string, error) {
	q := query
	if p.querySuffix != "" {
		q = query + " " + p.querySuffix
	}

	var result searchResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"cx":         p.cseID,
			"q":          q,
			"searchType": "image",
			"num":        "1",
			"safe":       "active",
		}).
		SetResult(&result).
		Get("/customsearch/v1")
	if err != nil {
		return "", fmt.Errorf("image search request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("image search returned %s", resp.Status())
	}

	for _, item := range result.Items {
		if !validImageURL(item.Link) {
			slog.Warn("skipping search result with unusable URL", "query", q, "url", item.Link)
			continue
		}
		return item.Link, nil
	}

	return "", ErrNoResult
}

// validImageURL rejects result links that are not absolute http(s) URLs,
// so javascript:, data: and relative links never reach the cache.
func validImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Host != ""
}
