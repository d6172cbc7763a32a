package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"go-smartapply-bot/internal/models"
)

const (
	defaultBaseURL = "https://jsearch.p.rapidapi.com/search"
	apiHost        = "jsearch.p.rapidapi.com"
)

// Client queries the JSearch API on RapidAPI. On any transport or API error it
// logs and returns an empty result; search failures must never break the
// conversation flow.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// NewClientWithBaseURL points the client at a custom endpoint. Used by tests.
func NewClientWithBaseURL(apiKey, baseURL string, logger *zap.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

type searchResponse struct {
	Data []models.JobListing `json:"data"`
}

// Search returns the listings matching the query, best matches first.
func (c *Client) Search(ctx context.Context, q models.JobSearchQuery) []models.JobListing {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		c.logger.Error("build job search request", zap.Error(err))
		return nil
	}

	req.URL.RawQuery = buildParams(q).Encode()
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("job search request failed", zap.String("query", q.Query), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("read job search response", zap.String("query", q.Query), zap.Error(err))
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("job search API error",
			zap.String("query", q.Query),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 200)),
		)
		return nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("decode job search response", zap.String("query", q.Query), zap.Error(err))
		return nil
	}

	return parsed.Data
}

// buildParams assembles the query string. The location is folded into the
// free-text query because the API has no structured location filter here.
func buildParams(q models.JobSearchQuery) url.Values {
	query := strings.TrimSpace(q.Query)
	if loc := strings.TrimSpace(q.Location); loc != "" && loc != models.WorldwideLocation {
		query = fmt.Sprintf("%s in %s", query, loc)
	}

	numPages := q.NumPages
	if numPages <= 0 {
		numPages = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", strconv.Itoa(numPages))

	if models.ValidDatePosted(q.DatePosted) {
		params.Set("date_posted", string(q.DatePosted))
	}
	if q.JobType != "" {
		params.Set("job_type", q.JobType)
	}

	return params
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
