package http

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

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

const maxSearchResponseBytes = 1 << 20

// Client queries a remote search endpoint with GET <endpoint>?q=<query>.
type Client struct {
	Endpoint       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.SearchEndpoint = Client{}

type searchResponse struct {
	Results []domain.Match `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c Client) Search(ctx context.Context, query string) ([]domain.Match, error) {
	endpoint, err := buildSearchURL(c.Endpoint, query)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("request search: %s", decodeError(resp))
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSearchResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	matches := make([]domain.Match, 0, len(payload.Results))
	for _, m := range payload.Results {
		if strings.TrimSpace(string(m.ID)) == "" || strings.TrimSpace(m.Label) == "" {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func decodeError(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSearchResponseBytes)).Decode(&payload); err != nil || payload.Error == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, payload.Error)
}

func buildSearchURL(endpoint string, query string) (string, error) {
	if endpoint == "" {
		return "", errors.New("search endpoint is required")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse search endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("search endpoint must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("search endpoint host is required")
	}

	values := parsed.Query()
	values.Set("q", query)
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}
