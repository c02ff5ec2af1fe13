package supporter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"bmac/internal/models"
	"bmac/internal/providers"
	"bmac/internal/structures"
)

// SourceInterface is the upstream supporter feed.
type SourceInterface interface {
	FetchPage(ctx context.Context, creator string, page, perPage int) (*models.SupporterPage, error)
}

const defaultTimeout = 15 * time.Second

// Client talks to the public Buy Me a Coffee coffees endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) SourceInterface {
	return NewClientWithHTTP(conf, logger, nil)
}

// NewClientWithHTTP lets callers supply their own http.Client, mainly
// for transport injection in tests.
func NewClientWithHTTP(conf *structures.Config, logger providers.Logger, httpClient *http.Client) SourceInterface {
	if httpClient == nil {
		timeout := conf.API.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(conf.API.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) FetchPage(ctx context.Context, creator string, page, perPage int) (*models.SupporterPage, error) {
	endpoint := fmt.Sprintf("%s/%s/coffees", c.baseURL, url.PathEscape(creator))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bmc: create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("web", "1")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bmac-analyzer/1.0")

	c.logger.Debugf(providers.TypeFetch, "GET %s", req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bmc: fetch page %d for %q: %w", page, creator, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bmc: read response for %q: %w", creator, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bmc: fetch page %d for %q: status %d: %s", page, creator, resp.StatusCode, snippet(body))
	}

	var pageData models.SupporterPage
	if err := json.Unmarshal(body, &pageData); err != nil {
		return nil, fmt.Errorf("bmc: decode page %d for %q: %w", page, creator, err)
	}
	return &pageData, nil
}

// snippet keeps upstream error bodies readable in wrapped errors.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
