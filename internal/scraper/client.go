package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	UserAgent      = "usms-records-cli/1.0 (github.com/pfrederiksen/usms-records)"
	DefaultTimeout = 30 * time.Second
)

// Query identifies one top-ten results fetch.
type Query struct {
	Team   string
	LMSC   string
	Year   int
	Course string
}

// Fetcher produces the results page HTML for a query. Implementations own
// whatever session state the fetch needs; Close releases it.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (string, error)
	Close() error
}

// courseIDs maps course codes to the form values used by toptenlocal.php.
var courseIDs = map[string]string{
	"SCY": "1",
	"SCM": "2",
	"LCM": "3",
}

// Client fetches USMS results pages over HTTP. Transient failures (network
// errors, HTTP 5xx, 429) are retried with exponential backoff; other HTTP
// errors fail immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries uint64
}

// NewClient creates a Client for the given results endpoint.
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    baseURL,
		maxRetries: uint64(maxRetries),
	}
}

// Fetch posts the results form for the query and returns the response HTML.
func (c *Client) Fetch(ctx context.Context, q Query) (string, error) {
	courseID, ok := courseIDs[strings.ToUpper(strings.TrimSpace(q.Course))]
	if !ok {
		return "", fmt.Errorf("unknown course code: %s", q.Course)
	}

	form := url.Values{}
	form.Set("Year", strconv.Itoa(q.Year))
	form.Set("CourseID", courseID)
	form.Set("LMSCID", q.LMSC)
	form.Set("Club", q.Team)

	var body string
	operation := func() error {
		html, err := c.post(ctx, form)
		if err != nil {
			return err
		}
		body = html
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("fetching %s %d: %w", q.Course, q.Year, err)
	}
	return body, nil
}

// post performs a single form submission. Retryable failures are returned
// as plain errors; permanent ones are wrapped so the backoff stops.
func (c *Client) post(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError ||
			resp.StatusCode == http.StatusTooManyRequests {
			return "", err
		}
		return "", backoff.Permanent(err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(data), nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
