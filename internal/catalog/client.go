package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/sampling"
)

// DefaultBaseURL is the Google Books volumes endpoint.
const DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// DefaultQueries spread the fetch over several result sets, since the API
// stops paginating after roughly a thousand results per query.
var DefaultQueries = []string{
	"intitle:the",
	"intitle:and",
	"intitle:of",
	"intitle:to",
	"intitle:a",
	"subject:fiction",
	"subject:science",
	"subject:history",
	"subject:biography",
	"subject:philosophy",
}

// DefaultUpdatedAt is stamped on every fetched book.
var DefaultUpdatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// Options configures a Client. Zero values take the defaults listed on each
// field.
type Options struct {
	BaseURL           string        // DefaultBaseURL
	APIKey            string        // sent as "key" when set
	Queries           []string      // DefaultQueries
	PagesPerQuery     int           // 10
	PageSize          int           // 40, the API maximum
	RequestsPerSecond float64       // 10
	MaxAttempts       int           // 3
	RetryBaseDelay    time.Duration // 1s, doubled per attempt
	Concurrency       int           // 4 queries in flight
	OutOfPrintRate    float64       // 1/21
	UpdatedAt         time.Time     // DefaultUpdatedAt
	HTTPClient        *http.Client  // 30s timeout
	Logger            *slog.Logger  // slog.Default()
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if len(o.Queries) == 0 {
		o.Queries = DefaultQueries
	}
	if o.PagesPerQuery <= 0 {
		o.PagesPerQuery = 10
	}
	if o.PageSize <= 0 {
		o.PageSize = 40
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 10
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = time.Second
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.OutOfPrintRate == 0 {
		o.OutOfPrintRate = 1.0 / 21
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = DefaultUpdatedAt
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// StatusError is returned for a non-2xx response that was not retried.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("books api error %d: %s", e.StatusCode, e.Body)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Client fetches book records. It is safe for concurrent use.
type Client struct {
	opts    Options
	limiter *rate.Limiter
	log     *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		log:     opts.Logger.With("component", "catalog"),
	}
}

// FetchAll runs every query and returns the deduplicated books in query and
// page order. rng draws the out_of_print flag after deduplication, so the
// result is deterministic for a given seed and set of responses.
func (c *Client) FetchAll(ctx context.Context, rng *rand.Rand) ([]model.Book, error) {
	pages := make([][]volume, len(c.opts.Queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for i, q := range c.opts.Queries {
		g.Go(func() error {
			items, err := c.fetchQuery(ctx, q)
			if err != nil {
				return fmt.Errorf("query %q: %w", q, err)
			}
			pages[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updatedAt := model.Millis(c.opts.UpdatedAt)
	seen := make(map[string]struct{})
	var books []model.Book
	for _, items := range pages {
		for _, v := range items {
			book, ok := toBook(v, updatedAt)
			if !ok {
				continue
			}
			if _, dup := seen[book.ISBN]; dup {
				continue
			}
			seen[book.ISBN] = struct{}{}
			book.OutOfPrint = sampling.Bernoulli(rng, c.opts.OutOfPrintRate)
			books = append(books, book)
		}
	}

	c.log.Info("catalog fetched", "queries", len(c.opts.Queries), "books", len(books))
	return books, nil
}

// fetchQuery pages through one query. A 400 response marks the API's
// pagination limit and ends the query without error; so does an empty page.
func (c *Client) fetchQuery(ctx context.Context, query string) ([]volume, error) {
	var items []volume
	for page := 0; page < c.opts.PagesPerQuery; page++ {
		resp, err := c.fetchPage(ctx, query, page)
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest {
			c.log.Debug("pagination limit", "query", query, "page", page)
			break
		}
		if err != nil {
			return nil, err
		}
		c.log.Debug("page fetched", "query", query, "page", page+1, "items", len(resp.Items))
		if len(resp.Items) == 0 {
			break
		}
		items = append(items, resp.Items...)
	}
	return items, nil
}

// fetchPage requests one page, retrying 429 and 503 with exponential
// backoff.
func (c *Client) fetchPage(ctx context.Context, query string, page int) (*volumesResponse, error) {
	delay := c.opts.RetryBaseDelay
	for attempt := 1; ; attempt++ {
		resp, err := c.get(ctx, query, page)
		var se *StatusError
		if err == nil || !errors.As(err, &se) || !retryable(se.StatusCode) || attempt >= c.opts.MaxAttempts {
			return resp, err
		}

		c.log.Warn("rate limited, backing off",
			"query", query, "page", page, "status", se.StatusCode, "delay", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

func (c *Client) get(ctx context.Context, query string, page int) (*volumesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", volumeFields)
	params.Set("maxResults", strconv.Itoa(c.opts.PageSize))
	params.Set("startIndex", strconv.Itoa(page*c.opts.PageSize))
	if c.opts.APIKey != "" {
		params.Set("key", c.opts.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed volumesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return &parsed, nil
}
