package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jthrilly/dead-link-checker/internal/model"
)

// Crawler walks a site from a seed address and checks every link it
// discovers. Pages on the seed's origin are fetched and their anchors
// extracted recursively; links to other origins are checked once and never
// followed.
type Crawler struct {
	// client is the HTTP client used for all requests. Redirect following
	// is disabled on it; the crawler interprets 3xx responses itself.
	client *http.Client

	// concurrency is the number of workers draining the frontier.
	concurrency int

	// delay is the pacing delay each worker applies between its own
	// requests. It is per worker, not global, so the effective request
	// rate is roughly concurrency/delay.
	delay time.Duration

	// userAgent is the User-Agent header to send.
	userAgent string

	// headers are extra request headers, typically from the config file.
	headers map[string]string

	// cookie is an optional Cookie header value.
	cookie string

	// maxBodySize limits how much of an HTML body is read for link
	// extraction.
	maxBodySize int64

	// ignorePatterns are glob path patterns; matching same-origin
	// addresses are never scheduled.
	ignorePatterns []string

	// logger receives per-address debug logging.
	logger *slog.Logger

	origin   Origin
	frontier *Frontier
	results  *Results
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency sets the number of workers.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithDelay sets the per-worker pacing delay between requests.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithHeaders sets extra request headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Crawler) {
		c.headers = headers
	}
}

// WithCookie sets the Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(c *Crawler) {
		c.cookie = cookie
	}
}

// WithMaxBodySize sets the maximum response body size read during link
// extraction.
func WithMaxBodySize(size int64) Option {
	return func(c *Crawler) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithIgnorePatterns sets glob path patterns for same-origin URLs that
// must not be crawled (e.g. "/logout*", "*.pdf").
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Crawler) {
		c.ignorePatterns = patterns
	}
}

// WithLogger sets the logger for per-address debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// NewCrawler creates a Crawler using the given HTTP client.
//
// Design decision: We require an external client rather than building one
// internally because:
//  1. Timeout and transport configuration belong to the caller
//  2. Tests can supply clients pointing at httptest servers
//
// The client's redirect policy is overridden: the crawler records each 3xx
// response itself and schedules the Location target as a separate check,
// so automatic redirect following must never run.
func NewCrawler(client *http.Client, opts ...Option) *Crawler {
	cl := *client
	cl.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	c := &Crawler{
		client:      &cl,
		concurrency: 20,
		delay:       10 * time.Millisecond,
		userAgent:   "deadlink/1.0 (+https://github.com/jthrilly/dead-link-checker)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		frontier:    NewFrontier(),
		results:     NewResults(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Run crawls from the seed address until every reachable link has been
// checked, then returns the full report. Per-address failures are recorded
// as outcomes and never abort the run; Run itself fails only on an
// unusable seed.
//
// If ctx is cancelled mid-run the frontier is closed, workers drain, and
// the partial report is returned with Interrupted set.
func (c *Crawler) Run(ctx context.Context, seed string) (*model.RunReport, error) {
	seedURL, err := url.Parse(strings.TrimSpace(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seed, err)
	}
	if seedURL.Scheme == "" {
		seedURL.Scheme = "http"
	}

	address, ok := Normalize(seedURL.String(), seedURL)
	if !ok {
		return nil, fmt.Errorf("invalid seed URL %q", seed)
	}
	base, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seed, err)
	}
	c.origin = OriginOf(base)

	c.logger.Info("starting crawl",
		"seed", address,
		"origin", c.origin.String(),
		"concurrency", c.concurrency,
		"delay", c.delay,
	)

	started := time.Now()
	c.frontier.Enqueue(Task{Address: address})

	g, runCtx := errgroup.WithContext(ctx)

	// Release workers blocked in the frontier when the run is cancelled.
	// The errgroup context is cancelled once Wait returns, so this
	// goroutine always exits.
	go func() {
		<-runCtx.Done()
		c.frontier.Close()
	}()

	for i := 0; i < c.concurrency; i++ {
		g.Go(func() error {
			c.worker(runCtx)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Workers never return errors.

	report := &model.RunReport{
		Seed:        address,
		Origin:      c.origin.String(),
		StartedAt:   started,
		Duration:    time.Since(started),
		Outcomes:    c.results.Snapshot(),
		Interrupted: ctx.Err() != nil,
	}

	c.logger.Info("crawl finished",
		"checked", len(report.Outcomes),
		"dead", len(report.DeadLinks()),
		"elapsed", report.Duration,
		"interrupted", report.Interrupted,
	)

	return report, nil
}

// Progress returns the number of addresses checked so far and the number
// discovered so far. The discovered total grows while the crawl runs, so
// a progress display using it has a moving denominator.
func (c *Crawler) Progress() (checked, discovered int) {
	return c.results.Checked(), c.frontier.Discovered()
}

// worker drains the frontier until the termination protocol reports the
// crawl finished, pacing itself by the configured delay.
func (c *Crawler) worker(ctx context.Context) {
	var limiter *rate.Limiter
	if c.delay > 0 {
		limiter = rate.NewLimiter(rate.Every(c.delay), 1)
	}

	for {
		task, ok := c.frontier.Next()
		if !ok {
			return
		}

		c.check(ctx, task)
		c.frontier.Done()

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}
	}
}

// check fetches one address, records its outcome, and schedules any
// follow-up work: the target of a redirect, or the links of a same-origin
// HTML page. All enqueues happen before the task is released, which the
// termination protocol relies on.
func (c *Crawler) check(ctx context.Context, task Task) {
	resp, err := c.fetch(ctx, task.Address)
	if err != nil {
		// A fetch that failed because the run was cancelled says nothing
		// about the address. Leave it unjudged; the report is marked
		// interrupted instead.
		if ctx.Err() != nil {
			c.logger.Debug("fetch abandoned", "address", task.Address)
			return
		}
		c.logger.Debug("fetch failed", "address", task.Address, "error", err)
		c.results.Record(model.LinkOutcome{
			Address: task.Address,
			Status:  model.StatusFetchError,
			Err:     err.Error(),
		})
		return
	}
	defer resp.Body.Close() //nolint:errcheck // Nothing useful to do on close failure.

	status := resp.StatusCode
	c.logger.Debug("checked", "address", task.Address, "status", status, "referrer", task.Referrer)

	// Redirects are interpreted manually: record the 3xx itself, then
	// schedule the target as its own check at the same crawl depth.
	if status >= 300 && status < 400 {
		location := resp.Header.Get("Location")
		if location == "" {
			c.results.Record(model.LinkOutcome{
				Address: task.Address,
				Status:  status,
				Err:     "redirect with no Location header",
			})
			return
		}

		c.results.Record(model.LinkOutcome{Address: task.Address, Status: status})

		base, err := url.Parse(task.Address)
		if err != nil {
			return
		}
		if target, ok := Normalize(location, base); ok {
			c.frontier.Enqueue(Task{Address: target, Referrer: task.Address})
		}
		return
	}

	c.results.Record(model.LinkOutcome{Address: task.Address, Status: status})

	if status >= 400 {
		return
	}

	// Only same-origin HTML pages contribute further links. External
	// pages are leaves regardless of their content type.
	if !c.origin.Contains(task.Address) || !isHTML(resp.Header.Get("Content-Type")) {
		return
	}
	if !c.frontier.MarkVisited(task.Address) {
		return
	}

	c.extract(task.Address, resp)
}

// fetch issues a single GET request with the configured request headers.
func (c *Crawler) fetch(ctx context.Context, address string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	return c.client.Do(req)
}

// extract parses the page body and schedules every surviving link: same
// origin as a recursive crawl, other origins as a one-shot check. The
// frontier's dedup set drops addresses that were already scheduled.
func (c *Crawler) extract(address string, resp *http.Response) {
	base, err := url.Parse(address)
	if err != nil {
		return
	}

	// Decode non-UTF-8 documents before parsing.
	body, err := charset.NewReader(io.LimitReader(resp.Body, c.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		c.logger.Debug("charset detection failed", "address", address, "error", err)
		return
	}

	links, err := extractLinks(body, base)
	if err != nil {
		c.logger.Debug("parse failed", "address", address, "error", err)
		return
	}

	for _, link := range links {
		if c.origin.Contains(link) && matchesAny(c.ignorePatterns, link) {
			continue
		}
		if c.frontier.Enqueue(Task{Address: link, Referrer: address}) {
			c.logger.Debug("discovered", "address", link, "on", address)
		}
	}
}
