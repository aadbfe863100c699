package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"trends-explorer/pkg/logger"
)

const (
	// MaxKeywords is the provider's limit on compared keywords per query.
	MaxKeywords = 5

	explorePath  = "/trends/api/explore"
	timelinePath = "/trends/api/widgetdata/multiline"
	geoPath      = "/trends/api/widgetdata/comparedgeo"
	relatedPath  = "/trends/api/widgetdata/relatedsearches"

	opExplore = "explore"

	widgetTimeseries = "TIMESERIES"
	widgetGeoMap     = "GEO_MAP"
	widgetRelated    = "RELATED_QUERIES"
)

var (
	_ Provider = (*Client)(nil)
	_ Explorer = (*Client)(nil)
)

// Config is fixed at construction; a Client never changes locale or
// timezone afterwards.
type Config struct {
	BaseURLs          string           `mapstructure:"base_urls"`
	HL                string           `mapstructure:"hl"`
	TZ                int              `mapstructure:"tz"`
	Timeout           time.Duration    `mapstructure:"timeout"`
	RequestsPerSecond float64          `mapstructure:"requests_per_second"`
	Burst             int              `mapstructure:"burst"`
	UserAgent         string           `mapstructure:"user_agent"`
	Category          int              `mapstructure:"category"`
	Property          string           `mapstructure:"property"`
	Connection        ConnectionConfig `mapstructure:"connection"`
}

// DefaultConfig mirrors the provider's web UI defaults for an en-US session.
func DefaultConfig() Config {
	return Config{
		BaseURLs:          "https://trends.google.com",
		HL:                "en-US",
		TZ:                360,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 1,
		Burst:             2,
		UserAgent:         "Mozilla/5.0 (compatible; trends-explorer/1.0)",
		Connection:        DefaultConnectionConfig(),
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the fasthttp client built from Config.Connection.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRequestObserver reports every provider exchange to o.
func WithRequestObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the parent logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l.WithField("component", "trends_client") }
}

// Client talks to the Google Trends web API. It is safe for concurrent use.
type Client struct {
	cfg      Config
	hosts    *HostPool
	http     *fasthttp.Client
	limiter  *rate.Limiter
	observer RequestObserver
	log      *logger.Logger

	warmMu   sync.Mutex
	warmed   atomic.Bool
	cookieMu sync.Mutex
	cookie   string
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	hosts := NewHostPool(cfg.BaseURLs)
	if hosts.Size() == 0 {
		return nil, fmt.Errorf("trends base URL cannot be empty")
	}
	for _, h := range hosts.Hosts() {
		u, err := url.Parse(h)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid trends base URL %q", h)
		}
	}
	if cfg.HL == "" {
		cfg.HL = "en-US"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		cfg:     cfg,
		hosts:   hosts,
		limiter: rate.NewLimiter(limit, burst),
		log:     logger.GetLogger().WithField("component", "trends_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(cfg.Connection)
	}
	return c, nil
}

// Config returns the construction-time configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// InterestOverTime fetches the interest table of up to MaxKeywords keywords.
func (c *Client) InterestOverTime(ctx context.Context, q Query) (*InterestTable, error) {
	e, err := c.Explore(ctx, q)
	if err != nil {
		return nil, err
	}
	return e.InterestOverTime(ctx)
}

// InterestByRegion fetches per-region interest for a single-keyword query.
func (c *Client) InterestByRegion(ctx context.Context, q Query) ([]RegionInterest, error) {
	if err := checkKeywords(q.Keywords, 1); err != nil {
		return nil, err
	}
	e, err := c.Explore(ctx, q)
	if err != nil {
		return nil, err
	}
	return e.InterestByRegion(ctx)
}

// RelatedQueries fetches the related queries of a single-keyword query.
func (c *Client) RelatedQueries(ctx context.Context, q Query) (*RelatedQueries, error) {
	if err := checkKeywords(q.Keywords, 1); err != nil {
		return nil, err
	}
	e, err := c.Explore(ctx, q)
	if err != nil {
		return nil, err
	}
	return e.RelatedQueries(ctx)
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

// Explore sends one explore request for q. The returned Exploration reads
// every widget of that response without exploring again.
func (c *Client) Explore(ctx context.Context, q Query) (Exploration, error) {
	if err := checkKeywords(q.Keywords, MaxKeywords); err != nil {
		return nil, err
	}
	if q.Timeframe == "" {
		q.Timeframe = TimeframeFiveYears
	}

	payload := exploreRequest{Category: c.cfg.Category, Property: c.cfg.Property}
	for _, kw := range q.Keywords {
		payload.ComparisonItem = append(payload.ComparisonItem, comparisonItem{
			Keyword: kw,
			Time:    string(q.Timeframe),
			Geo:     q.Geo,
		})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode explore request: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.cfg.HL)
	params.Set("tz", strconv.Itoa(c.cfg.TZ))
	params.Set("req", string(raw))

	body, err := c.get(ctx, opExplore, explorePath, params)
	if err != nil {
		return nil, err
	}
	widgets, err := parseExplore(body)
	if err != nil {
		return nil, &ProviderError{Op: opExplore, Reason: ReasonDecode, Err: err}
	}
	return &exploration{client: c, query: q, widgets: widgets}, nil
}

func (c *Client) widgetParams(request []byte, token string) url.Values {
	params := url.Values{}
	params.Set("hl", c.cfg.HL)
	params.Set("tz", strconv.Itoa(c.cfg.TZ))
	params.Set("req", string(request))
	params.Set("token", token)
	return params
}

// findWidget prefers an exact id and falls back to indexed variants such
// as GEO_MAP_0.
func findWidget(widgets []widget, id string) (widget, bool) {
	for _, w := range widgets {
		if w.ID == id {
			return w, true
		}
	}
	for _, w := range widgets {
		if strings.HasPrefix(w.ID, id+"_") {
			return w, true
		}
	}
	return widget{}, false
}

func checkKeywords(keywords []string, max int) error {
	if len(keywords) == 0 {
		return fmt.Errorf("query has no keywords")
	}
	if len(keywords) > max {
		return fmt.Errorf("query has %d keywords, at most %d allowed", len(keywords), max)
	}
	return nil
}

// get performs one paced GET against the next base URL and returns the
// UTF-8 body of a 200 response.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	c.warmUp(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Op: op, Reason: ReasonCanceled, Err: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	fullURL := c.hosts.Next() + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	c.setHeaders(req)

	start := time.Now()
	err := c.do(ctx, req, resp)
	status := 0
	if err == nil {
		status = resp.StatusCode()
	}
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, time.Since(start))
	}

	if err != nil {
		return nil, &ProviderError{Op: op, Reason: reasonForTransport(err), Err: err}
	}
	if status != fasthttp.StatusOK {
		snippet := resp.Body()
		snippet = snippet[:min(len(snippet), 200)]
		c.log.WithFields(map[string]interface{}{
			"op":     op,
			"status": status,
		}).Warn("Trends request rejected")
		return nil, &ProviderError{Op: op, Reason: reasonForStatus(status), StatusCode: status, Err: fmt.Errorf("%s", snippet)}
	}

	body := append([]byte(nil), resp.Body()...)
	body, err = decodeBody(body, string(resp.Header.ContentType()))
	if err != nil {
		return nil, &ProviderError{Op: op, Reason: ReasonDecode, Err: err}
	}
	return body, nil
}

// do honors the earlier of ctx's deadline and the configured timeout.
func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (c *Client) setHeaders(req *fasthttp.Request) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", c.cfg.HL)

	c.cookieMu.Lock()
	cookie := c.cookie
	c.cookieMu.Unlock()
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}

// warmUp obtains the NID session cookie once per client. The provider
// answers without it too, only more eagerly with 429, so failures are
// logged and the next request tries again. Any response, with or without a
// cookie, ends the warm-up.
func (c *Client) warmUp(ctx context.Context) {
	if c.warmed.Load() {
		return
	}
	c.warmMu.Lock()
	defer c.warmMu.Unlock()
	if c.warmed.Load() {
		return
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.hosts.Next() + "/trends/?geo=" + url.QueryEscape(geoFromLocale(c.cfg.HL)))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	err := c.do(ctx, req, resp)
	status := 0
	if err == nil {
		status = resp.StatusCode()
	}
	if c.observer != nil {
		c.observer.ObserveRequest("session", status, time.Since(start))
	}
	if err != nil {
		c.log.WithError(err).Debug("Session cookie request failed")
		return
	}
	c.warmed.Store(true)

	var nid string
	resp.Header.VisitAllCookie(func(key, value []byte) {
		if string(key) != "NID" {
			return
		}
		cookie := fasthttp.AcquireCookie()
		defer fasthttp.ReleaseCookie(cookie)
		if err := cookie.ParseBytes(value); err == nil {
			nid = "NID=" + string(cookie.Value())
		}
	})

	if nid != "" {
		c.cookieMu.Lock()
		c.cookie = nid
		c.cookieMu.Unlock()
		c.log.Debug("Session cookie acquired")
	}
}

// geoFromLocale maps "en-US" to "US".
func geoFromLocale(hl string) string {
	if i := strings.LastIndexAny(hl, "-_"); i >= 0 && i+1 < len(hl) {
		return strings.ToUpper(hl[i+1:])
	}
	return ""
}
