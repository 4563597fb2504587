package openmeteo

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openmeteo-go/openmeteo/internal/fcache"
	"github.com/openmeteo-go/openmeteo/internal/histcache"
	"github.com/openmeteo-go/openmeteo/internal/observability"
)

// Client fetches weather data from Open-Meteo. Historical months are cached
// on disk and only missing months hit the network; forecasts are cached in
// the configured Store with TTL and horizon-based staleness. A Client is
// safe for concurrent use; concurrent refetches for the same forecast key
// are not de-duplicated (last write wins).
type Client struct {
	httpClient  *http.Client
	logger      *zap.Logger
	archiveURL  string
	forecastURL string

	forecastTTL time.Duration
	hist        *histcache.Cache
	forecasts   fcache.Store

	now func() time.Time
}

type options struct {
	httpClient     *http.Client
	logger         *zap.Logger
	timeout        time.Duration
	cacheDir       string
	forecastTTL    time.Duration
	memcachedAddrs string
	archiveURL     string
	forecastURL    string
}

// Option configures a Client at construction time.
type Option func(*options)

// WithHTTPClient replaces the default http.Client. Overrides WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout sets the HTTP request timeout. Default 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger attaches a zap logger. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCacheDir roots the historical file cache at dir instead of the
// user-level cache folder. The files live under dir/historical.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithForecastTTL overrides the forecast cache TTL. Default 60 minutes.
func WithForecastTTL(d time.Duration) Option {
	return func(o *options) { o.forecastTTL = d }
}

// WithMemcached stores forecast cache entries in memcached instead of the
// in-process map. addrs is a comma-separated server list.
func WithMemcached(addrs string) Option {
	return func(o *options) { o.memcachedAddrs = addrs }
}

// WithBaseURLs overrides the upstream endpoints. Intended for tests and
// self-hosted Open-Meteo instances.
func WithBaseURLs(archive, forecast string) Option {
	return func(o *options) {
		o.archiveURL = archive
		o.forecastURL = forecast
	}
}

// New creates a Client. The historical cache directory is created eagerly so
// misconfiguration surfaces here rather than on the first request.
func New(opts ...Option) (*Client, error) {
	o := options{
		timeout:     30 * time.Second,
		forecastTTL: DefaultForecastTTL,
		archiveURL:  ArchiveBaseURL,
		forecastURL: ForecastBaseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	dir := o.cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user cache dir: %w", err)
		}
		dir = filepath.Join(base, "openmeteo")
	}
	hist, err := histcache.New(filepath.Join(dir, "historical"))
	if err != nil {
		return nil, err
	}

	var store fcache.Store = fcache.NewMemory()
	if o.memcachedAddrs != "" {
		mc := fcache.NewMemcached(o.memcachedAddrs, 0, 0)
		if err := mc.Ping(); err != nil {
			// Not fatal: forecasts degrade to fetching every time until the
			// server comes back.
			o.logger.Warn("memcached unreachable",
				zap.String("addrs", o.memcachedAddrs), zap.Error(err))
		}
		store = mc
	}

	return &Client{
		httpClient:  o.httpClient,
		logger:      o.logger,
		archiveURL:  o.archiveURL,
		forecastURL: o.forecastURL,
		forecastTTL: o.forecastTTL,
		hist:        hist,
		forecasts:   store,
		now:         time.Now,
	}, nil
}

type requestOptions struct {
	timezone     string
	variables    []string
	fullMonths   bool
	forceRefresh bool
}

// RequestOption tunes a single Historical, Forecast, or Current call.
type RequestOption func(*requestOptions)

// WithTimezone sets the timezone query parameter (e.g. "Europe/Moscow").
// Default "auto" resolves the location's own timezone upstream.
func WithTimezone(tz string) RequestOption {
	return func(o *requestOptions) { o.timezone = tz }
}

// WithVariables replaces the default per-step variable list.
func WithVariables(vars ...string) RequestOption {
	return func(o *requestOptions) { o.variables = vars }
}

// WithFullMonths returns whole cached months instead of clipping the merged
// series to the requested start/end window.
func WithFullMonths() RequestOption {
	return func(o *requestOptions) { o.fullMonths = true }
}

// WithForceRefresh bypasses the forecast cache and fetches fresh data.
func WithForceRefresh() RequestOption {
	return func(o *requestOptions) { o.forceRefresh = true }
}

func applyRequestOptions(opts []RequestOption) requestOptions {
	o := requestOptions{timezone: "auto"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Historical returns archive data for [start, end] at the given step. The
// range is partitioned into calendar months; cached months are read from
// disk and only missing months are fetched, one request per month (requests
// always cover whole months, clipped at today). The merged series is then
// clipped to the requested window unless WithFullMonths is set.
//
// One failed month fetch fails the whole call; months already written to the
// cache are kept.
//
// Month files are keyed by coordinates and step only, not by variable list or
// timezone: a month cached under WithVariables or a custom timezone is served
// as-is to later requests for the same location. Use a consistent variable
// set per location, or ClearHistoricalCache when changing it.
func (c *Client) Historical(ctx context.Context, latitude, longitude float64, start, end time.Time, step TimeStep, opts ...RequestOption) (*Response, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	if err := validateStep(step); err != nil {
		return nil, err
	}
	start, end = dateOnly(start), dateOnly(end)
	today := dateOnly(c.now().UTC())
	if err := validateDateRange(start, end, today); err != nil {
		return nil, err
	}

	ro := applyRequestOptions(opts)
	vars := ro.variables
	if vars == nil {
		vars = defaultVariables(step)
	}

	months := histcache.MonthsInRange(start, end)
	missing := c.hist.MissingMonths(latitude, longitude, string(step), months, today)

	fetched := make(map[string]*Response, len(missing))
	for _, month := range missing {
		monthStart, monthEnd, err := histcache.MonthBounds(month)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if monthEnd.After(today) {
			monthEnd = today
		}

		params := url.Values{}
		params.Set("latitude", formatCoord(latitude))
		params.Set("longitude", formatCoord(longitude))
		params.Set("start_date", monthStart.Format("2006-01-02"))
		params.Set("end_date", monthEnd.Format("2006-01-02"))
		params.Set("timezone", ro.timezone)
		params.Set(string(step), strings.Join(vars, ","))

		payload, err := c.fetch(ctx, c.archiveURL, "archive", params)
		if err != nil {
			return nil, err
		}
		var r Response
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("%w: malformed response for %s: %v", ErrAPI, month, err)
		}

		if err := c.hist.SaveMonth(latitude, longitude, string(step), month, payload); err != nil {
			// A cache write failure degrades to refetching next time.
			c.logger.Warn("historical cache write failed", zap.String("month", month), zap.Error(err))
		}
		observability.HistoricalMonthsFetched.Inc()
		observability.CacheMisses.WithLabelValues("historical").Inc()
		fetched[month] = &r
	}

	var merged *Response
	for _, month := range months {
		r, ok := fetched[month]
		if !ok {
			payload, err := c.hist.LoadMonth(latitude, longitude, string(step), month)
			if err != nil {
				c.logger.Warn("historical cache read failed", zap.String("month", month), zap.Error(err))
				continue
			}
			var cached Response
			if err := json.Unmarshal(payload, &cached); err != nil {
				c.logger.Warn("historical cache entry corrupt", zap.String("month", month), zap.Error(err))
				continue
			}
			observability.CacheHits.WithLabelValues("historical").Inc()
			r = &cached
		}
		merged = mergeMonth(merged, r)
	}

	if merged == nil {
		merged = emptyResponse(latitude, longitude, ro.timezone, step)
	}
	if !ro.fullMonths {
		clipToRange(merged, start, end, step)
	}
	return merged, nil
}

// mergeMonth appends the month's series block onto the accumulated response.
// Months arrive in chronological order, so plain concatenation keeps the
// time index sorted.
func mergeMonth(merged, r *Response) *Response {
	if merged == nil {
		cp := *r
		return &cp
	}
	if r.Hourly != nil {
		if merged.Hourly == nil {
			merged.Hourly = r.Hourly
		} else {
			appendSeries(merged.Hourly, r.Hourly)
		}
		if merged.HourlyUnits == nil {
			merged.HourlyUnits = r.HourlyUnits
		}
	}
	if r.Daily != nil {
		if merged.Daily == nil {
			merged.Daily = r.Daily
		} else {
			appendSeries(merged.Daily, r.Daily)
		}
		if merged.DailyUnits == nil {
			merged.DailyUnits = r.DailyUnits
		}
	}
	return merged
}

func emptyResponse(latitude, longitude float64, timezone string, step TimeStep) *Response {
	r := &Response{Meta: Meta{Latitude: latitude, Longitude: longitude, Timezone: timezone}}
	if step == StepDaily {
		r.Daily = &DailyData{Time: []string{}}
	} else {
		r.Hourly = &HourlyData{Time: []string{}}
	}
	return r
}

// Forecast returns forecast data for the next days at the given step,
// serving from the forecast cache when the entry is inside its TTL and not
// near the forecast horizon. WithForceRefresh bypasses the cache entirely.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64, days int, step TimeStep, opts ...RequestOption) (*Response, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	if err := validateStep(step); err != nil {
		return nil, err
	}
	if err := validateForecastDays(days); err != nil {
		return nil, err
	}

	ro := applyRequestOptions(opts)
	vars := ro.variables
	if vars == nil {
		vars = defaultVariables(step)
	}

	key := forecastKey(latitude, longitude, step, days, ro.timezone, vars)
	now := c.now().UTC()

	if !ro.forceRefresh {
		entry, ok, err := c.forecasts.Get(ctx, key)
		if err != nil {
			c.logger.Warn("forecast cache get failed", zap.Error(err))
		} else if ok && !entry.NearHorizon(now, horizonMargin) {
			var r Response
			if err := json.Unmarshal(entry.Payload, &r); err == nil {
				observability.CacheHits.WithLabelValues("forecast").Inc()
				c.logger.Debug("forecast cache hit",
					zap.Float64("latitude", latitude),
					zap.Float64("longitude", longitude),
					zap.Time("fetched_at", entry.FetchedAt))
				return &r, nil
			}
			c.logger.Warn("forecast cache entry corrupt", zap.Error(err))
		}
	}
	observability.CacheMisses.WithLabelValues("forecast").Inc()

	params := url.Values{}
	params.Set("latitude", formatCoord(latitude))
	params.Set("longitude", formatCoord(longitude))
	params.Set("forecast_days", fmt.Sprintf("%d", days))
	params.Set("timezone", ro.timezone)
	params.Set(string(step), strings.Join(vars, ","))

	payload, err := c.fetch(ctx, c.forecastURL, "forecast", params)
	if err != nil {
		return nil, err
	}
	var r Response
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrAPI, err)
	}

	entry := fcache.Entry{
		Payload:      payload,
		FetchedAt:    now,
		LastForecast: lastSeriesTime(&r, now),
	}
	if err := c.forecasts.Set(ctx, key, entry, c.forecastTTL); err != nil {
		c.logger.Warn("forecast cache set failed", zap.Error(err))
	}
	return &r, nil
}

// Current returns current conditions. Current weather changes constantly, so
// it is never cached.
func (c *Client) Current(ctx context.Context, latitude, longitude float64, opts ...RequestOption) (*CurrentResponse, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}

	ro := applyRequestOptions(opts)
	vars := ro.variables
	if vars == nil {
		vars = CurrentVariables
	}

	params := url.Values{}
	params.Set("latitude", formatCoord(latitude))
	params.Set("longitude", formatCoord(longitude))
	params.Set("timezone", ro.timezone)
	params.Set("current", strings.Join(vars, ","))

	payload, err := c.fetch(ctx, c.forecastURL, "current", params)
	if err != nil {
		return nil, err
	}
	var r CurrentResponse
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrAPI, err)
	}
	return &r, nil
}

// ClearForecastCache drops every cached forecast entry.
func (c *Client) ClearForecastCache(ctx context.Context) error {
	return c.forecasts.Clear(ctx)
}

// ClearHistoricalCache deletes all cached historical month files. The next
// historical request re-fetches everything.
func (c *Client) ClearHistoricalCache() error {
	return c.hist.Clear()
}

// ClearAllCaches clears both the forecast and the historical cache.
func (c *Client) ClearAllCaches(ctx context.Context) error {
	if err := c.ClearForecastCache(ctx); err != nil {
		return err
	}
	return c.ClearHistoricalCache()
}

// Close releases connections held by the forecast cache backend. A no-op for
// the in-memory backend; call it during shutdown when using memcached.
func (c *Client) Close() error {
	if closer, ok := c.forecasts.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// fetch performs one GET against an Open-Meteo endpoint and returns the raw
// body. Transport failures map to ErrConnection; non-2xx statuses and error
// payloads map to ErrAPI with the upstream reason when one is present.
func (c *Client) fetch(ctx context.Context, baseURL, endpoint string, params url.Values) (json.RawMessage, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrValidation, baseURL, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrConnection, err)
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.NewString()
	c.logger.Debug("fetching",
		zap.String("endpoint", endpoint),
		zap.String("request_id", reqID),
		zap.String("url", u.String()))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		observability.APICalls.WithLabelValues(endpoint, "error").Inc()
		observability.APIDuration.WithLabelValues(endpoint).Observe(duration)
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.APICalls.WithLabelValues(endpoint, "error").Inc()
		observability.APIDuration.WithLabelValues(endpoint).Observe(duration)
		return nil, fmt.Errorf("%w: read response body: %v", ErrConnection, err)
	}

	observability.APICalls.WithLabelValues(endpoint, statusLabel(resp.StatusCode)).Inc()
	observability.APIDuration.WithLabelValues(endpoint).Observe(duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := apiReason(body)
		if reason == "" {
			reason = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", ErrAPI, reason)
	}
	if reason := apiReason(body); reason != "" {
		return nil, fmt.Errorf("%w: %s", ErrAPI, reason)
	}

	c.logger.Debug("fetched",
		zap.String("endpoint", endpoint),
		zap.String("request_id", reqID),
		zap.Int("bytes", len(body)))
	return body, nil
}

// apiReason returns the upstream error reason if the body is an Open-Meteo
// error payload, otherwise "".
func apiReason(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || !er.Error {
		return ""
	}
	if er.Reason != "" {
		return er.Reason
	}
	return "unknown API error"
}

func statusLabel(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "success"
	case code >= 400 && code < 500:
		return "client_error"
	case code >= 500:
		return "server_error"
	}
	return "error"
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// forecastKey builds the cache key from every parameter that changes the
// payload. The variable list is hashed to keep keys short enough for
// memcached.
func forecastKey(latitude, longitude float64, step TimeStep, days int, timezone string, vars []string) string {
	sum := md5.Sum([]byte(strings.Join(vars, ",")))
	return fmt.Sprintf("%s_%s_%dd_%s_%x",
		histcache.CoordKey(latitude, longitude), step, days, timezone, sum[:6])
}
