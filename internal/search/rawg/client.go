package rawg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/gamelookup/internal/domain"
	"github.com/kitbuilder587/gamelookup/internal/search"
)

const (
	DefaultBaseURL          = "https://api.rawg.io/api"
	DefaultTimeout          = 10 * time.Second
	DefaultMaxResponseBytes = 10_000_000
	DefaultRetryAfter       = 60 * time.Second

	gamesEndpoint = "/games"
	previewBytes  = 200
	redacted      = "[REDACTED]"

	// maxRetryAfterSecs is the largest delta-seconds value a time.Duration holds.
	maxRetryAfterSecs = math.MaxInt64 / int64(time.Second)
)

type Config struct {
	APIKey           string
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
	// Verbose adds request parameters and response previews to debug logs.
	Verbose bool
}

type Client struct {
	apiKey   string
	baseURL  string
	timeout  time.Duration
	maxBytes int64
	verbose  bool
	client   *http.Client
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		timeout:  cfg.Timeout,
		maxBytes: cfg.MaxResponseBytes,
		verbose:  cfg.Verbose,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// Fetch issues a single GET to the games search endpoint and returns the first
// result. Failures come back as *search.FetchError and are never retried.
func (c *Client) Fetch(ctx context.Context, query domain.SearchQuery) (domain.RawRecord, error) {
	endpoint := c.baseURL + gamesEndpoint
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("search", query.String())

	if c.verbose {
		c.logger.Debug("fetching game data",
			zap.String("url", endpoint),
			zap.Any("params", redactParams(params)),
		)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", stripURL(err))
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, query, err)
	}
	defer resp.Body.Close()

	if resp.ContentLength > c.maxBytes {
		c.logger.Error("Response too large",
			zap.Int64("content_length", resp.ContentLength),
			zap.Int64("limit", c.maxBytes),
		)
		return nil, &search.FetchError{
			Kind:  search.FailureOversized,
			Query: query.String(),
			Err:   fmt.Errorf("declared content length %d exceeds %d bytes", resp.ContentLength, c.maxBytes),
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		fe := &search.FetchError{
			Kind:       search.FailureRateLimited,
			Query:      query.String(),
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter,
		}
		c.logger.Error(fe.Error())
		return nil, fe
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error(statusMessage(resp), zap.Int("status", resp.StatusCode))
		if c.verbose {
			preview, _ := io.ReadAll(io.LimitReader(resp.Body, previewBytes))
			c.logPreview(preview)
		}
		return nil, &search.FetchError{
			Kind:       search.FailureHTTPStatus,
			Query:      query.String(),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, c.transportError(ctx, query, err)
	}
	if int64(len(body)) > c.maxBytes {
		c.logger.Error("Response content too large", zap.Int64("limit", c.maxBytes))
		return nil, &search.FetchError{
			Kind:  search.FailureOversized,
			Query: query.String(),
			Err:   fmt.Errorf("body exceeds %d bytes", c.maxBytes),
		}
	}

	return c.decodeFirst(query, body)
}

// decodeFirst validates the envelope and returns results[0].
func (c *Client) decodeFirst(query domain.SearchQuery, body []byte) (domain.RawRecord, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("Invalid JSON response", zap.Error(err))
		if c.verbose {
			c.logPreview(body)
		}
		return nil, &search.FetchError{Kind: search.FailureMalformedJSON, Query: query.String(), Err: err}
	}

	envelope, ok := payload.(map[string]any)
	if !ok {
		return nil, c.shapeError(query, "top-level value is not an object")
	}
	raw, ok := envelope["results"]
	if !ok {
		return nil, c.shapeError(query, "missing results field")
	}
	results, ok := raw.([]any)
	if !ok {
		return nil, c.shapeError(query, "results is not a list")
	}

	if len(results) == 0 {
		c.logger.Warn(fmt.Sprintf("No results found for game '%s'.", query.String()))
		return nil, &search.FetchError{Kind: search.FailureZeroResults, Query: query.String()}
	}

	first, ok := results[0].(map[string]any)
	if !ok {
		return nil, c.shapeError(query, "first result is not an object")
	}

	return domain.RawRecord(first), nil
}

func (c *Client) shapeError(query domain.SearchQuery, detail string) error {
	c.logger.Error("Unexpected API response format", zap.String("detail", detail))
	return &search.FetchError{
		Kind:  search.FailureUnexpectedShape,
		Query: query.String(),
		Err:   errors.New(detail),
	}
}

// transportError classifies errors from Do and body reads. Caller
// cancellation is passed through untouched.
func (c *Client) transportError(ctx context.Context, query domain.SearchQuery, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}

	cause := stripURL(err)

	if isTimeout(err) {
		c.logger.Error(fmt.Sprintf("Request timed out after %d seconds.", int(c.timeout/time.Second)))
		return &search.FetchError{Kind: search.FailureTimeout, Query: query.String(), Err: cause}
	}

	c.logger.Error("Network connection error. Please check your internet connection.", zap.Error(cause))
	return &search.FetchError{Kind: search.FailureConnection, Query: query.String(), Err: cause}
}

// logPreview writes a bounded prefix of body, dropping bytes that are not
// valid UTF-8.
func (c *Client) logPreview(body []byte) {
	if len(body) > previewBytes {
		body = body[:previewBytes]
	}
	c.logger.Debug("Response content", zap.String("preview", string(bytes.ToValidUTF8(body, nil))))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// stripURL drops the request URL from *url.Error, since it carries the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func redactParams(params url.Values) map[string]string {
	safe := make(map[string]string, len(params))
	for k := range params {
		if k == "key" {
			safe[k] = redacted
			continue
		}
		safe[k] = params.Get(k)
	}
	return safe
}

func statusMessage(resp *http.Response) string {
	switch resp.StatusCode {
	case http.StatusForbidden:
		return "API access forbidden. Check your API key permissions."
	case http.StatusNotFound:
		return "API endpoint not found. The service may be unavailable."
	default:
		return fmt.Sprintf("HTTP error: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP date and falls back to
// DefaultRetryAfter when the header is absent or unusable.
func parseRetryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultRetryAfter
	}
	if secs, err := strconv.ParseInt(header, 10, 64); err == nil {
		if secs < 0 || secs > maxRetryAfterSecs {
			return DefaultRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
		return 0
	}
	return DefaultRetryAfter
}
