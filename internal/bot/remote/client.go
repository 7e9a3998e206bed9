package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps a single response; screenshots are the largest payload.
	maxBodySize = 16 << 20
)

type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Client performs storefront GETs. Every failure mode maps to
// domain.ErrEmptyResult except malformed JSON, which maps to domain.ErrDecode.
type Client struct {
	http    *http.Client
	timeout time.Duration
	agent   string
	metrics metrics.Metrics
	logger  *zap.Logger
}

func NewClient(cfg Config, m metrics.Metrics, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		agent:   cfg.UserAgent,
		metrics: m,
		logger:  logger,
	}
}

func (c *Client) Get(ctx context.Context, url string, format Format) (Content, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		c.metrics.RecordDuration("upstream_fetch", time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Content{}, fmt.Errorf("%w: build request: %v", domain.ErrEmptyResult, err)
	}
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncrementCounterWithLabels("upstream_requests", map[string]string{"status": "error"})
		c.logger.Warn("Upstream request failed", zap.String("url", url), zap.Error(err))
		return Content{}, fmt.Errorf("%w: %v", domain.ErrEmptyResult, err)
	}
	defer resp.Body.Close()

	c.metrics.IncrementCounterWithLabels("upstream_requests",
		map[string]string{"status": strconv.Itoa(resp.StatusCode)})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Content{}, fmt.Errorf("%w: status %d", domain.ErrEmptyResult, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Content{}, fmt.Errorf("%w: read body: %v", domain.ErrEmptyResult, err)
	}

	content := Content{Format: format, Body: body}
	if err := content.Validate(); err != nil {
		return Content{}, err
	}
	return content, nil
}

// Fetch lets the client stand in wherever a cached fetcher is accepted.
func (c *Client) Fetch(ctx context.Context, url string, format Format) (Content, error) {
	return c.Get(ctx, url, format)
}
