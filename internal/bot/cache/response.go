package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
	"github.com/umanagarjuna/steam-bot/internal/bot/remote"
	"github.com/umanagarjuna/steam-bot/internal/bot/tasks"
)

const DefaultTTL = 10 * time.Second

// Fetcher is anything that can produce content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, format remote.Format) (remote.Content, error)
}

type Config struct {
	TTL          time.Duration
	SingleFlight bool
}

// ResponseCache wraps a Fetcher with a TTL cache keyed by Fingerprint(url).
// Write-backs run on the supervisor and never delay or fail the caller.
type ResponseCache struct {
	upstream     Fetcher
	store        Store
	ttl          time.Duration
	singleFlight bool
	group        singleflight.Group
	tasks        *tasks.Supervisor
	metrics      metrics.Metrics
	logger       *zap.Logger
}

func NewResponseCache(upstream Fetcher, store Store, supervisor *tasks.Supervisor,
	m metrics.Metrics, logger *zap.Logger, cfg Config) *ResponseCache {

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &ResponseCache{
		upstream:     upstream,
		store:        store,
		ttl:          ttl,
		singleFlight: cfg.SingleFlight,
		tasks:        supervisor,
		metrics:      m,
		logger:       logger,
	}
}

func (c *ResponseCache) Fetch(ctx context.Context, url string, format remote.Format) (remote.Content, error) {
	if format == remote.FormatNone {
		c.metrics.IncrementCounter("cache_bypass")
		return c.upstream.Fetch(ctx, url, format)
	}

	key := Fingerprint(url)
	if content, ok := c.lookup(ctx, key, format); ok {
		c.metrics.IncrementCounter("cache_hits")
		return content, nil
	}
	c.metrics.IncrementCounter("cache_misses")

	if !c.singleFlight {
		return c.load(ctx, key, url, format)
	}

	ch := c.group.DoChan(key+"|"+format.String(), func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key, url, format)
	})
	select {
	case <-ctx.Done():
		return remote.Content{}, fmt.Errorf("%w: %v", domain.ErrEmptyResult, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return remote.Content{}, res.Err
		}
		return res.Val.(remote.Content), nil
	}
}

func (c *ResponseCache) lookup(ctx context.Context, key string, format remote.Format) (remote.Content, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache get failed", zap.Error(err), zap.String("key", key))
		return remote.Content{}, false
	}
	if len(data) == 0 {
		return remote.Content{}, false
	}
	if format == remote.FormatJSON && !json.Valid(data) {
		c.logger.Warn("Discarding corrupt cached json", zap.String("key", key))
		return remote.Content{}, false
	}
	return remote.Content{Format: format, Body: data}, true
}

func (c *ResponseCache) load(ctx context.Context, key, url string, format remote.Format) (remote.Content, error) {
	content, err := c.upstream.Fetch(ctx, url, format)
	if err != nil {
		return remote.Content{}, err
	}
	if content.Empty() {
		return remote.Content{}, domain.ErrEmptyResult
	}

	body := content.Body
	c.tasks.Go(ctx, "cache-writeback", func(ctx context.Context) error {
		if err := c.store.Set(ctx, key, body, c.ttl); err != nil {
			c.metrics.IncrementCounter("cache_writeback_failures")
			return fmt.Errorf("write back %s: %w", key, err)
		}
		return nil
	})

	return content, nil
}
