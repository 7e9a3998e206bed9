package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
	"github.com/umanagarjuna/steam-bot/internal/bot/remote"
	"github.com/umanagarjuna/steam-bot/internal/bot/tasks"
)

type stubUpstream struct {
	calls   int32
	body    map[string]string
	err     error
	release chan struct{}
}

func (s *stubUpstream) Fetch(ctx context.Context, url string, format remote.Format) (remote.Content, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return remote.Content{}, s.err
	}
	return remote.Content{Format: format, Body: []byte(s.body[url])}, nil
}

func (s *stubUpstream) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

type fixture struct {
	upstream *stubUpstream
	store    *MemoryStore
	clock    *fakeClock
	tasks    *tasks.Supervisor
	metrics  *metrics.InMemoryMetrics
	cache    *ResponseCache
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		upstream: &stubUpstream{body: map[string]string{
			"https://store/search?term=half": "<a>Half-Life</a>",
			"https://store/app?id=10":        `{"10":{"success":true,"data":{"name":"Half-Life"}}}`,
			"https://cdn/scr.jpg":            "\xff\xd8",
		}},
		clock:   &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		metrics: metrics.NewInMemoryMetrics(),
	}
	f.store = NewMemoryStore(0).WithClock(f.clock.Now)
	f.tasks = tasks.NewSupervisor(zap.NewNop(), f.metrics, time.Second)
	f.cache = NewResponseCache(f.upstream, f.store, f.tasks, f.metrics, zap.NewNop(), cfg)
	return f
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("https://store.steampowered.com/api/appdetails/?appids=10")
	b := Fingerprint("https://store.steampowered.com/api/appdetails/?appids=10")
	c := Fingerprint("https://store.steampowered.com/api/appdetails/?appids=20")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "cached-response-", a[:len("cached-response-")])
	assert.Len(t, a, len("cached-response-")+32)
}

func TestResponseCacheIdempotence(t *testing.T) {
	ctx := context.Background()
	for _, format := range []remote.Format{remote.FormatRaw, remote.FormatText, remote.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			f := newFixture(t, Config{TTL: 10 * time.Second})
			url := "https://store/app?id=10"

			first, err := f.cache.Fetch(ctx, url, format)
			require.NoError(t, err)
			f.tasks.Wait()

			second, err := f.cache.Fetch(ctx, url, format)
			require.NoError(t, err)

			assert.Equal(t, first.Body, second.Body)
			assert.Equal(t, format, second.Format)
			assert.Equal(t, 1, f.upstream.Calls())
			assert.Equal(t, int64(1), f.metrics.Counter("cache_hits", nil))
			assert.Equal(t, int64(1), f.metrics.Counter("cache_misses", nil))
		})
	}
}

func TestResponseCacheExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{TTL: 10 * time.Second})
	url := "https://store/search?term=half"

	_, err := f.cache.Fetch(ctx, url, remote.FormatText)
	require.NoError(t, err)
	f.tasks.Wait()

	f.clock.Advance(9 * time.Second)
	_, err = f.cache.Fetch(ctx, url, remote.FormatText)
	require.NoError(t, err)
	assert.Equal(t, 1, f.upstream.Calls())

	f.clock.Advance(2 * time.Second)
	content, err := f.cache.Fetch(ctx, url, remote.FormatText)
	require.NoError(t, err)
	f.tasks.Wait()
	assert.Equal(t, "<a>Half-Life</a>", content.Text())
	assert.Equal(t, 2, f.upstream.Calls())
}

func TestResponseCacheBypassWithoutFormat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	for i := 0; i < 3; i++ {
		content, err := f.cache.Fetch(ctx, "https://cdn/scr.jpg", remote.FormatNone)
		require.NoError(t, err)
		assert.Equal(t, []byte("\xff\xd8"), content.Body)
	}
	f.tasks.Wait()

	assert.Equal(t, 3, f.upstream.Calls())
	assert.Zero(t, f.store.Len())
	assert.Equal(t, int64(3), f.metrics.Counter("cache_bypass", nil))
}

func TestResponseCacheDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	f.upstream.err = domain.ErrEmptyResult

	_, err := f.cache.Fetch(ctx, "https://store/app?id=10", remote.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	f.tasks.Wait()
	assert.Zero(t, f.store.Len())

	f.upstream.err = nil
	content, err := f.cache.Fetch(ctx, "https://store/app?id=10", remote.FormatJSON)
	require.NoError(t, err)
	assert.False(t, content.Empty())
	assert.Equal(t, 2, f.upstream.Calls())
}

func TestResponseCacheEmptyBodyIsEmptyResult(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.cache.Fetch(context.Background(), "https://store/unknown", remote.FormatText)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	f.tasks.Wait()
	assert.Zero(t, f.store.Len())
}

func TestResponseCacheCorruptJSONIsRefetched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	url := "https://store/app?id=10"
	require.NoError(t, f.store.Set(ctx, Fingerprint(url), []byte(`{"10":`), time.Minute))

	content, err := f.cache.Fetch(ctx, url, remote.FormatJSON)
	require.NoError(t, err)
	f.tasks.Wait()

	assert.JSONEq(t, `{"10":{"success":true,"data":{"name":"Half-Life"}}}`, content.Text())
	assert.Equal(t, 1, f.upstream.Calls())
}

func TestResponseCacheWritebackFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	m := metrics.NewInMemoryMetrics()
	sup := tasks.NewSupervisor(logger, m, time.Second)
	upstream := &stubUpstream{body: map[string]string{"https://store/x": "payload"}}
	c := NewResponseCache(upstream, failingStore{}, sup, m, logger, Config{})

	content, err := c.Fetch(context.Background(), "https://store/x", remote.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "payload", content.Text())
	sup.Wait()

	assert.Equal(t, int64(1), m.Counter("cache_writeback_failures", nil))
	assert.Equal(t, 1, logs.FilterMessage("Background task failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Cache get failed").Len())
}

func TestResponseCacheSingleFlight(t *testing.T) {
	f := newFixture(t, Config{SingleFlight: true})
	f.upstream.release = make(chan struct{})
	url := "https://store/search?term=half"

	const callers = 8
	var ready, done sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		ready.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			ready.Done()
			content, err := f.cache.Fetch(context.Background(), url, remote.FormatText)
			results[i], errs[i] = content.Text(), err
		}(i)
	}
	ready.Wait()
	require.Eventually(t, func() bool { return f.upstream.Calls() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(f.upstream.release)
	done.Wait()
	f.tasks.Wait()

	assert.Equal(t, 1, f.upstream.Calls())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "<a>Half-Life</a>", results[i])
	}
}

func TestResponseCacheSingleFlightHonoursCallerCancellation(t *testing.T) {
	f := newFixture(t, Config{SingleFlight: true})
	f.upstream.release = make(chan struct{})
	defer close(f.upstream.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.cache.Fetch(ctx, "https://store/search?term=half", remote.FormatText)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}
