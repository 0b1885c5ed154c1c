package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) CacheEvent(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[outcome]++
}

func (r *countingRecorder) get(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[outcome]
}

func TestFetchConcurrentReadsShareOneCall(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(_ context.Context, target string) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return []byte(`{"docs":[]}`), nil
	}

	clock := newFakeClock()
	rec := &countingRecorder{}
	c := New(fetch, WithClock(clock.Now), WithRecorder(rec))

	const readers = 20
	var wg sync.WaitGroup
	results := make([]string, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := c.Fetch(context.Background(), "/api/tags?depth=1")
			results[i] = string(data)
			errs[i] = err
		}(i)
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, `{"docs":[]}`, results[i])
	}
	assert.Equal(t, 1, rec.get(OutcomeMiss))
	assert.Equal(t, readers-1, rec.get(OutcomeShared)+rec.get(OutcomeHit))
}

func TestFetchExpiry(t *testing.T) {
	var calls atomic.Int32
	fetch := func(_ context.Context, _ string) ([]byte, error) {
		n := calls.Add(1)
		return []byte(fmt.Sprintf("v%d", n)), nil
	}

	clock := newFakeClock()
	c := New(fetch, WithClock(clock.Now))
	ctx := context.Background()

	data, err := c.Fetch(ctx, "/api/plans")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	clock.Advance(DefaultTTL - time.Second)
	data, err = c.Fetch(ctx, "/api/plans")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Second)
	data, err = c.Fetch(ctx, "/api/plans")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, int32(2), calls.Load())

	data, err = c.Fetch(ctx, "/api/plans")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchCustomTTL(t *testing.T) {
	var calls atomic.Int32
	fetch := func(_ context.Context, _ string) ([]byte, error) {
		calls.Add(1)
		return []byte("x"), nil
	}

	clock := newFakeClock()
	c := New(fetch, WithClock(clock.Now), WithTTL(time.Minute))

	_, err := c.Fetch(context.Background(), "/a")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = c.Fetch(context.Background(), "/a")
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchFailureIsNotCached(t *testing.T) {
	errUpstream := errors.New("upstream down")
	var calls atomic.Int32
	fetch := func(_ context.Context, _ string) ([]byte, error) {
		if calls.Add(1) == 1 {
			return nil, errUpstream
		}
		return []byte("ok"), nil
	}

	rec := &countingRecorder{}
	c := New(fetch, WithClock(newFakeClock().Now), WithRecorder(rec))

	_, err := c.Fetch(context.Background(), "/api/articles")
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, 0, c.Len())

	data, err := c.Fetch(context.Background(), "/api/articles")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1, rec.get(OutcomeError))
	assert.Equal(t, 1, rec.get(OutcomeMiss))
}

func TestFetchKeysIncludeQuery(t *testing.T) {
	var targets []string
	var mu sync.Mutex
	fetch := func(_ context.Context, target string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		targets = append(targets, target)
		return []byte(target), nil
	}

	c := New(fetch, WithOrigin("https://cms.example.com/"))
	ctx := context.Background()

	_, err := c.Fetch(ctx, "api/tags?page=1")
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "  /api/tags?page=1 ")
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "/api/tags?page=2")
	require.NoError(t, err)
	_, err = c.Fetch(ctx, "https://other.example.com/api/tags")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cms.example.com/api/tags?page=1",
		"https://cms.example.com/api/tags?page=2",
		"https://other.example.com/api/tags",
	}, targets)
	assert.Equal(t, 3, c.Len())
}

func TestFetchSurvivesCanceledLeader(t *testing.T) {
	fetch := func(ctx context.Context, _ string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte("ok"), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := New(fetch).Fetch(ctx, "/api/categories")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/api/tags", want: "/api/tags"},
		{in: "api/tags", want: "/api/tags"},
		{in: "  /api/tags?x=1  ", want: "/api/tags?x=1"},
		{in: "https://cms.example.com/api", want: "https://cms.example.com/api"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
