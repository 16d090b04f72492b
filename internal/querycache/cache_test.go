package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher returns a per-call result and counts invocations.
// When gate is non-nil each call blocks until gate is closed.
type countingFetcher struct {
	calls  atomic.Int32
	gate   chan struct{}
	result func(n int32, params map[string]any) (json.RawMessage, error)
}

func (f *countingFetcher) Fetch(ctx context.Context, query string, params map[string]any) (json.RawMessage, error) {
	n := f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.result != nil {
		return f.result(n, params)
	}
	return json.RawMessage(`{"n":1}`), nil
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestKey(t *testing.T) {
	k, err := Key("Q1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Q1{}", k)

	k, err = Key("Q1", map[string]any{"slug": "youth", "limit": 3})
	require.NoError(t, err)
	assert.Equal(t, `Q1{"limit":3,"slug":"youth"}`, k)

	_, err = Key("Q1", map[string]any{"bad": func() {}})
	assert.Error(t, err)
}

func TestSameKeyFetchesOnce(t *testing.T) {
	f := &countingFetcher{}
	c := New(f)
	ctx := waitCtx(t)

	first, err := c.Get(ctx, "Q1", map[string]any{"a": 1})
	require.NoError(t, err)
	second, err := c.Get(ctx, "Q1", map[string]any{"a": 1})
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.calls.Load())
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, c.Len())
}

func TestChangedParamsFetchAgain(t *testing.T) {
	f := &countingFetcher{}
	c := New(f)
	ctx := waitCtx(t)

	_, err := c.Get(ctx, "Q1", map[string]any{"slug": "youth"})
	require.NoError(t, err)
	_, err = c.Get(ctx, "Q1", map[string]any{"slug": "worship"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, f.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestUnconfiguredSettlesImmediately(t *testing.T) {
	c := New(nil)
	assert.False(t, c.Configured())

	h := c.Use(context.Background(), "Q1", nil)

	select {
	case <-h.Done():
	default:
		t.Fatal("unconfigured handle should settle without waiting")
	}
	st := h.State()
	assert.False(t, st.IsLoading)
	assert.Nil(t, st.Data)
	assert.NoError(t, st.Err)
}

func TestFetchErrorKeepsPriorData(t *testing.T) {
	boom := errors.New("boom")
	f := &countingFetcher{result: func(n int32, _ map[string]any) (json.RawMessage, error) {
		if n == 1 {
			return json.RawMessage(`"first"`), nil
		}
		return nil, boom
	}}
	c := New(f)
	ctx := waitCtx(t)

	_, err := c.Get(ctx, "Q1", nil)
	require.NoError(t, err)

	st, err := c.Use(ctx, "Q1", nil, WithRefresh()).Wait(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, st.Err, boom)
	assert.JSONEq(t, `"first"`, string(st.Data))
	assert.False(t, st.IsLoading)

	cached, ok := c.Peek("Q1", nil)
	require.True(t, ok)
	assert.JSONEq(t, `"first"`, string(cached))
}

func TestFetchErrorWithoutPriorData(t *testing.T) {
	boom := errors.New("boom")
	f := &countingFetcher{result: func(int32, map[string]any) (json.RawMessage, error) { return nil, boom }}
	c := New(f)
	ctx := waitCtx(t)

	st, err := c.Use(ctx, "Q1", nil).Wait(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, st.Err, boom)
	assert.Nil(t, st.Data)

	_, ok := c.Peek("Q1", nil)
	assert.False(t, ok, "failed fetches are not cached")

	// No automatic retry: the next request performs its own single fetch.
	_, err = c.Get(ctx, "Q1", nil)
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestRefreshOverwritesEntry(t *testing.T) {
	f := &countingFetcher{result: func(n int32, _ map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{"n":` + string(rune('0'+n)) + `}`), nil
	}}
	c := New(f)
	ctx := waitCtx(t)

	first, err := c.Get(ctx, "Q1", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(first))

	refreshed, err := c.Get(ctx, "Q1", nil, WithRefresh())
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(refreshed))
	assert.EqualValues(t, 2, f.calls.Load())

	cached, ok := c.Peek("Q1", nil)
	require.True(t, ok)
	assert.JSONEq(t, `{"n":2}`, string(cached))
}

func TestUnmountDiscardsResult(t *testing.T) {
	f := &countingFetcher{gate: make(chan struct{})}
	c := New(f)

	mountCtx, unmount := context.WithCancel(context.Background())
	h := c.Use(mountCtx, "Q1", nil)
	assert.True(t, h.State().IsLoading)

	unmount()
	require.Eventually(t, func() bool { return !h.Mounted() }, time.Second, time.Millisecond)

	close(f.gate)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond,
		"fetch keeps running and fills the cache after unmount")

	st := h.State()
	assert.True(t, st.IsLoading, "state must not change after unmount")
	assert.Nil(t, st.Data)

	_, err := h.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrUnmounted)
}

func TestConcurrentMountsShareOneFetch(t *testing.T) {
	f := &countingFetcher{
		gate: make(chan struct{}),
		result: func(int32, map[string]any) (json.RawMessage, error) {
			return json.RawMessage(`["shared"]`), nil
		},
	}
	c := New(f)
	ctx := waitCtx(t)

	a := c.Use(ctx, "Q1", nil)
	b := c.Use(ctx, "Q1", nil)
	assert.True(t, a.State().IsLoading)
	assert.True(t, b.State().IsLoading)

	close(f.gate)

	stA, err := a.Wait(ctx)
	require.NoError(t, err)
	stB, err := b.Wait(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.calls.Load())
	assert.JSONEq(t, `["shared"]`, string(stA.Data))
	assert.JSONEq(t, string(stA.Data), string(stB.Data))
}

func TestManyGoroutinesSameKey(t *testing.T) {
	f := &countingFetcher{}
	c := New(f)
	ctx := waitCtx(t)

	// Fill once so the remaining requests are all hits.
	_, err := c.Get(ctx, "Q1", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(ctx, "Q1", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, f.calls.Load())
}

type recordingObserver struct {
	mu                        sync.Mutex
	hits, misses, errs, count int
}

func (r *recordingObserver) Hit()        { r.mu.Lock(); r.hits++; r.mu.Unlock() }
func (r *recordingObserver) Miss()       { r.mu.Lock(); r.misses++; r.mu.Unlock() }
func (r *recordingObserver) FetchError() { r.mu.Lock(); r.errs++; r.mu.Unlock() }
func (r *recordingObserver) Entries(n int) {
	r.mu.Lock()
	r.count = n
	r.mu.Unlock()
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	c := New(FetcherFunc(func(ctx context.Context, q string, _ map[string]any) (json.RawMessage, error) {
		if q == "bad" {
			return nil, errors.New("bad query")
		}
		return json.RawMessage(`1`), nil
	}), WithObserver(obs))
	ctx := waitCtx(t)

	c.Get(ctx, "Q1", nil)
	c.Get(ctx, "Q1", nil)
	c.Get(ctx, "bad", nil)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 2, obs.misses)
	assert.Equal(t, 1, obs.errs)
	assert.Equal(t, 1, obs.count)
}

func TestDecode(t *testing.T) {
	type item struct {
		Title string `json:"title"`
	}

	items, ok, err := Decode[[]item](State{Data: json.RawMessage(`[{"title":"a"}]`)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []item{{Title: "a"}}, items)

	for _, raw := range []string{"", "null", "[]", "  "} {
		_, ok, err := Decode[[]item](State{Data: json.RawMessage(raw)})
		assert.NoError(t, err)
		assert.False(t, ok, "%q should decode as empty", raw)
	}

	_, _, err = Decode[[]item](State{Data: json.RawMessage(`{"title":1}`)})
	assert.Error(t, err)
}
