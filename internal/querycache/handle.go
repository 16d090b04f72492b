package querycache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// State is the observable status of a request.
type State struct {
	Data      json.RawMessage
	IsLoading bool
	Err       error
}

// Empty reports whether the state carries no data.
func (s State) Empty() bool {
	d := bytes.TrimSpace(s.Data)
	return len(d) == 0 || bytes.Equal(d, []byte("null")) || bytes.Equal(d, []byte("[]"))
}

// Handle tracks one mounted request.
type Handle struct {
	key string

	mu      sync.Mutex
	state   State
	mounted bool
	settled bool
	done    chan struct{}
	stop    func() bool
}

func newHandle() *Handle {
	return &Handle{
		mounted: true,
		done:    make(chan struct{}),
	}
}

// Key returns the cache key of the request.
func (h *Handle) Key() string { return h.key }

// State returns the current state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Done is closed once the state has settled or the handle is unmounted.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Mounted reports whether the handle still accepts updates.
func (h *Handle) Mounted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounted
}

// Close unmounts the handle. Later results are discarded.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.mounted {
		return
	}
	h.mounted = false
	if !h.settled {
		close(h.done)
	}
}

// Wait blocks until the state settles. It returns ErrUnmounted if the
// handle was closed first, or ctx's error if ctx ends first.
func (h *Handle) Wait(ctx context.Context) (State, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return h.State(), ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.settled {
		if err := ctx.Err(); err != nil {
			return h.state, err
		}
		return h.state, ErrUnmounted
	}
	return h.state, nil
}

func (h *Handle) begin(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// settle applies the final state unless the handle was unmounted.
func (h *Handle) settle(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stop != nil {
		h.stop()
	}
	if !h.mounted || h.settled {
		return
	}
	s.IsLoading = false
	h.state = s
	h.settled = true
	close(h.done)
}

// Decode unmarshals settled data into a T. ok is false when there is no data.
func Decode[T any](s State) (v T, ok bool, err error) {
	if s.Empty() {
		return v, false, nil
	}
	if err := json.Unmarshal(s.Data, &v); err != nil {
		return v, false, fmt.Errorf("decoding query result: %w", err)
	}
	return v, true, nil
}
