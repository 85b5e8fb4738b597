package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
)

var _ contract.HostPrimitive = (*ViewHost)(nil)

// ViewHost simulates the platform transition primitive: every transition is
// "played" for a fixed duration on a timer.
type ViewHost struct {
	log      *slog.Logger
	duration time.Duration
}

func NewViewHost(log *slog.Logger, duration time.Duration) *ViewHost {
	return &ViewHost{log: log, duration: duration}
}

func (h *ViewHost) Supported() bool { return true }

func (h *ViewHost) BeginTransition(ctx context.Context, pairs []domain.SnapshotPair) (contract.TransitionHandle, error) {
	handle := newViewHandle()
	go func() {
		close(handle.ready)
		h.log.Debug(fmt.Sprintf("Playing transition with %d pair(s)", len(pairs)))
		select {
		case <-time.After(h.duration):
			handle.finished <- nil
		case <-ctx.Done():
			handle.finished <- ctx.Err()
		case <-handle.skip:
			handle.finished <- context.Canceled
		}
	}()
	return handle, nil
}

type viewHandle struct {
	ready    chan struct{}
	finished chan error
	skip     chan struct{}
	once     sync.Once
}

func newViewHandle() *viewHandle {
	return &viewHandle{
		ready:    make(chan struct{}),
		finished: make(chan error, 1),
		skip:     make(chan struct{}),
	}
}

func (h *viewHandle) Ready() <-chan struct{} { return h.ready }
func (h *viewHandle) Finished() <-chan error { return h.finished }
func (h *viewHandle) Skip()                  { h.once.Do(func() { close(h.skip) }) }
