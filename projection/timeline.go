// Package projection builds local timelines from observed events.
// Handles ordering and bounded retention.
// Does not emit events or interact with the host directly.
package projection

import (
	"context"
	"sync"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/domain/event"

	"github.com/google/uuid"
)

var _ contract.BatchSink = (*Timeline)(nil)

// Entry is one settled batch as seen by the timeline.
type Entry struct {
	ID         uuid.UUID
	Phase      domain.Phase
	Animated   bool
	Kinds      map[string]domain.Kind
	FinishedAt time.Time
}

// Timeline holds a bounded, ordered history of settled batches, for
// devtools-style consumption.
type Timeline struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

func NewTimeline(limit int) *Timeline {
	return &Timeline{limit: limit}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.BatchSettled)
	if !ok {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, fromEvent(evt))
	if t.limit > 0 && len(t.entries) > t.limit {
		t.entries = t.entries[len(t.entries)-t.limit:]
	}
	return nil
}

// Entries returns a copy of the retained history, oldest first.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := make([]Entry, len(t.entries))
	copy(res, t.entries)
	return res
}

func fromEvent(evt event.BatchSettled) Entry {
	kinds := make(map[string]domain.Kind, len(evt.Participants))
	for _, pr := range evt.Participants {
		kinds[pr.Key] = pr.Kind
	}
	return Entry{
		ID:         evt.ID,
		Phase:      evt.Phase,
		Animated:   evt.Animated,
		Kinds:      kinds,
		FinishedAt: evt.At,
	}
}
