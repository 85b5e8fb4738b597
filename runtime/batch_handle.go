package runtime

import (
	"context"
	"sync"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/domain/event"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ contract.BatchHandle = (*BatchHandle)(nil)

// BatchHandle tracks one batch through its phases. The embedded context is
// the animation lifetime: superseding the batch cancels it, which tells an
// animator mid-flight to skip the host transition.
type BatchHandle struct {
	batch  *domain.Batch
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	err      error
	settled  bool
	animated bool
	done     chan struct{}
	emit     func(e event.DomainEvent)
}

func newBatchHandle(batch *domain.Batch, emit func(e event.DomainEvent)) *BatchHandle {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchHandle{
		batch:  batch,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		emit:   emit,
	}
}

func (h *BatchHandle) ID() uuid.UUID { return h.batch.ID }

func (h *BatchHandle) Phase() domain.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.batch.Phase
}

// Done closes when the batch reaches PhaseDone or PhaseAborted.
func (h *BatchHandle) Done() <-chan struct{} { return h.done }

func (h *BatchHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *BatchHandle) setPhase(p domain.Phase) {
	h.mu.Lock()
	from := h.batch.Phase
	h.batch.Phase = p
	h.mu.Unlock()

	h.emit(event.PhaseChanged{ID: h.batch.ID, From: from, To: p, At: time.Now()})
}

func (h *BatchHandle) completed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settled
}

// complete moves the batch to its terminal phase exactly once and emits the
// settled event. Later calls are no-ops, so an abort racing a host completion
// is safe.
func (h *BatchHandle) complete(phase domain.Phase, animated bool, err error) bool {
	h.mu.Lock()
	if h.settled {
		h.mu.Unlock()
		return false
	}
	from := h.batch.Phase
	h.batch.Phase = phase
	h.batch.FinishedAt = time.Now()
	h.settled = true
	h.animated = animated
	h.err = err
	h.mu.Unlock()

	h.emit(event.PhaseChanged{ID: h.batch.ID, From: from, To: phase, At: h.batch.FinishedAt})
	h.emit(h.settledEvent(phase, animated))
	close(h.done)
	return true
}

func (h *BatchHandle) settledEvent(phase domain.Phase, animated bool) event.BatchSettled {
	results := lo.MapToSlice(h.batch.Participants, func(key string, bp *domain.BatchParticipant) event.ParticipantResult {
		return event.ParticipantResult{
			Key:    key,
			Kind:   bp.Kind,
			Style:  bp.Style,
			Before: bp.Before,
			After:  bp.After,
		}
	})
	return event.BatchSettled{
		ID:           h.batch.ID,
		Phase:        phase,
		Animated:     animated,
		Participants: results,
		ProposedAt:   h.batch.ProposedAt,
		At:           h.batch.FinishedAt,
	}
}
