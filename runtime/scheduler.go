package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/domain/event"
	"transition-lab/errors"

	"github.com/google/uuid"
)

var _ contract.IScheduler = (*Scheduler)(nil)

// Scheduler coordinates batch lifecycles with the host's update model. It
// holds its lock through the synchronous phases (SnapshotBefore, Committing,
// SnapshotAfter), which gives the strict phase ordering for free and
// linearizes registry mutations with phase transitions. Only the Animating
// phase runs outside the lock, on the animator workers, so further UI
// mutations are never blocked by a running animation.
type Scheduler struct {
	mu          sync.Mutex
	log         *slog.Logger
	registry    contract.IRegistry
	classifier  *Classifier
	snapshotter *Snapshotter
	styles      StyleResolver
	host        contract.HostPrimitive
	inflight    map[uuid.UUID]*BatchHandle
	animations  chan *BatchHandle
	emit        func(e event.DomainEvent)
}

func NewScheduler(
	log *slog.Logger,
	registry contract.IRegistry,
	classifier *Classifier,
	snapshotter *Snapshotter,
	host contract.HostPrimitive,
	animations chan *BatchHandle,
	emit func(e event.DomainEvent)) *Scheduler {
	if emit == nil {
		emit = func(event.DomainEvent) {}
	}
	return &Scheduler{
		log:         log,
		registry:    registry,
		classifier:  classifier,
		snapshotter: snapshotter,
		host:        host,
		inflight:    make(map[uuid.UUID]*BatchHandle),
		animations:  animations,
		emit:        emit,
	}
}

// Propose runs one mutation through the transition protocol. Blocking
// mutations commit with no animation. Non-blocking ones are classified,
// snapshotted around the commit, and handed to the animators; a batch
// overlapping an in-flight one supersedes it.
//
// The returned handle is already settled for blocking or animation-free
// batches. Errors from the commit step are returned after the batch aborts;
// the registry and committed tree state are left as the commit outcome
// dictates.
func (s *Scheduler) Propose(ctx context.Context, m domain.Mutation) (contract.BatchHandle, error) {
	if !m.NonBlocking {
		return s.proposeBlocking(ctx, m)
	}

	s.mu.Lock()

	s.markUnmounting(m.Events)
	participants := s.classifier.Classify(m.Events)

	batch := domain.NewBatch(participants)
	h := newBatchHandle(batch, s.emit)
	s.registerMounts(m.Events, participants, batch.ID)

	if len(participants) == 0 {
		// Nothing transition-eligible: plain commit.
		err := s.commitLocked(ctx, m, h)
		s.mu.Unlock()
		return h, err
	}

	s.emit(event.BatchProposed{ID: batch.ID, Participants: len(participants), At: batch.ProposedAt})
	s.supersedeOverlapping(batch)

	h.setPhase(domain.PhaseSnapshotBefore)
	s.snapshotter.CaptureBefore(ctx, batch)

	if err := s.commitLocked(ctx, m, h); err != nil {
		s.mu.Unlock()
		return h, err
	}

	h.setPhase(domain.PhaseSnapshotAfter)
	s.snapshotter.CaptureAfter(ctx, batch)

	for _, bp := range batch.Participants {
		bp.Style = s.styles.Resolve(bp.Participant, bp.Kind)
	}

	if len(batch.Pairs()) == 0 || !s.host.Supported() {
		// Animation is a progressive enhancement: the commit stands and
		// callbacks fire immediately post-commit.
		h.complete(domain.PhaseDone, false, nil)
		s.mu.Unlock()
		s.fireCallbacks(batch)
		return h, nil
	}

	h.setPhase(domain.PhaseAnimating)
	s.inflight[batch.ID] = h
	select {
	case s.animations <- h:
		s.emit(event.ChannelCapacity{
			ID:          batch.ID,
			ChannelName: "animations",
			Capacity:    cap(s.animations),
			Length:      len(s.animations),
		})
		s.mu.Unlock()
	case <-ctx.Done():
		delete(s.inflight, batch.ID)
		h.cancel()
		h.complete(domain.PhaseAborted, false, ctx.Err())
		s.mu.Unlock()
	default:
		// Queue full: skip the animation rather than block the UI timeline.
		s.log.Warn("Animation queue full, batch settles without animation", "batch_id", batch.ID)
		delete(s.inflight, batch.ID)
		h.complete(domain.PhaseDone, false, nil)
		s.mu.Unlock()
		s.fireCallbacks(batch)
	}
	return h, nil
}

// proposeBlocking commits a synchronous mutation with no snapshots, no
// animation, and no callbacks. Registry and committed tree state still
// advance so later classification stays correct.
func (s *Scheduler) proposeBlocking(ctx context.Context, m domain.Mutation) (contract.BatchHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markUnmounting(m.Events)

	h := newBatchHandle(domain.NewBatch(nil), s.emit)
	s.registerMounts(m.Events, nil, h.ID())
	return h, s.commitLocked(ctx, m, h)
}

// commitLocked runs the external commit step and, on success, promotes the
// classifier's tree state and settles participant lifecycles. The handle is
// completed here for batches that carry no animation work; animated batches
// keep going and this only runs their Committing phase.
func (s *Scheduler) commitLocked(ctx context.Context, m domain.Mutation, h *BatchHandle) error {
	h.setPhase(domain.PhaseCommitting)
	if m.Commit != nil {
		if err := m.Commit(ctx); err != nil {
			s.rollbackLifecycles(m.Events)
			h.cancel()
			h.complete(domain.PhaseAborted, false, err)
			return fmt.Errorf("%w: %v", errors.ErrCommitFailed, err)
		}
	}
	s.classifier.Promote(m.Events)
	s.settleLifecycles(m.Events)

	if len(h.batch.Participants) == 0 {
		h.complete(domain.PhaseDone, false, nil)
	}
	return nil
}

func (s *Scheduler) markUnmounting(events []domain.TreeEvent) {
	for _, e := range events {
		if e.Type == domain.Unmount && e.Participant != nil {
			e.Participant.State = domain.Unmounting
		}
	}
}

// registerMounts binds every mounting participant to the registry, atomically
// with the batch's phase transitions. A duplicate-name registration is
// reported loudly, its participant dropped from the batch, and the mutation
// proceeds: the end user sees no visual break, only a missing animation.
func (s *Scheduler) registerMounts(events []domain.TreeEvent, participants map[string]*domain.BatchParticipant, batchID uuid.UUID) {
	for _, e := range events {
		if e.Type != domain.Mount || e.Participant == nil {
			continue
		}
		err := s.registry.Register(e.Participant)
		if err == nil {
			continue
		}
		if stderrors.Is(err, errors.ErrNameConflict) {
			s.log.Error("Duplicate participant name, transition skipped",
				"name", e.Participant.Name, "identity", e.Participant.Identity)
			s.emit(event.NameConflictDetected{ID: batchID, Name: e.Participant.Name, At: time.Now()})
		} else {
			s.log.Error("Participant rejected", "identity", e.Participant.Identity, "error", err)
		}
		// Under a name conflict the map key is the shared name and the entry
		// stored there belongs to the registrant that legitimately holds it.
		// Drop only the rejected participant's own entry.
		if bp, ok := participants[e.Participant.Key()]; ok && bp.Participant == e.Participant {
			delete(participants, e.Participant.Key())
		}
	}
}

// rollbackLifecycles undoes the registry effects of a batch whose commit
// failed: mounts registered for it release their names, unmount participants
// stay live and get their names back if a handover took them. The committed
// tree state was never promoted, so registry and classifier agree again.
func (s *Scheduler) rollbackLifecycles(events []domain.TreeEvent) {
	for _, e := range events {
		if e.Type == domain.Mount && e.Participant != nil {
			s.registry.Unregister(e.Participant)
		}
	}
	for _, e := range events {
		if e.Type != domain.Unmount || e.Participant == nil {
			continue
		}
		if e.Participant.Name != "" {
			if err := s.registry.Register(e.Participant); err != nil {
				s.log.Error("Rollback could not restore participant",
					"name", e.Participant.Name, "error", err)
			}
		}
		e.Participant.State = domain.Mounted
	}
}

// settleLifecycles runs after a successful commit: unmounted participants
// release their names, everything else lands on Mounted.
func (s *Scheduler) settleLifecycles(events []domain.TreeEvent) {
	for _, e := range events {
		if e.Participant == nil {
			continue
		}
		switch e.Type {
		case domain.Unmount:
			s.registry.Unregister(e.Participant)
		default:
			e.Participant.State = domain.Mounted
		}
	}
}

// supersedeOverlapping aborts every in-flight batch sharing a participant
// with the new one. Aborted batches skip their callbacks and leave no
// partial animation: cancelling the handle context makes the animator skip
// the host transition.
func (s *Scheduler) supersedeOverlapping(batch *domain.Batch) {
	keys := batch.Keys()
	for id, inflight := range s.inflight {
		if !inflight.batch.Overlaps(keys) {
			continue
		}
		s.log.Debug("Superseding in-flight batch", "old", id, "new", batch.ID)
		inflight.cancel()
		inflight.complete(domain.PhaseAborted, false, errors.ErrBatchSuperseded)
		delete(s.inflight, id)
	}
}

// finish settles an animated batch from an animator worker. Callbacks fire
// outside the scheduler lock.
func (s *Scheduler) finish(h *BatchHandle, animated bool) {
	s.mu.Lock()
	delete(s.inflight, h.batch.ID)
	settledNow := h.complete(domain.PhaseDone, animated, nil)
	s.mu.Unlock()

	if settledNow {
		s.fireCallbacks(h.batch)
	}
}

// abort settles a batch without firing callbacks, typically on shutdown.
func (s *Scheduler) abort(h *BatchHandle, err error) {
	s.mu.Lock()
	delete(s.inflight, h.batch.ID)
	h.cancel()
	h.complete(domain.PhaseAborted, false, err)
	s.mu.Unlock()
}

func (s *Scheduler) fireCallbacks(batch *domain.Batch) {
	for _, bp := range batch.Participants {
		cb, ok := bp.Participant.Callback(bp.Kind)
		if !ok {
			continue
		}
		cb(bp.Participant.Element, domain.NewKindSet(bp.Kind))
	}
}
