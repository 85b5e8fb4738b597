package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
)

// Snapshotter runs the two-phase capture protocol of a batch: the before
// captures complete strictly before the mutation commits, the after captures
// start strictly after. A failed capture never fails the batch; the
// participant simply ends up with nothing to animate on that side.
type Snapshotter struct {
	log            *slog.Logger
	source         contract.SnapshotSource
	captureTimeout time.Duration
}

func NewSnapshotter(log *slog.Logger, source contract.SnapshotSource, captureTimeout time.Duration) *Snapshotter {
	return &Snapshotter{log: log, source: source, captureTimeout: captureTimeout}
}

// CaptureBefore captures the pre-mutation state of every participant that has
// a before counterpart. Enter participants are skipped: they do not exist
// yet. Share participants capture the element previously holding the name.
func (s *Snapshotter) CaptureBefore(ctx context.Context, batch *domain.Batch) {
	for key, bp := range batch.Participants {
		if bp.Kind == domain.KindEnter {
			continue
		}
		el := bp.Participant.Element
		if bp.Kind == domain.KindShare && bp.PriorElement != nil {
			el = bp.PriorElement
		}
		snap, err := s.capture(ctx, key, el)
		if err != nil {
			s.log.Warn("Before capture failed, no old state for participant", "key", key, "error", err)
			continue
		}
		bp.Before = &snap
	}
}

// CaptureAfter captures the post-mutation state. Exit participants are
// skipped: they are gone from the new tree.
func (s *Snapshotter) CaptureAfter(ctx context.Context, batch *domain.Batch) {
	for key, bp := range batch.Participants {
		if bp.Kind == domain.KindExit {
			continue
		}
		snap, err := s.capture(ctx, key, bp.Participant.Element)
		if err != nil {
			s.log.Warn("After capture failed, no new state for participant", "key", key, "error", err)
			continue
		}
		bp.After = &snap
	}
}

func (s *Snapshotter) capture(ctx context.Context, key string, el domain.Element) (domain.Snapshot, error) {
	if el == nil {
		return domain.Snapshot{}, fmt.Errorf("no element handle for %s", key)
	}

	captureCtx := ctx
	if s.captureTimeout > 0 {
		var cancel context.CancelFunc
		captureCtx, cancel = context.WithTimeout(ctx, s.captureTimeout)
		defer cancel()
	}

	snap, err := s.source.Capture(captureCtx, el)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Key = key
	if snap.At.IsZero() {
		snap.At = time.Now()
	}
	return snap, nil
}
