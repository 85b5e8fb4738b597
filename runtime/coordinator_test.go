package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/observability"
	"transition-lab/runtime/workers"

	"github.com/stretchr/testify/require"
)

// fakeHost plays every transition instantly.
type fakeHost struct{}

func (fakeHost) Supported() bool { return true }

func (fakeHost) BeginTransition(context.Context, []domain.SnapshotPair) (contract.TransitionHandle, error) {
	finished := make(chan error, 1)
	finished <- nil
	ready := make(chan struct{})
	close(ready)
	return fakeHandle{ready: ready, finished: finished}, nil
}

type fakeHandle struct {
	ready    chan struct{}
	finished chan error
}

func (h fakeHandle) Ready() <-chan struct{} { return h.ready }
func (h fakeHandle) Finished() <-chan error { return h.finished }
func (h fakeHandle) Skip()                  {}

// staticSource captures a constant snapshot for any element.
type staticSource struct{}

func (staticSource) Capture(_ context.Context, el domain.Element) (domain.Snapshot, error) {
	return domain.Snapshot{Bounds: domain.Rect{Width: 100, Height: 80}, At: time.Now()}, nil
}

func testSettings() Settings {
	return Settings{
		NumAnimators:         2,
		BufferSize:           16,
		SinkTimeout:          100 * time.Millisecond,
		CaptureTimeout:       100 * time.Millisecond,
		MetricInterval:       10 * time.Millisecond,
		HealthInterval:       time.Hour,
		LatencyThreshold:     time.Second,
		LowCapacityThreshold: 1,
		TimelineLimit:        10,
	}
}

func TestCoordinator_EndToEnd(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	sup := workers.NewSupervisor(log, 100*time.Millisecond)
	monitoring := observability.NewMonitoringManager(log)
	coordinator := NewCoordinator(log, sup, NewRegistry(), fakeHost{}, staticSource{}, monitoring, testSettings())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req.NoError(coordinator.Start(ctx))
	defer coordinator.Stop()

	// When an enter batch runs through the whole pipeline
	p := &domain.Participant{Identity: "card-1", Name: "hero", Element: &testElement{id: "card-1"}}
	h, err := coordinator.Propose(ctx, domain.Mutation{
		NonBlocking: true,
		Events: []domain.TreeEvent{
			{Type: domain.Mount, Participant: p, New: domain.TreePosition{Path: "root/list", Index: 0}, DOMAdjacent: true},
		},
	})
	req.NoError(err)

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		req.Fail("Batch should have settled")
	}
	req.Equal(domain.PhaseDone, h.Phase())
	req.NoError(h.Err())

	// Then the settled batch reaches the timeline through the fanout
	req.Eventually(func() bool {
		return len(coordinator.Timeline().Entries()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := coordinator.Timeline().Entries()[0]
	req.Equal(h.ID(), entry.ID)
	req.True(entry.Animated)
	req.Equal(domain.KindEnter, entry.Kinds["hero"])

	// And monitoring counted the batch
	req.Eventually(func() bool {
		stats := monitoring.GetLatest()
		return stats.BatchesProposed == 1 && stats.AnimationsPlayed == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCoordinator_DisjointBatchesAnimateConcurrently(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	sup := workers.NewSupervisor(log, 100*time.Millisecond)
	monitoring := observability.NewMonitoringManager(log)
	coordinator := NewCoordinator(log, sup, NewRegistry(), fakeHost{}, staticSource{}, monitoring, testSettings())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req.NoError(coordinator.Start(ctx))
	defer coordinator.Stop()

	// When two batches over disjoint participants are proposed back to back
	var handles []contract.BatchHandle
	for _, id := range []string{"card-a", "card-b"} {
		p := &domain.Participant{Identity: id, Element: &testElement{id: id}}
		h, err := coordinator.Propose(ctx, domain.Mutation{
			NonBlocking: true,
			Events: []domain.TreeEvent{
				{Type: domain.Mount, Participant: p, New: domain.TreePosition{Path: "root/" + id, Index: 0}, DOMAdjacent: true},
			},
		})
		req.NoError(err)
		handles = append(handles, h)
	}

	// Then neither supersedes the other and both settle done
	for _, h := range handles {
		select {
		case <-h.Done():
		case <-time.After(2 * time.Second):
			req.Fail("Batch should have settled")
		}
		req.Equal(domain.PhaseDone, h.Phase())
		req.NoError(h.Err())
	}
}

func TestCoordinator_RejectsZeroAnimators(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	settings := testSettings()
	settings.NumAnimators = 0
	coordinator := NewCoordinator(log, workers.NewSupervisor(log, time.Second), NewRegistry(),
		fakeHost{}, staticSource{}, observability.NewMonitoringManager(log), settings)

	req.Error(coordinator.Start(context.Background()))
}
