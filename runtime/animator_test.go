package runtime

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/errors"
	"transition-lab/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func proposeEnter(t *testing.T, s *Scheduler, identity string) (contract.BatchHandle, *domain.Participant) {
	t.Helper()
	p := &domain.Participant{Identity: identity, Element: &testElement{id: identity}}
	h, err := s.Propose(context.Background(), domain.Mutation{
		NonBlocking: true,
		Events:      []domain.TreeEvent{mountEvent(p, domain.TreePosition{Path: "root/list", Index: 0})},
	})
	require.NoError(t, err)
	return h, p
}

func TestAnimatorWorker_SettlesBatchOnHostCompletion(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	host := mocks.NewMockHostPrimitive(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	host.EXPECT().Supported().Return(true).AnyTimes()
	source.EXPECT().Capture(gomock.Any(), gomock.Any()).Return(domain.Snapshot{}, nil).AnyTimes()

	s, _, animations, rec := newTestScheduler(host, source, 4)

	// Given a host transition that becomes ready then finishes cleanly
	finished := make(chan error, 1)
	finished <- nil
	handle := mocks.NewMockTransitionHandle(ctrl)
	handle.EXPECT().Ready().Return(closedChan()).AnyTimes()
	handle.EXPECT().Finished().Return((<-chan error)(finished)).AnyTimes()
	host.EXPECT().BeginTransition(gomock.Any(), gomock.Any()).Return(handle, nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := NewAnimatorWorker(s.log, host, s, animations)
	go func() { _ = worker.Run(ctx) }()

	h, _ := proposeEnter(t, s, "card-1")

	// Then the batch settles animated
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		req.Fail("Batch should have settled")
	}
	req.Equal(domain.PhaseDone, h.Phase())
	settled, ok := rec.settled(h.ID())
	req.True(ok)
	req.True(settled.Animated)
}

func TestAnimatorWorker_SkipsHostTransitionWhenSuperseded(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	host := mocks.NewMockHostPrimitive(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	host.EXPECT().Supported().Return(true).AnyTimes()

	// Captures succeed for the first batch only: the superseding batch ends
	// up with nothing to animate and never reaches the queue.
	var failCaptures atomic.Bool
	source.EXPECT().Capture(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.Element) (domain.Snapshot, error) {
			if failCaptures.Load() {
				return domain.Snapshot{}, stderrors.New("layout not ready")
			}
			return domain.Snapshot{}, nil
		}).AnyTimes()

	// Given a host transition that never finishes on its own
	skipped := make(chan struct{})
	began := make(chan struct{})
	handle := mocks.NewMockTransitionHandle(ctrl)
	handle.EXPECT().Ready().Return(closedChan()).AnyTimes()
	handle.EXPECT().Finished().Return((<-chan error)(make(chan error))).AnyTimes()
	handle.EXPECT().Skip().Do(func() { close(skipped) }).Times(1)
	host.EXPECT().BeginTransition(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []domain.SnapshotPair) (contract.TransitionHandle, error) {
			close(began)
			return handle, nil
		}).Times(1)

	s, _, animations, _ := newTestScheduler(host, source, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := NewAnimatorWorker(s.log, host, s, animations)
	go func() { _ = worker.Run(ctx) }()

	h, p := proposeEnter(t, s, "card-1")
	<-began
	failCaptures.Store(true)

	// When an overlapping batch supersedes the animating one
	pos := domain.TreePosition{Path: "root/list", Index: 0}
	second, err := s.Propose(context.Background(), domain.Mutation{
		NonBlocking: true,
		Events: []domain.TreeEvent{{
			Type: domain.Reorder, Participant: p,
			Old: pos, New: domain.TreePosition{Path: "root/list", Index: 1},
			DOMAdjacent: true,
		}},
	})
	req.NoError(err)
	req.Equal(domain.PhaseDone, second.Phase())

	// Then the first batch aborted and the animator skipped the host work
	req.ErrorIs(h.Err(), errors.ErrBatchSuperseded)
	req.Equal(domain.PhaseAborted, h.Phase())
	select {
	case <-skipped:
	case <-time.After(time.Second):
		req.Fail("Animator should have skipped the host transition")
	}
}

func TestAnimatorWorker_BeginTransitionFailureIsNotFatal(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	host := mocks.NewMockHostPrimitive(ctrl)
	source := mocks.NewMockSnapshotSource(ctrl)
	host.EXPECT().Supported().Return(true).AnyTimes()
	source.EXPECT().Capture(gomock.Any(), gomock.Any()).Return(domain.Snapshot{}, nil).AnyTimes()
	host.EXPECT().BeginTransition(gomock.Any(), gomock.Any()).
		Return(nil, stderrors.New("host busy")).Times(1)

	s, _, animations, rec := newTestScheduler(host, source, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := NewAnimatorWorker(s.log, host, s, animations)
	go func() { _ = worker.Run(ctx) }()

	h, _ := proposeEnter(t, s, "card-1")

	// Then the commit stands and the batch settles without animation
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		req.Fail("Batch should have settled")
	}
	req.Equal(domain.PhaseDone, h.Phase())
	req.NoError(h.Err())
	settled, ok := rec.settled(h.ID())
	req.True(ok)
	req.False(settled.Animated)
}
