//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"transition-lab/domain"
	"transition-lab/domain/event"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// HostPrimitive is the platform's capture-old-state/apply-new-state/animate
// mechanism (the browser View Transitions API or an equivalent).
type HostPrimitive interface {
	Supported() bool
	BeginTransition(ctx context.Context, pairs []domain.SnapshotPair) (TransitionHandle, error)
}

// TransitionHandle tracks one running host transition. Ready closes when the
// host has applied the new state and started animating; Finished delivers the
// terminal result exactly once. Skip cancels whatever is still running.
type TransitionHandle interface {
	Ready() <-chan struct{}
	Finished() <-chan error
	Skip()
}

// SnapshotSource captures the rendered visual state of an element.
type SnapshotSource interface {
	Capture(ctx context.Context, el domain.Element) (domain.Snapshot, error)
}

type IRegistry interface {
	Register(p *domain.Participant) error
	Unregister(p *domain.Participant)
	Lookup(name string) (*domain.Participant, bool)
	Reset()
}

// BatchHandle is the caller's view of a proposed batch.
type BatchHandle interface {
	ID() uuid.UUID
	Phase() domain.Phase
	Done() <-chan struct{}
	Err() error
}

type IScheduler interface {
	Propose(ctx context.Context, m domain.Mutation) (BatchHandle, error)
}

// BatchSink consumes batch lifecycle events fanned out by the coordinator.
type BatchSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}
