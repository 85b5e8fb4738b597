package event

import (
	"time"

	"transition-lab/domain"

	"github.com/google/uuid"
)

// DomainEvent is a batch lifecycle notification fanned out to sinks.
type DomainEvent interface {
	BatchID() uuid.UUID
}

type BatchProposed struct {
	ID           uuid.UUID
	Participants int
	At           time.Time
}

func (e BatchProposed) BatchID() uuid.UUID { return e.ID }

type PhaseChanged struct {
	ID   uuid.UUID
	From domain.Phase
	To   domain.Phase
	At   time.Time
}

func (e PhaseChanged) BatchID() uuid.UUID { return e.ID }

// ParticipantResult is the settled outcome for one participant of a batch.
type ParticipantResult struct {
	Key    string
	Kind   domain.Kind
	Style  domain.StyleDescriptor
	Before *domain.Snapshot
	After  *domain.Snapshot
}

// BatchSettled is emitted once per batch, when it reaches PhaseDone or
// PhaseAborted. Animated is false when the host primitive was unavailable
// or the batch carried nothing to animate.
type BatchSettled struct {
	ID           uuid.UUID
	Phase        domain.Phase
	Animated     bool
	Participants []ParticipantResult
	ProposedAt   time.Time
	At           time.Time
}

func (e BatchSettled) BatchID() uuid.UUID { return e.ID }

// NameConflictDetected is emitted when a second live participant claims an
// already-held name. The conflicting registration was rejected; the batch
// carrying it proceeds without that participant.
type NameConflictDetected struct {
	ID   uuid.UUID
	Name string
	At   time.Time
}

func (e NameConflictDetected) BatchID() uuid.UUID { return e.ID }

// ChannelCapacity reports the fill level of an internal channel.
// Useful for observability, detecting backpressure, and avoiding drops.
type ChannelCapacity struct {
	ID          uuid.UUID
	ChannelName string
	Capacity    int
	Length      int
}

func (e ChannelCapacity) BatchID() uuid.UUID { return e.ID }
