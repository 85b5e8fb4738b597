package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Phase int

const (
	PhaseProposed Phase = iota
	PhaseSnapshotBefore
	PhaseCommitting
	PhaseSnapshotAfter
	PhaseAnimating
	PhaseDone
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseProposed:
		return "proposed"
	case PhaseSnapshotBefore:
		return "snapshot-before"
	case PhaseCommitting:
		return "committing"
	case PhaseSnapshotAfter:
		return "snapshot-after"
	case PhaseAnimating:
		return "animating"
	case PhaseDone:
		return "done"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// BatchParticipant couples a participant with its classification for one
// batch. PriorElement is set for share transitions: the element previously
// mounted under the same name, used for the before capture and released on
// commit.
type BatchParticipant struct {
	Participant  *Participant
	Event        TreeEvent
	Kind         Kind
	PriorElement Element
	Before       *Snapshot
	After        *Snapshot
	Style        StyleDescriptor
}

// Batch is the transition lifecycle of one non-blocking UI update.
// Participants are keyed by Participant.Key().
type Batch struct {
	ID           uuid.UUID
	Phase        Phase
	Participants map[string]*BatchParticipant
	ProposedAt   time.Time
	FinishedAt   time.Time
}

func NewBatch(participants map[string]*BatchParticipant) *Batch {
	return &Batch{
		ID:           uuid.New(),
		Phase:        PhaseProposed,
		Participants: participants,
		ProposedAt:   time.Now(),
	}
}

// Keys returns the participant correlation keys touched by this batch.
func (b *Batch) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(b.Participants))
	for k := range b.Participants {
		keys[k] = struct{}{}
	}
	return keys
}

// Overlaps reports whether this batch touches any of the given keys.
func (b *Batch) Overlaps(keys map[string]struct{}) bool {
	for k := range b.Participants {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}

// Pairs assembles the snapshot tuples handed to the host primitive.
// Participants that ended up with neither a before nor an after capture are
// left out: there is nothing to animate for them.
func (b *Batch) Pairs() []SnapshotPair {
	all := lo.Values(b.Participants)
	captured := lo.Filter(all, func(bp *BatchParticipant, _ int) bool {
		return bp.Before != nil || bp.After != nil
	})
	return lo.Map(captured, func(bp *BatchParticipant, _ int) SnapshotPair {
		return SnapshotPair{
			Key:    bp.Participant.Key(),
			Kind:   bp.Kind,
			Before: bp.Before,
			After:  bp.After,
			Style:  bp.Style,
		}
	})
}
