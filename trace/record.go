package trace

import (
	"time"

	"transition-lab/domain"
	"transition-lab/domain/event"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ParticipantRecord is the persisted outcome for one participant of a batch.
type ParticipantRecord struct {
	Key    string           `json:"key"`
	Kind   domain.Kind      `json:"kind"`
	Class  string           `json:"class"`
	Before *domain.Snapshot `json:"before,omitempty"`
	After  *domain.Snapshot `json:"after,omitempty"`
}

// BatchRecord is one settled batch as stored on disk.
type BatchRecord struct {
	ID           uuid.UUID           `json:"id"`
	Outcome      string              `json:"outcome"`
	Animated     bool                `json:"animated"`
	Participants []ParticipantRecord `json:"participants"`
	ProposedAt   time.Time           `json:"proposed_at"`
	FinishedAt   time.Time           `json:"finished_at"`
}

// LeadTime is the propose-to-settle duration of the batch.
func (r BatchRecord) LeadTime() time.Duration {
	return r.FinishedAt.Sub(r.ProposedAt)
}

// FromSettled converts a lifecycle event into its persisted form.
func FromSettled(evt event.BatchSettled) BatchRecord {
	return BatchRecord{
		ID:       evt.ID,
		Outcome:  evt.Phase.String(),
		Animated: evt.Animated,
		Participants: lo.Map(evt.Participants, func(pr event.ParticipantResult, _ int) ParticipantRecord {
			return ParticipantRecord{
				Key:    pr.Key,
				Kind:   pr.Kind,
				Class:  pr.Style.Class,
				Before: pr.Before,
				After:  pr.After,
			}
		}),
		ProposedAt: evt.ProposedAt,
		FinishedAt: evt.At,
	}
}
