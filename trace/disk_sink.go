package trace

import (
	"context"
	"fmt"
	"log/slog"

	"transition-lab/contract"
	"transition-lab/domain/event"
)

var _ contract.BatchSink = (*DiskSink)(nil)

// DiskSink persists every settled batch through the repository.
type DiskSink struct {
	repository IBatchRepository
	log        *slog.Logger
}

func NewDiskSink(repository IBatchRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

func (d DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.BatchSettled:
		return d.repository.Store(FromSettled(evt))
	default:
		d.log.Debug(fmt.Sprintf("Not persisted event : %T", evt))
		return nil
	}
}
