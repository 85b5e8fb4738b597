package trace_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"transition-lab/domain"
	"transition-lab/domain/event"
	"transition-lab/mocks"
	"transition-lab/trace"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDiskSink_PersistsSettledBatches(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repository := mocks.NewMockIBatchRepository(ctrl)
	sink := trace.NewDiskSink(repository, slog.Default())

	evt := event.BatchSettled{
		ID:       uuid.New(),
		Phase:    domain.PhaseDone,
		Animated: true,
		Participants: []event.ParticipantResult{
			{Key: "hero", Kind: domain.KindShare, Style: domain.StyleDescriptor{Class: "morph"}},
		},
		ProposedAt: time.Now().Add(-50 * time.Millisecond),
		At:         time.Now(),
	}

	// Then the settled event is stored in its persisted form
	repository.EXPECT().Store(gomock.Any()).DoAndReturn(
		func(record trace.BatchRecord) error {
			req.Equal(evt.ID, record.ID)
			req.Equal("done", record.Outcome)
			req.True(record.Animated)
			req.Len(record.Participants, 1)
			req.Equal("morph", record.Participants[0].Class)
			return nil
		}).Times(1)

	req.NoError(sink.Consume(context.Background(), evt))
}

func TestDiskSink_IgnoresOtherEvents(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Store expectation: nothing but settled batches gets persisted
	repository := mocks.NewMockIBatchRepository(ctrl)
	sink := trace.NewDiskSink(repository, slog.Default())

	req.NoError(sink.Consume(context.Background(), event.BatchProposed{ID: uuid.New()}))
	req.NoError(sink.Consume(context.Background(), event.PhaseChanged{ID: uuid.New()}))
}
