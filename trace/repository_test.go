package trace

import (
	"log/slog"
	"testing"
	"time"

	"transition-lab/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBatchRepository_StoreAndList(t *testing.T) {
	req := require.New(t)
	repo := NewBatchRepository(openTestDB(t), slog.Default())

	proposed := time.Now().Add(-120 * time.Millisecond)
	record := BatchRecord{
		ID:       uuid.New(),
		Outcome:  domain.PhaseDone.String(),
		Animated: true,
		Participants: []ParticipantRecord{
			{Key: "hero", Kind: domain.KindShare, Class: "slide-in"},
		},
		ProposedAt: proposed,
		FinishedAt: proposed.Add(120 * time.Millisecond),
	}

	req.NoError(repo.Store(record))

	records, err := repo.List(10)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal(record.ID, records[0].ID)
	req.Equal("done", records[0].Outcome)
	req.Equal("hero", records[0].Participants[0].Key)
	req.InDelta(120*time.Millisecond, records[0].LeadTime(), float64(time.Millisecond))
}

func TestBatchRepository_ListOrderedBySettleTime(t *testing.T) {
	req := require.New(t)
	repo := NewBatchRepository(openTestDB(t), slog.Default())

	base := time.Now()
	var ids []uuid.UUID
	// Stored out of order on purpose
	for _, offset := range []time.Duration{30 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond} {
		record := BatchRecord{
			ID:         uuid.New(),
			Outcome:    domain.PhaseDone.String(),
			FinishedAt: base.Add(offset),
		}
		ids = append(ids, record.ID)
		req.NoError(repo.Store(record))
	}

	records, err := repo.List(10)
	req.NoError(err)
	req.Len(records, 3)

	// Then records come back sorted by settle time thanks to the padded key
	req.Equal(ids[1], records[0].ID)
	req.Equal(ids[2], records[1].ID)
	req.Equal(ids[0], records[2].ID)
}

func TestBatchRepository_ListHonorsLimit(t *testing.T) {
	req := require.New(t)
	repo := NewBatchRepository(openTestDB(t), slog.Default())

	for i := 0; i < 5; i++ {
		req.NoError(repo.Store(BatchRecord{
			ID:         uuid.New(),
			Outcome:    domain.PhaseAborted.String(),
			FinishedAt: time.Now(),
		}))
	}

	records, err := repo.List(2)
	req.NoError(err)
	req.Len(records, 2)
}
