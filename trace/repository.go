//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_trace_repository.go -package=mocks
package trace

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "batch:"

type IBatchRepository interface {
	Store(record BatchRecord) error
	List(limit int) ([]BatchRecord, error)
}

// BatchRepository persists batch traces in BadgerDB for post-hoc inspection.
type BatchRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBatchRepository(db *badger.DB, log *slog.Logger) BatchRepository {
	return BatchRepository{db: db, log: log}
}

// Store persists a settled batch.
// The key is formatted as "batch:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the batch UUID as a collision disconnector
//     if two batches settle at the same nanosecond.
func (r BatchRepository) Store(record BatchRecord) error {
	key := fmt.Sprintf("%s%019d:%s",
		keyPrefix,
		record.FinishedAt.UnixNano(),
		record.ID,
	)
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// List retrieves up to limit traces using a prefix scan. Thanks to the
// padded timestamp in the key, records come back naturally sorted by
// settle time.
func (r BatchRepository) List(limit int) ([]BatchRecord, error) {
	var records []BatchRecord
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			err := it.Item().Value(func(v []byte) error {
				var record BatchRecord
				if err := json.Unmarshal(v, &record); err != nil {
					// A corrupt entry should not hide the rest of the log.
					r.log.Warn("Skipping unreadable trace", "key", string(it.Item().Key()), "error", err)
					return nil
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}
