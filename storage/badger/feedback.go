package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/storage"
)

// FeedbackRepository implements storage.FeedbackRepository for BadgerDB.
type FeedbackRepository struct {
	backend *Backend
	posSeq  *badger.Sequence
}

var _ storage.FeedbackRepository = (*FeedbackRepository)(nil)

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(backend *Backend) (*FeedbackRepository, error) {
	posSeq, err := backend.GetSequence(feedbackSeq)
	if err != nil {
		return nil, err
	}

	return &FeedbackRepository{
		backend: backend,
		posSeq:  posSeq,
	}, nil
}

// Close releases the position sequence.
func (r *FeedbackRepository) Close() error {
	return r.posSeq.Release()
}

// AddFeedback appends feedback records, assigning IDs and timestamps.
func (r *FeedbackRepository) AddFeedback(ctx context.Context, records ...*core.Feedback) ([]*core.Feedback, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := core.ValidateFeedback(record); err != nil {
				return err
			}

			pos, err := r.posSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if pos == 0 {
				pos, err = r.posSeq.Next()
				if err != nil {
					return err
				}
			}

			record.Id = core.IDFromContent(fmt.Sprintf("%s|%d", record.UserQuestion, pos))
			record.InsertedAt = time.Now().UTC()

			if err := tx.Set(makeFeedbackKey(pos), storage.MarshalFeedback(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// ListFeedback returns all feedback records in insertion order.
func (r *FeedbackRepository) ListFeedback(ctx context.Context) ([]*core.Feedback, error) {
	var results []*core.Feedback
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(feedbackPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.Feedback
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalFeedback(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)

	return results, err
}
