// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/faqmatch/core"
	"github.com/poiesic/faqmatch/storage"
)

// FAQRepository implements storage.FAQRepository for BadgerDB.
type FAQRepository struct {
	backend *Backend
	posSeq  *badger.Sequence
}

var _ storage.FAQRepository = (*FAQRepository)(nil)

// NewFAQRepository creates a new FAQRepository.
func NewFAQRepository(backend *Backend) (*FAQRepository, error) {
	posSeq, err := backend.GetSequence(faqEntrySeq)
	if err != nil {
		return nil, err
	}

	return &FAQRepository{
		backend: backend,
		posSeq:  posSeq,
	}, nil
}

// Close releases the position sequence.
func (r *FAQRepository) Close() error {
	return r.posSeq.Release()
}

// AddEntries appends one or more entries to the stored corpus.
// IDs are derived from the canonical question so re-importing the same
// source yields identical IDs; positions come from a sequence so
// iteration order is insertion order.
func (r *FAQRepository) AddEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if err := core.ValidateEntry(entry); err != nil {
				return err
			}
			if err := r.writeEntry(tx, entry); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// ReplaceAll clears the stored corpus and adds the given entries in
// order, in a single transaction. Used for full refreshes from an
// upstream source.
func (r *FAQRepository) ReplaceAll(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error) {
	for _, entry := range entries {
		if err := core.ValidateEntry(entry); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, faqEntryPrefix+":"); err != nil {
			return err
		}
		if err := deletePrefix(tx, faqQuestionPrefix+":"); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := r.writeEntry(tx, entry); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entries, err
}

// ListEntries returns all entries in insertion order.
func (r *FAQRepository) ListEntries(ctx context.Context) ([]*core.Entry, error) {
	var results []*core.Entry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(faqEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.Entry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, entry)
		}
		return nil
	}, false)

	return results, err
}

// GetEntryByQuestion retrieves the entry whose question matches the
// given text, compared case and whitespace insensitively.
func (r *FAQRepository) GetEntryByQuestion(ctx context.Context, question string) (*core.Entry, error) {
	var result *core.Entry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeQuestionKey(question))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var pos uint64
		if err := item.Value(func(val []byte) error {
			pos = unmarshalPosition(val)
			return nil
		}); err != nil {
			return err
		}

		result, err = readEntry(tx, makeEntryKey(pos))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// CountEntries returns the number of stored entries.
func (r *FAQRepository) CountEntries(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(faqEntryPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// writeEntry assigns ID, position, and timestamps, then stores the
// record and its question index key. When two entries share a canonical
// question the first one keeps the index slot.
func (r *FAQRepository) writeEntry(tx *badger.Txn, entry *core.Entry) error {
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

	entry.Id = core.IDFromContent(entry.Key())
	entry.InsertedAt = time.Now().UTC()
	entry.UpdatedAt = entry.InsertedAt

	if err := tx.Set(makeEntryKey(pos), storage.MarshalEntry(entry)); err != nil {
		return err
	}

	qKey := makeQuestionKey(entry.Question)
	if _, err := tx.Get(qKey); err == badger.ErrKeyNotFound {
		return tx.Set(qKey, marshalPosition(pos))
	} else if err != nil {
		return err
	}
	return nil
}

// readEntry reads an FAQ entry from the transaction.
func readEntry(tx *badger.Txn, key []byte) (*core.Entry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.Entry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalEntry(val)
		return unmarshalErr
	})
	return entry, err
}

// deletePrefix removes every key carrying the given prefix.
func deletePrefix(tx *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
