package storage

import (
	"context"

	"github.com/poiesic/faqmatch/core"
)

// FAQRepository provides operations for managing FAQ entries.
// Implementations must be thread-safe and support concurrent access.
type FAQRepository interface {
	// AddEntries appends one or more entries to the corpus.
	// Assigns content-based IDs (IDFromContent of the question) and
	// sets InsertedAt/UpdatedAt timestamps.
	// Returns the entries with IDs and timestamps populated.
	AddEntries(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error)

	// ReplaceAll clears the stored corpus and adds the given entries
	// in order, in a single transaction. Used for periodic full-corpus
	// refreshes from an upstream source.
	ReplaceAll(ctx context.Context, entries ...*core.Entry) ([]*core.Entry, error)

	// ListEntries returns all entries in insertion order.
	ListEntries(ctx context.Context) ([]*core.Entry, error)

	// GetEntryByQuestion retrieves the entry whose question matches
	// exactly (case and whitespace insensitive).
	// Returns ErrNotFound if no such entry exists.
	GetEntryByQuestion(ctx context.Context, question string) (*core.Entry, error)

	// CountEntries returns the number of stored entries.
	CountEntries(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// FeedbackRepository provides operations for recording user feedback on
// returned matches.
type FeedbackRepository interface {
	// AddFeedback appends feedback records, assigning IDs and
	// timestamps. Returns the records with both populated.
	AddFeedback(ctx context.Context, records ...*core.Feedback) ([]*core.Feedback, error)

	// ListFeedback returns all feedback records in insertion order.
	ListFeedback(ctx context.Context) ([]*core.Feedback, error)

	// Close closes the repository and releases resources.
	Close() error
}
