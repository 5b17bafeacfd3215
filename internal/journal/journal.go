// Package journal implements the append-only event log the rest of the
// engine treats as the single source of truth for account history.
package journal

import (
	"context"

	"paymentengine/internal/domain"
)

// Journal appends and replays events. The journal constructs the
// EventEnvelope itself: it assigns the next sequence number atomically and
// attaches the caller-supplied metadata, so callers never invent a sequence
// number of their own. Append is idempotent on EventMetadata.DeduplicationKey
// — a second append with a key already seen returns the original envelope
// rather than creating a new one.
type Journal interface {
	Append(ctx context.Context, event domain.Event, metadata domain.EventMetadata) (domain.EventEnvelope, *domain.PaymentError)

	// Replay returns every envelope with SequenceNr >= from, in append
	// order. A nil from replays the whole log.
	Replay(ctx context.Context, from *domain.SequenceNr) ([]domain.EventEnvelope, *domain.PaymentError)

	// HighestSequence returns the current position in the log, or nil if
	// nothing has been appended yet.
	HighestSequence(ctx context.Context) (*domain.SequenceNr, *domain.PaymentError)

	// FindByTxID returns every envelope recorded against txID, in append
	// order. Used during the command load phase to recover the original
	// transaction a dispute/resolve/chargeback refers to.
	FindByTxID(ctx context.Context, txID domain.TxID) ([]domain.EventEnvelope, *domain.PaymentError)
}
