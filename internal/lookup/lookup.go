// Package lookup provides the read-only facade command handlers use during
// their load phase to resolve a dispute/resolve/chargeback against the
// transaction it refers to.
package lookup

import (
	"context"

	"paymentengine/internal/disputeindex"
	"paymentengine/internal/domain"
	"paymentengine/internal/journal"
)

// TransactionLookup is the facade; command handlers depend on this
// interface, never on Journal or DisputeIndex directly, so they cannot
// accidentally mutate either.
type TransactionLookup interface {
	// FindTransaction returns the original Deposited or Withdrawn event for
	// txID, or nil if no such transaction was ever recorded.
	FindTransaction(ctx context.Context, txID domain.TxID) (*domain.Event, *domain.PaymentError)

	// IsDisputed reports whether txID currently has an open dispute.
	IsDisputed(ctx context.Context, txID domain.TxID) (bool, *domain.PaymentError)
}

// FromJournal composes a Journal and a DisputeIndex into a TransactionLookup.
type FromJournal struct {
	Journal      journal.Journal
	DisputeIndex disputeindex.DisputeIndex
}

func New(j journal.Journal, d disputeindex.DisputeIndex) *FromJournal {
	return &FromJournal{Journal: j, DisputeIndex: d}
}

func (l *FromJournal) FindTransaction(ctx context.Context, txID domain.TxID) (*domain.Event, *domain.PaymentError) {
	envelopes, err := l.Journal.FindByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}

	for _, envelope := range envelopes {
		if envelope.Event.Kind == domain.EventKindDeposited || envelope.Event.Kind == domain.EventKindWithdrawn {
			event := envelope.Event
			return &event, nil
		}
	}
	return nil, nil
}

func (l *FromJournal) IsDisputed(ctx context.Context, txID domain.TxID) (bool, *domain.PaymentError) {
	return l.DisputeIndex.IsDisputed(ctx, txID)
}

var _ TransactionLookup = (*FromJournal)(nil)
