// Package disputeindex maintains the O(1) "is this tx currently disputed"
// secondary index. It is deliberately a separate concern from the journal:
// the journal is the append-only source of truth, this index is a
// derived, mutable projection maintained only through the engine's
// post-persistence callbacks.
package disputeindex

import (
	"context"
	"sync"

	"paymentengine/internal/domain"
	"paymentengine/internal/pkg/metrics"
)

// DisputeIndex tracks which transactions are currently under dispute and
// the amount that was held for each. Implementations must never be written
// to directly by command handlers — only by an EventCallback, after the
// corresponding event has been durably persisted.
type DisputeIndex interface {
	IsDisputed(ctx context.Context, txID domain.TxID) (bool, *domain.PaymentError)
	MarkDisputed(ctx context.Context, txID domain.TxID, amount domain.Amount) *domain.PaymentError
	UnmarkDisputed(ctx context.Context, txID domain.TxID) *domain.PaymentError
}

// InMemory is the default DisputeIndex: a mutex-guarded map. Production
// deployments that need the index to survive a restart can still warm it
// by replaying Disputed events with no matching Resolved/Chargebacked from
// the journal at startup; nothing in this repo does that automatically.
type InMemory struct {
	mu       sync.RWMutex
	disputed map[domain.TxID]domain.Amount
}

func NewInMemory() *InMemory {
	return &InMemory{disputed: make(map[domain.TxID]domain.Amount)}
}

func (idx *InMemory) IsDisputed(_ context.Context, txID domain.TxID) (bool, *domain.PaymentError) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.disputed[txID]
	return ok, nil
}

func (idx *InMemory) MarkDisputed(_ context.Context, txID domain.TxID, amount domain.Amount) *domain.PaymentError {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.disputed[txID] = amount
	metrics.DisputeIndexSize.Set(float64(len(idx.disputed)))
	return nil
}

func (idx *InMemory) UnmarkDisputed(_ context.Context, txID domain.TxID) *domain.PaymentError {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.disputed, txID)
	metrics.DisputeIndexSize.Set(float64(len(idx.disputed)))
	return nil
}

var _ DisputeIndex = (*InMemory)(nil)
