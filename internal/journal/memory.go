package journal

import (
	"context"
	"sync"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/pkg/metrics"
)

// InMemoryJournal is the default Journal backend: process-local, gone on
// restart. Suitable for the CSV/offline pipeline and for tests; production
// deployments that need durability across restarts use PostgresJournal.
type InMemoryJournal struct {
	mu              sync.RWMutex
	events          []domain.EventEnvelope
	deduplicationIx map[domain.DeduplicationKey]domain.EventEnvelope
	txIDIx          map[domain.TxID][]domain.EventEnvelope
	sequenceCounter domain.SequenceNr
}

func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{
		deduplicationIx: make(map[domain.DeduplicationKey]domain.EventEnvelope),
		txIDIx:          make(map[domain.TxID][]domain.EventEnvelope),
	}
}

func (j *InMemoryJournal) Append(_ context.Context, event domain.Event, metadata domain.EventMetadata) (domain.EventEnvelope, *domain.PaymentError) {
	start := time.Now()
	defer func() {
		metrics.JournalAppendDuration.Observe(time.Since(start).Seconds())
	}()

	j.mu.Lock()
	defer j.mu.Unlock()

	if existing, ok := j.deduplicationIx[metadata.DeduplicationKey]; ok {
		return existing, nil
	}

	j.sequenceCounter++
	envelope := domain.EventEnvelope{
		SequenceNr:       j.sequenceCounter,
		Event:            event,
		Timestamp:        metadata.Timestamp,
		ClientID:         metadata.ClientID,
		TxID:             metadata.TxID,
		DeduplicationKey: metadata.DeduplicationKey,
	}

	j.events = append(j.events, envelope)
	j.deduplicationIx[metadata.DeduplicationKey] = envelope
	j.txIDIx[metadata.TxID] = append(j.txIDIx[metadata.TxID], envelope)
	metrics.JournalHighestSequence.Set(float64(j.sequenceCounter))

	return envelope, nil
}

func (j *InMemoryJournal) Replay(_ context.Context, from *domain.SequenceNr) ([]domain.EventEnvelope, *domain.PaymentError) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var lower domain.SequenceNr
	if from != nil {
		lower = *from
	}

	out := make([]domain.EventEnvelope, 0, len(j.events))
	for _, envelope := range j.events {
		if envelope.SequenceNr >= lower {
			out = append(out, envelope)
		}
	}
	return out, nil
}

func (j *InMemoryJournal) HighestSequence(_ context.Context) (*domain.SequenceNr, *domain.PaymentError) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.sequenceCounter == 0 {
		return nil, nil
	}
	seq := j.sequenceCounter
	return &seq, nil
}

func (j *InMemoryJournal) FindByTxID(_ context.Context, txID domain.TxID) ([]domain.EventEnvelope, *domain.PaymentError) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	events := j.txIDIx[txID]
	out := make([]domain.EventEnvelope, len(events))
	copy(out, events)
	return out, nil
}

var _ Journal = (*InMemoryJournal)(nil)
