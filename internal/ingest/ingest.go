// Package ingest defines the boundary the engine core deliberately keeps
// external: a Source that yields (command, deduplication key) pairs, and a
// Sink that accepts the final per-client state map. Concrete adapters live
// in sibling packages (csv, kafka).
package ingest

import (
	"context"

	"paymentengine/internal/domain"
)

// Record pairs a parsed Command with the deduplication key identifying the
// command instance it came from.
type Record struct {
	Command          domain.Command
	DeduplicationKey domain.DeduplicationKey
}

// Source yields a stream of Records. Next returns (Record{}, false, nil)
// once the source is exhausted. A malformed record is not necessarily an
// error: CSV sources skip malformed rows internally (logging them) rather
// than surfacing them to the caller.
type Source interface {
	Next(ctx context.Context) (Record, bool, error)
	Close() error
}

// Sink accepts the final client_id -> AccountState map once a Source has
// been drained.
type Sink interface {
	Write(ctx context.Context, states map[domain.ClientID]domain.AccountState) error
}
