package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paymentengine/internal/domain"
)

// PostgresJournal is the durable Journal backend: every append survives a
// restart, and Replay can rebuild account state after one. Nothing in this
// repo calls Replay automatically at actor start; a ClientActor always
// starts from a zero Active state.
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// NewPostgresJournal opens a pool against dsn and ensures the journal table
// exists.
func NewPostgresJournal(ctx context.Context, dsn string) (*PostgresJournal, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: connecting to postgres: %w", err)
	}

	j := &PostgresJournal{pool: pool}
	if err := j.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return j, nil
}

func (j *PostgresJournal) migrate(ctx context.Context) error {
	_, err := j.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS payment_events (
			sequence_nr       BIGSERIAL PRIMARY KEY,
			event_kind        TEXT NOT NULL,
			client_id         INTEGER NOT NULL,
			tx_id             BIGINT NOT NULL,
			amount            NUMERIC(24,4) NOT NULL,
			occurred_at       TIMESTAMPTZ NOT NULL,
			deduplication_key TEXT NOT NULL UNIQUE
		);
		CREATE INDEX IF NOT EXISTS payment_events_tx_id_idx ON payment_events (tx_id);
	`)
	if err != nil {
		return fmt.Errorf("journal: running migration: %w", err)
	}
	return nil
}

func (j *PostgresJournal) Close() {
	j.pool.Close()
}

func (j *PostgresJournal) Append(ctx context.Context, event domain.Event, metadata domain.EventMetadata) (domain.EventEnvelope, *domain.PaymentError) {
	amount := event.AmountOf()

	row := j.pool.QueryRow(ctx, `
		INSERT INTO payment_events (event_kind, client_id, tx_id, amount, occurred_at, deduplication_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (deduplication_key) DO NOTHING
		RETURNING sequence_nr, occurred_at
	`, event.Kind.String(), int32(metadata.ClientID), int64(metadata.TxID), amount.String(), metadata.Timestamp, string(metadata.DeduplicationKey))

	var sequenceNr int64
	var occurredAt time.Time
	err := row.Scan(&sequenceNr, &occurredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return j.findByDeduplicationKey(ctx, metadata.DeduplicationKey)
	}
	if err != nil {
		return domain.EventEnvelope{}, domain.FromEngineError(domain.EmittingEventError("postgres append: %v", err))
	}

	return domain.EventEnvelope{
		SequenceNr:       domain.SequenceNr(sequenceNr),
		Event:            event,
		Timestamp:        occurredAt,
		ClientID:         metadata.ClientID,
		TxID:             metadata.TxID,
		DeduplicationKey: metadata.DeduplicationKey,
	}, nil
}

func (j *PostgresJournal) findByDeduplicationKey(ctx context.Context, key domain.DeduplicationKey) (domain.EventEnvelope, *domain.PaymentError) {
	row := j.pool.QueryRow(ctx, `
		SELECT sequence_nr, event_kind, client_id, tx_id, amount, occurred_at
		FROM payment_events WHERE deduplication_key = $1
	`, string(key))

	envelope, err := scanEnvelope(row, key)
	if err != nil {
		return domain.EventEnvelope{}, domain.FromEngineError(domain.EmittingEventError("postgres dedup lookup: %v", err))
	}
	return envelope, nil
}

func (j *PostgresJournal) Replay(ctx context.Context, from *domain.SequenceNr) ([]domain.EventEnvelope, *domain.PaymentError) {
	var lower int64
	if from != nil {
		lower = int64(*from)
	}

	rows, err := j.pool.Query(ctx, `
		SELECT sequence_nr, event_kind, client_id, tx_id, amount, occurred_at, deduplication_key
		FROM payment_events WHERE sequence_nr >= $1 ORDER BY sequence_nr ASC
	`, lower)
	if err != nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("postgres replay: %v", err))
	}
	defer rows.Close()

	return collectEnvelopes(rows)
}

func (j *PostgresJournal) HighestSequence(ctx context.Context) (*domain.SequenceNr, *domain.PaymentError) {
	var max *int64
	err := j.pool.QueryRow(ctx, `SELECT MAX(sequence_nr) FROM payment_events`).Scan(&max)
	if err != nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("postgres highest_sequence: %v", err))
	}
	if max == nil {
		return nil, nil
	}
	seq := domain.SequenceNr(*max)
	return &seq, nil
}

func (j *PostgresJournal) FindByTxID(ctx context.Context, txID domain.TxID) ([]domain.EventEnvelope, *domain.PaymentError) {
	rows, err := j.pool.Query(ctx, `
		SELECT sequence_nr, event_kind, client_id, tx_id, amount, occurred_at, deduplication_key
		FROM payment_events WHERE tx_id = $1 ORDER BY sequence_nr ASC
	`, int64(txID))
	if err != nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("postgres find_by_tx_id: %v", err))
	}
	defer rows.Close()

	return collectEnvelopes(rows)
}

func collectEnvelopes(rows pgx.Rows) ([]domain.EventEnvelope, *domain.PaymentError) {
	var out []domain.EventEnvelope
	for rows.Next() {
		var (
			sequenceNr       int64
			kind             string
			clientID         int32
			txID             int64
			amountStr        string
			occurredAt       time.Time
			deduplicationKey string
		)
		if err := rows.Scan(&sequenceNr, &kind, &clientID, &txID, &amountStr, &occurredAt, &deduplicationKey); err != nil {
			return nil, domain.FromEngineError(domain.LoadingResourcesError("postgres scan: %v", err))
		}
		envelope, buildErr := buildEnvelope(sequenceNr, kind, clientID, txID, amountStr, occurredAt, deduplicationKey)
		if buildErr != nil {
			return nil, domain.FromEngineError(domain.LoadingResourcesError("postgres decode: %v", buildErr))
		}
		out = append(out, envelope)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("postgres rows: %v", err))
	}
	return out, nil
}

// rowScanner abstracts over pgx.Row (QueryRow) and pgx.Rows (Query) so
// scanEnvelope can be shared between find-by-key and range scans.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnvelope(row rowScanner, key domain.DeduplicationKey) (domain.EventEnvelope, error) {
	var (
		sequenceNr int64
		kind       string
		clientID   int32
		txID       int64
		amountStr  string
		occurredAt time.Time
	)
	if err := row.Scan(&sequenceNr, &kind, &clientID, &txID, &amountStr, &occurredAt); err != nil {
		return domain.EventEnvelope{}, err
	}
	envelope, err := buildEnvelope(sequenceNr, kind, clientID, txID, amountStr, occurredAt, string(key))
	if err != nil {
		return domain.EventEnvelope{}, err
	}
	return envelope, nil
}

func buildEnvelope(sequenceNr int64, kind string, clientID int32, txID int64, amountStr string, occurredAt time.Time, deduplicationKey string) (domain.EventEnvelope, error) {
	amount, err := domain.NewAmount(amountStr)
	if err != nil {
		return domain.EventEnvelope{}, err
	}

	cid := domain.ClientID(clientID)
	tid := domain.TxID(txID)

	var event domain.Event
	switch kind {
	case "deposited":
		event = domain.NewDepositedEvent(cid, tid, amount)
	case "withdrawn":
		event = domain.NewWithdrawnEvent(cid, tid, amount)
	case "disputed":
		event = domain.NewDisputedEvent(cid, tid, amount)
	case "resolved":
		event = domain.NewResolvedEvent(cid, tid, amount)
	case "chargebacked":
		event = domain.NewChargebackedEvent(cid, tid, amount)
	default:
		return domain.EventEnvelope{}, fmt.Errorf("unknown persisted event kind %q", kind)
	}

	return domain.EventEnvelope{
		SequenceNr:       domain.SequenceNr(sequenceNr),
		Event:            event,
		Timestamp:        occurredAt,
		ClientID:         cid,
		TxID:             tid,
		DeduplicationKey: domain.DeduplicationKey(deduplicationKey),
	}, nil
}

var _ Journal = (*PostgresJournal)(nil)
