package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"paymentengine/internal/domain"
	"paymentengine/internal/journal"
)

// setupPostgresJournal starts a throwaway PostgreSQL container and opens a
// PostgresJournal against it. The container is terminated when the test
// finishes.
func setupPostgresJournal(t *testing.T) *journal.PostgresJournal {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in -short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("payments"),
		postgres.WithUsername("payments"),
		postgres.WithPassword("payments_test_pass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres testcontainer")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres testcontainer: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string from testcontainer")

	j, err := journal.NewPostgresJournal(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(j.Close)
	return j
}

func TestPostgresJournalAppendAndReplay(t *testing.T) {
	j := setupPostgresJournal(t)
	ctx := context.Background()

	e1 := appendDeposit(t, j, 1, 1, "100.0000", "pg-k1")
	e2 := appendDeposit(t, j, 2, 2, "50.5000", "pg-k2")

	assert.Equal(t, domain.SequenceNr(1), e1.SequenceNr)
	assert.Equal(t, domain.SequenceNr(2), e2.SequenceNr)

	replayed, perr := j.Replay(ctx, nil)
	require.Nil(t, perr)
	require.Len(t, replayed, 2)
	assert.Equal(t, e1.SequenceNr, replayed[0].SequenceNr)
	assert.Equal(t, domain.MustAmount("100.0000"), replayed[0].Event.Deposited.Amount)
	assert.Equal(t, e2.DeduplicationKey, replayed[1].DeduplicationKey)
}

func TestPostgresJournalAppendIsIdempotentOnDeduplicationKey(t *testing.T) {
	j := setupPostgresJournal(t)
	ctx := context.Background()

	first := appendDeposit(t, j, 1, 1, "10.0000", "pg-dup")
	second := appendDeposit(t, j, 1, 1, "999.0000", "pg-dup")

	assert.Equal(t, first.SequenceNr, second.SequenceNr)
	assert.Equal(t, domain.MustAmount("10.0000"), second.Event.Deposited.Amount)

	highest, perr := j.HighestSequence(ctx)
	require.Nil(t, perr)
	require.NotNil(t, highest)
	assert.Equal(t, domain.SequenceNr(1), *highest)
}

func TestPostgresJournalFindByTxIDPreservesAppendOrder(t *testing.T) {
	j := setupPostgresJournal(t)
	ctx := context.Background()

	appendDeposit(t, j, 1, 7, "25.0000", "pg-tx-1")
	_, perr := j.Append(ctx, domain.NewDisputedEvent(1, 7, domain.MustAmount("25.0000")), domain.EventMetadata{
		ClientID: 1, TxID: 7, DeduplicationKey: "pg-tx-2", Timestamp: time.Now().UTC(),
	})
	require.Nil(t, perr)
	appendDeposit(t, j, 1, 8, "5.0000", "pg-tx-3")

	envelopes, perr := j.FindByTxID(ctx, 7)
	require.Nil(t, perr)
	require.Len(t, envelopes, 2)
	assert.Equal(t, domain.EventKindDeposited, envelopes[0].Event.Kind)
	assert.Equal(t, domain.EventKindDisputed, envelopes[1].Event.Kind)
}

func TestPostgresJournalHighestSequenceEmptyLog(t *testing.T) {
	j := setupPostgresJournal(t)

	highest, perr := j.HighestSequence(context.Background())
	require.Nil(t, perr)
	assert.Nil(t, highest)
}
