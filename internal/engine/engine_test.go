package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paymentengine/internal/callback"
	"paymentengine/internal/disputeindex"
	"paymentengine/internal/domain"
	"paymentengine/internal/engine"
	"paymentengine/internal/journal"
	"paymentengine/internal/lookup"
)

// harness bundles a fresh Engine + Journal + DisputeIndex + Lookup and
// tracks the caller's view of account state across successive
// ProcessCommand calls, mirroring what a ClientActor would do.
type harness struct {
	t       *testing.T
	eng     *engine.Engine
	journal *journal.InMemoryJournal
	index   *disputeindex.InMemory
	ctx     engine.Context
	state   domain.AccountState
}

func newHarness(t *testing.T) *harness {
	j := journal.NewInMemoryJournal()
	idx := disputeindex.NewInMemory()
	lk := lookup.New(j, idx)
	return &harness{
		t:       t,
		eng:     engine.New(),
		journal: j,
		index:   idx,
		ctx: engine.Context{
			Journal:   j,
			Lookup:    lk,
			Callbacks: []callback.EventCallback{callback.NewDisputeIndexCallback(idx)},
		},
		state: domain.NewAccountState(),
	}
}

func (h *harness) process(cmd domain.Command, dedup domain.DeduplicationKey) (domain.EventEnvelope, *domain.PaymentError) {
	h.t.Helper()
	envelope, newState, err := h.eng.ProcessCommand(context.Background(), cmd, dedup, h.state, h.ctx)
	if err == nil {
		h.state = newState
	}
	return envelope, err
}

func (h *harness) mustProcess(cmd domain.Command, dedup domain.DeduplicationKey) domain.EventEnvelope {
	h.t.Helper()
	envelope, err := h.process(cmd, dedup)
	require.Nil(h.t, err)
	return envelope
}

// Scenario 1: deposit, dispute, chargeback -> frozen zeroed account.
func TestScenarioDepositDisputeChargeback(t *testing.T) {
	h := newHarness(t)

	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("100.0000")), "k1")
	h.mustProcess(domain.NewDisputeCommand(1, 1), "k2")
	h.mustProcess(domain.NewChargebackCommand(1, 1), "k3")

	assert.True(t, h.state.IsFrozen())
	assert.Equal(t, "0.0000", h.state.AvailableAmount().String())
	assert.Equal(t, "0.0000", h.state.HeldAmount().String())
	assert.Equal(t, "0.0000", h.state.TotalAmount().String())
}

// Scenario 2: deposit then withdrawal.
func TestScenarioDepositThenWithdrawal(t *testing.T) {
	h := newHarness(t)

	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("100.0000")), "k1")
	h.mustProcess(domain.NewWithdrawCommand(1, 2, domain.MustAmount("30.0000")), "k2")

	assert.Equal(t, "70.0000", h.state.AvailableAmount().String())
	assert.Equal(t, "0.0000", h.state.HeldAmount().String())
	assert.Equal(t, "70.0000", h.state.TotalAmount().String())
	assert.False(t, h.state.IsFrozen())
}

// Scenario 3: two deposits with fractional amounts sum exactly (no binary
// floating point drift).
func TestScenarioFractionalDepositsSumExactly(t *testing.T) {
	h := newHarness(t)

	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("1.2345")), "k1")
	h.mustProcess(domain.NewDepositCommand(1, 2, domain.MustAmount("2.6789")), "k2")

	assert.Equal(t, "3.9134", h.state.TotalAmount().String())
}

// Scenario 4: a chargeback freezes the account; a subsequent withdrawal is
// rejected and leaves state untouched.
func TestScenarioWithdrawalRejectedAfterChargeback(t *testing.T) {
	h := newHarness(t)

	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("100.0000")), "k1")
	h.mustProcess(domain.NewDepositCommand(1, 2, domain.MustAmount("50.0000")), "k2")
	h.mustProcess(domain.NewDisputeCommand(1, 1), "k3")
	h.mustProcess(domain.NewChargebackCommand(1, 1), "k4")

	preWithdrawalState := h.state
	_, err := h.process(domain.NewWithdrawCommand(1, 3, domain.MustAmount("10.0000")), "k5")
	require.NotNil(t, err)
	assert.Equal(t, preWithdrawalState, h.state)

	assert.Equal(t, "50.0000", h.state.AvailableAmount().String())
	assert.Equal(t, "0.0000", h.state.HeldAmount().String())
	assert.Equal(t, "50.0000", h.state.TotalAmount().String())
	assert.True(t, h.state.IsFrozen())
}

// Scenario 5: a rejected withdrawal in the middle of a sequence does not
// block subsequent commands from applying.
func TestScenarioMiddleCommandRejectedSubsequentApplied(t *testing.T) {
	h := newHarness(t)

	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("50.0000")), "k1")

	_, err := h.process(domain.NewWithdrawCommand(1, 2, domain.MustAmount("100.0000")), "k2")
	require.NotNil(t, err)

	h.mustProcess(domain.NewDepositCommand(1, 3, domain.MustAmount("25.0000")), "k3")

	assert.Equal(t, "75.0000", h.state.AvailableAmount().String())
	assert.Equal(t, "75.0000", h.state.TotalAmount().String())
	assert.False(t, h.state.IsFrozen())
}

// Scenario 6: duplicate dedup key produces a single envelope and identical
// sequence numbers on both calls.
func TestScenarioDuplicateDedupKeyIsIdempotent(t *testing.T) {
	h := newHarness(t)

	e1 := h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "dup")
	e2 := h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "dup")

	assert.Equal(t, e1.SequenceNr, e2.SequenceNr)

	all, perr := h.journal.Replay(context.Background(), nil)
	require.Nil(t, perr)
	assert.Len(t, all, 1)
}

func TestWithdrawingExactlyAvailableLeavesZero(t *testing.T) {
	h := newHarness(t)
	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("42.5000")), "k1")
	h.mustProcess(domain.NewWithdrawCommand(1, 2, domain.MustAmount("42.5000")), "k2")

	assert.Equal(t, "0.0000", h.state.AvailableAmount().String())
}

func TestDisputeOfResolvedTransactionCanBeDisputedAgain(t *testing.T) {
	// Resolve clears the dispute index entry, so a second dispute against
	// the same tx is legal: dispute only checks that the original tx
	// exists and is a deposit/withdrawal, not its dispute history.
	h := newHarness(t)
	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "k1")
	h.mustProcess(domain.NewDisputeCommand(1, 1), "k2")
	h.mustProcess(domain.NewResolveCommand(1, 1), "k3")

	_, err := h.process(domain.NewDisputeCommand(1, 1), "k4")
	require.Nil(t, err)
}

func TestResolveOfNonDisputedTransactionIsRejected(t *testing.T) {
	h := newHarness(t)
	h.mustProcess(domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "k1")

	_, err := h.process(domain.NewResolveCommand(1, 1), "k2")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionTyp)
}

func TestDisputeOfUnknownTransactionFails(t *testing.T) {
	h := newHarness(t)
	_, err := h.process(domain.NewDisputeCommand(1, 999), "k1")
	require.NotNil(t, err)
	assert.NotNil(t, err.Engine)
}
