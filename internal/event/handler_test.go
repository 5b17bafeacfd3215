package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paymentengine/internal/domain"
	"paymentengine/internal/event"
)

func envelope(e domain.Event) domain.EventEnvelope {
	return domain.EventEnvelope{Event: e}
}

func TestApplyDepositedCreditsAvailableAndTotal(t *testing.T) {
	state := domain.NewAccountState()
	e := domain.NewDepositedEvent(1, 1, domain.MustAmount("100.0000"))

	next, ok := event.Apply(envelope(e), state)
	require.True(t, ok)
	assert.Equal(t, "100.0000", next.AvailableAmount().String())
	assert.Equal(t, "0.0000", next.HeldAmount().String())
	assert.Equal(t, "100.0000", next.TotalAmount().String())
	assert.False(t, next.IsFrozen())
}

func TestApplyDepositedOnFrozenAccountStillCredits(t *testing.T) {
	state, ok := event.Apply(envelope(domain.NewChargebackedEvent(1, 1, domain.MustAmount("10.0000"))),
		mustActiveWithHeld(t, "10.0000"))
	require.True(t, ok)
	require.True(t, state.IsFrozen())

	next, ok := event.Apply(envelope(domain.NewDepositedEvent(1, 2, domain.MustAmount("5.0000"))), state)
	require.True(t, ok)
	assert.True(t, next.IsFrozen())
	assert.Equal(t, "5.0000", next.AvailableAmount().String())
}

func TestApplyWithdrawnDebitsAvailableAndTotal(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	next, ok := event.Apply(envelope(domain.NewWithdrawnEvent(1, 1, domain.MustAmount("30.0000"))), state)
	require.True(t, ok)
	assert.Equal(t, "70.0000", next.AvailableAmount().String())
	assert.Equal(t, "70.0000", next.TotalAmount().String())
}

func TestApplyWithdrawnRejectedOnFrozenAccount(t *testing.T) {
	state, ok := event.Apply(envelope(domain.NewChargebackedEvent(1, 1, domain.MustAmount("10.0000"))),
		mustActiveWithHeld(t, "10.0000"))
	require.True(t, ok)
	require.True(t, state.IsFrozen())

	_, ok = event.Apply(envelope(domain.NewWithdrawnEvent(1, 2, domain.MustAmount("1.0000"))), state)
	assert.False(t, ok)
}

func TestApplyDisputedMovesFundsFromAvailableToHeld(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	next, ok := event.Apply(envelope(domain.NewDisputedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)
	assert.Equal(t, "60.0000", next.AvailableAmount().String())
	assert.Equal(t, "40.0000", next.HeldAmount().String())
	assert.Equal(t, "100.0000", next.TotalAmount().String())
}

func TestApplyDisputedAllowedOnFrozenAccount(t *testing.T) {
	state, ok := event.Apply(envelope(domain.NewChargebackedEvent(1, 1, domain.MustAmount("10.0000"))),
		mustActiveWithHeld(t, "10.0000"))
	require.True(t, ok)
	require.True(t, state.IsFrozen())

	next, ok := event.Apply(envelope(domain.NewDisputedEvent(1, 2, domain.MustAmount("5.0000"))), state)
	require.True(t, ok)
	assert.True(t, next.IsFrozen())
}

func TestApplyResolvedReleasesHeldBackToAvailable(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	state, ok := event.Apply(envelope(domain.NewDisputedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)

	next, ok := event.Apply(envelope(domain.NewResolvedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)
	assert.Equal(t, "100.0000", next.AvailableAmount().String())
	assert.Equal(t, "0.0000", next.HeldAmount().String())
	assert.Equal(t, "100.0000", next.TotalAmount().String())
}

func TestApplyResolvedRejectedWhenHeldInsufficient(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	_, ok := event.Apply(envelope(domain.NewResolvedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	assert.False(t, ok)
}

func TestApplyChargebackedFreezesAccountAndDebitsHeldAndTotal(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	state, ok := event.Apply(envelope(domain.NewDisputedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)

	next, ok := event.Apply(envelope(domain.NewChargebackedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)
	assert.True(t, next.IsFrozen())
	assert.Equal(t, "60.0000", next.AvailableAmount().String())
	assert.Equal(t, "0.0000", next.HeldAmount().String())
	assert.Equal(t, "60.0000", next.TotalAmount().String())
}

func TestApplyChargebackedRejectedWhenHeldInsufficient(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	_, ok := event.Apply(envelope(domain.NewChargebackedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	assert.False(t, ok)
}

func TestOnceFrozenStaysFrozen(t *testing.T) {
	state := mustActiveWithAvailable(t, "100.0000")
	state, ok := event.Apply(envelope(domain.NewDisputedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)
	state, ok = event.Apply(envelope(domain.NewChargebackedEvent(1, 1, domain.MustAmount("40.0000"))), state)
	require.True(t, ok)
	require.True(t, state.IsFrozen())

	next, ok := event.Apply(envelope(domain.NewDepositedEvent(1, 2, domain.MustAmount("1.0000"))), state)
	require.True(t, ok)
	assert.True(t, next.IsFrozen())
}

// mustActiveWithAvailable builds an Active state with the given available
// (and equal total, zero held) by folding a single Deposited event over a
// fresh account.
func mustActiveWithAvailable(t *testing.T, amount string) domain.AccountState {
	t.Helper()
	state := domain.NewAccountState()
	next, ok := event.Apply(envelope(domain.NewDepositedEvent(1, 1, domain.MustAmount(amount))), state)
	require.True(t, ok)
	return next
}

// mustActiveWithHeld builds an Active state with the given amount held (zero
// available, total equal to the argument) by depositing then disputing the
// same amount.
func mustActiveWithHeld(t *testing.T, amount string) domain.AccountState {
	t.Helper()
	state := mustActiveWithAvailable(t, amount)
	next, ok := event.Apply(envelope(domain.NewDisputedEvent(1, 1, domain.MustAmount(amount))), state)
	require.True(t, ok)
	return next
}
