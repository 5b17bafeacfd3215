// Package event implements the pure Event x AccountState -> AccountState
// state transitions. Every handler here is a defense-in-depth check: the
// command handlers that emit these events have already validated the
// business rule once, but the event handler re-checks it so that replaying
// the journal from scratch can never produce a different account than the
// one built live.
package event

import (
	"time"

	"paymentengine/internal/domain"
)

// Handler folds a single event onto an account state, returning the next
// state. ok is false when the event cannot be legally applied to state (the
// defense-in-depth rejection); callers must treat that as a fatal
// inconsistency, never a silent skip, since it means the journal itself is
// corrupt or a command handler's invariant was violated.
type Handler func(envelope domain.EventEnvelope, state domain.AccountState) (next domain.AccountState, ok bool)

// Apply dispatches envelope.Event to the handler for its kind.
func Apply(envelope domain.EventEnvelope, state domain.AccountState) (domain.AccountState, bool) {
	switch envelope.Event.Kind {
	case domain.EventKindDeposited:
		return applyDeposited(envelope, state)
	case domain.EventKindWithdrawn:
		return applyWithdrawn(envelope, state)
	case domain.EventKindDisputed:
		return applyDisputed(envelope, state)
	case domain.EventKindResolved:
		return applyResolved(envelope, state)
	case domain.EventKindChargebacked:
		return applyChargebacked(envelope, state)
	default:
		return domain.AccountState{}, false
	}
}

func applyDeposited(envelope domain.EventEnvelope, state domain.AccountState) (domain.AccountState, bool) {
	amount := envelope.Event.Deposited.Amount
	available := state.AvailableAmount().Add(amount)
	held := state.HeldAmount()
	total := state.TotalAmount().Add(amount)
	return rebuild(state, available, held, total), true
}

func applyWithdrawn(envelope domain.EventEnvelope, state domain.AccountState) (domain.AccountState, bool) {
	if state.IsFrozen() {
		return domain.AccountState{}, false
	}
	amount := envelope.Event.Withdrawn.Amount
	available := state.AvailableAmount().Sub(amount)
	held := state.HeldAmount()
	total := state.TotalAmount().Sub(amount)
	return rebuild(state, available, held, total), true
}

func applyDisputed(envelope domain.EventEnvelope, state domain.AccountState) (domain.AccountState, bool) {
	amount := envelope.Event.Disputed.Amount
	available := state.AvailableAmount().Sub(amount)
	held := state.HeldAmount().Add(amount)
	total := state.TotalAmount()
	return rebuild(state, available, held, total), true
}

func applyResolved(envelope domain.EventEnvelope, state domain.AccountState) (domain.AccountState, bool) {
	amount := envelope.Event.Resolved.Amount
	if state.HeldAmount().GreaterThanOrEqual(amount) == false {
		return domain.AccountState{}, false
	}
	available := state.AvailableAmount().Add(amount)
	held := state.HeldAmount().Sub(amount)
	total := state.TotalAmount()
	return rebuild(state, available, held, total), true
}

func applyChargebacked(envelope domain.EventEnvelope, state domain.AccountState) (domain.AccountState, bool) {
	amount := envelope.Event.Chargebacked.Amount
	if !state.HeldAmount().GreaterThanOrEqual(amount) {
		return domain.AccountState{}, false
	}
	available := state.AvailableAmount()
	held := state.HeldAmount().Sub(amount)
	total := state.TotalAmount().Sub(amount)
	return freeze(available, held, total), true
}

func rebuild(state domain.AccountState, available, held, total domain.Amount) domain.AccountState {
	now := time.Now().UTC()
	if state.IsFrozen() {
		return domain.AccountState{Frozen: true, Closed: &domain.FrozenAccountState{
			Available: available, Held: held, Total: total, LastActivity: now,
		}}
	}
	return domain.AccountState{Active: &domain.ActiveAccountState{
		Available: available, Held: held, Total: total, LastActivity: now,
	}}
}

func freeze(available, held, total domain.Amount) domain.AccountState {
	return domain.AccountState{Frozen: true, Closed: &domain.FrozenAccountState{
		Available: available, Held: held, Total: total, LastActivity: time.Now().UTC(),
	}}
}
