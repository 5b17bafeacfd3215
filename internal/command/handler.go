// Package command implements the per-command-kind business logic that
// turns a validated Command into an Event. Every handler runs through the
// same four phases the engine drives it through: Load (async, may do I/O,
// sees possibly-stale state), Validate (sync, exclusive access to actual
// state, must be fast), Emit (sync, builds the event), Effect (async,
// runs after the event is durably persisted).
package command

import (
	"context"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/lookup"
)

// Resource is whatever a handler's Load phase fetches for later phases to
// use. Its concrete type varies by command kind (nil for deposit/withdraw,
// the original transaction for dispute, the original transaction plus its
// dispute status for resolve/chargeback).
type Resource any

// Entity is whatever a handler's Validate phase produces for Emit and
// Effect to use (e.g. the amount being released by a resolve).
type Entity any

// Handler is the per-command-kind business logic, one implementation per
// domain.CommandKind.
type Handler interface {
	Load(ctx context.Context, cmd domain.Command, staleState domain.AccountState, lookup lookup.TransactionLookup) (Resource, *domain.PaymentError)
	Validate(cmd domain.Command, actualState domain.AccountState, resource Resource) (Entity, *domain.PaymentError)
	Emit(cmd domain.Command, entity Entity, resource Resource, timestamp time.Time) (domain.Event, *domain.PaymentError)
	Effect(ctx context.Context, previousState, newState domain.AccountState, resource Resource, entity Entity, timestamp time.Time) *domain.PaymentError
}

// For returns the Handler responsible for cmd's kind.
func For(cmd domain.Command) Handler {
	switch cmd.Kind {
	case domain.CommandKindDeposit:
		return depositHandler{}
	case domain.CommandKindWithdraw:
		return withdrawHandler{}
	case domain.CommandKindDispute:
		return disputeHandler{}
	case domain.CommandKindResolve:
		return resolveHandler{}
	case domain.CommandKindChargeback:
		return chargebackHandler{}
	default:
		return nil
	}
}

// originalTransactionAmount extracts the amount from a Deposited or Withdrawn
// event, the only two kinds a dispute/resolve/chargeback can reference.
func originalTransactionAmount(event domain.Event) (domain.Amount, *domain.PaymentError) {
	switch event.Kind {
	case domain.EventKindDeposited:
		return event.Deposited.Amount, nil
	case domain.EventKindWithdrawn:
		return event.Withdrawn.Amount, nil
	default:
		return domain.Zero, domain.FromTransactionError(domain.NewTransactionError(domain.ErrInvalidTransactionTyp))
	}
}
