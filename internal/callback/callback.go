// Package callback implements the post-persistence hooks the engine
// invokes once an event has been durably appended to the journal. This is
// the only place a secondary index like the dispute index may be written.
package callback

import (
	"context"

	"paymentengine/internal/disputeindex"
	"paymentengine/internal/domain"
	"paymentengine/internal/journal"
)

// Context carries what a callback needs beyond the bare event: the journal
// (for callbacks that need to look further back) and the persisted
// envelope itself.
type Context struct {
	Journal  journal.Journal
	Envelope domain.EventEnvelope
}

// EventCallback is invoked by the engine after an event has been appended.
// Every method has a no-op default via NoOp embedding in practice;
// implementations only override what they care about. Go has no
// default-method sugar, so each concrete callback type simply implements
// the subset of On* methods it needs and leaves the rest to NoOp.
type EventCallback interface {
	OnDeposited(ctx context.Context, event *domain.DepositedEvent, callbackCtx Context) *domain.PaymentError
	OnWithdrawn(ctx context.Context, event *domain.WithdrawnEvent, callbackCtx Context) *domain.PaymentError
	OnDisputed(ctx context.Context, event *domain.DisputedEvent, callbackCtx Context) *domain.PaymentError
	OnResolved(ctx context.Context, event *domain.ResolvedEvent, callbackCtx Context) *domain.PaymentError
	OnChargebacked(ctx context.Context, event *domain.ChargebackedEvent, callbackCtx Context) *domain.PaymentError
}

// NoOp implements EventCallback with every method a no-op; embed it to
// override only the events a callback cares about.
type NoOp struct{}

func (NoOp) OnDeposited(context.Context, *domain.DepositedEvent, Context) *domain.PaymentError {
	return nil
}
func (NoOp) OnWithdrawn(context.Context, *domain.WithdrawnEvent, Context) *domain.PaymentError {
	return nil
}
func (NoOp) OnDisputed(context.Context, *domain.DisputedEvent, Context) *domain.PaymentError {
	return nil
}
func (NoOp) OnResolved(context.Context, *domain.ResolvedEvent, Context) *domain.PaymentError {
	return nil
}
func (NoOp) OnChargebacked(context.Context, *domain.ChargebackedEvent, Context) *domain.PaymentError {
	return nil
}

// Dispatch routes envelope.Event to the matching On* method of cb.
func Dispatch(ctx context.Context, cb EventCallback, callbackCtx Context) *domain.PaymentError {
	event := callbackCtx.Envelope.Event
	switch event.Kind {
	case domain.EventKindDeposited:
		return cb.OnDeposited(ctx, event.Deposited, callbackCtx)
	case domain.EventKindWithdrawn:
		return cb.OnWithdrawn(ctx, event.Withdrawn, callbackCtx)
	case domain.EventKindDisputed:
		return cb.OnDisputed(ctx, event.Disputed, callbackCtx)
	case domain.EventKindResolved:
		return cb.OnResolved(ctx, event.Resolved, callbackCtx)
	case domain.EventKindChargebacked:
		return cb.OnChargebacked(ctx, event.Chargebacked, callbackCtx)
	default:
		return nil
	}
}

// DisputeIndexCallback is the mandatory infrastructure callback: it keeps
// the DisputeIndex in sync with the journal. Disputed marks a tx disputed;
// Resolved/Chargebacked clear it. Deposited/Withdrawn are no-ops.
type DisputeIndexCallback struct {
	NoOp
	Index disputeindex.DisputeIndex
}

func NewDisputeIndexCallback(index disputeindex.DisputeIndex) *DisputeIndexCallback {
	return &DisputeIndexCallback{Index: index}
}

func (c *DisputeIndexCallback) OnDisputed(ctx context.Context, event *domain.DisputedEvent, _ Context) *domain.PaymentError {
	return c.Index.MarkDisputed(ctx, event.TxID, event.Amount)
}

func (c *DisputeIndexCallback) OnResolved(ctx context.Context, event *domain.ResolvedEvent, _ Context) *domain.PaymentError {
	return c.Index.UnmarkDisputed(ctx, event.TxID)
}

func (c *DisputeIndexCallback) OnChargebacked(ctx context.Context, event *domain.ChargebackedEvent, _ Context) *domain.PaymentError {
	return c.Index.UnmarkDisputed(ctx, event.TxID)
}

var _ EventCallback = (*DisputeIndexCallback)(nil)
