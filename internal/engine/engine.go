// Package engine orchestrates the five-phase command pipeline: load,
// validate, persist, callbacks, apply+effect. The engine itself is
// stateless business logic; it is the caller's (ClientActor's)
// responsibility to serialize calls per client and to update its own
// notion of current state from the returned envelope/state pair.
package engine

import (
	"context"
	"time"

	"paymentengine/internal/callback"
	"paymentengine/internal/command"
	"paymentengine/internal/domain"
	"paymentengine/internal/event"
	"paymentengine/internal/journal"
	"paymentengine/internal/lookup"
)

// Context bundles what ProcessCommand needs beyond the command itself: the
// journal to persist into, the lookup facade for the load phase, and the
// callbacks to invoke once persistence succeeds.
type Context struct {
	Journal   journal.Journal
	Lookup    lookup.TransactionLookup
	Callbacks []callback.EventCallback
}

// Engine processes one command at a time against a caller-supplied account
// state, returning the persisted envelope and the resulting state. It never
// holds account state itself — ClientActor owns that and enforces the
// single-writer-per-client invariant the engine depends on.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// ProcessCommand runs cmd through load -> validate -> emit -> persist ->
// callbacks -> apply -> effect, against currentState. staleState and
// currentState are the same value today (engine has no async cache of its
// own) but are kept as separate variables to mirror the load phase's
// "may run against a stale snapshot" contract.
func (e *Engine) ProcessCommand(ctx context.Context, cmd domain.Command, dedupKey domain.DeduplicationKey, currentState domain.AccountState, engineCtx Context) (domain.EventEnvelope, domain.AccountState, *domain.PaymentError) {
	handler := command.For(cmd)
	if handler == nil {
		return domain.EventEnvelope{}, domain.AccountState{}, domain.FromEngineError(domain.ValidationEngineError("unknown command kind %v", cmd.Kind))
	}

	staleState := currentState

	resource, err := handler.Load(ctx, cmd, staleState, engineCtx.Lookup)
	if err != nil {
		return domain.EventEnvelope{}, domain.AccountState{}, err
	}

	entity, err := handler.Validate(cmd, currentState, resource)
	if err != nil {
		return domain.EventEnvelope{}, domain.AccountState{}, err
	}

	now := time.Now().UTC()
	emitted, err := handler.Emit(cmd, entity, resource, now)
	if err != nil {
		return domain.EventEnvelope{}, domain.AccountState{}, err
	}

	metadata := domain.EventMetadata{
		ClientID:         cmd.ClientIDOf(),
		TxID:             cmd.TxIDOf(),
		DeduplicationKey: dedupKey,
		Timestamp:        now,
	}

	envelope, err := engineCtx.Journal.Append(ctx, emitted, metadata)
	if err != nil {
		return domain.EventEnvelope{}, domain.AccountState{}, err
	}

	for _, cb := range engineCtx.Callbacks {
		if err := callback.Dispatch(ctx, cb, callback.Context{Journal: engineCtx.Journal, Envelope: envelope}); err != nil {
			return domain.EventEnvelope{}, domain.AccountState{}, err
		}
	}

	newState, ok := event.Apply(envelope, currentState)
	if !ok {
		return domain.EventEnvelope{}, domain.AccountState{}, domain.FromEngineError(domain.NewEngineError(domain.ErrStateTransitionFailed))
	}

	if err := handler.Effect(ctx, currentState, newState, resource, entity, now); err != nil {
		return domain.EventEnvelope{}, domain.AccountState{}, err
	}

	return envelope, newState, nil
}
