// Package actor implements the per-client serialisation boundary: a
// single-consumer mailbox goroutine per client id, guaranteeing at most one
// command in flight per client, monotonic sequence application, and
// idempotent redelivery handling. A dedicated goroutine owning a buffered
// channel, rather than a mutex, because command processing needs ordered
// message delivery, not just mutual exclusion.
package actor

import (
	"context"
	"fmt"

	"paymentengine/internal/callback"
	"paymentengine/internal/domain"
	"paymentengine/internal/engine"
	"paymentengine/internal/journal"
	"paymentengine/internal/lookup"
	"paymentengine/internal/pkg/metrics"
)

// mailboxSize bounds how many ProcessCommand/GetState messages can queue
// behind the one currently being handled before a sender blocks.
const mailboxSize = 256

// processCommandMsg asks the actor to run cmd through the engine and
// reports the outcome on reply.
type processCommandMsg struct {
	ctx      context.Context
	cmd      domain.Command
	metadata domain.EventMetadata
	reply    chan *domain.PaymentError
}

// getStateMsg asks the actor for a snapshot of its current account state.
type getStateMsg struct {
	reply chan domain.AccountState
}

// ClientActor is a single-consumer serialiser for one client id. All
// exported methods are safe to call from multiple goroutines; ordering is
// enforced by the actor's own goroutine reading its mailbox one message at
// a time, never by a lock held across I/O.
type ClientActor struct {
	clientID  domain.ClientID
	mailbox   chan any
	done      chan struct{}
	engine    *engine.Engine
	engineCtx engine.Context
}

// Spawn starts a new ClientActor's mailbox goroutine and returns a handle
// to it. The caller is responsible for eventually calling Stop.
func Spawn(clientID domain.ClientID, eng *engine.Engine, j journal.Journal, lk lookup.TransactionLookup, callbacks []callback.EventCallback) *ClientActor {
	a := &ClientActor{
		clientID: clientID,
		mailbox:  make(chan any, mailboxSize),
		done:     make(chan struct{}),
		engine:   eng,
		engineCtx: engine.Context{
			Journal:   j,
			Lookup:    lk,
			Callbacks: callbacks,
		},
	}
	go a.run()
	return a
}

func (a *ClientActor) run() {
	state := domain.NewAccountState()
	var lastSequence domain.SequenceNr

	for msg := range a.mailbox {
		switch m := msg.(type) {
		case processCommandMsg:
			envelope, newState, err := a.engine.ProcessCommand(m.ctx, m.cmd, m.metadata.DeduplicationKey, state, a.engineCtx)
			if err != nil {
				m.reply <- err
				continue
			}

			switch {
			case envelope.SequenceNr < lastSequence:
				// Infrastructure invariant failure: the journal promises
				// monotonically increasing sequence numbers, and
				// this actor is the sole writer of its own state, so a
				// regression here can only mean the journal itself is
				// broken. Never recovered from.
				panic(fmt.Sprintf("actor: ordering violation for client %d: last_sequence=%d got=%d", a.clientID, lastSequence, envelope.SequenceNr))
			case envelope.SequenceNr == lastSequence:
				// Duplicate redelivery (dedup hit): state already reflects
				// this event, nothing further to do.
				m.reply <- nil
			default:
				state = newState
				lastSequence = envelope.SequenceNr
				m.reply <- nil
			}

		case getStateMsg:
			m.reply <- state

		case stopMsg:
			close(a.done)
			return
		}
	}
}

type stopMsg struct{}

// ProcessCommand enqueues cmd for this actor and blocks until it has been
// applied (or rejected). Safe to call concurrently; calls queue in the
// order they reach the mailbox.
func (a *ClientActor) ProcessCommand(ctx context.Context, cmd domain.Command, metadata domain.EventMetadata) *domain.PaymentError {
	reply := make(chan *domain.PaymentError, 1)
	select {
	case a.mailbox <- processCommandMsg{ctx: ctx, cmd: cmd, metadata: metadata, reply: reply}:
		metrics.ActorMailboxDepth.WithLabelValues(fmt.Sprintf("%d", a.clientID)).Set(float64(len(a.mailbox)))
	case <-ctx.Done():
		return domain.FromEngineError(domain.ValidationEngineError("actor: enqueue cancelled: %v", ctx.Err()))
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return domain.FromEngineError(domain.ValidationEngineError("actor: call cancelled: %v", ctx.Err()))
	}
}

// GetState returns a snapshot of the actor's current account state. Safe
// to call concurrently with ProcessCommand; it queues behind whatever is
// currently in the mailbox, so the returned state always reflects a
// consistent point in the actor's serial history.
func (a *ClientActor) GetState(ctx context.Context) (domain.AccountState, error) {
	reply := make(chan domain.AccountState, 1)
	select {
	case a.mailbox <- getStateMsg{reply: reply}:
	case <-ctx.Done():
		return domain.AccountState{}, ctx.Err()
	}

	select {
	case state := <-reply:
		return state, nil
	case <-ctx.Done():
		return domain.AccountState{}, ctx.Err()
	}
}

// Stop shuts the actor's mailbox goroutine down. Any messages already
// queued ahead of the stop are processed first; messages sent after Stop
// has been requested may block forever, so callers must not send to a
// stopped actor.
func (a *ClientActor) Stop() {
	select {
	case a.mailbox <- stopMsg{}:
		<-a.done
	case <-a.done:
		// already stopped
	}
}
