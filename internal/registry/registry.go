// Package registry implements the ClientRegistry: a thread-safe directory
// mapping ClientID to ClientActor, spawning actors lazily and tracking
// which clients have been seen so a final state dump can enumerate them.
//
// The directory is a plain process-local map; the namespaced naming scheme
// is kept anyway so the design still permits a cluster-wide registry later
// without changing how actors are addressed.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paymentengine/internal/actor"
	"paymentengine/internal/callback"
	"paymentengine/internal/disputeindex"
	"paymentengine/internal/domain"
	"paymentengine/internal/engine"
	"paymentengine/internal/journal"
	"paymentengine/internal/lookup"
	"paymentengine/internal/pkg/metrics"
)

// Default per-call deadlines, used when the registry is built with
// New/WithNamespace rather than WithTimeouts.
const (
	DefaultCommandTimeout = 500 * time.Millisecond
	DefaultReadTimeout    = 100 * time.Millisecond
)

// ClientRegistry is the get-or-spawn directory for client actors.
// Namespace lets multiple registries coexist in one process (test
// isolation) without aliasing actor names.
type ClientRegistry struct {
	namespace    string
	journal      journal.Journal
	disputeIndex disputeindex.DisputeIndex
	engine       *engine.Engine
	lookup       lookup.TransactionLookup
	callbacks    []callback.EventCallback

	commandTimeout time.Duration
	readTimeout    time.Duration

	mu      sync.Mutex
	actors  map[domain.ClientID]*actor.ClientActor
	watched map[domain.ClientID]struct{}
}

// New builds a ClientRegistry with no namespace ("client-{id}" naming) and
// the default deadlines.
func New(j journal.Journal, d disputeindex.DisputeIndex) *ClientRegistry {
	return WithNamespace(j, d, "")
}

// WithNamespace builds a ClientRegistry whose actor names are prefixed
// "{namespace}-client-{id}", so tests running concurrent registries never
// collide. Not meant for production use.
func WithNamespace(j journal.Journal, d disputeindex.DisputeIndex, namespace string) *ClientRegistry {
	r := WithTimeouts(j, d, DefaultCommandTimeout, DefaultReadTimeout)
	r.namespace = namespace
	return r
}

// WithTimeouts builds a ClientRegistry with caller-chosen per-call
// deadlines, for deployments that tune actor-call timeouts via
// config.ActorConfig instead of accepting the defaults.
func WithTimeouts(j journal.Journal, d disputeindex.DisputeIndex, commandTimeout, readTimeout time.Duration) *ClientRegistry {
	lk := lookup.New(j, d)
	return &ClientRegistry{
		journal:        j,
		disputeIndex:   d,
		engine:         engine.New(),
		lookup:         lk,
		callbacks:      []callback.EventCallback{callback.NewDisputeIndexCallback(d)},
		commandTimeout: commandTimeout,
		readTimeout:    readTimeout,
		actors:         make(map[domain.ClientID]*actor.ClientActor),
		watched:        make(map[domain.ClientID]struct{}),
	}
}

// Name computes the canonical registry name for clientID: the
// "{namespace}-client-{id}" / "client-{id}" scheme a cluster-wide registry
// would key spawns by. This registry keys its own map by ClientID directly
// (it is the sole owner of the process-local map, so no name collision is
// possible), but exposes Name so callers — and tests asserting namespace
// isolation — can see the identity a distributed implementation would use.
func (r *ClientRegistry) Name(clientID domain.ClientID) string {
	if r.namespace == "" {
		return fmt.Sprintf("client-%d", clientID)
	}
	return fmt.Sprintf("%s-client-%d", r.namespace, clientID)
}

// GetOrSpawn returns the actor for clientID, spawning one under its
// canonical name if absent. A concurrent spawn race is resolved by simply
// holding the registry lock across the check-and-spawn; unlike the
// original's cluster-wide registry there is no spawn failure to retry
// against here, since this registry is the only owner of the map.
func (r *ClientRegistry) GetOrSpawn(clientID domain.ClientID) *actor.ClientActor {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.actors[clientID]; ok {
		return a
	}

	a := actor.Spawn(clientID, r.engine, r.journal, r.lookup, r.callbacks)
	r.actors[clientID] = a
	metrics.RegistryClientsTotal.Set(float64(len(r.actors)))
	return a
}

// ProcessCommand looks up (or spawns) the actor for the command's client
// and forwards it, under a bounded reply deadline (500ms default). A
// deadline expiry is reported as a recoverable EngineError, never a panic.
func (r *ClientRegistry) ProcessCommand(ctx context.Context, cmd domain.Command, dedupKey domain.DeduplicationKey) *domain.PaymentError {
	clientID := cmd.ClientIDOf()

	r.mu.Lock()
	r.watched[clientID] = struct{}{}
	r.mu.Unlock()

	a := r.GetOrSpawn(clientID)

	metadata := domain.EventMetadata{
		ClientID:         clientID,
		TxID:             cmd.TxIDOf(),
		DeduplicationKey: dedupKey,
	}

	callCtx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	err := a.ProcessCommand(callCtx, cmd, metadata)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordCommand(cmd.Kind.String(), outcome)
	if callCtx.Err() != nil {
		metrics.RecordActorCallTimeout("process_command")
		return domain.FromEngineError(domain.ValidationEngineError("actor call timeout after %s", r.commandTimeout))
	}

	return err
}

// GetState returns the current state of clientID's account, or false if no
// actor exists for it (lookup only; never spawns). Bounded by the
// registry's read timeout (100ms default).
func (r *ClientRegistry) GetState(ctx context.Context, clientID domain.ClientID) (domain.AccountState, bool, error) {
	r.mu.Lock()
	a, ok := r.actors[clientID]
	r.mu.Unlock()
	if !ok {
		return domain.AccountState{}, false, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	state, err := a.GetState(callCtx)
	if err != nil {
		metrics.RecordActorCallTimeout("get_state")
		return domain.AccountState{}, false, fmt.Errorf("registry: get_state timed out after %s: %w", r.readTimeout, err)
	}
	return state, true, nil
}

// GetAllStates returns the current state of every client id the registry
// has processed at least one command for.
func (r *ClientRegistry) GetAllStates(ctx context.Context) (map[domain.ClientID]domain.AccountState, error) {
	r.mu.Lock()
	clientIDs := make([]domain.ClientID, 0, len(r.watched))
	for id := range r.watched {
		clientIDs = append(clientIDs, id)
	}
	r.mu.Unlock()

	states := make(map[domain.ClientID]domain.AccountState, len(clientIDs))
	for _, id := range clientIDs {
		state, ok, err := r.GetState(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("registry: get_all_states: client %d: %w", id, err)
		}
		if ok {
			states[id] = state
		}
	}
	return states, nil
}

// ShutdownAll stops every actor the registry has spawned and clears its
// bookkeeping. After this call, a subsequent ProcessCommand for the same
// client id spawns a brand-new actor starting from Active{0,0,0}.
func (r *ClientRegistry) ShutdownAll() {
	r.mu.Lock()
	actors := make([]*actor.ClientActor, 0, len(r.actors))
	for _, a := range r.actors {
		actors = append(actors, a)
	}
	r.actors = make(map[domain.ClientID]*actor.ClientActor)
	r.watched = make(map[domain.ClientID]struct{})
	r.mu.Unlock()

	for _, a := range actors {
		a.Stop()
	}
	metrics.RegistryClientsTotal.Set(0)
}
