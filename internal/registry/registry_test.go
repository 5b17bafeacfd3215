package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paymentengine/internal/disputeindex"
	"paymentengine/internal/domain"
	"paymentengine/internal/journal"
	"paymentengine/internal/registry"
)

func newRegistry(namespace string) *registry.ClientRegistry {
	j := journal.NewInMemoryJournal()
	idx := disputeindex.NewInMemory()
	return registry.WithNamespace(j, idx, namespace)
}

func TestGetOrSpawnReturnsSameActorForSameClient(t *testing.T) {
	r := newRegistry(t.Name())
	defer r.ShutdownAll()

	a1 := r.GetOrSpawn(1)
	a2 := r.GetOrSpawn(1)
	assert.Same(t, a1, a2)
}

func TestNameIncludesNamespace(t *testing.T) {
	r := newRegistry("test-ns")
	defer r.ShutdownAll()

	assert.Equal(t, "test-ns-client-7", r.Name(7))
}

func TestNameWithoutNamespace(t *testing.T) {
	r := newRegistry("")
	defer r.ShutdownAll()

	assert.Equal(t, "client-7", r.Name(7))
}

func TestProcessCommandThenGetState(t *testing.T) {
	r := newRegistry(t.Name())
	defer r.ShutdownAll()
	ctx := context.Background()

	err := r.ProcessCommand(ctx, domain.NewDepositCommand(1, 1, domain.MustAmount("20.0000")), "k1")
	require.Nil(t, err)

	state, ok, getErr := r.GetState(ctx, 1)
	require.NoError(t, getErr)
	require.True(t, ok)
	assert.Equal(t, "20.0000", state.AvailableAmount().String())
}

func TestGetStateUnknownClientReturnsFalse(t *testing.T) {
	r := newRegistry(t.Name())
	defer r.ShutdownAll()

	_, ok, err := r.GetState(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetAllStatesIncludesOnlyProcessedClients(t *testing.T) {
	r := newRegistry(t.Name())
	defer r.ShutdownAll()
	ctx := context.Background()

	require.Nil(t, r.ProcessCommand(ctx, domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "k1"))
	require.Nil(t, r.ProcessCommand(ctx, domain.NewDepositCommand(2, 2, domain.MustAmount("20.0000")), "k2"))

	states, err := r.GetAllStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "10.0000", states[1].AvailableAmount().String())
	assert.Equal(t, "20.0000", states[2].AvailableAmount().String())
}

func TestShutdownAllClearsWatchedClients(t *testing.T) {
	r := newRegistry(t.Name())
	ctx := context.Background()

	require.Nil(t, r.ProcessCommand(ctx, domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "k1"))
	r.ShutdownAll()

	states, err := r.GetAllStates(ctx)
	require.NoError(t, err)
	assert.Empty(t, states)

	_, ok, err := r.GetState(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessCommandForDifferentClientsIsIndependent(t *testing.T) {
	r := newRegistry(t.Name())
	defer r.ShutdownAll()
	ctx := context.Background()

	require.Nil(t, r.ProcessCommand(ctx, domain.NewDepositCommand(1, 1, domain.MustAmount("10.0000")), "k1"))
	require.Nil(t, r.ProcessCommand(ctx, domain.NewDepositCommand(2, 2, domain.MustAmount("5.0000")), "k2"))

	state1, ok, err := r.GetState(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.0000", state1.AvailableAmount().String())

	state2, ok, err := r.GetState(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "5.0000", state2.AvailableAmount().String())
}
