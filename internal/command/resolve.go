package command

import (
	"context"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/lookup"
)

// resolveResource is what Load fetches for a resolve: the original
// transaction and whether it is currently under dispute.
type resolveResource struct {
	original   *domain.Event
	isDisputed bool
}

type resolveHandler struct{}

func (resolveHandler) Load(ctx context.Context, cmd domain.Command, _ domain.AccountState, lk lookup.TransactionLookup) (Resource, *domain.PaymentError) {
	original, err := lk.FindTransaction(ctx, cmd.Resolve.TxID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("transaction %d not found", cmd.Resolve.TxID))
	}

	isDisputed, err := lk.IsDisputed(ctx, cmd.Resolve.TxID)
	if err != nil {
		return nil, err
	}

	return resolveResource{original: original, isDisputed: isDisputed}, nil
}

// If the referenced tx isn't under dispute, the partner made a mistake;
// the resolve is rejected, never silently dropped.
func (resolveHandler) Validate(_ domain.Command, _ domain.AccountState, resource Resource) (Entity, *domain.PaymentError) {
	res := resource.(resolveResource)

	amount, err := originalTransactionAmount(*res.original)
	if err != nil {
		return nil, err
	}

	if !res.isDisputed {
		return nil, domain.FromTransactionError(domain.NewTransactionError(domain.ErrInvalidTransactionTyp))
	}

	return amount, nil
}

func (resolveHandler) Emit(cmd domain.Command, entity Entity, _ Resource, _ time.Time) (domain.Event, *domain.PaymentError) {
	amount := entity.(domain.Amount)
	resolve := cmd.Resolve
	return domain.NewResolvedEvent(resolve.ClientID, resolve.TxID, amount), nil
}

func (resolveHandler) Effect(_ context.Context, _, _ domain.AccountState, _ Resource, _ Entity, _ time.Time) *domain.PaymentError {
	return nil
}

var _ Handler = resolveHandler{}
