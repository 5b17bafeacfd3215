package command

import (
	"context"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/lookup"
)

type chargebackResource struct {
	original   *domain.Event
	isDisputed bool
}

type chargebackHandler struct{}

func (chargebackHandler) Load(ctx context.Context, cmd domain.Command, _ domain.AccountState, lk lookup.TransactionLookup) (Resource, *domain.PaymentError) {
	original, err := lk.FindTransaction(ctx, cmd.Chargeback.TxID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("transaction %d not found", cmd.Chargeback.TxID))
	}

	isDisputed, err := lk.IsDisputed(ctx, cmd.Chargeback.TxID)
	if err != nil {
		return nil, err
	}

	return chargebackResource{original: original, isDisputed: isDisputed}, nil
}

// If the referenced tx isn't under dispute, the partner made a mistake;
// the chargeback is rejected, never silently dropped.
func (chargebackHandler) Validate(_ domain.Command, _ domain.AccountState, resource Resource) (Entity, *domain.PaymentError) {
	res := resource.(chargebackResource)

	amount, err := originalTransactionAmount(*res.original)
	if err != nil {
		return nil, err
	}

	if !res.isDisputed {
		return nil, domain.FromTransactionError(domain.NewTransactionError(domain.ErrInvalidTransactionTyp))
	}

	return amount, nil
}

func (chargebackHandler) Emit(cmd domain.Command, entity Entity, _ Resource, _ time.Time) (domain.Event, *domain.PaymentError) {
	amount := entity.(domain.Amount)
	chargeback := cmd.Chargeback
	return domain.NewChargebackedEvent(chargeback.ClientID, chargeback.TxID, amount), nil
}

func (chargebackHandler) Effect(_ context.Context, _, _ domain.AccountState, _ Resource, _ Entity, _ time.Time) *domain.PaymentError {
	return nil
}

var _ Handler = chargebackHandler{}
