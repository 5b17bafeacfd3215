package command

import (
	"context"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/lookup"
)

type disputeHandler struct{}

// Disputes are allowed even on a frozen account: a client must be able to
// dispute a fraudulent transaction regardless of the account's current
// status, so Validate never gates on AccountState here.
func (disputeHandler) Load(ctx context.Context, cmd domain.Command, _ domain.AccountState, lk lookup.TransactionLookup) (Resource, *domain.PaymentError) {
	original, err := lk.FindTransaction(ctx, cmd.Dispute.TxID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.FromEngineError(domain.LoadingResourcesError("transaction %d not found", cmd.Dispute.TxID))
	}
	return original, nil
}

func (disputeHandler) Validate(_ domain.Command, _ domain.AccountState, resource Resource) (Entity, *domain.PaymentError) {
	original := resource.(*domain.Event)
	if _, err := originalTransactionAmount(*original); err != nil {
		return nil, err
	}
	return nil, nil
}

func (disputeHandler) Emit(cmd domain.Command, _ Entity, resource Resource, _ time.Time) (domain.Event, *domain.PaymentError) {
	original := resource.(*domain.Event)
	amount, err := originalTransactionAmount(*original)
	if err != nil {
		return domain.Event{}, err
	}
	dispute := cmd.Dispute
	return domain.NewDisputedEvent(dispute.ClientID, dispute.TxID, amount), nil
}

func (disputeHandler) Effect(_ context.Context, _, _ domain.AccountState, _ Resource, _ Entity, _ time.Time) *domain.PaymentError {
	return nil
}

var _ Handler = disputeHandler{}
