package command

import (
	"context"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/lookup"
)

type depositHandler struct{}

func (depositHandler) Load(_ context.Context, _ domain.Command, _ domain.AccountState, _ lookup.TransactionLookup) (Resource, *domain.PaymentError) {
	return nil, nil
}

func (depositHandler) Validate(_ domain.Command, _ domain.AccountState, _ Resource) (Entity, *domain.PaymentError) {
	return nil, nil
}

// Emit checks amount positivity itself rather than in Validate: a deposit's
// only rule depends on the command, not on actual account state, so there
// is nothing for Validate to gate on.
func (depositHandler) Emit(cmd domain.Command, _ Entity, _ Resource, _ time.Time) (domain.Event, *domain.PaymentError) {
	deposit := cmd.Deposit
	if !deposit.Amount.IsPositive() {
		return domain.Event{}, domain.FromTransactionError(domain.NewTransactionError(domain.ErrInvalidAmount))
	}
	return domain.NewDepositedEvent(deposit.ClientID, deposit.TxID, deposit.Amount), nil
}

func (depositHandler) Effect(_ context.Context, _, _ domain.AccountState, _ Resource, _ Entity, _ time.Time) *domain.PaymentError {
	return nil
}

var _ Handler = depositHandler{}
