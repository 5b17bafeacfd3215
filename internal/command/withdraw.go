package command

import (
	"context"
	"time"

	"paymentengine/internal/domain"
	"paymentengine/internal/lookup"
)

type withdrawHandler struct{}

func (withdrawHandler) Load(_ context.Context, _ domain.Command, _ domain.AccountState, _ lookup.TransactionLookup) (Resource, *domain.PaymentError) {
	return nil, nil
}

func (withdrawHandler) Validate(cmd domain.Command, actualState domain.AccountState, _ Resource) (Entity, *domain.PaymentError) {
	withdraw := cmd.Withdraw

	if !withdraw.Amount.IsPositive() {
		return nil, domain.FromTransactionError(domain.NewTransactionError(domain.ErrInvalidAmount))
	}

	if actualState.IsFrozen() {
		return nil, domain.FromEngineError(domain.ValidationEngineError("cannot withdraw from frozen account"))
	}

	if !actualState.AvailableAmount().GreaterThanOrEqual(withdraw.Amount) {
		return nil, domain.FromTransactionError(domain.NewTransactionError(domain.ErrInsufficientFunds))
	}

	return nil, nil
}

func (withdrawHandler) Emit(cmd domain.Command, _ Entity, _ Resource, _ time.Time) (domain.Event, *domain.PaymentError) {
	withdraw := cmd.Withdraw
	return domain.NewWithdrawnEvent(withdraw.ClientID, withdraw.TxID, withdraw.Amount), nil
}

func (withdrawHandler) Effect(_ context.Context, _, _ domain.AccountState, _ Resource, _ Entity, _ time.Time) *domain.PaymentError {
	return nil
}

var _ Handler = withdrawHandler{}
