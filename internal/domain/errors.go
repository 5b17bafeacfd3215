package domain

import (
	"errors"
	"fmt"
)

// TransactionError represents a business-rule rejection: the command is
// well-formed but cannot be honored against the current account state.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string { return e.Err.Error() }
func (e *TransactionError) Unwrap() error { return e.Err }

func NewTransactionError(err error) *TransactionError {
	return &TransactionError{Err: err}
}

// Sentinel TransactionError causes, matched with errors.Is.
var (
	ErrInsufficientFunds     = errors.New("insufficient funds for transaction")
	ErrAccountLocked         = errors.New("account is locked")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrDuplicateTransaction  = errors.New("duplicate transaction id")
	ErrInvalidTransactionTyp = errors.New("invalid transaction type")
	ErrInvalidAmount         = errors.New("invalid amount (must be positive)")
)

// GeneralTransactionError wraps an arbitrary business-rule message that
// doesn't fit one of the fixed sentinels above.
func GeneralTransactionError(format string, args ...any) *TransactionError {
	return NewTransactionError(fmt.Errorf(format, args...))
}

// EngineError represents a pipeline fault: something went wrong running the
// load/validate/persist/callback/apply phases themselves, independent of
// whether the command's business rules would have passed.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string { return e.Err.Error() }
func (e *EngineError) Unwrap() error { return e.Err }

func NewEngineError(err error) *EngineError {
	return &EngineError{Err: err}
}

var (
	ErrNoEvents              = errors.New("no events produced by command handler")
	ErrStateTransitionFailed = errors.New("state transition failed - event could not be applied")
)

func LoadingResourcesError(format string, args ...any) *EngineError {
	return NewEngineError(fmt.Errorf("loading resources error: %w", fmt.Errorf(format, args...)))
}

func ValidationEngineError(format string, args ...any) *EngineError {
	return NewEngineError(fmt.Errorf("validation error: %w", fmt.Errorf(format, args...)))
}

func EmittingEventError(format string, args ...any) *EngineError {
	return NewEngineError(fmt.Errorf("emitting event error: %w", fmt.Errorf(format, args...)))
}

func SideEffectError(format string, args ...any) *EngineError {
	return NewEngineError(fmt.Errorf("effecting command error: %w", fmt.Errorf(format, args...)))
}

// PaymentError is the sum of the two error families above. Every public
// engine/actor/registry API that can fail returns a PaymentError so callers
// only ever need one errors.As switch.
type PaymentError struct {
	Transaction *TransactionError
	Engine      *EngineError
}

func (e *PaymentError) Error() string {
	switch {
	case e.Transaction != nil:
		return e.Transaction.Error()
	case e.Engine != nil:
		return e.Engine.Error()
	default:
		return "payment error"
	}
}

func (e *PaymentError) Unwrap() error {
	switch {
	case e.Transaction != nil:
		return e.Transaction
	case e.Engine != nil:
		return e.Engine
	default:
		return nil
	}
}

func FromTransactionError(err *TransactionError) *PaymentError {
	return &PaymentError{Transaction: err}
}

func FromEngineError(err *EngineError) *PaymentError {
	return &PaymentError{Engine: err}
}
