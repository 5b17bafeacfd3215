package domain

import "time"

// AccountState is the current balance of a client's account, rebuilt by
// folding events over it from the journal. It is a closed, two-variant
// union: Active or Frozen. The two variants hold the exact same fields
// today, but are kept as distinct types because a frozen account's
// semantics (no further withdrawals) are expected to diverge
// from an active one's as more of the ledger is built out.
type AccountState struct {
	Frozen bool
	Active *ActiveAccountState
	Closed *FrozenAccountState
}

// ActiveAccountState is a normally operating account.
type ActiveAccountState struct {
	Available    Amount
	Held         Amount
	Total        Amount
	LastActivity time.Time
}

// FrozenAccountState is an account permanently locked by a chargeback. It
// still tracks balances (for reporting) but the account no longer accepts
// withdrawals; deposits and new disputes still apply to it.
type FrozenAccountState struct {
	Available    Amount
	Held         Amount
	Total        Amount
	LastActivity time.Time
}

// NewAccountState returns the starting state for an account that has never
// seen a transaction: active, all balances zero.
func NewAccountState() AccountState {
	return AccountState{
		Active: &ActiveAccountState{Available: Zero, Held: Zero, Total: Zero},
	}
}

// IsFrozen reports whether the account has been charged back.
func (s AccountState) IsFrozen() bool {
	return s.Frozen
}

// AvailableAmount, HeldAmount and TotalAmount read the balance fields regardless of which
// variant the account is currently in.
func (s AccountState) AvailableAmount() Amount {
	if s.Frozen {
		return s.Closed.Available
	}
	return s.Active.Available
}

func (s AccountState) HeldAmount() Amount {
	if s.Frozen {
		return s.Closed.Held
	}
	return s.Active.Held
}

func (s AccountState) TotalAmount() Amount {
	if s.Frozen {
		return s.Closed.Total
	}
	return s.Active.Total
}
