package domain

import "fmt"

// Command is a single action requested against a client's account: a
// deposit, withdrawal, dispute, resolve or chargeback. Each command that
// passes validation is persisted as exactly one event and applied to the
// account state to build the current balance. Exactly one of the Deposit/Withdraw/Dispute/Resolve/
// Chargeback fields is non-nil; callers should switch on Kind.
type Command struct {
	Kind       CommandKind
	Deposit    *DepositCommand
	Withdraw   *WithdrawCommand
	Dispute    *DisputeCommand
	Resolve    *ResolveCommand
	Chargeback *ChargebackCommand
}

type CommandKind int

const (
	CommandKindDeposit CommandKind = iota
	CommandKindWithdraw
	CommandKindDispute
	CommandKindResolve
	CommandKindChargeback
)

func (k CommandKind) String() string {
	switch k {
	case CommandKindDeposit:
		return "deposit"
	case CommandKindWithdraw:
		return "withdrawal"
	case CommandKindDispute:
		return "dispute"
	case CommandKindResolve:
		return "resolve"
	case CommandKindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// DepositCommand credits the client's available and total funds by Amount.
type DepositCommand struct {
	ClientID ClientID
	TxID     TxID
	Amount   Amount
}

// WithdrawCommand debits the client's available and total funds by Amount.
// Fails with ErrInsufficientFunds if available funds are insufficient; the
// account is left unchanged when it does.
type WithdrawCommand struct {
	ClientID ClientID
	TxID     TxID
	Amount   Amount
}

// DisputeCommand claims that TxID was erroneous. It does not carry an
// amount: the amount disputed is recovered by looking TxID up in the
// journal/dispute index. If TxID does not exist this is assumed to be an
// error on the partner's side.
type DisputeCommand struct {
	ClientID ClientID
	TxID     TxID
}

// ResolveCommand releases a hold placed by a prior dispute on TxID. If TxID
// does not exist, or is not currently under dispute, this is assumed to be
// an error on the partner's side.
type ResolveCommand struct {
	ClientID ClientID
	TxID     TxID
}

// ChargebackCommand finalizes a dispute on TxID by reversing it: held and
// total funds decrease by the disputed amount and the account is frozen. If
// TxID does not exist, or is not currently under dispute, this is assumed to
// be an error on the partner's side.
type ChargebackCommand struct {
	ClientID ClientID
	TxID     TxID
}

func NewDepositCommand(clientID ClientID, txID TxID, amount Amount) Command {
	return Command{Kind: CommandKindDeposit, Deposit: &DepositCommand{ClientID: clientID, TxID: txID, Amount: amount}}
}

func NewWithdrawCommand(clientID ClientID, txID TxID, amount Amount) Command {
	return Command{Kind: CommandKindWithdraw, Withdraw: &WithdrawCommand{ClientID: clientID, TxID: txID, Amount: amount}}
}

func NewDisputeCommand(clientID ClientID, txID TxID) Command {
	return Command{Kind: CommandKindDispute, Dispute: &DisputeCommand{ClientID: clientID, TxID: txID}}
}

func NewResolveCommand(clientID ClientID, txID TxID) Command {
	return Command{Kind: CommandKindResolve, Resolve: &ResolveCommand{ClientID: clientID, TxID: txID}}
}

func NewChargebackCommand(clientID ClientID, txID TxID) Command {
	return Command{Kind: CommandKindChargeback, Chargeback: &ChargebackCommand{ClientID: clientID, TxID: txID}}
}

// ClientIDOf returns the client the command targets, regardless of kind.
func (c Command) ClientIDOf() ClientID {
	switch c.Kind {
	case CommandKindDeposit:
		return c.Deposit.ClientID
	case CommandKindWithdraw:
		return c.Withdraw.ClientID
	case CommandKindDispute:
		return c.Dispute.ClientID
	case CommandKindResolve:
		return c.Resolve.ClientID
	case CommandKindChargeback:
		return c.Chargeback.ClientID
	default:
		panic(fmt.Sprintf("domain: unhandled command kind %v", c.Kind))
	}
}

// TxIDOf returns the transaction the command refers to, regardless of kind.
func (c Command) TxIDOf() TxID {
	switch c.Kind {
	case CommandKindDeposit:
		return c.Deposit.TxID
	case CommandKindWithdraw:
		return c.Withdraw.TxID
	case CommandKindDispute:
		return c.Dispute.TxID
	case CommandKindResolve:
		return c.Resolve.TxID
	case CommandKindChargeback:
		return c.Chargeback.TxID
	default:
		panic(fmt.Sprintf("domain: unhandled command kind %v", c.Kind))
	}
}
