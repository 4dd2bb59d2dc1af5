package model

import "time"

type TransactionKind int

const (
	KindDeposit TransactionKind = iota
	KindWithdrawal
	KindAllowance
)

type TransactionStatus int

const (
	StatusApproved TransactionStatus = iota
	StatusPending
	StatusRejected
)

// WalletTransaction is an append-only money record in cents. Deposits and
// allowances from a parent are approved immediately; a child's withdrawal
// stays pending until a parent decides it.
type WalletTransaction struct {
	ID          int64
	MemberID    int64
	AmountCents int64
	Kind        TransactionKind
	Status      TransactionStatus
	Note        string
	CreatedBy   int64
	DecidedBy   *int64
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

type SavingsGoal struct {
	MemberID    int64
	Title       string
	TargetCents int64
}

type Wallet struct {
	MemberID     int64
	BalanceCents int64
	Goal         *SavingsGoal
	Pending      []*WalletTransaction
}
