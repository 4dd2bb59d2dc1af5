package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrNotPendingWithdrawal = errors.New("transaction is not a pending withdrawal")

type Service struct {
	db     database.PGX
	wallet walletRepository
}

type walletRepository interface {
	AddTransaction(ctx context.Context, q database.Queryable, t *model.WalletTransaction) (int64, error)
	GetTransaction(ctx context.Context, q database.Queryable, id int64) (*model.WalletTransaction, error)
	DecideTransaction(ctx context.Context, q database.Queryable, id int64, status model.TransactionStatus, decidedBy int64) error
	GetBalance(ctx context.Context, q database.Queryable, memberID int64) (int64, error)
	GetPendingTransactions(ctx context.Context, q database.Queryable, memberID int64) ([]*model.WalletTransaction, error)
	UpsertGoal(ctx context.Context, q database.Queryable, goal *model.SavingsGoal) error
	GetGoal(ctx context.Context, q database.Queryable, memberID int64) (*model.SavingsGoal, error)
}

func NewService(db database.PGX, repo walletRepository) *Service {
	return &Service{
		db:     db,
		wallet: repo,
	}
}

func (s *Service) GetWallet(ctx context.Context, memberID int64) (*model.Wallet, error) {
	balance, err := s.wallet.GetBalance(ctx, s.db, memberID)
	if err != nil {
		return nil, fmt.Errorf("wallet.GetBalance: %w", err)
	}

	goal, err := s.wallet.GetGoal(ctx, s.db, memberID)
	if err != nil && !errors.Is(err, model.ErrNoRecord) {
		return nil, fmt.Errorf("wallet.GetGoal: %w", err)
	}

	pending, err := s.wallet.GetPendingTransactions(ctx, s.db, memberID)
	if err != nil {
		return nil, fmt.Errorf("wallet.GetPendingTransactions: %w", err)
	}

	return &model.Wallet{
		MemberID:     memberID,
		BalanceCents: balance,
		Goal:         goal,
		Pending:      pending,
	}, nil
}

// Deposit posts money to a child's wallet, approved immediately. Only a
// parent calls this; the API layer enforces the role.
func (s *Service) Deposit(ctx context.Context, parentID, memberID, amountCents int64, kind model.TransactionKind, note string) (int64, error) {
	if amountCents <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	if kind == model.KindWithdrawal {
		return 0, fmt.Errorf("deposit cannot be a withdrawal")
	}

	id, err := s.wallet.AddTransaction(ctx, s.db, &model.WalletTransaction{
		MemberID:    memberID,
		AmountCents: amountCents,
		Kind:        kind,
		Status:      model.StatusApproved,
		Note:        note,
		CreatedBy:   parentID,
	})
	if err != nil {
		return 0, fmt.Errorf("wallet.AddTransaction: %w", err)
	}

	return id, nil
}

// RequestWithdrawal records a child's pending withdrawal. The balance check
// here is advisory; the binding check happens again at approval time.
func (s *Service) RequestWithdrawal(ctx context.Context, memberID, amountCents int64, note string) (int64, error) {
	if amountCents <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	balance, err := s.wallet.GetBalance(ctx, s.db, memberID)
	if err != nil {
		return 0, fmt.Errorf("wallet.GetBalance: %w", err)
	}
	if balance < amountCents {
		return 0, ErrInsufficientFunds
	}

	id, err := s.wallet.AddTransaction(ctx, s.db, &model.WalletTransaction{
		MemberID:    memberID,
		AmountCents: amountCents,
		Kind:        model.KindWithdrawal,
		Status:      model.StatusPending,
		Note:        note,
		CreatedBy:   memberID,
	})
	if err != nil {
		return 0, fmt.Errorf("wallet.AddTransaction: %w", err)
	}

	return id, nil
}

// Decide approves or rejects a pending withdrawal. The repository's guarded
// update turns a lost race into model.ErrConflict.
func (s *Service) Decide(ctx context.Context, txID, parentID int64, approve bool) error {
	return database.RunInTx(ctx, s.db, nil, func(tx database.Tx) error {
		t, err := s.wallet.GetTransaction(ctx, tx, txID)
		if err != nil {
			return fmt.Errorf("wallet.GetTransaction: %w", err)
		}

		if t.Kind != model.KindWithdrawal || t.Status != model.StatusPending {
			return ErrNotPendingWithdrawal
		}

		status := model.StatusRejected
		if approve {
			balance, err := s.wallet.GetBalance(ctx, tx, t.MemberID)
			if err != nil {
				return fmt.Errorf("wallet.GetBalance: %w", err)
			}
			if balance < t.AmountCents {
				return ErrInsufficientFunds
			}
			status = model.StatusApproved
		}

		if err := s.wallet.DecideTransaction(ctx, tx, txID, status, parentID); err != nil {
			return fmt.Errorf("wallet.DecideTransaction: %w", err)
		}

		return nil
	})
}

func (s *Service) SetGoal(ctx context.Context, goal *model.SavingsGoal) error {
	if goal.TargetCents <= 0 {
		return fmt.Errorf("target must be positive")
	}

	if err := s.wallet.UpsertGoal(ctx, s.db, goal); err != nil {
		return fmt.Errorf("wallet.UpsertGoal: %w", err)
	}

	return nil
}
