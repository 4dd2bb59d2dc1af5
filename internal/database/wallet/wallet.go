package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var txQuery = database.PSQL.
	Select("id", "member_id", "amount_cents", "kind", "status", "note",
		"created_by", "decided_by", "created_at", "decided_at").
	From(database.WalletTxTable)

type transactionDTO struct {
	ID          int64
	MemberID    int64
	AmountCents int64
	Kind        int
	Status      int
	Note        string
	CreatedBy   int64
	DecidedBy   *int64
	CreatedAt   time.Time
	DecidedAt   *time.Time
}

func mapToTransaction(d *transactionDTO) *model.WalletTransaction {
	return &model.WalletTransaction{
		ID:          d.ID,
		MemberID:    d.MemberID,
		AmountCents: d.AmountCents,
		Kind:        model.TransactionKind(d.Kind),
		Status:      model.TransactionStatus(d.Status),
		Note:        d.Note,
		CreatedBy:   d.CreatedBy,
		DecidedBy:   d.DecidedBy,
		CreatedAt:   d.CreatedAt,
		DecidedAt:   d.DecidedAt,
	}
}

func (*Repository) AddTransaction(ctx context.Context, q database.Queryable, t *model.WalletTransaction) (int64, error) {
	qb := database.PSQL.
		Insert(database.WalletTxTable).
		Columns("member_id", "amount_cents", "kind", "status", "note", "created_by").
		Values(t.MemberID, t.AmountCents, t.Kind, t.Status, t.Note, t.CreatedBy).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

func (*Repository) GetTransaction(ctx context.Context, q database.Queryable, id int64) (*model.WalletTransaction, error) {
	qb := txQuery.
		Where(sq.Eq{"id": id})

	dto := &transactionDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToTransaction(dto), nil
}

// DecideTransaction flips a pending withdrawal to its final status. The
// status guard in the predicate makes two concurrent decisions race safely:
// the loser updates zero rows and reports model.ErrConflict.
func (*Repository) DecideTransaction(ctx context.Context, q database.Queryable, id int64, status model.TransactionStatus, decidedBy int64) error {
	qb := database.PSQL.
		Update(database.WalletTxTable).
		SetMap(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": id, "status": model.StatusPending})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrConflict
	}

	return nil
}

// GetBalance sums approved deposits and allowances minus approved
// withdrawals.
func (*Repository) GetBalance(ctx context.Context, q database.Queryable, memberID int64) (int64, error) {
	var balance int64
	if err := q.Get(ctx, &balance, sq.Expr(
		"select coalesce(sum(case when kind = $1 then -amount_cents else amount_cents end), 0) from "+
			database.WalletTxTable+" where member_id = $2 and status = $3",
		model.KindWithdrawal, memberID, model.StatusApproved,
	)); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return balance, nil
}

func (*Repository) GetPendingTransactions(ctx context.Context, q database.Queryable, memberID int64) ([]*model.WalletTransaction, error) {
	qb := txQuery.
		Where(sq.Eq{"member_id": memberID, "status": model.StatusPending}).
		OrderBy("created_at")

	var dtos []*transactionDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.WalletTransaction, len(dtos))
	for i, d := range dtos {
		res[i] = mapToTransaction(d)
	}

	return res, nil
}

func (*Repository) UpsertGoal(ctx context.Context, q database.Queryable, goal *model.SavingsGoal) error {
	qb := database.PSQL.
		Insert(database.GoalsTable).
		Columns("member_id", "title", "target_cents").
		Values(goal.MemberID, goal.Title, goal.TargetCents).
		Suffix("on conflict (member_id) do update set title = excluded.title, target_cents = excluded.target_cents")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

type goalDTO struct {
	MemberID    int64
	Title       string
	TargetCents int64
}

func (*Repository) GetGoal(ctx context.Context, q database.Queryable, memberID int64) (*model.SavingsGoal, error) {
	qb := database.PSQL.
		Select("member_id", "title", "target_cents").
		From(database.GoalsTable).
		Where(sq.Eq{"member_id": memberID})

	dto := &goalDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return &model.SavingsGoal{
		MemberID:    dto.MemberID,
		Title:       dto.Title,
		TargetCents: dto.TargetCents,
	}, nil
}
