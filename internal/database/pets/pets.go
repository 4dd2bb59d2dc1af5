package pets

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

// EnsurePet creates the member's egg row if it does not exist yet and
// returns the current pet either way.
func (r *Repository) EnsurePet(ctx context.Context, q database.Queryable, memberID int64) (*model.Pet, error) {
	qb := database.PSQL.
		Insert(database.PetsTable).
		Columns("member_id").
		Values(memberID).
		Suffix("on conflict (member_id) do nothing")

	if _, err := q.Exec(ctx, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return r.GetPetByMember(ctx, q, memberID)
}

func (*Repository) GetPetByMember(ctx context.Context, q database.Queryable, memberID int64) (*model.Pet, error) {
	qb := petQuery.
		Where(sq.Eq{"member_id": memberID})

	dto := &petDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToPet(dto), nil
}

func (*Repository) UpdatePet(ctx context.Context, q database.Queryable, pet *model.Pet) error {
	qb := database.PSQL.
		Update(database.PetsTable).
		SetMap(map[string]interface{}{
			"species":       pet.Species,
			"stage":         pet.Stage,
			"xp":            pet.XP,
			"hatched_month": pet.HatchedMonth,
			"updated_at":    sq.Expr("now()"),
		}).
		Where(sq.Eq{"member_id": pet.MemberID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) AddXPEntry(ctx context.Context, q database.Queryable, entry *model.XPEntry) error {
	qb := database.PSQL.
		Insert(database.XPEntriesTable).
		Columns("member_id", "event_id", "points", "reason", "month").
		Values(entry.MemberID, entry.EventID, entry.Points, entry.Reason, entry.Month)

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

type summaryDTO struct {
	MemberID int64
	Points   int
}

// GetMonthSummaries sums the ledger per member for one month across a family.
func (*Repository) GetMonthSummaries(ctx context.Context, q database.Queryable, familyID int64, month string) ([]*model.XPSummary, error) {
	qb := database.PSQL.
		Select("x.member_id", "coalesce(sum(x.points), 0) points").
		From(database.XPEntriesTable + " x").
		Join(database.MembersTable + " m on m.id = x.member_id").
		Where(sq.Eq{"m.family_id": familyID, "x.month": month}).
		GroupBy("x.member_id").
		OrderBy("x.member_id")

	var dtos []*summaryDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.XPSummary, len(dtos))
	for i, d := range dtos {
		res[i] = &model.XPSummary{
			MemberID: d.MemberID,
			Month:    month,
			Points:   d.Points,
		}
	}

	return res, nil
}

// AddRollover records a closed month. A second run for the same family and
// month violates the primary key and reports model.ErrAlreadyExists, which is
// what makes the rollover endpoint idempotent.
func (*Repository) AddRollover(ctx context.Context, q database.Queryable, familyID int64, month string) error {
	qb := database.PSQL.
		Insert(database.RolloversTable).
		Columns("family_id", "month").
		Values(familyID, month)

	if _, err := q.Exec(ctx, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
