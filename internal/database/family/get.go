package family

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

func (*Repository) GetFamily(ctx context.Context, q database.Queryable, id int64) (*model.Family, error) {
	qb := baseQuery.
		Where(sq.Eq{"f.id": id})

	dto := &familyDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToFamily(dto), nil
}

func (*Repository) GetFamilyByJoinCode(ctx context.Context, q database.Queryable, code string) (*model.Family, error) {
	qb := baseQuery.
		Where(sq.Eq{"f.join_code": code})

	dto := &familyDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToFamily(dto), nil
}

var memberQuery = database.PSQL.
	Select("id", "family_id", "name", "role", "color", "avatar", "pin_hash").
	From(database.MembersTable)

func (*Repository) GetMemberByID(ctx context.Context, q database.Queryable, id int64) (*model.Member, error) {
	qb := memberQuery.
		Where(sq.Eq{"id": id})

	dto := &memberDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToMember(dto)
}

func (*Repository) GetFamilyMembers(ctx context.Context, q database.Queryable, familyID int64) ([]*model.Member, error) {
	qb := memberQuery.
		Where(sq.Eq{"family_id": familyID}).
		OrderBy("id")

	var dtos []*memberDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Member, len(dtos))
	for i, d := range dtos {
		var err error
		res[i], err = mapToMember(d)
		if err != nil {
			return nil, fmt.Errorf("map member: %w", err)
		}
	}

	return res, nil
}

func (*Repository) GetDevice(ctx context.Context, q database.Queryable, token string) (*model.Device, error) {
	qb := database.PSQL.
		Select("token", "member_id", "name").
		From(database.DevicesTable).
		Where(sq.Eq{"token": token})

	dto := &deviceDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToDevice(dto), nil
}
