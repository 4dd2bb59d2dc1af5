package family

import (
	"context"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (*Repository) CreateFamily(ctx context.Context, q database.Queryable, family *model.FamilyCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.FamiliesTable).
		Columns("name", "join_code").
		Values(family.Name, family.JoinCode).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return 0, model.ErrAlreadyExists
		}
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

func (*Repository) CreateMember(ctx context.Context, q database.Queryable, member *model.MemberCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.MembersTable).
		Columns("family_id", "name", "role", "color", "avatar", "pin_hash").
		Values(
			member.FamilyID,
			member.Name,
			member.Role,
			"#"+member.Color.ToHTML(),
			member.Avatar,
			member.PinHash,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

func (*Repository) CreateDevice(ctx context.Context, q database.Queryable, device *model.Device) error {
	qb := database.PSQL.
		Insert(database.DevicesTable).
		Columns("token", "member_id", "name").
		Values(device.Token, device.MemberID, device.Name)

	if _, err := q.Exec(ctx, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
