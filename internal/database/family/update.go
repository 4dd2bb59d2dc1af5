package family

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (*Repository) UpdateMember(ctx context.Context, q database.Queryable, member *model.Member) error {
	qb := database.PSQL.
		Update(database.MembersTable).
		SetMap(map[string]interface{}{
			"name":     member.Name,
			"role":     member.Role,
			"color":    "#" + member.Color.ToHTML(),
			"avatar":   member.Avatar,
			"pin_hash": member.PinHash,
		}).
		Where(sq.Eq{"id": member.ID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) DeleteDevice(ctx context.Context, q database.Queryable, token string) error {
	qb := database.PSQL.
		Delete(database.DevicesTable).
		Where(sq.Eq{"token": token})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
