package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
)

// DeleteEvent removes the event; exceptions and completions go with it via
// the foreign-key cascade.
func (*Repository) DeleteEvent(ctx context.Context, q database.Queryable, id int64) error {
	qb := database.PSQL.
		Delete(database.EventsTable).
		Where(sq.Eq{"id": id})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
