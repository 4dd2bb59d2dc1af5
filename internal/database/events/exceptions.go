package events

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

// AddException suppresses one occurrence. Inserting the same key twice is a
// no-op, as is an exception on a date the rule never generates.
func (*Repository) AddException(ctx context.Context, q database.Queryable, exc *model.Exception) error {
	qb := database.PSQL.
		Insert(database.ExceptionsTable).
		Columns("event_id", "exc_date").
		Values(exc.EventID, exc.Date).
		Suffix("on conflict do nothing")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

func (*Repository) DeleteException(ctx context.Context, q database.Queryable, exc *model.Exception) error {
	qb := database.PSQL.
		Delete(database.ExceptionsTable).
		Where(sq.Eq{"event_id": exc.EventID, "exc_date": exc.Date})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

// GetExceptions fetches the exception dates for a whole set of events in one
// query and groups them by event id. Materializing a family's day must not
// turn into one query per event.
func (*Repository) GetExceptions(ctx context.Context, q database.Queryable, eventIDs []int64, from, to time.Time) (map[int64]map[time.Time]struct{}, error) {
	if len(eventIDs) == 0 {
		return map[int64]map[time.Time]struct{}{}, nil
	}

	qb := database.PSQL.
		Select("event_id", "exc_date").
		From(database.ExceptionsTable).
		Where(sq.Eq{"event_id": eventIDs}).
		Where(sq.GtOrEq{"exc_date": from}).
		Where(sq.LtOrEq{"exc_date": to})

	var dtos []*exceptionDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make(map[int64]map[time.Time]struct{}, len(eventIDs))
	for _, d := range dtos {
		dates, ok := res[d.EventID]
		if !ok {
			dates = map[time.Time]struct{}{}
			res[d.EventID] = dates
		}
		dates[recurrence.DateOf(d.ExcDate)] = struct{}{}
	}

	return res, nil
}
