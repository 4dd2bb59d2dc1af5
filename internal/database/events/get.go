package events

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/jackc/pgx/v4"
)

func (*Repository) GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &eventDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToEvent(dto), nil
}

// GetEvents returns candidate events whose series can intersect the window:
// single events starting inside it, plus recurring series that started before
// its end and have not ended before its start. Precise inclusion is the
// expander's job.
func (*Repository) GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	qb := baseQuery.
		Where(sq.Eq{"family_id": filter.FamilyID}).
		Where(sq.Lt{"start_date": filter.To}).
		Where(sq.Or{
			sq.And{
				sq.Eq{"repeat_type": nil},
				sq.GtOrEq{"start_date": filter.From},
			},
			sq.And{
				sq.NotEq{"repeat_type": nil},
				sq.Or{
					sq.Eq{"repeat_end_date": nil},
					sq.GtOrEq{"repeat_end_date": filter.From},
				},
			},
		}).
		OrderBy("start_date", "id")

	if filter.TasksOnly {
		qb = qb.Where(sq.Eq{"is_task": true})
	}

	var dtos []*eventDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Event, len(dtos))
	for i, d := range dtos {
		res[i] = mapToEvent(d)
	}

	return res, nil
}
