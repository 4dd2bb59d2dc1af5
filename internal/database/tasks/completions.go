package tasks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

// AddCompletion inserts a done-marker. A concurrent insert on the same
// (event, member, date) key trips the unique index and surfaces as
// model.ErrConflict so the caller can retry the toggle.
func (*Repository) AddCompletion(ctx context.Context, q database.Queryable, c *model.TaskCompletion) error {
	qb := database.PSQL.
		Insert(database.CompletionsTable).
		Columns("event_id", "member_id", "completed_date").
		Values(c.EventID, c.MemberID, c.Date)

	if _, err := q.Exec(ctx, qb); err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}

// DeleteCompletion removes the marker and reports whether a row existed.
func (*Repository) DeleteCompletion(ctx context.Context, q database.Queryable, c *model.TaskCompletion) (bool, error) {
	qb := database.PSQL.
		Delete(database.CompletionsTable).
		Where(sq.Eq{
			"event_id":       c.EventID,
			"member_id":      c.MemberID,
			"completed_date": c.Date,
		})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return false, fmt.Errorf("SQL request: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetCompletions batch-fetches completions for a set of events on one date,
// optionally narrowed to one member.
func (*Repository) GetCompletions(ctx context.Context, q database.Queryable, filter model.CompletionsFilter) ([]*model.TaskCompletion, error) {
	if len(filter.EventIDs) == 0 {
		return nil, nil
	}

	qb := database.PSQL.
		Select("event_id", "member_id", "completed_date", "completed_at").
		From(database.CompletionsTable).
		Where(sq.Eq{"event_id": filter.EventIDs}).
		Where(sq.Eq{"completed_date": filter.Date})

	if filter.MemberID != 0 {
		qb = qb.Where(sq.Eq{"member_id": filter.MemberID})
	}

	var dtos []*completionDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.TaskCompletion, len(dtos))
	for i, d := range dtos {
		res[i] = mapToCompletion(d)
	}

	return res, nil
}
