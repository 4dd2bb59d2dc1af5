package events

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (*Repository) UpdateEvent(ctx context.Context, q database.Queryable, event *model.Event) error {
	repeatType, repeatInterval, endDate, endCount := ruleColumns(event.Repeat)

	participants := event.ParticipantIDs
	if participants == nil {
		participants = []int64{}
	}

	qb := database.PSQL.
		Update(database.EventsTable).
		SetMap(map[string]interface{}{
			"category_id":      event.CategoryID,
			"title":            event.Title,
			"description":      event.Description,
			"location":         event.Location,
			"all_day":          event.AllDay,
			"start_date":       event.From,
			"duration":         event.To.Sub(event.From),
			"repeat_type":      repeatType,
			"repeat_interval":  repeatInterval,
			"repeat_end_date":  endDate,
			"repeat_end_count": endCount,
			"is_task":          event.IsTask,
			"xp_points":        event.XPPoints,
			"required":         event.Required,
			"participant_ids":  participants,
			"updated_at":       sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": event.ID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
