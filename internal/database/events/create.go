package events

import (
	"context"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (*Repository) CreateEvent(ctx context.Context, q database.Queryable, event *model.EventCreate) (int64, error) {
	repeatType, repeatInterval, endDate, endCount := ruleColumns(event.Repeat)

	participants := event.ParticipantIDs
	if participants == nil {
		participants = []int64{}
	}

	qb := database.PSQL.
		Insert(database.EventsTable).
		Columns(
			"family_id",
			"category_id",
			"title",
			"description",
			"location",
			"all_day",
			"start_date",
			"duration",
			"repeat_type",
			"repeat_interval",
			"repeat_end_date",
			"repeat_end_count",
			"is_task",
			"xp_points",
			"required",
			"participant_ids",
			"creator_id",
		).
		Values(
			event.FamilyID,
			event.CategoryID,
			event.Title,
			event.Description,
			event.Location,
			event.AllDay,
			event.From,
			event.To.Sub(event.From),
			repeatType,
			repeatInterval,
			endDate,
			endCount,
			event.IsTask,
			event.XPPoints,
			event.Required,
			participants,
			event.CreatorID,
		).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
