package events

import "github.com/avasilkov/family-organizer-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select("id",
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
		"created_at",
		"updated_at",
	).
	From(database.EventsTable)
