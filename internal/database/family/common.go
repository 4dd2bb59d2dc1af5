package family

import "github.com/avasilkov/family-organizer-backend/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"f.id",
		"f.name",
		"f.join_code",
		"array_agg(m.id order by m.id) members_ids",
	).
	From(database.FamiliesTable + " f").
	Join(database.MembersTable + " m on f.id = m.family_id").
	GroupBy("f.id")
