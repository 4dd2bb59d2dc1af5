package pets

import (
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var petQuery = database.PSQL.
	Select("id", "member_id", "species", "stage", "xp", "hatched_month", "updated_at").
	From(database.PetsTable)

type petDTO struct {
	ID           int64
	MemberID     int64
	Species      int
	Stage        int
	XP           int `db:"xp"`
	HatchedMonth string
	UpdatedAt    time.Time
}

func mapToPet(d *petDTO) *model.Pet {
	return &model.Pet{
		ID:           d.ID,
		MemberID:     d.MemberID,
		Species:      model.PetSpecies(d.Species),
		Stage:        model.GrowthStage(d.Stage),
		XP:           d.XP,
		HatchedMonth: d.HatchedMonth,
		UpdatedAt:    d.UpdatedAt,
	}
}
