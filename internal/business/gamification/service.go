package gamification

import (
	"context"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

type Service struct {
	db             database.PGX
	pets           petsRepository
	families       familiesRepository
	hatchThreshold int
	now            func() time.Time
}

type petsRepository interface {
	EnsurePet(ctx context.Context, q database.Queryable, memberID int64) (*model.Pet, error)
	GetPetByMember(ctx context.Context, q database.Queryable, memberID int64) (*model.Pet, error)
	UpdatePet(ctx context.Context, q database.Queryable, pet *model.Pet) error
	AddXPEntry(ctx context.Context, q database.Queryable, entry *model.XPEntry) error
	GetMonthSummaries(ctx context.Context, q database.Queryable, familyID int64, month string) ([]*model.XPSummary, error)
	AddRollover(ctx context.Context, q database.Queryable, familyID int64, month string) error
}

type familiesRepository interface {
	GetFamilyMembers(ctx context.Context, q database.Queryable, familyID int64) ([]*model.Member, error)
}

func NewService(db database.PGX, pets petsRepository, families familiesRepository, hatchThreshold int) *Service {
	return &Service{
		db:             db,
		pets:           pets,
		families:       families,
		hatchThreshold: hatchThreshold,
		now:            time.Now,
	}
}

// Month formats the ledger month key.
func Month(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func (s *Service) PetForMember(ctx context.Context, memberID int64) (*model.Pet, error) {
	return s.pets.EnsurePet(ctx, s.db, memberID)
}

func (s *Service) MonthSummaries(ctx context.Context, familyID int64, month string) ([]*model.XPSummary, error) {
	return s.pets.GetMonthSummaries(ctx, s.db, familyID, month)
}
