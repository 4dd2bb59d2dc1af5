package gamification

import (
	"context"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

// Rollover closes one month for a family: eggs whose owner earned enough XP
// hatch into their deterministic species. The operation is triggered from
// outside (an admin endpoint, typically called by an external scheduler) and
// is idempotent: the per-(family, month) marker makes a second run return
// model.ErrAlreadyExists without touching any pet.
func (s *Service) Rollover(ctx context.Context, familyID int64, month string) error {
	return database.RunInTx(ctx, s.db, nil, func(tx database.Tx) error {
		if err := s.pets.AddRollover(ctx, tx, familyID, month); err != nil {
			return fmt.Errorf("pets.AddRollover: %w", err)
		}

		summaries, err := s.pets.GetMonthSummaries(ctx, tx, familyID, month)
		if err != nil {
			return fmt.Errorf("pets.GetMonthSummaries: %w", err)
		}

		earned := make(map[int64]int, len(summaries))
		for _, sum := range summaries {
			earned[sum.MemberID] = sum.Points
		}

		members, err := s.families.GetFamilyMembers(ctx, tx, familyID)
		if err != nil {
			return fmt.Errorf("families.GetFamilyMembers: %w", err)
		}

		for _, m := range members {
			pet, err := s.pets.EnsurePet(ctx, tx, m.ID)
			if err != nil {
				return fmt.Errorf("pets.EnsurePet: %w", err)
			}

			if pet.Stage != model.StageEgg || earned[m.ID] < s.hatchThreshold {
				continue
			}

			pet.Species = SpeciesFor(m.ID, month)
			pet.Stage = StageForLevel(Level(pet.XP))
			pet.HatchedMonth = month

			if err := s.pets.UpdatePet(ctx, tx, pet); err != nil {
				return fmt.Errorf("pets.UpdatePet: %w", err)
			}
		}

		return nil
	})
}
