package gamification

import (
	"context"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

// AwardTaskXP credits points for a completed task occurrence. It runs on the
// caller's Queryable so the toggle transaction owns both the marker and the
// points.
func (s *Service) AwardTaskXP(ctx context.Context, q database.Queryable, memberID, eventID int64, points int) error {
	if points <= 0 {
		return nil
	}

	return s.applyXP(ctx, q, memberID, &eventID, points, model.XPReasonTaskCompleted)
}

// RetractTaskXP takes points back after a completion is undone. The ledger
// stays append-only: retraction is a negative entry, not a deletion.
func (s *Service) RetractTaskXP(ctx context.Context, q database.Queryable, memberID, eventID int64, points int) error {
	if points <= 0 {
		return nil
	}

	return s.applyXP(ctx, q, memberID, &eventID, -points, model.XPReasonTaskUncompleted)
}

// AwardBonus credits points outside the task flow, e.g. a parent's manual
// grant.
func (s *Service) AwardBonus(ctx context.Context, memberID int64, points int) error {
	if points <= 0 {
		return fmt.Errorf("bonus points must be positive")
	}

	return s.applyXP(ctx, s.db, memberID, nil, points, model.XPReasonBonus)
}

func (s *Service) applyXP(ctx context.Context, q database.Queryable, memberID int64, eventID *int64, points int, reason model.XPReason) error {
	if err := s.pets.AddXPEntry(ctx, q, &model.XPEntry{
		MemberID: memberID,
		EventID:  eventID,
		Points:   points,
		Reason:   reason,
		Month:    Month(s.now()),
	}); err != nil {
		return fmt.Errorf("pets.AddXPEntry: %w", err)
	}

	pet, err := s.pets.EnsurePet(ctx, q, memberID)
	if err != nil {
		return fmt.Errorf("pets.EnsurePet: %w", err)
	}

	pet.XP += points
	if pet.XP < 0 {
		pet.XP = 0
	}
	recompute(pet)

	if err := s.pets.UpdatePet(ctx, q, pet); err != nil {
		return fmt.Errorf("pets.UpdatePet: %w", err)
	}

	return nil
}
