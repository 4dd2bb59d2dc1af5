package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

// ToggleCompletion flips the done-marker for (event, member, date) and
// returns the new state. The delete-then-insert runs in one transaction with
// the XP signal; the unique index on the completion key is what arbitrates
// two concurrent toggles, the loser gets model.ErrConflict and retries.
func (s *Service) ToggleCompletion(ctx context.Context, eventID, memberID int64, date time.Time) (bool, error) {
	event, err := s.events.GetEventByID(ctx, s.db, eventID)
	if err != nil {
		return false, fmt.Errorf("events.GetEventByID: %w", err)
	}

	if !event.IsTask {
		return false, ErrNotTask
	}
	if !event.AppliesTo(memberID) {
		return false, model.ErrNoRecord
	}

	date = recurrence.DateOf(date)

	exceptions, err := s.events.GetExceptions(ctx, s.db, []int64{event.ID}, date, date)
	if err != nil {
		return false, fmt.Errorf("events.GetExceptions: %w", err)
	}
	if instanceOn(event, exceptions[event.ID], date) == nil {
		return false, model.ErrNoRecord
	}

	completion := &model.TaskCompletion{
		EventID:  eventID,
		MemberID: memberID,
		Date:     date,
	}

	completed := false
	err = database.RunInTx(ctx, s.db, nil, func(tx database.Tx) error {
		deleted, err := s.completions.DeleteCompletion(ctx, tx, completion)
		if err != nil {
			return fmt.Errorf("completions.DeleteCompletion: %w", err)
		}

		if deleted {
			if err := s.ledger.RetractTaskXP(ctx, tx, memberID, eventID, event.XPPoints); err != nil {
				return fmt.Errorf("ledger.RetractTaskXP: %w", err)
			}
			return nil
		}

		if err := s.completions.AddCompletion(ctx, tx, completion); err != nil {
			return fmt.Errorf("completions.AddCompletion: %w", err)
		}
		if err := s.ledger.AwardTaskXP(ctx, tx, memberID, eventID, event.XPPoints); err != nil {
			return fmt.Errorf("ledger.AwardTaskXP: %w", err)
		}

		completed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return completed, nil
}
