package events

import (
	"context"
	"fmt"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

// UpdateEvent replaces the mutable fields of a whole series.
func (s *Service) UpdateEvent(ctx context.Context, id int64, info *model.EventCreate) error {
	if info.Repeat != nil {
		if err := info.Repeat.Validate(); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidRule, err)
		}
	}

	oldEvent, err := s.eventsRepository.GetEventByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("get old event: %w", err)
	}

	if err := s.eventsRepository.UpdateEvent(ctx, s.db, &model.Event{
		ID:          oldEvent.ID,
		EventCreate: *info,
	}); err != nil {
		return fmt.Errorf("eventsRepository.UpdateEvent: %w", err)
	}

	return nil
}

// DetachInstance carves one occurrence out of a series: the date becomes an
// exception and the modified occurrence is recreated as a standalone event,
// both inside one transaction.
func (s *Service) DetachInstance(ctx context.Context, id int64, date time.Time, info *model.EventCreate) error {
	oldEvent, err := s.eventsRepository.GetEventByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("get old event: %w", err)
	}

	if oldEvent.Repeat == nil {
		return s.UpdateEvent(ctx, id, info)
	}

	detached := *info
	detached.Repeat = nil

	return database.RunInTx(ctx, s.db, nil, func(tx database.Tx) error {
		if err := s.eventsRepository.AddException(ctx, tx, &model.Exception{
			EventID: oldEvent.ID,
			Date:    recurrence.DateOf(date),
		}); err != nil {
			return fmt.Errorf("eventsRepository.AddException: %w", err)
		}

		if _, err := s.eventsRepository.CreateEvent(ctx, tx, &detached); err != nil {
			return fmt.Errorf("eventsRepository.CreateEvent: %w", err)
		}

		return nil
	})
}
