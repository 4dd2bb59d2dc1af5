package events

import (
	"context"
	"fmt"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.eventsRepository.DeleteEvent(ctx, s.db, id); err != nil {
		return fmt.Errorf("eventsRepository.DeleteEvent: %w", err)
	}

	return nil
}

// CancelInstance suppresses a single occurrence. A date the rule never
// generates is still accepted; the exception simply never matches anything.
func (s *Service) CancelInstance(ctx context.Context, id int64, date time.Time) error {
	event, err := s.eventsRepository.GetEventByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}

	if event.Repeat == nil {
		return s.DeleteEvent(ctx, id)
	}

	if err := s.eventsRepository.AddException(ctx, s.db, &model.Exception{
		EventID: id,
		Date:    recurrence.DateOf(date),
	}); err != nil {
		return fmt.Errorf("eventsRepository.AddException: %w", err)
	}

	return nil
}

// RestoreInstance removes a previously added exception.
func (s *Service) RestoreInstance(ctx context.Context, id int64, date time.Time) error {
	if err := s.eventsRepository.DeleteException(ctx, s.db, &model.Exception{
		EventID: id,
		Date:    recurrence.DateOf(date),
	}); err != nil {
		return fmt.Errorf("eventsRepository.DeleteException: %w", err)
	}

	return nil
}
