package events

import (
	"context"
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (s *Service) CreateEvent(ctx context.Context, info *model.EventCreate) (*model.Event, error) {
	if info.Repeat != nil {
		if err := info.Repeat.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidRule, err)
		}
	}

	id, err := s.eventsRepository.CreateEvent(ctx, s.db, info)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.CreateEvent: %w", err)
	}

	return &model.Event{
		ID:          id,
		EventCreate: *info,
	}, nil
}
