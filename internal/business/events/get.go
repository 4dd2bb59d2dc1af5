package events

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

// GetEvents materializes all occurrences for a family inside the inclusive
// date window [from, to]. Exceptions for the whole candidate set come from a
// single batch query.
func (s *Service) GetEvents(ctx context.Context, familyID int64, from, to time.Time) ([]*model.EventInstance, error) {
	from = recurrence.DateOf(from)
	to = recurrence.DateOf(to)

	baseEvents, err := s.eventsRepository.GetEvents(ctx, s.db, model.EventsFilter{
		FamilyID: familyID,
		From:     from,
		To:       to.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEvents: %w", err)
	}

	exceptions, err := s.getExceptions(ctx, baseEvents, from, to)
	if err != nil {
		return nil, err
	}

	var res []*model.EventInstance
	for _, e := range baseEvents {
		res = append(res, expandEvent(e, exceptions[e.ID], from, to)...)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].From.Before(res[j].From)
	})

	return res, nil
}

// GetEventInstance resolves one occurrence by event id and date.
func (s *Service) GetEventInstance(ctx context.Context, id int64, date time.Time) (*model.EventInstance, error) {
	event, err := s.eventsRepository.GetEventByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	date = recurrence.DateOf(date)

	exceptions, err := s.getExceptions(ctx, []*model.Event{event}, date, date)
	if err != nil {
		return nil, err
	}

	instances := expandEvent(event, exceptions[event.ID], date, date)
	if len(instances) == 0 {
		return nil, model.ErrNoRecord
	}

	return instances[0], nil
}

func (s *Service) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.eventsRepository.GetEventByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetEventByID: %w", err)
	}

	return event, nil
}

func (s *Service) getExceptions(ctx context.Context, events []*model.Event, from, to time.Time) (map[int64]map[time.Time]struct{}, error) {
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		if e.Repeat != nil {
			ids = append(ids, e.ID)
		}
	}

	exceptions, err := s.eventsRepository.GetExceptions(ctx, s.db, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("eventsRepository.GetExceptions: %w", err)
	}

	return exceptions, nil
}

func expandEvent(e *model.Event, exceptions map[time.Time]struct{}, from, to time.Time) []*model.EventInstance {
	occs := recurrence.Expand(e.Repeat, e.From, e.To.Sub(e.From), from, to)

	res := make([]*model.EventInstance, 0, len(occs))
	for _, occ := range occs {
		if _, ok := exceptions[occ.Date]; ok {
			continue
		}

		res = append(res, &model.EventInstance{
			ID:    InstanceID(e.ID, occ.Date),
			Date:  occ.Date,
			From:  occ.From,
			To:    occ.To,
			Event: e,
		})
	}

	return res
}

// InstanceID is the client-facing identity of one occurrence.
func InstanceID(eventID int64, date time.Time) string {
	return fmt.Sprintf("%v_%v", eventID, date.Unix())
}
