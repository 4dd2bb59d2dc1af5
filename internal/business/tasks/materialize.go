package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/business/events"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

// TasksForMember answers "what tasks does this member have on this date, and
// are they done". Task events with an empty participant set apply to every
// member. Exceptions and completions each come from one batch query over the
// candidate event ids.
func (s *Service) TasksForMember(ctx context.Context, familyID, memberID int64, date time.Time) ([]*model.TaskStatus, error) {
	date = recurrence.DateOf(date)

	baseEvents, err := s.events.GetEvents(ctx, s.db, model.EventsFilter{
		FamilyID:  familyID,
		From:      date,
		To:        date.AddDate(0, 0, 1),
		TasksOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("events.GetEvents: %w", err)
	}

	candidates := baseEvents[:0]
	recurringIDs := make([]int64, 0, len(baseEvents))
	for _, e := range baseEvents {
		if !e.AppliesTo(memberID) {
			continue
		}
		candidates = append(candidates, e)
		if e.Repeat != nil {
			recurringIDs = append(recurringIDs, e.ID)
		}
	}

	exceptions, err := s.events.GetExceptions(ctx, s.db, recurringIDs, date, date)
	if err != nil {
		return nil, fmt.Errorf("events.GetExceptions: %w", err)
	}

	var res []*model.TaskStatus
	ids := make([]int64, 0, len(candidates))
	for _, e := range candidates {
		instance := instanceOn(e, exceptions[e.ID], date)
		if instance == nil {
			continue
		}
		res = append(res, &model.TaskStatus{Instance: instance})
		ids = append(ids, e.ID)
	}

	completions, err := s.completions.GetCompletions(ctx, s.db, model.CompletionsFilter{
		EventIDs: ids,
		MemberID: memberID,
		Date:     date,
	})
	if err != nil {
		return nil, fmt.Errorf("completions.GetCompletions: %w", err)
	}

	done := make(map[int64]struct{}, len(completions))
	for _, c := range completions {
		done[c.EventID] = struct{}{}
	}
	for _, t := range res {
		_, t.Completed = done[t.Instance.Event.ID]
	}

	// Required tasks first, then by title; stable so the UI ordering never
	// jumps between refreshes.
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].Instance.Event, res[j].Instance.Event
		if a.Required != b.Required {
			return a.Required
		}
		return a.Title < b.Title
	})

	return res, nil
}

// instanceOn expands the event over a one-day window and returns its
// occurrence on that date, nil if the rule skips it or an exception cancels
// it.
func instanceOn(e *model.Event, exceptions map[time.Time]struct{}, date time.Time) *model.EventInstance {
	occs := recurrence.Expand(e.Repeat, e.From, e.To.Sub(e.From), date, date)
	if len(occs) == 0 {
		return nil
	}

	occ := occs[0]
	if _, ok := exceptions[occ.Date]; ok {
		return nil
	}

	return &model.EventInstance{
		ID:    events.InstanceID(e.ID, occ.Date),
		Date:  occ.Date,
		From:  occ.From,
		To:    occ.To,
		Event: e,
	}
}
