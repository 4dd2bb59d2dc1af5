package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/business/events"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/database/databasetest"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

type fakeEventsRepo struct {
	events     []*model.Event
	exceptions map[int64]map[time.Time]struct{}
}

func (f *fakeEventsRepo) GetEventByID(_ context.Context, _ database.Queryable, id int64) (*model.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, model.ErrNoRecord
}

func (f *fakeEventsRepo) GetEvents(_ context.Context, _ database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	var res []*model.Event
	for _, e := range f.events {
		if e.FamilyID != filter.FamilyID {
			continue
		}
		if filter.TasksOnly && !e.IsTask {
			continue
		}
		res = append(res, e)
	}
	return res, nil
}

func (f *fakeEventsRepo) GetExceptions(_ context.Context, _ database.Queryable, eventIDs []int64, _, _ time.Time) (map[int64]map[time.Time]struct{}, error) {
	res := map[int64]map[time.Time]struct{}{}
	for _, id := range eventIDs {
		if dates, ok := f.exceptions[id]; ok {
			res[id] = dates
		}
	}
	return res, nil
}

type completionKey struct {
	eventID  int64
	memberID int64
	date     time.Time
}

type fakeCompletionsRepo struct {
	completions map[completionKey]struct{}
}

func (f *fakeCompletionsRepo) AddCompletion(_ context.Context, _ database.Queryable, c *model.TaskCompletion) error {
	key := completionKey{c.EventID, c.MemberID, c.Date}
	if _, ok := f.completions[key]; ok {
		return model.ErrConflict
	}
	f.completions[key] = struct{}{}
	return nil
}

func (f *fakeCompletionsRepo) DeleteCompletion(_ context.Context, _ database.Queryable, c *model.TaskCompletion) (bool, error) {
	key := completionKey{c.EventID, c.MemberID, c.Date}
	if _, ok := f.completions[key]; !ok {
		return false, nil
	}
	delete(f.completions, key)
	return true, nil
}

func (f *fakeCompletionsRepo) GetCompletions(_ context.Context, _ database.Queryable, filter model.CompletionsFilter) ([]*model.TaskCompletion, error) {
	var res []*model.TaskCompletion
	for _, id := range filter.EventIDs {
		key := completionKey{id, filter.MemberID, filter.Date}
		if _, ok := f.completions[key]; ok {
			res = append(res, &model.TaskCompletion{EventID: id, MemberID: filter.MemberID, Date: filter.Date})
		}
	}
	return res, nil
}

type fakeLedger struct {
	awarded   int
	retracted int
}

func (f *fakeLedger) AwardTaskXP(_ context.Context, _ database.Queryable, _, _ int64, points int) error {
	f.awarded += points
	return nil
}

func (f *fakeLedger) RetractTaskXP(_ context.Context, _ database.Queryable, _, _ int64, points int) error {
	f.retracted += points
	return nil
}

func taskEvent(id int64, title string, required bool, participants []int64, from time.Time, repeat *recurrence.Rule) *model.Event {
	return &model.Event{
		ID: id,
		EventCreate: model.EventCreate{
			FamilyID:       1,
			Title:          title,
			From:           from,
			To:             from.Add(30 * time.Minute),
			Repeat:         repeat,
			IsTask:         true,
			XPPoints:       10,
			Required:       required,
			ParticipantIDs: participants,
		},
	}
}

func newTestService(events *fakeEventsRepo, completions *fakeCompletionsRepo, ledger *fakeLedger) *Service {
	return NewService(&databasetest.FakeDB{}, events, completions, ledger)
}

func TestTasksForMember(t *testing.T) {
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time {
		return time.Date(2024, 1, 8, h, 0, 0, 0, time.UTC)
	}

	weekly := &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1}

	eventsRepo := &fakeEventsRepo{
		events: []*model.Event{
			taskEvent(1, "water plants", false, nil, at(9), nil),
			taskEvent(2, "homework", false, []int64{2}, at(15), nil),
			taskEvent(3, "walk dog", true, nil, at(8), nil),
			taskEvent(4, "someone else's chore", true, []int64{3}, at(10), nil),
			taskEvent(5, "piano practice", false, []int64{2}, time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC), weekly),
			taskEvent(6, "cancelled chore", true, nil, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), weekly),
			{
				ID: 7,
				EventCreate: model.EventCreate{
					FamilyID: 1,
					Title:    "dentist",
					From:     at(12),
					To:       at(13),
				},
			},
		},
		exceptions: map[int64]map[time.Time]struct{}{
			6: {date: {}},
		},
	}
	completionsRepo := &fakeCompletionsRepo{completions: map[completionKey]struct{}{
		{eventID: 2, memberID: 2, date: date}: {},
	}}

	s := newTestService(eventsRepo, completionsRepo, &fakeLedger{})

	statuses, err := s.TasksForMember(context.Background(), 1, 2, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var titles []string
	for _, st := range statuses {
		titles = append(titles, st.Instance.Event.Title)
	}

	want := []string{"walk dog", "homework", "piano practice", "water plants"}
	if len(titles) != len(want) {
		t.Fatalf("got tasks %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("got tasks %v, want %v", titles, want)
		}
	}

	for _, st := range statuses {
		wantCompleted := st.Instance.Event.ID == 2
		if st.Completed != wantCompleted {
			t.Errorf("task %q: completed = %v, want %v", st.Instance.Event.Title, st.Completed, wantCompleted)
		}
		if want := events.InstanceID(st.Instance.Event.ID, st.Instance.Date); st.Instance.ID != want {
			t.Errorf("task %q: instance id = %q, want %q", st.Instance.Event.Title, st.Instance.ID, want)
		}
	}
}

func TestTasksForMemberOtherDay(t *testing.T) {
	date := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	weekly := &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1}
	eventsRepo := &fakeEventsRepo{
		events: []*model.Event{
			taskEvent(5, "piano practice", false, nil, time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC), weekly),
		},
	}

	s := newTestService(eventsRepo, &fakeCompletionsRepo{completions: map[completionKey]struct{}{}}, &fakeLedger{})

	statuses, err := s.TasksForMember(context.Background(), 1, 2, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 0 {
		t.Fatalf("expected no tasks on an off day, got %v", len(statuses))
	}
}

func TestToggleCompletion(t *testing.T) {
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	from := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	eventsRepo := &fakeEventsRepo{
		events: []*model.Event{taskEvent(1, "water plants", false, nil, from, nil)},
	}
	completionsRepo := &fakeCompletionsRepo{completions: map[completionKey]struct{}{}}
	ledger := &fakeLedger{}

	s := newTestService(eventsRepo, completionsRepo, ledger)

	completed, err := s.ToggleCompletion(context.Background(), 1, 2, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !completed {
		t.Fatal("first toggle should complete the task")
	}
	if ledger.awarded != 10 {
		t.Errorf("awarded = %v, want 10", ledger.awarded)
	}

	completed, err = s.ToggleCompletion(context.Background(), 1, 2, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed {
		t.Fatal("second toggle should undo the completion")
	}
	if ledger.retracted != 10 {
		t.Errorf("retracted = %v, want 10", ledger.retracted)
	}
	if len(completionsRepo.completions) != 0 {
		t.Errorf("expected no completions left, got %v", len(completionsRepo.completions))
	}
}

func TestToggleCompletionNotTask(t *testing.T) {
	from := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	event := taskEvent(1, "dentist", false, nil, from, nil)
	event.IsTask = false

	s := newTestService(
		&fakeEventsRepo{events: []*model.Event{event}},
		&fakeCompletionsRepo{completions: map[completionKey]struct{}{}},
		&fakeLedger{},
	)

	if _, err := s.ToggleCompletion(context.Background(), 1, 2, from); !errors.Is(err, ErrNotTask) {
		t.Fatalf("expected ErrNotTask, got %v", err)
	}
}

func TestToggleCompletionNotParticipant(t *testing.T) {
	from := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	s := newTestService(
		&fakeEventsRepo{events: []*model.Event{taskEvent(1, "homework", false, []int64{3}, from, nil)}},
		&fakeCompletionsRepo{completions: map[completionKey]struct{}{}},
		&fakeLedger{},
	)

	if _, err := s.ToggleCompletion(context.Background(), 1, 2, from); !errors.Is(err, model.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

func TestToggleCompletionCancelledInstance(t *testing.T) {
	date := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	weekly := &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1}

	s := newTestService(
		&fakeEventsRepo{
			events:     []*model.Event{taskEvent(1, "chore", false, nil, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), weekly)},
			exceptions: map[int64]map[time.Time]struct{}{1: {date: {}}},
		},
		&fakeCompletionsRepo{completions: map[completionKey]struct{}{}},
		&fakeLedger{},
	)

	if _, err := s.ToggleCompletion(context.Background(), 1, 2, date); !errors.Is(err, model.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}
