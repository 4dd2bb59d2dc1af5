package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/database/databasetest"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

type exceptionKey struct {
	eventID int64
	date    time.Time
}

type fakeEventsRepo struct {
	nextID     int64
	events     map[int64]*model.Event
	exceptions map[exceptionKey]struct{}
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{
		events:     map[int64]*model.Event{},
		exceptions: map[exceptionKey]struct{}{},
	}
}

func (f *fakeEventsRepo) CreateEvent(_ context.Context, _ database.Queryable, info *model.EventCreate) (int64, error) {
	f.nextID++
	f.events[f.nextID] = &model.Event{ID: f.nextID, EventCreate: *info}
	return f.nextID, nil
}

func (f *fakeEventsRepo) GetEventByID(_ context.Context, _ database.Queryable, id int64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return e, nil
}

func (f *fakeEventsRepo) GetEvents(_ context.Context, _ database.Queryable, filter model.EventsFilter) ([]*model.Event, error) {
	var res []*model.Event
	for _, e := range f.events {
		if e.FamilyID == filter.FamilyID {
			res = append(res, e)
		}
	}
	return res, nil
}

func (f *fakeEventsRepo) UpdateEvent(_ context.Context, _ database.Queryable, event *model.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return model.ErrNoRecord
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventsRepo) DeleteEvent(_ context.Context, _ database.Queryable, id int64) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventsRepo) AddException(_ context.Context, _ database.Queryable, exc *model.Exception) error {
	f.exceptions[exceptionKey{exc.EventID, exc.Date}] = struct{}{}
	return nil
}

func (f *fakeEventsRepo) DeleteException(_ context.Context, _ database.Queryable, exc *model.Exception) error {
	delete(f.exceptions, exceptionKey{exc.EventID, exc.Date})
	return nil
}

func (f *fakeEventsRepo) GetExceptions(_ context.Context, _ database.Queryable, eventIDs []int64, from, to time.Time) (map[int64]map[time.Time]struct{}, error) {
	res := map[int64]map[time.Time]struct{}{}
	for key := range f.exceptions {
		for _, id := range eventIDs {
			if key.eventID != id || key.date.Before(from) || key.date.After(to) {
				continue
			}
			if res[id] == nil {
				res[id] = map[time.Time]struct{}{}
			}
			res[id][key.date] = struct{}{}
		}
	}
	return res, nil
}

func newTestService(repo *fakeEventsRepo) *Service {
	return NewService(&databasetest.FakeDB{}, repo)
}

func TestCreateEventInvalidRule(t *testing.T) {
	s := newTestService(newFakeEventsRepo())

	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(context.Background(), &model.EventCreate{
		FamilyID: 1,
		Title:    "broken",
		From:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Repeat: &recurrence.Rule{
			Type:     recurrence.RuleTypeWeekly,
			Interval: 1,
			EndDate:  &end,
			EndCount: 5,
		},
	})

	if !errors.Is(err, model.ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule, got %v", err)
	}
}

func TestGetEventsExpandsAndSorts(t *testing.T) {
	repo := newFakeEventsRepo()
	s := newTestService(repo)
	ctx := context.Background()

	if _, err := s.CreateEvent(ctx, &model.EventCreate{
		FamilyID: 1,
		Title:    "piano lesson",
		From:     time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Repeat:   &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.CreateEvent(ctx, &model.EventCreate{
		FamilyID: 1,
		Title:    "dentist",
		From:     time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	instances, err := s.GetEvents(ctx, 1, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, inst := range instances {
		got = append(got, inst.From.Format("01-02 15:04")+" "+inst.Event.Title)
	}

	want := []string{
		"01-01 17:00 piano lesson",
		"01-08 09:00 dentist",
		"01-08 17:00 piano lesson",
		"01-15 17:00 piano lesson",
		"01-22 17:00 piano lesson",
		"01-29 17:00 piano lesson",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCancelInstanceFiltersOccurrence(t *testing.T) {
	repo := newFakeEventsRepo()
	s := newTestService(repo)
	ctx := context.Background()

	event, err := s.CreateEvent(ctx, &model.EventCreate{
		FamilyID: 1,
		Title:    "piano lesson",
		From:     time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Repeat:   &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if err := s.CancelInstance(ctx, event.ID, cancelled); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	instances, err := s.GetEvents(ctx, 1, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(instances) != 4 {
		t.Fatalf("expected 4 instances after cancelling one, got %v", len(instances))
	}
	for _, inst := range instances {
		if inst.Date.Equal(cancelled) {
			t.Fatal("cancelled occurrence still materialized")
		}
	}

	if _, err := s.GetEventInstance(ctx, event.ID, cancelled); !errors.Is(err, model.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord for a cancelled date, got %v", err)
	}
}

func TestRestoreInstance(t *testing.T) {
	repo := newFakeEventsRepo()
	s := newTestService(repo)
	ctx := context.Background()

	event, err := s.CreateEvent(ctx, &model.EventCreate{
		FamilyID: 1,
		Title:    "piano lesson",
		From:     time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Repeat:   &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if err := s.CancelInstance(ctx, event.ID, date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.RestoreInstance(ctx, event.ID, date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	instance, err := s.GetEventInstance(ctx, event.ID, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !instance.Date.Equal(date) {
		t.Errorf("restored instance date = %v, want %v", instance.Date, date)
	}
}

func TestDetachInstance(t *testing.T) {
	repo := newFakeEventsRepo()
	s := newTestService(repo)
	ctx := context.Background()

	event, err := s.CreateEvent(ctx, &model.EventCreate{
		FamilyID: 1,
		Title:    "piano lesson",
		From:     time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Repeat:   &recurrence.Rule{Type: recurrence.RuleTypeWeekly, Interval: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if err := s.DetachInstance(ctx, event.ID, date, &model.EventCreate{
		FamilyID: 1,
		Title:    "piano lesson (moved)",
		From:     time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	instances, err := s.GetEvents(ctx, 1, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var onDate []*model.EventInstance
	for _, inst := range instances {
		if inst.Date.Equal(date) {
			onDate = append(onDate, inst)
		}
	}

	if len(onDate) != 1 {
		t.Fatalf("expected one instance on the detached date, got %v", len(onDate))
	}
	if onDate[0].Event.Title != "piano lesson (moved)" {
		t.Errorf("instance title = %q, want the detached copy", onDate[0].Event.Title)
	}
	if onDate[0].Event.ID == event.ID {
		t.Error("detached copy should be a separate event")
	}
}
