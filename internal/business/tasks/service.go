package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

// ErrNotTask is returned when a completion operation targets a plain
// calendar event.
var ErrNotTask = errors.New("event is not a task")

type Service struct {
	db          database.PGX
	events      eventsRepository
	completions completionsRepository
	ledger      xpLedger
}

type eventsRepository interface {
	GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
	GetExceptions(ctx context.Context, q database.Queryable, eventIDs []int64, from, to time.Time) (map[int64]map[time.Time]struct{}, error)
}

type completionsRepository interface {
	AddCompletion(ctx context.Context, q database.Queryable, c *model.TaskCompletion) error
	DeleteCompletion(ctx context.Context, q database.Queryable, c *model.TaskCompletion) (bool, error)
	GetCompletions(ctx context.Context, q database.Queryable, filter model.CompletionsFilter) ([]*model.TaskCompletion, error)
}

// xpLedger receives completion signals inside the toggle transaction, so
// points and markers commit or roll back together.
type xpLedger interface {
	AwardTaskXP(ctx context.Context, q database.Queryable, memberID, eventID int64, points int) error
	RetractTaskXP(ctx context.Context, q database.Queryable, memberID, eventID int64, points int) error
}

func NewService(db database.PGX, events eventsRepository, completions completionsRepository, ledger xpLedger) *Service {
	return &Service{
		db:          db,
		events:      events,
		completions: completions,
		ledger:      ledger,
	}
}
