package events

import (
	"context"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

type Service struct {
	db               database.PGX
	eventsRepository eventsRepository
}

type eventsRepository interface {
	CreateEvent(ctx context.Context, q database.Queryable, event *model.EventCreate) (int64, error)
	GetEventByID(ctx context.Context, q database.Queryable, id int64) (*model.Event, error)
	GetEvents(ctx context.Context, q database.Queryable, filter model.EventsFilter) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, q database.Queryable, event *model.Event) error
	DeleteEvent(ctx context.Context, q database.Queryable, id int64) error
	AddException(ctx context.Context, q database.Queryable, exc *model.Exception) error
	DeleteException(ctx context.Context, q database.Queryable, exc *model.Exception) error
	GetExceptions(ctx context.Context, q database.Queryable, eventIDs []int64, from, to time.Time) (map[int64]map[time.Time]struct{}, error)
}

func NewService(db database.PGX, repo eventsRepository) *Service {
	return &Service{
		db:               db,
		eventsRepository: repo,
	}
}
