package tasks

import (
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

type completionDTO struct {
	EventID       int64
	MemberID      int64
	CompletedDate time.Time
	CompletedAt   time.Time
}

func mapToCompletion(d *completionDTO) *model.TaskCompletion {
	return &model.TaskCompletion{
		EventID:     d.EventID,
		MemberID:    d.MemberID,
		Date:        d.CompletedDate.UTC(),
		CompletedAt: d.CompletedAt,
	}
}
