package events

import (
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

type eventDTO struct {
	ID             int64
	FamilyID       int64
	CategoryID     int64
	Title          string
	Description    string
	Location       string
	AllDay         bool
	StartDate      time.Time
	Duration       time.Duration
	RepeatType     *int
	RepeatInterval *int
	RepeatEndDate  *time.Time
	RepeatEndCount *int
	IsTask         bool
	XPPoints       int `db:"xp_points"`
	Required       bool
	ParticipantIDs []int64 `db:"participant_ids"`
	CreatorID      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func mapToEvent(dto *eventDTO) *model.Event {
	var rule *recurrence.Rule
	if dto.RepeatType != nil {
		rule = &recurrence.Rule{
			Type:     recurrence.RuleType(*dto.RepeatType),
			Interval: 1,
		}
		if dto.RepeatInterval != nil {
			rule.Interval = *dto.RepeatInterval
		}
		if dto.RepeatEndDate != nil {
			d := *dto.RepeatEndDate
			rule.EndDate = &d
		}
		if dto.RepeatEndCount != nil {
			rule.EndCount = *dto.RepeatEndCount
		}
	}

	return &model.Event{
		ID:        dto.ID,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
		EventCreate: model.EventCreate{
			FamilyID:       dto.FamilyID,
			CategoryID:     dto.CategoryID,
			Title:          dto.Title,
			Description:    dto.Description,
			Location:       dto.Location,
			AllDay:         dto.AllDay,
			From:           dto.StartDate,
			To:             dto.StartDate.Add(dto.Duration),
			Repeat:         rule,
			IsTask:         dto.IsTask,
			XPPoints:       dto.XPPoints,
			Required:       dto.Required,
			ParticipantIDs: dto.ParticipantIDs,
			CreatorID:      dto.CreatorID,
		},
	}
}

// ruleColumns flattens the optional rule into its nullable columns.
func ruleColumns(rule *recurrence.Rule) (repeatType, repeatInterval *int, endDate *time.Time, endCount *int) {
	if rule == nil {
		return nil, nil, nil, nil
	}

	t := int(rule.Type)
	i := rule.Interval
	repeatType, repeatInterval = &t, &i

	if rule.EndDate != nil {
		d := *rule.EndDate
		endDate = &d
	}
	if rule.EndCount > 0 {
		c := rule.EndCount
		endCount = &c
	}

	return repeatType, repeatInterval, endDate, endCount
}

type exceptionDTO struct {
	EventID int64
	ExcDate time.Time
}
