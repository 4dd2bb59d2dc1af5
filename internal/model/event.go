package model

import (
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

type EventCreate struct {
	FamilyID       int64
	CategoryID     int64
	Title          string
	Description    string
	Location       string
	AllDay         bool
	From           time.Time
	To             time.Time
	Repeat         *recurrence.Rule // nil for a single occurrence
	IsTask         bool
	XPPoints       int
	Required       bool
	ParticipantIDs []int64
	CreatorID      int64
}

type Event struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	EventCreate
}

// AppliesTo reports whether the event concerns the given member. An empty
// participant set means the whole family.
func (e *Event) AppliesTo(memberID int64) bool {
	if len(e.ParticipantIDs) == 0 {
		return true
	}
	for _, id := range e.ParticipantIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// EventInstance is one expanded occurrence of an event, identified by
// "<event id>_<unix date>" towards clients.
type EventInstance struct {
	ID    string
	Date  time.Time
	From  time.Time
	To    time.Time
	Event *Event
}

// Exception suppresses a single occurrence of a recurring event.
type Exception struct {
	EventID int64
	Date    time.Time
}

type EventsFilter struct {
	FamilyID  int64
	From      time.Time
	To        time.Time
	TasksOnly bool
}
