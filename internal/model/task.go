package model

import "time"

// TaskCompletion marks one task occurrence done by one member. The
// (event, member, date) triple is unique; toggling removes the row instead of
// duplicating it.
type TaskCompletion struct {
	EventID     int64
	MemberID    int64
	Date        time.Time
	CompletedAt time.Time
}

// TaskStatus pairs a task occurrence with its completion state for one member.
type TaskStatus struct {
	Instance  *EventInstance
	Completed bool
}

type CompletionsFilter struct {
	EventIDs []int64
	MemberID int64
	Date     time.Time
}
