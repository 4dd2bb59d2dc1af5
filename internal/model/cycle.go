package model

import "time"

// CycleRecord is one tracked period. Records are private to their member.
type CycleRecord struct {
	ID        int64
	MemberID  int64
	StartDate time.Time
	EndDate   *time.Time
	Note      string
	CreatedAt time.Time
}

type CyclePrediction struct {
	NextStart    time.Time
	AvgCycleDays int
	SamplesUsed  int
}
