package model

import "time"

type GrowthStage int

const (
	StageEgg GrowthStage = iota
	StageBaby
	StageChild
	StageAdult
)

type PetSpecies int

const (
	SpeciesCat PetSpecies = iota
	SpeciesDog
	SpeciesDragon
	SpeciesOwl
	SpeciesFox
	SpeciesTurtle

	NumSpecies = 6
)

// Pet is a member's companion. It starts as an egg; the monthly rollover
// hatches it once enough XP was earned and fixes the species.
type Pet struct {
	ID           int64
	MemberID     int64
	Species      PetSpecies
	Stage        GrowthStage
	XP           int
	HatchedMonth string // "YYYY-MM", empty while still an egg
	UpdatedAt    time.Time
}

type XPReason int

const (
	XPReasonTaskCompleted XPReason = iota
	XPReasonTaskUncompleted
	XPReasonBonus
)

// XPEntry is one append-only ledger record. Retractions are negative entries,
// never deletions.
type XPEntry struct {
	ID        int64
	MemberID  int64
	EventID   *int64
	Points    int
	Reason    XPReason
	Month     string // "YYYY-MM"
	CreatedAt time.Time
}

type XPSummary struct {
	MemberID int64
	Month    string
	Points   int
}
