package model

import (
	"github.com/gerow/go-color"
)

type FamilyCreate struct {
	Name     string
	JoinCode string
}

type Family struct {
	ID         int64
	MembersIDs []int64
	FamilyCreate
}

type Role int

const (
	RoleParent Role = iota
	RoleChild
)

type MemberCreate struct {
	FamilyID int64
	Name     string
	Role     Role
	Color    color.RGB
	Avatar   string
	PinHash  string
}

type Member struct {
	ID int64
	MemberCreate
}

func (m *Member) IsParent() bool {
	return m.Role == RoleParent
}

// Device is a registered client bound to one member. The token is what the
// X-Device-Token header carries; Redis fronts this table as a cache.
type Device struct {
	Token    string
	MemberID int64
	Name     string
}
