package family

import (
	"fmt"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/gerow/go-color"
)

type familyDTO struct {
	ID         int64
	Name       string
	JoinCode   string
	MembersIDs []int64 `db:"members_ids"`
}

func mapToFamily(d *familyDTO) *model.Family {
	return &model.Family{
		ID:         d.ID,
		MembersIDs: d.MembersIDs,
		FamilyCreate: model.FamilyCreate{
			Name:     d.Name,
			JoinCode: d.JoinCode,
		},
	}
}

type memberDTO struct {
	ID       int64
	FamilyID int64
	Name     string
	Role     int
	Color    string
	Avatar   string
	PinHash  string
}

func mapToMember(d *memberDTO) (*model.Member, error) {
	colorRGB, err := color.HTMLToRGB(d.Color)
	if err != nil {
		return nil, fmt.Errorf("map color from %v", d.Color)
	}

	return &model.Member{
		ID: d.ID,
		MemberCreate: model.MemberCreate{
			FamilyID: d.FamilyID,
			Name:     d.Name,
			Role:     model.Role(d.Role),
			Color:    colorRGB,
			Avatar:   d.Avatar,
			PinHash:  d.PinHash,
		},
	}, nil
}

type deviceDTO struct {
	Token    string
	MemberID int64
	Name     string
}

func mapToDevice(d *deviceDTO) *model.Device {
	return &model.Device{
		Token:    d.Token,
		MemberID: d.MemberID,
		Name:     d.Name,
	}
}
