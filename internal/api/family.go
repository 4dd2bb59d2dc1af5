package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/validator"
	"github.com/gerow/go-color"
	"golang.org/x/crypto/bcrypt"
)

func (a *Api) getFamilyHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	family, err := a.families.GetFamily(r.Context(), a.db, member.FamilyID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get family: %w", err))
		return
	}

	members, err := a.families.GetFamilyMembers(r.Context(), a.db, family.ID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get family members: %w", err))
		return
	}

	membersJSON, _ := mapSlice(members, mapToMemberResp)
	response := &familyResp{
		ID:       family.ID,
		Name:     family.Name,
		JoinCode: family.JoinCode,
		Members:  membersJSON,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) createMemberHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		Name   string `json:"name"`
		Role   string `json:"role"`
		Color  string `json:"color"`
		Avatar string `json:"avatar"`
		Pin    string `json:"pin"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.Name) != 0, "name", "name must be provided")
	v.Check(req.Role == "parent" || req.Role == "child", "role", "role must be parent or child")
	if req.Role == "parent" {
		v.Check(len(req.Pin) >= 4, "pin", "pin must be at least 4 characters long")
	}

	memberColor := color.RGB{}
	if req.Color != "" {
		var err error
		memberColor, err = color.HTMLToRGB(req.Color)
		v.Check(err == nil, "color", "invalid color")
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	role := model.RoleChild
	pinHash := ""
	if req.Role == "parent" {
		role = model.RoleParent

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
		if err != nil {
			a.serverErrorResponse(w, r, err)
			return
		}
		pinHash = string(hash)
	}

	memberCreate := &model.MemberCreate{
		FamilyID: member.FamilyID,
		Name:     req.Name,
		Role:     role,
		Color:    memberColor,
		Avatar:   req.Avatar,
		PinHash:  pinHash,
	}
	id, err := a.families.CreateMember(r.Context(), a.db, memberCreate)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyExists):
			a.clientErrorResponse(w, r, http.StatusConflict, "member already exists")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("create member: %w", err))
		}
		return
	}

	response, _ := mapToMemberResp(&model.Member{ID: id, MemberCreate: *memberCreate})

	if err := a.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
