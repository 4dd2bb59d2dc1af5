package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/avasilkov/family-organizer-backend/internal/config"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/validator"
	"github.com/gerow/go-color"
	"golang.org/x/crypto/bcrypt"
)

func (a *Api) createFamilyHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		FamilyName string `json:"family_name"`
		ParentName string `json:"parent_name"`
		Color      string `json:"color"`
		Avatar     string `json:"avatar"`
		Pin        string `json:"pin"`
		DeviceName string `json:"device_name"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.FamilyName) != 0, "family_name", "family name must be provided")
	v.Check(len(req.ParentName) != 0, "parent_name", "parent name must be provided")
	v.Check(len(req.Pin) >= 4, "pin", "pin must be at least 4 characters long")

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

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	deviceToken, err := a.generateRandomString(config.DeviceTokenLength())
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	var family *model.Family
	var parent *model.Member

	err = database.RunInTx(r.Context(), a.db, nil, func(tx database.Tx) error {
		var familyID int64
		for {
			joinCode, err := a.generateRandomString(config.JoinCodeLength())
			if err != nil {
				return err
			}

			familyID, err = a.families.CreateFamily(r.Context(), tx, &model.FamilyCreate{
				Name:     req.FamilyName,
				JoinCode: joinCode,
			})
			if err != nil {
				if errors.Is(err, model.ErrAlreadyExists) {
					continue
				}
				return err
			}

			family = &model.Family{ID: familyID, FamilyCreate: model.FamilyCreate{
				Name:     req.FamilyName,
				JoinCode: joinCode,
			}}
			break
		}

		memberCreate := &model.MemberCreate{
			FamilyID: familyID,
			Name:     req.ParentName,
			Role:     model.RoleParent,
			Color:    memberColor,
			Avatar:   req.Avatar,
			PinHash:  string(pinHash),
		}
		memberID, err := a.families.CreateMember(r.Context(), tx, memberCreate)
		if err != nil {
			return err
		}
		parent = &model.Member{ID: memberID, MemberCreate: *memberCreate}

		return a.families.CreateDevice(r.Context(), tx, &model.Device{
			Token:    deviceToken,
			MemberID: memberID,
			Name:     req.DeviceName,
		})
	})
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create family: %w", err))
		return
	}

	if err := a.deviceTokens.Add(r.Context(), deviceToken, parent.ID); err != nil {
		a.logger.Warnw("failed to cache device token", "error", err)
	}

	memberJSON, _ := mapToMemberResp(parent)
	response := &struct {
		ID          int64       `json:"id"`
		Name        string      `json:"name"`
		JoinCode    string      `json:"join_code"`
		Member      *memberResp `json:"member"`
		DeviceToken string      `json:"device_token"`
	}{
		ID:          family.ID,
		Name:        family.Name,
		JoinCode:    family.JoinCode,
		Member:      memberJSON,
		DeviceToken: deviceToken,
	}

	if err := a.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) registerDeviceHandler(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		JoinCode   string `json:"join_code"`
		MemberID   int64  `json:"member_id"`
		DeviceName string `json:"device_name"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	family, err := a.families.GetFamilyByJoinCode(r.Context(), a.db, req.JoinCode)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.unauthorizedResponse(w, r, errors.New("unknown join code"))
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	member, err := a.families.GetMemberByID(r.Context(), a.db, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if member.FamilyID != family.ID {
		a.forbiddenResponse(w, r, "member does not belong to family")
		return
	}

	deviceToken, err := a.generateRandomString(config.DeviceTokenLength())
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.families.CreateDevice(r.Context(), a.db, &model.Device{
		Token:    deviceToken,
		MemberID: member.ID,
		Name:     req.DeviceName,
	}); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.deviceTokens.Add(r.Context(), deviceToken, member.ID); err != nil {
		a.logger.Warnw("failed to cache device token", "error", err)
	}

	memberJSON, _ := mapToMemberResp(member)
	response := &struct {
		Member      *memberResp `json:"member"`
		DeviceToken string      `json:"device_token"`
	}{
		Member:      memberJSON,
		DeviceToken: deviceToken,
	}

	if err := a.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) parentSignInHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		MemberID int64  `json:"member_id"`
		Pin      string `json:"pin"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	parent, err := a.families.GetMemberByID(r.Context(), a.db, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if !parent.IsParent() || parent.FamilyID != member.FamilyID {
		a.forbiddenResponse(w, r, "parent access required")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(parent.PinHash), []byte(req.Pin)); err != nil {
		a.unauthorizedResponse(w, r, errors.New("invalid pin"))
		return
	}

	accessToken, err := a.jwts.CreateToken(parent.ID)
	if err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	response := &struct {
		AccessToken string `json:"access_token"`
	}{
		AccessToken: accessToken,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) logoutHandler(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Device-Token")

	if err := a.deviceTokens.Delete(r.Context(), token); err != nil && !errors.Is(err, model.ErrNoRecord) {
		a.serverErrorResponse(w, r, err)
		return
	}

	if err := a.families.DeleteDevice(r.Context(), a.db, token); err != nil {
		a.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
