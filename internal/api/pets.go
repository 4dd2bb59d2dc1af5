package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/business/gamification"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/validator"
)

const monthFormat = "2006-01"

func queryMonth(r *http.Request) (string, error) {
	v := r.URL.Query().Get("month")
	if v == "" {
		return gamification.Month(time.Now()), nil
	}

	if _, err := time.Parse(monthFormat, v); err != nil {
		return "", fmt.Errorf("invalid month %q", v)
	}
	return v, nil
}

func (a *Api) getPetHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	memberID, err := urlParamInt64(r, "memberID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	owner, err := a.families.GetMemberByID(r.Context(), a.db, memberID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if owner.FamilyID != member.FamilyID {
		a.notFoundResponse(w, r)
		return
	}

	pet, err := a.gamification.PetForMember(r.Context(), memberID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get pet: %w", err))
		return
	}

	response := &petResp{
		MemberID:     pet.MemberID,
		Species:      speciesNames[pet.Species],
		Stage:        stageNames[pet.Stage],
		XP:           pet.XP,
		Level:        gamification.Level(pet.XP),
		HatchedMonth: pet.HatchedMonth,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getXPSummariesHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	month, err := queryMonth(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	summaries, err := a.gamification.MonthSummaries(r.Context(), member.FamilyID, month)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get xp summaries: %w", err))
		return
	}

	response, _ := mapSlice(summaries, mapToXPSummaryResp)

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) awardBonusHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		MemberID int64 `json:"member_id"`
		Points   int   `json:"points"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.MemberID != 0, "member_id", "member id must be provided")
	v.Check(req.Points > 0, "points", "points must be positive")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	recipient, err := a.families.GetMemberByID(r.Context(), a.db, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	if recipient.FamilyID != member.FamilyID {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.gamification.AwardBonus(r.Context(), req.MemberID, req.Points); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("award bonus: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) rolloverHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	month, err := queryMonth(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.gamification.Rollover(r.Context(), member.FamilyID, month); err != nil {
		// Повторный запуск за тот же месяц ничего не меняет.
		if !errors.Is(err, model.ErrAlreadyExists) {
			a.serverErrorResponse(w, r, fmt.Errorf("rollover: %w", err))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}
