package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/business/cycle"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (a *Api) getCycleRecordsHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	records, err := a.cycleService.Records(r.Context(), member.ID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get cycle records: %w", err))
		return
	}

	response, _ := mapSlice(records, mapToCycleRecordResp)

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) addCycleRecordHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		StartDate dateOnly  `json:"start_date"`
		EndDate   *dateOnly `json:"end_date"`
		Note      string    `json:"note"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if time.Time(req.StartDate).IsZero() {
		a.failedValidationResponse(w, r, map[string]string{"start_date": "start date must be provided"})
		return
	}

	record := &model.CycleRecord{
		MemberID:  member.ID,
		StartDate: time.Time(req.StartDate),
		Note:      req.Note,
	}
	if req.EndDate != nil {
		end := time.Time(*req.EndDate)
		record.EndDate = &end
	}

	id, err := a.cycleService.AddRecord(r.Context(), record)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyExists):
			a.clientErrorResponse(w, r, http.StatusConflict, "record for this date already exists")
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("add cycle record: %w", err))
		}
		return
	}

	response := &struct {
		ID int64 `json:"id"`
	}{
		ID: id,
	}

	if err := a.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) closeCycleRecordHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	id, err := urlParamInt64(r, "recordID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		EndDate dateOnly `json:"end_date"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if time.Time(req.EndDate).IsZero() {
		a.failedValidationResponse(w, r, map[string]string{"end_date": "end date must be provided"})
		return
	}

	if err := a.cycleService.CloseRecord(r.Context(), id, member.ID, time.Time(req.EndDate)); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("close cycle record: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteCycleRecordHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	id, err := urlParamInt64(r, "recordID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	if err := a.cycleService.DeleteRecord(r.Context(), id, member.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete cycle record: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) getCyclePredictionHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	prediction, err := a.cycleService.Predict(r.Context(), member.ID)
	if err != nil {
		switch {
		case errors.Is(err, cycle.ErrNotEnoughData):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get cycle prediction: %w", err))
		}
		return
	}

	response := &struct {
		NextStart    dateOnly `json:"next_start"`
		AvgCycleDays int      `json:"avg_cycle_days"`
		SamplesUsed  int      `json:"samples_used"`
	}{
		NextStart:    dateOnly(prediction.NextStart),
		AvgCycleDays: prediction.AvgCycleDays,
		SamplesUsed:  prediction.SamplesUsed,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
