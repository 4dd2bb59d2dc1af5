package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/business/tasks"
	"github.com/avasilkov/family-organizer-backend/internal/model"
)

func (a *Api) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	date, err := queryDate(r, "date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	memberID := member.ID
	if v := r.URL.Query().Get("member_id"); v != "" {
		memberID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			a.badRequestResponse(w, r, fmt.Errorf("invalid member id %v", v))
			return
		}

		other, err := a.families.GetMemberByID(r.Context(), a.db, memberID)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.notFoundResponse(w, r)
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		if other.FamilyID != member.FamilyID {
			a.notFoundResponse(w, r)
			return
		}
	}

	statuses, err := a.tasksService.TasksForMember(r.Context(), member.FamilyID, memberID, date)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get tasks: %w", err))
		return
	}

	response, _ := mapSlice(statuses, mapToTaskResp)

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) toggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	req := &struct {
		Date dateOnly `json:"date"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if time.Time(req.Date).IsZero() {
		a.badRequestResponse(w, r, errors.New("date must be provided"))
		return
	}

	completed, err := a.tasksService.ToggleCompletion(r.Context(), event.ID, member.ID, time.Time(req.Date))
	if err != nil {
		switch {
		case errors.Is(err, tasks.ErrNotTask):
			a.badRequestResponse(w, r, err)
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, model.ErrConflict):
			a.conflictResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("toggle completion: %w", err))
		}
		return
	}

	response := &struct {
		Completed bool `json:"completed"`
	}{
		Completed: completed,
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
