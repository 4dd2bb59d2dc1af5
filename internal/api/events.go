package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/validator"
)

type eventReq struct {
	CategoryID     int64      `json:"category_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	AllDay         bool       `json:"all_day"`
	From           dateTime   `json:"from"`
	To             dateTime   `json:"to"`
	Repeat         *repeatReq `json:"repeat"`
	IsTask         bool       `json:"is_task"`
	XPPoints       int        `json:"xp_points"`
	Required       bool       `json:"required"`
	ParticipantIDs []int64    `json:"participant_ids"`
}

func (a *Api) parseEventReq(w http.ResponseWriter, r *http.Request, member *model.Member) (*model.EventCreate, bool) {
	req := &eventReq{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return nil, false
	}

	v := validator.New()
	v.Check(len(req.Title) != 0, "title", "title must be provided")
	v.Check(!time.Time(req.From).IsZero(), "from", "from must be provided")
	v.Check(req.XPPoints >= 0, "xp_points", "xp points must not be negative")

	if !req.AllDay {
		v.Check(!time.Time(req.To).IsZero(), "to", "to must be provided")
		v.Check(!time.Time(req.To).Before(time.Time(req.From)), "to", "to must not be before from")
	}

	rule, err := mapToRule(req.Repeat)
	if err != nil {
		v.AddError("repeat", err.Error())
	}
	if rule != nil {
		if err := rule.Validate(); err != nil {
			v.AddError("repeat", err.Error())
		}
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return nil, false
	}

	return &model.EventCreate{
		FamilyID:       member.FamilyID,
		CategoryID:     req.CategoryID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		AllDay:         req.AllDay,
		From:           time.Time(req.From),
		To:             time.Time(req.To),
		Repeat:         rule,
		IsTask:         req.IsTask,
		XPPoints:       req.XPPoints,
		Required:       req.Required,
		ParticipantIDs: req.ParticipantIDs,
		CreatorID:      member.ID,
	}, true
}

// eventForMember loads an event and checks it belongs to the member's family.
func (a *Api) eventForMember(w http.ResponseWriter, r *http.Request, member *model.Member) (*model.Event, bool) {
	id, err := urlParamInt64(r, "eventID")
	if err != nil {
		a.notFoundResponse(w, r)
		return nil, false
	}

	event, err := a.eventsService.GetEvent(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get event: %w", err))
		}
		return nil, false
	}

	if event.FamilyID != member.FamilyID {
		a.notFoundResponse(w, r)
		return nil, false
	}

	return event, true
}

func (a *Api) createEventHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	info, ok := a.parseEventReq(w, r, member)
	if !ok {
		return
	}

	event, err := a.eventsService.CreateEvent(r.Context(), info)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRule):
			a.failedValidationResponse(w, r, map[string]string{"repeat": err.Error()})
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("create event: %w", err))
		}
		return
	}

	response, _ := mapToEventResp(event)

	if err := a.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	from, err := queryDate(r, "from")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	to, err := queryDate(r, "to")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if to.Before(from) {
		a.badRequestResponse(w, r, errors.New("to must not be before from"))
		return
	}

	instances, err := a.eventsService.GetEvents(r.Context(), member.FamilyID, from, to)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get events: %w", err))
		return
	}

	response, _ := mapSlice(instances, mapToInstanceResp)

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getEventInstanceHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	if r.URL.Query().Get("date") == "" {
		response, _ := mapToEventResp(event)
		if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	date, err := queryDate(r, "date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	instance, err := a.eventsService.GetEventInstance(r.Context(), event.ID, date)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get event instance: %w", err))
		}
		return
	}

	response, _ := mapToInstanceResp(instance)

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	info, ok := a.parseEventReq(w, r, member)
	if !ok {
		return
	}
	info.CreatorID = event.CreatorID

	if err := a.eventsService.UpdateEvent(r.Context(), event.ID, info); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRule):
			a.failedValidationResponse(w, r, map[string]string{"repeat": err.Error()})
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("update event: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	if err := a.eventsService.DeleteEvent(r.Context(), event.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("delete event: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) cancelInstanceHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	date, err := urlParamDate(r, "date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.eventsService.CancelInstance(r.Context(), event.ID, date); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("cancel instance: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) restoreInstanceHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	date, err := urlParamDate(r, "date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.eventsService.RestoreInstance(r.Context(), event.ID, date); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("restore instance: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) detachInstanceHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	event, ok := a.eventForMember(w, r, member)
	if !ok {
		return
	}

	date, err := urlParamDate(r, "date")
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	info, ok := a.parseEventReq(w, r, member)
	if !ok {
		return
	}
	info.CreatorID = event.CreatorID

	if err := a.eventsService.DetachInstance(r.Context(), event.ID, date, info); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRule):
			a.failedValidationResponse(w, r, map[string]string{"repeat": err.Error()})
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("detach instance: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
