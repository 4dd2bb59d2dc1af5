package api

import (
	"fmt"
	"time"

	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/recurrence"
)

const (
	dateTimeFormat = time.RFC3339
	dateFormat     = "2006-01-02"
)

type dateTime time.Time

func (t dateTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(t).Format(dateTimeFormat))), nil
}

func (t *dateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	parsed, err := time.Parse(fmt.Sprintf("%q", dateTimeFormat), string(data))
	if err != nil {
		return err
	}

	*t = dateTime(parsed)
	return nil
}

type dateOnly time.Time

func (t dateOnly) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(t).Format(dateFormat))), nil
}

func (t *dateOnly) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	parsed, err := time.Parse(fmt.Sprintf("%q", dateFormat), string(data))
	if err != nil {
		return err
	}

	*t = dateOnly(parsed)
	return nil
}

type repeatReq struct {
	Type     string    `json:"type"`
	Interval int       `json:"interval"`
	EndDate  *dateOnly `json:"end_date,omitempty"`
	EndCount int       `json:"end_count,omitempty"`
}

func mapToRule(req *repeatReq) (*recurrence.Rule, error) {
	if req == nil {
		return nil, nil
	}

	t, err := recurrence.ParseRuleType(req.Type)
	if err != nil {
		return nil, err
	}

	rule := &recurrence.Rule{
		Type:     t,
		Interval: req.Interval,
		EndCount: req.EndCount,
	}
	if req.EndDate != nil {
		end := time.Time(*req.EndDate)
		rule.EndDate = &end
	}

	return rule, nil
}

func mapToRepeatResp(rule *recurrence.Rule) *repeatReq {
	if rule == nil {
		return nil
	}

	resp := &repeatReq{
		Type:     rule.Type.String(),
		Interval: rule.Interval,
		EndCount: rule.EndCount,
	}
	if rule.EndDate != nil {
		end := dateOnly(*rule.EndDate)
		resp.EndDate = &end
	}

	return resp
}

type memberResp struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Color  string `json:"color"`
	Avatar string `json:"avatar,omitempty"`
}

func mapToMemberResp(member *model.Member) (*memberResp, error) {
	role := "child"
	if member.IsParent() {
		role = "parent"
	}

	return &memberResp{
		ID:     member.ID,
		Name:   member.Name,
		Role:   role,
		Color:  "#" + member.Color.ToHTML(),
		Avatar: member.Avatar,
	}, nil
}

type familyResp struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	JoinCode string        `json:"join_code"`
	Members  []*memberResp `json:"members"`
}

type eventResp struct {
	ID             int64      `json:"id"`
	CategoryID     int64      `json:"category_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Location       string     `json:"location,omitempty"`
	AllDay         bool       `json:"all_day"`
	From           dateTime   `json:"from"`
	To             dateTime   `json:"to"`
	Repeat         *repeatReq `json:"repeat,omitempty"`
	IsTask         bool       `json:"is_task"`
	XPPoints       int        `json:"xp_points,omitempty"`
	Required       bool       `json:"required,omitempty"`
	ParticipantIDs []int64    `json:"participant_ids"`
	CreatorID      int64      `json:"creator_id"`
}

func mapToEventResp(event *model.Event) (*eventResp, error) {
	return &eventResp{
		ID:             event.ID,
		CategoryID:     event.CategoryID,
		Title:          event.Title,
		Description:    event.Description,
		Location:       event.Location,
		AllDay:         event.AllDay,
		From:           dateTime(event.From),
		To:             dateTime(event.To),
		Repeat:         mapToRepeatResp(event.Repeat),
		IsTask:         event.IsTask,
		XPPoints:       event.XPPoints,
		Required:       event.Required,
		ParticipantIDs: event.ParticipantIDs,
		CreatorID:      event.CreatorID,
	}, nil
}

type instanceResp struct {
	ID             string     `json:"id"`
	EventID        int64      `json:"event_id"`
	Date           dateOnly   `json:"date"`
	From           dateTime   `json:"from"`
	To             dateTime   `json:"to"`
	CategoryID     int64      `json:"category_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Location       string     `json:"location,omitempty"`
	AllDay         bool       `json:"all_day"`
	Repeat         *repeatReq `json:"repeat,omitempty"`
	IsTask         bool       `json:"is_task"`
	XPPoints       int        `json:"xp_points,omitempty"`
	Required       bool       `json:"required,omitempty"`
	ParticipantIDs []int64    `json:"participant_ids"`
	CreatorID      int64      `json:"creator_id"`
}

func mapToInstanceResp(instance *model.EventInstance) (*instanceResp, error) {
	return &instanceResp{
		ID:             instance.ID,
		EventID:        instance.Event.ID,
		Date:           dateOnly(instance.Date),
		From:           dateTime(instance.From),
		To:             dateTime(instance.To),
		CategoryID:     instance.Event.CategoryID,
		Title:          instance.Event.Title,
		Description:    instance.Event.Description,
		Location:       instance.Event.Location,
		AllDay:         instance.Event.AllDay,
		Repeat:         mapToRepeatResp(instance.Event.Repeat),
		IsTask:         instance.Event.IsTask,
		XPPoints:       instance.Event.XPPoints,
		Required:       instance.Event.Required,
		ParticipantIDs: instance.Event.ParticipantIDs,
		CreatorID:      instance.Event.CreatorID,
	}, nil
}

type taskResp struct {
	Instance  *instanceResp `json:"instance"`
	Completed bool          `json:"completed"`
}

func mapToTaskResp(status *model.TaskStatus) (*taskResp, error) {
	instance, err := mapToInstanceResp(status.Instance)
	if err != nil {
		return nil, err
	}

	return &taskResp{
		Instance:  instance,
		Completed: status.Completed,
	}, nil
}

var stageNames = map[model.GrowthStage]string{
	model.StageEgg:   "egg",
	model.StageBaby:  "baby",
	model.StageChild: "child",
	model.StageAdult: "adult",
}

var speciesNames = map[model.PetSpecies]string{
	model.SpeciesCat:    "cat",
	model.SpeciesDog:    "dog",
	model.SpeciesDragon: "dragon",
	model.SpeciesOwl:    "owl",
	model.SpeciesFox:    "fox",
	model.SpeciesTurtle: "turtle",
}

type petResp struct {
	MemberID     int64  `json:"member_id"`
	Species      string `json:"species"`
	Stage        string `json:"stage"`
	XP           int    `json:"xp"`
	Level        int    `json:"level"`
	HatchedMonth string `json:"hatched_month,omitempty"`
}

type xpSummaryResp struct {
	MemberID int64  `json:"member_id"`
	Month    string `json:"month"`
	Points   int    `json:"points"`
}

func mapToXPSummaryResp(summary *model.XPSummary) (*xpSummaryResp, error) {
	return &xpSummaryResp{
		MemberID: summary.MemberID,
		Month:    summary.Month,
		Points:   summary.Points,
	}, nil
}

var kindNames = map[model.TransactionKind]string{
	model.KindDeposit:    "deposit",
	model.KindWithdrawal: "withdrawal",
	model.KindAllowance:  "allowance",
}

var statusNames = map[model.TransactionStatus]string{
	model.StatusApproved: "approved",
	model.StatusPending:  "pending",
	model.StatusRejected: "rejected",
}

type transactionResp struct {
	ID          int64    `json:"id"`
	MemberID    int64    `json:"member_id"`
	AmountCents int64    `json:"amount_cents"`
	Kind        string   `json:"kind"`
	Status      string   `json:"status"`
	Note        string   `json:"note,omitempty"`
	CreatedAt   dateTime `json:"created_at"`
}

func mapToTransactionResp(tx *model.WalletTransaction) (*transactionResp, error) {
	return &transactionResp{
		ID:          tx.ID,
		MemberID:    tx.MemberID,
		AmountCents: tx.AmountCents,
		Kind:        kindNames[tx.Kind],
		Status:      statusNames[tx.Status],
		Note:        tx.Note,
		CreatedAt:   dateTime(tx.CreatedAt),
	}, nil
}

type goalResp struct {
	Title       string `json:"title"`
	TargetCents int64  `json:"target_cents"`
}

type walletResp struct {
	MemberID     int64              `json:"member_id"`
	BalanceCents int64              `json:"balance_cents"`
	Goal         *goalResp          `json:"goal,omitempty"`
	Pending      []*transactionResp `json:"pending"`
}

type cycleRecordResp struct {
	ID        int64     `json:"id"`
	StartDate dateOnly  `json:"start_date"`
	EndDate   *dateOnly `json:"end_date,omitempty"`
	Note      string    `json:"note,omitempty"`
}

func mapToCycleRecordResp(record *model.CycleRecord) (*cycleRecordResp, error) {
	resp := &cycleRecordResp{
		ID:        record.ID,
		StartDate: dateOnly(record.StartDate),
		Note:      record.Note,
	}
	if record.EndDate != nil {
		end := dateOnly(*record.EndDate)
		resp.EndDate = &end
	}

	return resp, nil
}
