package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/avasilkov/family-organizer-backend/internal/business/wallet"
	"github.com/avasilkov/family-organizer-backend/internal/model"
	"github.com/avasilkov/family-organizer-backend/internal/pkg/validator"
)

func (a *Api) getWalletHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	memberWallet, err := a.walletService.GetWallet(r.Context(), member.ID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get wallet: %w", err))
		return
	}

	pending, _ := mapSlice(memberWallet.Pending, mapToTransactionResp)
	response := &walletResp{
		MemberID:     memberWallet.MemberID,
		BalanceCents: memberWallet.BalanceCents,
		Pending:      pending,
	}
	if memberWallet.Goal != nil {
		response.Goal = &goalResp{
			Title:       memberWallet.Goal.Title,
			TargetCents: memberWallet.Goal.TargetCents,
		}
	}

	if err := a.writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) setGoalHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		Title       string `json:"title"`
		TargetCents int64  `json:"target_cents"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.Title) != 0, "title", "title must be provided")
	v.Check(req.TargetCents > 0, "target_cents", "target must be positive")

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.walletService.SetGoal(r.Context(), &model.SavingsGoal{
		MemberID:    member.ID,
		Title:       req.Title,
		TargetCents: req.TargetCents,
	}); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("set goal: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) requestWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	member, ok := r.Context().Value(contextKeyMember).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		AmountCents int64  `json:"amount_cents"`
		Note        string `json:"note"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if req.AmountCents <= 0 {
		a.failedValidationResponse(w, r, map[string]string{"amount_cents": "amount must be positive"})
		return
	}

	id, err := a.walletService.RequestWithdrawal(r.Context(), member.ID, req.AmountCents, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInsufficientFunds):
			a.failedValidationResponse(w, r, map[string]string{"amount_cents": "insufficient funds"})
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("request withdrawal: %w", err))
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

func (a *Api) depositHandler(w http.ResponseWriter, r *http.Request) {
	parent, ok := r.Context().Value(contextKeyParent).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	req := &struct {
		MemberID    int64  `json:"member_id"`
		AmountCents int64  `json:"amount_cents"`
		Kind        string `json:"kind"`
		Note        string `json:"note"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	kind := model.KindDeposit
	if req.Kind == "allowance" {
		kind = model.KindAllowance
	}

	v := validator.New()
	v.Check(req.MemberID != 0, "member_id", "member id must be provided")
	v.Check(req.AmountCents > 0, "amount_cents", "amount must be positive")
	v.Check(req.Kind == "" || req.Kind == "deposit" || req.Kind == "allowance", "kind", "kind must be deposit or allowance")

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

	if recipient.FamilyID != parent.FamilyID {
		a.notFoundResponse(w, r)
		return
	}

	id, err := a.walletService.Deposit(r.Context(), parent.ID, req.MemberID, req.AmountCents, kind, req.Note)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("deposit: %w", err))
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

func (a *Api) decideWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	parent, ok := r.Context().Value(contextKeyParent).(*model.Member)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveMember)
		return
	}

	txID, err := urlParamInt64(r, "txID")
	if err != nil {
		a.notFoundResponse(w, r)
		return
	}

	req := &struct {
		Approve bool `json:"approve"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	if err := a.walletService.Decide(r.Context(), txID, parent.ID, req.Approve); err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		case errors.Is(err, wallet.ErrNotPendingWithdrawal):
			a.clientErrorResponse(w, r, http.StatusConflict, "transaction already decided")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			a.failedValidationResponse(w, r, map[string]string{"amount_cents": "insufficient funds"})
		case errors.Is(err, model.ErrConflict):
			a.conflictResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("decide withdrawal: %w", err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
