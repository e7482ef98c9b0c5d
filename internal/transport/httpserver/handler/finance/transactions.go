package finance

import (
	"errors"
	"net/http"
	"strings"
	"time"

	financedomain "parish-app-go/internal/domain/finance"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type transactionRequest struct {
	Type            string     `json:"type" validate:"required,oneof=offering donation expense"`
	Amount          float64    `json:"amount" validate:"gt=0"`
	OccurredAt      *time.Time `json:"occurred_at"`
	Description     *string    `json:"description"`
	MemberID        *string    `json:"member_id" validate:"omitempty,uuid"`
	ExpenseCategory *string    `json:"expense_category" validate:"omitempty,oneof=rent salaries equipment social_works maintenance electricity water other"`
}

type transactionResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	OccurredAt      time.Time `json:"occurred_at"`
	Description     *string   `json:"description"`
	MemberID        *string   `json:"member_id"`
	MemberName      *string   `json:"member_name,omitempty"`
	ExpenseCategory *string   `json:"expense_category"`
	CreatedAt       time.Time `json:"created_at"`
}

type totalsResponse struct {
	Offerings float64 `json:"offerings"`
	Expenses  float64 `json:"expenses"`
	Balance   float64 `json:"balance"`
}

type transactionListResponse struct {
	Items  []transactionResponse      `json:"items"`
	Page   commonhandler.PageResponse `json:"page"`
	Totals totalsResponse             `json:"totals"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := commonhandler.ParseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be a date (YYYY-MM-DD)")
		return
	}
	filter := financedomain.TransactionFilter{
		Type:     financedomain.TransactionType(strings.TrimSpace(query.Get("type"))),
		Category: financedomain.ExpenseCategory(strings.TrimSpace(query.Get("category"))),
		MemberID: strings.TrimSpace(query.Get("member_id")),
		From:     from,
	}

	result, err := h.Finance.ListTransactions(r.Context(), filter, commonhandler.ParsePage(r))
	if err != nil {
		h.writeFinanceError(w, "transactions.list", err, "")
		return
	}

	response := transactionListResponse{
		Items:  make([]transactionResponse, 0, len(result.Items)),
		Page:   commonhandler.NewPageResponse(result.Page),
		Totals: toTotalsResponse(result.Totals),
	}
	for _, item := range result.Items {
		tx := toTransactionResponse(item.Transaction)
		tx.MemberName = item.MemberName
		response.Items = append(response.Items, tx)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tx, err := h.Finance.GetTransaction(r.Context(), id)
	if err != nil {
		h.writeFinanceError(w, "transactions.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(*tx))
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := financedomain.TransactionInput{
		Type:        financedomain.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		MemberID:    req.MemberID,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}
	if req.ExpenseCategory != nil {
		category := financedomain.ExpenseCategory(*req.ExpenseCategory)
		input.ExpenseCategory = &category
	}

	tx, err := h.Finance.CreateTransaction(r.Context(), input)
	if err != nil {
		h.writeFinanceError(w, "transactions.create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Finance.DeleteTransaction(r.Context(), id); err != nil {
		h.writeFinanceError(w, "transactions.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeFinanceError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, financedomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, "id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, financedomain.ErrTransactionNotFound):
		h.log.BusinessError(op+": transaction not found", err, "id", id)
		writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
	case errors.Is(err, financedomain.ErrDonationNotFound):
		h.log.BusinessError(op+": donation not found", err, "id", id)
		writeError(w, http.StatusNotFound, "donation_not_found", "material donation not found")
	case errors.Is(err, financedomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "id", id)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	default:
		h.log.InternalError(op+": failed", err, "id", id)
		internalError(w)
	}
}

func toTotalsResponse(totals financedomain.Totals) totalsResponse {
	return totalsResponse{
		Offerings: totals.Offerings,
		Expenses:  totals.Expenses,
		Balance:   totals.Balance(),
	}
}

func toTransactionResponse(tx financedomain.Transaction) transactionResponse {
	response := transactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		OccurredAt:  tx.OccurredAt,
		Description: tx.Description,
		MemberID:    tx.MemberID,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.ExpenseCategory != nil {
		category := string(*tx.ExpenseCategory)
		response.ExpenseCategory = &category
	}
	return response
}
