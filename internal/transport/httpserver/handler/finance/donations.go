package finance

import (
	"net/http"
	"strings"
	"time"

	financedomain "parish-app-go/internal/domain/finance"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type donationRequest struct {
	MemberID       string     `json:"member_id" validate:"required,uuid"`
	Description    string     `json:"description" validate:"required"`
	EstimatedValue *float64   `json:"estimated_value" validate:"omitempty,gt=0"`
	DonatedAt      *time.Time `json:"donated_at"`
	Status         string     `json:"status" validate:"omitempty,oneof=received used pending"`
}

type donationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received used pending"`
}

type donationResponse struct {
	ID             string    `json:"id"`
	MemberID       string    `json:"member_id"`
	MemberName     string    `json:"member_name,omitempty"`
	Description    string    `json:"description"`
	EstimatedValue *float64  `json:"estimated_value"`
	DonatedAt      time.Time `json:"donated_at"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type donationListResponse struct {
	Items []donationResponse         `json:"items"`
	Page  commonhandler.PageResponse `json:"page"`
}

func (h *Handlers) ListDonations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := financedomain.DonationFilter{
		Status:   financedomain.DonationStatus(strings.TrimSpace(query.Get("status"))),
		MemberID: strings.TrimSpace(query.Get("member_id")),
		Query:    strings.TrimSpace(query.Get("q")),
	}

	items, info, err := h.Finance.ListDonations(r.Context(), filter, commonhandler.ParsePage(r))
	if err != nil {
		h.writeFinanceError(w, "donations.list", err, "")
		return
	}

	response := donationListResponse{
		Items: make([]donationResponse, 0, len(items)),
		Page:  commonhandler.NewPageResponse(info),
	}
	for _, item := range items {
		donation := toDonationResponse(item.MaterialDonation)
		donation.MemberName = item.MemberName
		response.Items = append(response.Items, donation)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := financedomain.DonationInput{
		MemberID:       req.MemberID,
		Description:    req.Description,
		EstimatedValue: req.EstimatedValue,
		Status:         financedomain.DonationStatus(req.Status),
	}
	if req.DonatedAt != nil {
		input.DonatedAt = *req.DonatedAt
	}

	donation, err := h.Finance.CreateDonation(r.Context(), input)
	if err != nil {
		h.writeFinanceError(w, "donations.create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toDonationResponse(*donation))
}

func (h *Handlers) UpdateDonationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req donationStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	donation, err := h.Finance.UpdateDonationStatus(r.Context(), id, financedomain.DonationStatus(req.Status))
	if err != nil {
		h.writeFinanceError(w, "donations.update_status", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toDonationResponse(*donation))
}

func toDonationResponse(donation financedomain.MaterialDonation) donationResponse {
	return donationResponse{
		ID:             donation.ID,
		MemberID:       donation.MemberID,
		Description:    donation.Description,
		EstimatedValue: donation.EstimatedValue,
		DonatedAt:      donation.DonatedAt,
		Status:         string(donation.Status),
		CreatedAt:      donation.CreatedAt,
	}
}
