package members

import (
	"errors"
	"net/http"
	"strings"
	"time"

	couplesdomain "parish-app-go/internal/domain/couples"
	financedomain "parish-app-go/internal/domain/finance"
	membersdomain "parish-app-go/internal/domain/members"
	"parish-app-go/internal/metrics"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type memberRequest struct {
	LastName        string  `json:"last_name" validate:"required,max=100"`
	FirstName       string  `json:"first_name" validate:"required,max=100"`
	BirthDate       string  `json:"birth_date" validate:"required,civildate"`
	IsActive        *bool   `json:"is_active"`
	Address         string  `json:"address" validate:"required"`
	Phone           string  `json:"phone" validate:"required,phone"`
	Email           string  `json:"email" validate:"required,email,max=254"`
	Sex             *string `json:"sex" validate:"omitempty,oneof=M F"`
	BaptismalStatus string  `json:"baptismal_status" validate:"omitempty,oneof=baptized_here not_baptized baptized_elsewhere"`
	MembershipDate  string  `json:"membership_date" validate:"required,civildate"`
	PhotoURL        *string `json:"photo_url" validate:"omitempty,url"`
}

type memberResponse struct {
	ID              string    `json:"id"`
	LastName        string    `json:"last_name"`
	FirstName       string    `json:"first_name"`
	FullName        string    `json:"full_name"`
	BirthDate       string    `json:"birth_date"`
	IsActive        bool      `json:"is_active"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Sex             *string   `json:"sex"`
	BaptismalStatus string    `json:"baptismal_status"`
	MembershipDate  string    `json:"membership_date"`
	PhotoURL        *string   `json:"photo_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type baptismalCountsResponse struct {
	Total             int64 `json:"total"`
	BaptizedHere      int64 `json:"baptized_here"`
	NotBaptized       int64 `json:"not_baptized"`
	BaptizedElsewhere int64 `json:"baptized_elsewhere"`
}

type memberListResponse struct {
	Items  []memberResponse           `json:"items"`
	Page   commonhandler.PageResponse `json:"page"`
	Counts baptismalCountsResponse    `json:"counts"`
}

type transactionBrief struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	OccurredAt      time.Time `json:"occurred_at"`
	Description     *string   `json:"description"`
	ExpenseCategory *string   `json:"expense_category"`
}

type donationBrief struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	EstimatedValue *float64  `json:"estimated_value"`
	DonatedAt      time.Time `json:"donated_at"`
	Status         string    `json:"status"`
}

type memberDetailResponse struct {
	memberResponse
	Roles        []roleResponse     `json:"roles"`
	Groups       []groupResponse    `json:"groups"`
	Transactions []transactionBrief `json:"recent_transactions"`
	Donations    []donationBrief    `json:"recent_donations"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)
	page := commonhandler.ParsePage(r)

	result, err := h.Members.List(r.Context(), filter, page)
	if err != nil {
		if errors.Is(err, membersdomain.ErrInvalidInput) {
			h.log.BusinessError("members.list: invalid filter", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("members.list: list members failed", err, "page", page)
		internalError(w)
		return
	}

	items := make([]memberResponse, 0, len(result.Items))
	for _, member := range result.Items {
		items = append(items, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, memberListResponse{
		Items: items,
		Page:  commonhandler.NewPageResponse(result.Page),
		Counts: baptismalCountsResponse{
			Total:             result.Counts.Total,
			BaptizedHere:      result.Counts.BaptizedHere,
			NotBaptized:       result.Counts.NotBaptized,
			BaptizedElsewhere: result.Counts.BaptizedElsewhere,
		},
	})
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.Members.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, membersdomain.ErrMemberNotFound) {
			h.log.BusinessError("members.get: member not found", err, "member_id", id)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("members.get: get member failed", err, "member_id", id)
		internalError(w)
		return
	}

	activity, err := h.Finance.MemberActivity(r.Context(), id)
	if err != nil {
		h.log.InternalError("members.get: member activity failed", err, "member_id", id)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toMemberDetailResponse(*detail, activity))
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	member, err := h.Members.Create(r.Context(), input)
	if err != nil {
		h.writeMemberError(w, "members.create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req memberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	member, err := h.Members.Update(r.Context(), id, input)
	if err != nil {
		h.writeMemberError(w, "members.update", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Members.Delete(r.Context(), id); err != nil {
		if errors.Is(err, couplesdomain.ErrActiveProgramsExist) {
			metrics.CoupleDeleteBlocked.Inc()
			h.log.BusinessError("members.delete: couple has active marriage programs", err, "member_id", id)
			writeError(w, http.StatusConflict, "active_programs_exist", "the member's couple still has planned or in-progress marriage programs")
			return
		}
		h.writeMemberError(w, "members.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, membersdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, "member_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, membersdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "member_id", id)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, membersdomain.ErrEmailTaken):
		h.log.BusinessError(op+": email already used", err, "member_id", id)
		writeError(w, http.StatusConflict, "email_taken", "email already used by another member")
	case errors.Is(err, membersdomain.ErrMemberInCouple):
		h.log.BusinessError(op+": member still in a couple", err, "member_id", id)
		writeError(w, http.StatusConflict, "member_in_couple", "member still belongs to a couple")
	default:
		h.log.InternalError(op+": failed", err, "member_id", id)
		internalError(w)
	}
}

func listFilterFromQuery(r *http.Request) membersdomain.ListFilter {
	query := r.URL.Query()
	return membersdomain.ListFilter{
		Query:           strings.TrimSpace(query.Get("q")),
		BaptismalStatus: membersdomain.BaptismalStatus(strings.TrimSpace(query.Get("baptismal_status"))),
	}
}

func (req memberRequest) toInput() (membersdomain.MemberInput, error) {
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return membersdomain.MemberInput{}, errors.New("birth_date must be a date (YYYY-MM-DD)")
	}
	membershipDate, err := parseDate(req.MembershipDate)
	if err != nil {
		return membersdomain.MemberInput{}, errors.New("membership_date must be a date (YYYY-MM-DD)")
	}

	input := membersdomain.MemberInput{
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		BirthDate:       birthDate,
		IsActive:        req.IsActive,
		Address:         req.Address,
		Phone:           req.Phone,
		Email:           req.Email,
		BaptismalStatus: membersdomain.BaptismalStatus(req.BaptismalStatus),
		MembershipDate:  membershipDate,
		PhotoURL:        req.PhotoURL,
	}
	if req.Sex != nil {
		sex := membersdomain.Sex(*req.Sex)
		input.Sex = &sex
	}
	return input, nil
}

func toMemberResponse(member membersdomain.Member) memberResponse {
	response := memberResponse{
		ID:              member.ID,
		LastName:        member.LastName,
		FirstName:       member.FirstName,
		FullName:        member.FullName(),
		BirthDate:       formatDate(member.BirthDate),
		IsActive:        member.IsActive,
		Address:         member.Address,
		Phone:           member.Phone,
		Email:           member.Email,
		BaptismalStatus: string(member.BaptismalStatus),
		MembershipDate:  formatDate(member.MembershipDate),
		PhotoURL:        member.PhotoURL,
		CreatedAt:       member.CreatedAt,
		UpdatedAt:       member.UpdatedAt,
	}
	if member.Sex != nil {
		sex := string(*member.Sex)
		response.Sex = &sex
	}
	return response
}

func toMemberDetailResponse(detail membersdomain.Detail, activity financedomain.MemberActivity) memberDetailResponse {
	response := memberDetailResponse{
		memberResponse: toMemberResponse(detail.Member),
		Roles:          make([]roleResponse, 0, len(detail.Roles)),
		Groups:         make([]groupResponse, 0, len(detail.Groups)),
		Transactions:   make([]transactionBrief, 0, len(activity.Transactions)),
		Donations:      make([]donationBrief, 0, len(activity.Donations)),
	}
	for _, role := range detail.Roles {
		response.Roles = append(response.Roles, toRoleResponse(role, 0))
	}
	for _, group := range detail.Groups {
		response.Groups = append(response.Groups, toGroupResponse(group, 0))
	}
	for _, transaction := range activity.Transactions {
		brief := transactionBrief{
			ID:          transaction.ID,
			Type:        string(transaction.Type),
			Amount:      transaction.Amount,
			OccurredAt:  transaction.OccurredAt,
			Description: transaction.Description,
		}
		if transaction.ExpenseCategory != nil {
			category := string(*transaction.ExpenseCategory)
			brief.ExpenseCategory = &category
		}
		response.Transactions = append(response.Transactions, brief)
	}
	for _, donation := range activity.Donations {
		response.Donations = append(response.Donations, donationBrief{
			ID:             donation.ID,
			Description:    donation.Description,
			EstimatedValue: donation.EstimatedValue,
			DonatedAt:      donation.DonatedAt,
			Status:         string(donation.Status),
		})
	}
	return response
}
