package couples

import (
	"errors"
	"net/http"
	"strings"
	"time"

	couplesdomain "parish-app-go/internal/domain/couples"
	"parish-app-go/internal/metrics"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type coupleRequest struct {
	SpouseAID   string  `json:"spouse_a_id" validate:"required,uuid"`
	SpouseBID   string  `json:"spouse_b_id" validate:"required,uuid"`
	Status      string  `json:"status" validate:"required,oneof=married engaged"`
	WeddingDate *string `json:"wedding_date" validate:"omitempty,civildate"`
	IsActive    *bool   `json:"is_active"`
}

type spouseResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type coupleResponse struct {
	ID          string          `json:"id"`
	SpouseA     *spouseResponse `json:"spouse_a,omitempty"`
	SpouseB     *spouseResponse `json:"spouse_b,omitempty"`
	SpouseAID   string          `json:"spouse_a_id"`
	SpouseBID   string          `json:"spouse_b_id"`
	IsActive    bool            `json:"is_active"`
	Status      string          `json:"status"`
	WeddingDate *string         `json:"wedding_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

type coupleStatsResponse struct {
	Married          int64 `json:"married"`
	Engaged          int64 `json:"engaged"`
	MarriedThisMonth int64 `json:"married_this_month"`
}

type coupleListResponse struct {
	Items []coupleResponse           `json:"items"`
	Page  commonhandler.PageResponse `json:"page"`
	Stats coupleStatsResponse        `json:"stats"`
}

type coupleDetailResponse struct {
	coupleResponse
	Programs []programResponse `json:"marriage_programs"`
}

func (h *Handlers) ListCouples(w http.ResponseWriter, r *http.Request) {
	filter := couplesdomain.CoupleFilter{
		Status: couplesdomain.CoupleStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
	}
	page := commonhandler.ParsePage(r)

	items, info, err := h.Couples.ListCouples(r.Context(), filter, page)
	if err != nil {
		h.writeCoupleError(w, "couples.list", err, "")
		return
	}
	stats, err := h.Couples.Stats(r.Context())
	if err != nil {
		h.log.InternalError("couples.list: couple stats failed", err)
		internalError(w)
		return
	}

	response := coupleListResponse{
		Items: make([]coupleResponse, 0, len(items)),
		Page:  commonhandler.NewPageResponse(info),
		Stats: coupleStatsResponse{Married: stats.Married, Engaged: stats.Engaged, MarriedThisMonth: stats.MarriedThisMonth},
	}
	for _, couple := range items {
		response.Items = append(response.Items, toCoupleWithSpousesResponse(couple))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetCouple(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	couple, programs, err := h.Couples.GetCouple(r.Context(), id)
	if err != nil {
		h.writeCoupleError(w, "couples.get", err, id)
		return
	}

	response := coupleDetailResponse{
		coupleResponse: toCoupleWithSpousesResponse(*couple),
		Programs:       make([]programResponse, 0, len(programs)),
	}
	for _, program := range programs {
		response.Programs = append(response.Programs, toProgramResponse(program))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateCouple(w http.ResponseWriter, r *http.Request) {
	var req coupleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	weddingDate, err := parseOptionalDate(req.WeddingDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "wedding_date must be a date (YYYY-MM-DD)")
		return
	}

	couple, err := h.Couples.CreateCouple(r.Context(), couplesdomain.CreateCoupleInput{
		SpouseAID:   req.SpouseAID,
		SpouseBID:   req.SpouseBID,
		Status:      couplesdomain.CoupleStatus(req.Status),
		WeddingDate: weddingDate,
	})
	if err != nil {
		h.writeCoupleError(w, "couples.create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toCoupleResponse(*couple))
}

func (h *Handlers) UpdateCouple(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req coupleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	weddingDate, err := parseOptionalDate(req.WeddingDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "wedding_date must be a date (YYYY-MM-DD)")
		return
	}

	couple, err := h.Couples.UpdateCouple(r.Context(), couplesdomain.UpdateCoupleInput{
		ID:          id,
		SpouseAID:   req.SpouseAID,
		SpouseBID:   req.SpouseBID,
		Status:      couplesdomain.CoupleStatus(req.Status),
		WeddingDate: weddingDate,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.writeCoupleError(w, "couples.update", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toCoupleResponse(*couple))
}

func (h *Handlers) DeleteCouple(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Couples.DeleteCouple(r.Context(), id); err != nil {
		h.writeCoupleError(w, "couples.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeCoupleError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, couplesdomain.ErrInvalidInput), errors.Is(err, couplesdomain.ErrSameSpouse):
		h.log.BusinessError(op+": invalid input", err, "couple_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, couplesdomain.ErrCoupleNotFound):
		h.log.BusinessError(op+": couple not found", err, "couple_id", id)
		writeError(w, http.StatusNotFound, "couple_not_found", "couple not found")
	case errors.Is(err, couplesdomain.ErrSpouseNotFound):
		h.log.BusinessError(op+": spouse not found", err, "couple_id", id)
		writeError(w, http.StatusNotFound, "spouse_not_found", "spouse not found")
	case errors.Is(err, couplesdomain.ErrCoupleExists):
		h.log.BusinessError(op+": couple exists", err, "couple_id", id)
		writeError(w, http.StatusConflict, "couple_exists", "couple already exists")
	case errors.Is(err, couplesdomain.ErrActiveProgramsExist):
		metrics.CoupleDeleteBlocked.Inc()
		h.log.BusinessError(op+": active marriage programs", err, "couple_id", id)
		writeError(w, http.StatusConflict, "active_programs_exist", "the couple still has planned or in-progress marriage programs")
	default:
		h.log.InternalError(op+": failed", err, "couple_id", id)
		internalError(w)
	}
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return commonhandler.ParseDateParam(*value)
}

func toCoupleResponse(couple couplesdomain.Couple) coupleResponse {
	return coupleResponse{
		ID:          couple.ID,
		SpouseAID:   couple.SpouseAID,
		SpouseBID:   couple.SpouseBID,
		IsActive:    couple.IsActive,
		Status:      string(couple.Status),
		WeddingDate: commonhandler.FormatDatePtr(couple.WeddingDate),
		CreatedAt:   couple.CreatedAt,
	}
}

func toCoupleWithSpousesResponse(couple couplesdomain.CoupleWithSpouses) coupleResponse {
	response := toCoupleResponse(couple.Couple)
	response.SpouseA = &spouseResponse{ID: couple.SpouseA.ID, FullName: couple.SpouseA.FullName()}
	response.SpouseB = &spouseResponse{ID: couple.SpouseB.ID, FullName: couple.SpouseB.FullName()}
	return response
}
