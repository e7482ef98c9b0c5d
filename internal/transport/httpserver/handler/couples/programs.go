package couples

import (
	"errors"
	"net/http"
	"strings"
	"time"

	couplesdomain "parish-app-go/internal/domain/couples"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type programRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Location    *string   `json:"location" validate:"omitempty,max=200"`
	Status      string    `json:"status" validate:"omitempty,oneof=planned in_progress completed cancelled"`
}

type programResponse struct {
	ID          string    `json:"id"`
	CoupleID    string    `json:"couple_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Location    *string   `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type programListResponse struct {
	Items []programResponse          `json:"items"`
	Page  commonhandler.PageResponse `json:"page"`
}

func (h *Handlers) ListPrograms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := couplesdomain.ProgramFilter{
		Status: couplesdomain.ProgramStatus(strings.TrimSpace(query.Get("status"))),
		Query:  strings.TrimSpace(query.Get("q")),
	}

	items, info, err := h.Couples.ListPrograms(r.Context(), filter, commonhandler.ParsePage(r))
	if err != nil {
		h.writeProgramError(w, "marriage_programs.list", err, "")
		return
	}

	response := programListResponse{
		Items: make([]programResponse, 0, len(items)),
		Page:  commonhandler.NewPageResponse(info),
	}
	for _, program := range items {
		response.Items = append(response.Items, toProgramResponse(program))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	program, err := h.Couples.GetProgram(r.Context(), id)
	if err != nil {
		h.writeProgramError(w, "marriage_programs.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(*program))
}

func (h *Handlers) CreateProgram(w http.ResponseWriter, r *http.Request) {
	coupleID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req programRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	program, err := h.Couples.CreateProgram(r.Context(), coupleID, req.toInput())
	if err != nil {
		h.writeProgramError(w, "marriage_programs.create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toProgramResponse(*program))
}

func (h *Handlers) UpdateProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req programRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	program, err := h.Couples.UpdateProgram(r.Context(), id, req.toInput())
	if err != nil {
		h.writeProgramError(w, "marriage_programs.update", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(*program))
}

func (h *Handlers) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	coupleID, err := h.Couples.DeleteProgram(r.Context(), id)
	if err != nil {
		h.writeProgramError(w, "marriage_programs.delete", err, id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"couple_id": coupleID})
}

func (h *Handlers) writeProgramError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, couplesdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, "program_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, couplesdomain.ErrMarriageProgramNotFound):
		h.log.BusinessError(op+": marriage program not found", err, "program_id", id)
		writeError(w, http.StatusNotFound, "marriage_program_not_found", "marriage program not found")
	case errors.Is(err, couplesdomain.ErrCoupleNotFound):
		h.log.BusinessError(op+": couple not found", err, "program_id", id)
		writeError(w, http.StatusNotFound, "couple_not_found", "couple not found")
	default:
		h.log.InternalError(op+": failed", err, "program_id", id)
		internalError(w)
	}
}

func (req programRequest) toInput() couplesdomain.MarriageProgramInput {
	return couplesdomain.MarriageProgramInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		Status:      couplesdomain.ProgramStatus(req.Status),
	}
}

func toProgramResponse(program couplesdomain.MarriageProgram) programResponse {
	return programResponse{
		ID:          program.ID,
		CoupleID:    program.CoupleID,
		Title:       program.Title,
		Description: program.Description,
		StartsAt:    program.StartsAt,
		EndsAt:      program.EndsAt,
		Location:    program.Location,
		Status:      string(program.Status),
		CreatedAt:   program.CreatedAt,
	}
}
