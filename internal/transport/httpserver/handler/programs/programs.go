package programs

import (
	"errors"
	"net/http"
	"strings"
	"time"

	programsdomain "parish-app-go/internal/domain/programs"
	"parish-app-go/internal/domain/schedule"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type programRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitempty,civildate"`
	StartTime   *string `json:"start_time"`
	EndDate     *string `json:"end_date" validate:"omitempty,civildate"`
	EndTime     *string `json:"end_time"`
	Location    string  `json:"location" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,oneof=worship prayer_meeting bible_study special_event training youth children"`
	Recurrence  string  `json:"recurrence" validate:"max=20"`
}

type occurrenceResponse struct {
	Date string     `json:"date"`
	At   *time.Time `json:"at,omitempty"`
}

type programResponse struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    *string             `json:"description"`
	StartDate      *string             `json:"start_date"`
	StartTime      *string             `json:"start_time"`
	EndDate        *string             `json:"end_date"`
	EndTime        *string             `json:"end_time"`
	Location       string              `json:"location"`
	Category       string              `json:"category"`
	Color          string              `json:"color"`
	Recurrence     string              `json:"recurrence"`
	NextOccurrence *occurrenceResponse `json:"next_occurrence"`
	Imminent       bool                `json:"imminent"`
	CreatedAt      time.Time           `json:"created_at"`
}

type categoryStatsResponse struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
}

type programListResponse struct {
	Items []programResponse          `json:"items"`
	Page  commonhandler.PageResponse `json:"page"`
	Stats categoryStatsResponse      `json:"stats"`
}

func (h *Handlers) ListPrograms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := programsdomain.ListFilter{
		Category: programsdomain.Category(strings.TrimSpace(query.Get("category"))),
		Query:    strings.TrimSpace(query.Get("q")),
	}

	result, err := h.Programs.List(r.Context(), filter, commonhandler.ParsePage(r))
	if err != nil {
		h.writeProgramError(w, "programs.list", err, "")
		return
	}

	response := programListResponse{
		Items: make([]programResponse, 0, len(result.Items)),
		Page:  commonhandler.NewPageResponse(result.Page),
		Stats: categoryStatsResponse{
			Total:      result.Stats.Total,
			ByCategory: make(map[string]int64, len(result.Stats.ByCategory)),
		},
	}
	for category, count := range result.Stats.ByCategory {
		response.Stats.ByCategory[string(category)] = count
	}
	for _, view := range result.Items {
		response.Items = append(response.Items, toProgramResponse(view))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.Programs.Get(r.Context(), id)
	if err != nil {
		h.writeProgramError(w, "programs.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(*view))
}

func (h *Handlers) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	program, err := h.Programs.Create(r.Context(), input)
	if err != nil {
		h.writeProgramError(w, "programs.create", err, "")
		return
	}
	h.respondWithView(w, r, http.StatusCreated, program.ID)
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
	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if _, err := h.Programs.Update(r.Context(), id, input); err != nil {
		h.writeProgramError(w, "programs.update", err, id)
		return
	}
	h.respondWithView(w, r, http.StatusOK, id)
}

func (h *Handlers) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Programs.Delete(r.Context(), id); err != nil {
		h.writeProgramError(w, "programs.delete", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondWithView re-reads the saved program so the response carries its
// freshly computed next occurrence.
func (h *Handlers) respondWithView(w http.ResponseWriter, r *http.Request, status int, id string) {
	view, err := h.Programs.Get(r.Context(), id)
	if err != nil {
		h.writeProgramError(w, "programs.view", err, id)
		return
	}
	writeJSON(w, status, toProgramResponse(*view))
}

func (h *Handlers) writeProgramError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, programsdomain.ErrProgramNotFound):
		h.log.BusinessError(op+": program not found", err, "program_id", id)
		writeError(w, http.StatusNotFound, "program_not_found", "program not found")
	case errors.Is(err, programsdomain.ErrInvalidInput),
		errors.Is(err, programsdomain.ErrInvalidCategory),
		errors.Is(err, programsdomain.ErrInvalidRecurrence),
		errors.Is(err, programsdomain.ErrAnchorRequired),
		errors.Is(err, schedule.ErrInvalidRecurrence):
		h.log.BusinessError(op+": invalid input", err, "program_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.InternalError(op+": failed", err, "program_id", id)
		internalError(w)
	}
}

func (req programRequest) toInput() (programsdomain.ProgramInput, error) {
	input := programsdomain.ProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    programsdomain.Category(req.Category),
		Recurrence:  schedule.Recurrence(strings.TrimSpace(req.Recurrence)),
	}

	var err error
	if input.StartDate, err = optionalDate(req.StartDate); err != nil {
		return input, errors.New("start_date must be a date (YYYY-MM-DD)")
	}
	if input.EndDate, err = optionalDate(req.EndDate); err != nil {
		return input, errors.New("end_date must be a date (YYYY-MM-DD)")
	}
	if input.StartTime, err = optionalTime(req.StartTime); err != nil {
		return input, errors.New("start_time must be a time (HH:MM)")
	}
	if input.EndTime, err = optionalTime(req.EndTime); err != nil {
		return input, errors.New("end_time must be a time (HH:MM)")
	}
	return input, nil
}

func optionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return commonhandler.ParseDateParam(*value)
}

func optionalTime(value *string) (*schedule.TimeOfDay, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	tod, err := schedule.ParseTimeOfDay(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &tod, nil
}

func toOccurrenceResponse(occ *schedule.Occurrence) *occurrenceResponse {
	if occ == nil {
		return nil
	}
	response := &occurrenceResponse{Date: commonhandler.FormatDate(occ.Date)}
	if occ.HasTime {
		at := occ.At
		response.At = &at
	}
	return response
}

func toProgramResponse(view programsdomain.ProgramView) programResponse {
	program := view.Program
	return programResponse{
		ID:             program.ID,
		Title:          program.Title,
		Description:    program.Description,
		StartDate:      commonhandler.FormatDatePtr(program.StartDate),
		StartTime:      program.StartTime,
		EndDate:        commonhandler.FormatDatePtr(program.EndDate),
		EndTime:        program.EndTime,
		Location:       program.Location,
		Category:       string(program.Category),
		Color:          program.Category.Color(),
		Recurrence:     string(program.Recurrence),
		NextOccurrence: toOccurrenceResponse(view.Next),
		Imminent:       view.Imminent,
		CreatedAt:      program.CreatedAt,
	}
}
