package programs

import (
	"net/http"
	"strings"
	"time"

	programsdomain "parish-app-go/internal/domain/programs"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type calendarEventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Color       string     `json:"color"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}

type agendaEntryResponse struct {
	ProgramID  string             `json:"program_id"`
	Title      string             `json:"title"`
	Category   string             `json:"category"`
	Location   string             `json:"location"`
	Recurrence string             `json:"recurrence"`
	Occurrence occurrenceResponse `json:"occurrence"`
}

type agendaResponse struct {
	HorizonDays int                   `json:"horizon_days"`
	Items       []agendaEntryResponse `json:"items"`
}

func (h *Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	category := programsdomain.Category(strings.TrimSpace(r.URL.Query().Get("category")))

	events, err := h.Programs.Calendar(r.Context(), category)
	if err != nil {
		h.writeProgramError(w, "programs.calendar", err, "")
		return
	}

	response := make([]calendarEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, calendarEventResponse{
			ID:          event.ID,
			Title:       event.Title,
			Start:       event.Start,
			End:         event.End,
			Color:       event.Color,
			Category:    string(event.Category),
			Location:    event.Location,
			Description: event.Description,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// Agenda lists the imminent occurrences within the next days; the horizon
// defaults to the configured one.
func (h *Handlers) Agenda(w http.ResponseWriter, r *http.Request) {
	days, err := commonhandler.ParseIntParam(r.URL.Query().Get("days"), h.agendaHorizon)
	if err != nil || days < 1 || days > maxAgendaHorizonDays {
		writeError(w, http.StatusBadRequest, "invalid_request", "days must be between 1 and 90")
		return
	}

	entries, err := h.Programs.Agenda(r.Context(), days)
	if err != nil {
		h.writeProgramError(w, "programs.agenda", err, "")
		return
	}

	response := agendaResponse{
		HorizonDays: days,
		Items:       make([]agendaEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Items = append(response.Items, toAgendaEntryResponse(entry))
	}
	writeJSON(w, http.StatusOK, response)
}

func toAgendaEntryResponse(entry programsdomain.AgendaEntry) agendaEntryResponse {
	return agendaEntryResponse{
		ProgramID:  entry.ProgramID,
		Title:      entry.Title,
		Category:   string(entry.Category),
		Location:   entry.Location,
		Recurrence: string(entry.Recurrence),
		Occurrence: *toOccurrenceResponse(&entry.Occurrence),
	}
}
