package access

import (
	"errors"
	"net/http"
	"time"

	accessdomain "parish-app-go/internal/domain/access"
	"parish-app-go/internal/metrics"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

type submitRequest struct {
	FullName    string  `json:"full_name" validate:"required,max=150"`
	Email       string  `json:"email" validate:"required,email"`
	DesiredRole string  `json:"desired_role" validate:"required,max=100"`
	Message     *string `json:"message"`
}

type requestResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	DesiredRole string    `json:"desired_role"`
	Message     *string   `json:"message"`
	Processed   bool      `json:"processed"`
	RequestedAt time.Time `json:"requested_at"`
}

type requestListResponse struct {
	Items []requestResponse          `json:"items"`
	Page  commonhandler.PageResponse `json:"page"`
}

// Submit is public: anyone may ask for back-office access.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	request, err := h.Access.Submit(r.Context(), accessdomain.SubmitInput{
		FullName:    req.FullName,
		Email:       req.Email,
		DesiredRole: req.DesiredRole,
		Message:     req.Message,
	})
	if err != nil {
		h.writeAccessError(w, "access_requests.submit", err, "")
		return
	}
	h.log.Info("access request submitted", "request_id", request.ID)
	writeJSON(w, http.StatusCreated, toRequestResponse(*request))
}

func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	processed, err := commonhandler.ParseBoolParam(r.URL.Query().Get("processed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "processed must be a boolean")
		return
	}

	items, info, err := h.Access.List(r.Context(), accessdomain.ListFilter{Processed: processed}, commonhandler.ParsePage(r))
	if err != nil {
		h.writeAccessError(w, "access_requests.list", err, "")
		return
	}

	response := requestListResponse{
		Items: make([]requestResponse, 0, len(items)),
		Page:  commonhandler.NewPageResponse(info),
	}
	for _, item := range items {
		response.Items = append(response.Items, toRequestResponse(item))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Access.MarkProcessed(r.Context(), id); err != nil {
		h.writeAccessError(w, "access_requests.process", err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeAccessError(w http.ResponseWriter, op string, err error, id string) {
	switch {
	case errors.Is(err, accessdomain.ErrInvalidInput):
		h.log.BusinessError(op+": invalid input", err, "request_id", id)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accessdomain.ErrPendingRequestExists):
		metrics.AccessRequestDuplicates.Inc()
		h.log.BusinessError(op+": pending request exists", err)
		writeError(w, http.StatusConflict, "pending_request_exists", "a request for this email is already pending")
	case errors.Is(err, accessdomain.ErrRequestNotFound):
		h.log.BusinessError(op+": request not found", err, "request_id", id)
		writeError(w, http.StatusNotFound, "request_not_found", "access request not found")
	default:
		h.log.InternalError(op+": failed", err, "request_id", id)
		internalError(w)
	}
}

func toRequestResponse(request accessdomain.Request) requestResponse {
	return requestResponse{
		ID:          request.ID,
		FullName:    request.FullName,
		Email:       request.Email,
		DesiredRole: request.DesiredRole,
		Message:     request.Message,
		Processed:   request.Processed,
		RequestedAt: request.RequestedAt,
	}
}
