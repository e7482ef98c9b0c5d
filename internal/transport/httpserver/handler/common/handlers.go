package common

import (
	"errors"
	"net/http"
	"time"

	staffdomain "parish-app-go/internal/domain/staff"
	"parish-app-go/internal/transport/httpserver/middleware"
	"parish-app-go/pkg/logger"
)

type Handlers struct {
	Staff *staffdomain.Service
	log   logger.Logger
}

func New(staff *staffdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Staff: staff,
		log:   log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authMeResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	MemberID    *string    `json:"member_id"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	response := authMeResponse{ID: user.ID, Email: user.Email, Name: user.Name, IsActive: true}
	account, err := h.Staff.Get(r.Context(), user.ID)
	switch {
	case err == nil:
		response.MemberID = account.MemberID
		response.IsActive = account.IsActive
		response.LastLoginAt = account.LastLoginAt
	case errors.Is(err, staffdomain.ErrAccountNotFound):
	default:
		h.log.InternalError("auth.me: get account failed", err, "user_id", user.ID)
		WriteInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

type linkMemberRequest struct {
	MemberID *string `json:"member_id" validate:"omitempty,uuid"`
}

func (h *Handlers) LinkMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req linkMemberRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}

	account, err := h.Staff.LinkMember(r.Context(), user.ID, req.MemberID)
	if err != nil {
		switch {
		case errors.Is(err, staffdomain.ErrAccountNotFound):
			h.log.BusinessError("auth.link_member: account not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "account_not_found", "staff account not found")
		case errors.Is(err, staffdomain.ErrMemberNotFound):
			h.log.BusinessError("auth.link_member: member not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		case errors.Is(err, staffdomain.ErrMemberLinked):
			h.log.BusinessError("auth.link_member: member already linked", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "member_already_linked", "member already linked to another account")
		default:
			h.log.InternalError("auth.link_member: link failed", err, "user_id", user.ID)
			WriteInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		ID:          account.UserID,
		Email:       user.Email,
		Name:        user.Name,
		MemberID:    account.MemberID,
		IsActive:    account.IsActive,
		LastLoginAt: account.LastLoginAt,
	})
}
