package members

import (
	"errors"
	"net/http"

	membersdomain "parish-app-go/internal/domain/members"
)

type roleResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	MemberCount int64   `json:"member_count"`
}

type roleDetailResponse struct {
	roleResponse
	Members []memberResponse `json:"members"`
}

type roleAssignmentRequest struct {
	RoleID string `json:"role_id" validate:"required,uuid"`
}

func (h *Handlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Members.ListRoles(r.Context())
	if err != nil {
		h.log.InternalError("roles.list: list roles failed", err)
		internalError(w)
		return
	}

	items := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		items = append(items, toRoleResponse(role.Role, role.MemberCount))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handlers) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	role, holders, err := h.Members.GetRole(r.Context(), id)
	if err != nil {
		if errors.Is(err, membersdomain.ErrRoleNotFound) {
			h.log.BusinessError("roles.get: role not found", err, "role_id", id)
			writeError(w, http.StatusNotFound, "role_not_found", "role not found")
			return
		}
		h.log.InternalError("roles.get: get role failed", err, "role_id", id)
		internalError(w)
		return
	}

	response := roleDetailResponse{
		roleResponse: toRoleResponse(*role, int64(len(holders))),
		Members:      make([]memberResponse, 0, len(holders)),
	}
	for _, member := range holders {
		response.Members = append(response.Members, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) AssignRole(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req roleAssignmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.Members.AssignRole(r.Context(), memberID, req.RoleID); err != nil {
		h.writeRoleError(w, "roles.assign", err, memberID, req.RoleID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RevokeRole(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	roleID, ok := pathID(w, r, "role_id")
	if !ok {
		return
	}

	if err := h.Members.RevokeRole(r.Context(), memberID, roleID); err != nil {
		h.writeRoleError(w, "roles.revoke", err, memberID, roleID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeRoleError(w http.ResponseWriter, op string, err error, memberID, roleID string) {
	switch {
	case errors.Is(err, membersdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "member_id", memberID, "role_id", roleID)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, membersdomain.ErrRoleNotFound):
		h.log.BusinessError(op+": role not found", err, "member_id", memberID, "role_id", roleID)
		writeError(w, http.StatusNotFound, "role_not_found", "role not found")
	default:
		h.log.InternalError(op+": failed", err, "member_id", memberID, "role_id", roleID)
		internalError(w)
	}
}

func toRoleResponse(role membersdomain.Role, memberCount int64) roleResponse {
	return roleResponse{
		ID:          role.ID,
		Name:        string(role.Name),
		Description: role.Description,
		MemberCount: memberCount,
	}
}
