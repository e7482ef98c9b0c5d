package members

import (
	"errors"
	"net/http"
	"strings"

	membersdomain "parish-app-go/internal/domain/members"
)

type groupResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
	MemberCount int64   `json:"member_count"`
}

type groupDetailResponse struct {
	groupResponse
	Members []memberResponse `json:"members"`
}

type createGroupRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

type groupMembershipRequest struct {
	MemberID string `json:"member_id" validate:"required,uuid"`
}

func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	groups, err := h.Members.ListGroups(r.Context(), query)
	if err != nil {
		h.log.InternalError("groups.list: list groups failed", err, "query", query)
		internalError(w)
		return
	}

	items := make([]groupResponse, 0, len(groups))
	for _, group := range groups {
		items = append(items, toGroupResponse(group.Group, group.MemberCount))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	group, groupMembers, err := h.Members.GetGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, membersdomain.ErrGroupNotFound) {
			h.log.BusinessError("groups.get: group not found", err, "group_id", id)
			writeError(w, http.StatusNotFound, "group_not_found", "group not found")
			return
		}
		h.log.InternalError("groups.get: get group failed", err, "group_id", id)
		internalError(w)
		return
	}

	response := groupDetailResponse{
		groupResponse: toGroupResponse(*group, int64(len(groupMembers))),
		Members:       make([]memberResponse, 0, len(groupMembers)),
	}
	for _, member := range groupMembers {
		response.Members = append(response.Members, toMemberResponse(member))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	group, err := h.Members.CreateGroup(r.Context(), req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, membersdomain.ErrInvalidInput):
			h.log.BusinessError("groups.create: invalid input", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, membersdomain.ErrGroupNameTaken):
			h.log.BusinessError("groups.create: name taken", err, "name", req.Name)
			writeError(w, http.StatusConflict, "group_name_taken", "group name already exists")
		default:
			h.log.InternalError("groups.create: create group failed", err, "name", req.Name)
			internalError(w)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(*group, 0))
}

func (h *Handlers) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req groupMembershipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.Members.AddToGroup(r.Context(), req.MemberID, groupID); err != nil {
		h.writeGroupError(w, "groups.add_member", err, req.MemberID, groupID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "member_id")
	if !ok {
		return
	}

	if err := h.Members.RemoveFromGroup(r.Context(), memberID, groupID); err != nil {
		h.writeGroupError(w, "groups.remove_member", err, memberID, groupID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeGroupError(w http.ResponseWriter, op string, err error, memberID, groupID string) {
	switch {
	case errors.Is(err, membersdomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "member_id", memberID, "group_id", groupID)
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, membersdomain.ErrGroupNotFound):
		h.log.BusinessError(op+": group not found", err, "member_id", memberID, "group_id", groupID)
		writeError(w, http.StatusNotFound, "group_not_found", "group not found")
	default:
		h.log.InternalError(op+": failed", err, "member_id", memberID, "group_id", groupID)
		internalError(w)
	}
}

func toGroupResponse(group membersdomain.Group, memberCount int64) groupResponse {
	return groupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		IsActive:    group.IsActive,
		MemberCount: memberCount,
	}
}
