package members

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	membersdomain "parish-app-go/internal/domain/members"
)

func (h *Handlers) ExportMembers(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)

	items, err := h.Members.Export(r.Context(), filter)
	if err != nil {
		if errors.Is(err, membersdomain.ErrInvalidInput) {
			h.log.BusinessError("members.export: invalid filter", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("members.export: export members failed", err)
		internalError(w)
		return
	}

	filename := fmt.Sprintf("members_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := membersdomain.WriteCSV(w, items); err != nil {
		h.log.InternalError("members.export: write csv failed", err, "rows", len(items))
	}
}
