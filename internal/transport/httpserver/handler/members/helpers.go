package members

import (
	"net/http"
	"time"

	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func internalError(w http.ResponseWriter) {
	commonhandler.WriteInternalError(w)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return commonhandler.DecodeAndValidate(w, r, dst)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	return commonhandler.PathID(w, r, name)
}

func formatDate(t time.Time) string {
	return commonhandler.FormatDate(t)
}

func parseDate(value string) (time.Time, error) {
	return commonhandler.ParseDateRequired(value)
}
