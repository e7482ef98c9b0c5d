package access

import (
	"net/http"

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
