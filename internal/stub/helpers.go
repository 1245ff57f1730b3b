package stub

import (
	"encoding/json"
	"net/http"

	"angdelivery/internal/logx"
)

const bodyLimit = 1 << 20

func writeJSON(logger logx.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("json encode failed", logx.Err(err))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, status int, msg string) {
	logger.Warn("request rejected", logx.Int("status", status), logx.String("msg", msg))
	writeJSON(logger, w, status, errResponse{Error: msg})
}

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(logger, w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
