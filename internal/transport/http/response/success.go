package response

import (
	"encoding/json"
	"net/http"

	"github.com/baechuer/commerce-api/internal/logger"
)

// Envelope wraps every successful body as {"data": ...}.
type Envelope struct {
	Data any `json:"data"`
}

// WriteJSON writes v as JSON with the given status code. An existing
// Content-Type is preserved. Headers are already sent when encoding fails,
// so the failure is only logged.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Logger.Warn().Err(err).Int("status", status).Msg("encode response failed")
	}
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data})
}

// NoContent answers successful deletes.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
