package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/bizpulse/bizpulse/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps service error codes to HTTP statuses. Internal details are
// logged, not returned.
func writeErr(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorInvalid:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": se.Message})
			return
		case services.ErrorNotFound:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": se.Message})
			return
		case services.ErrorUnauthorized:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": se.Message})
			return
		case services.ErrorIntegrity:
			log.Printf("integrity error: %v", se)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": se.Message})
			return
		}
	}
	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
