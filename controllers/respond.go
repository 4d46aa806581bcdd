package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"campus-events/store"

	"github.com/rs/zerolog"
)

const requestTimeout = 5 * time.Second

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError emits the {success:false, error} envelope shown verbatim by the client
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}

// writeStoreError maps store failures onto 400/404/500. The cause of a 500
// is logged, the client only sees msg.
func writeStoreError(w http.ResponseWriter, log *zerolog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid event ID format")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Event not found")
	default:
		log.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("Invalid input")
	}
	return nil
}
