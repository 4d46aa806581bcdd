package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB  Pinger
	Log *zerolog.Logger
}

func NewHealthController(db Pinger, log *zerolog.Logger) *HealthController {
	return &HealthController{DB: db, Log: log}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := hc.DB.Ping(ctx); err != nil {
		hc.Log.Error().Err(err).Msg("health check failed")
		writeError(w, http.StatusInternalServerError, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
