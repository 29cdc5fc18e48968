package handlers

import (
	"net/http"

	"server/internal/sqlinline"
)

// Health reports liveness plus a database round trip, so the probe fails
// when the process is up but Postgres is not.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QHealthPing).Scan(&one); err != nil {
		a.Logger.Error().Err(err).Msg("health: database ping failed")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
