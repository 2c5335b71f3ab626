package handlers

import (
	"net/http"
)

// Health reports ok when the catalog can be read.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Catalog.UlosTypes(r.Context()); err != nil {
		a.log(r).Error().Err(err).Msg("health: catalog unavailable")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
