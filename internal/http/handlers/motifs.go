package handlers

import (
	"net/http"
	"strings"
)

type motifResponse struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// GetMotifs lists the motifs of ?jenis_ulos=. Unknown types yield an empty
// array so the form can show its "no motifs" message.
func (a *App) GetMotifs(w http.ResponseWriter, r *http.Request) {
	ulosType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("jenis_ulos")))
	if ulosType == "" {
		a.error(w, r, http.StatusBadRequest, msgMissingUlosType)
		return
	}
	motifs, err := a.Catalog.ListMotifs(r.Context(), ulosType)
	if err != nil {
		a.log(r).Error().Err(err).Str("ulos_type", ulosType).Msg("list motifs")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	out := make([]motifResponse, 0, len(motifs))
	for _, m := range motifs {
		out = append(out, motifResponse{ID: m.ID, Src: a.publicURL(m.StorageKey)})
	}
	a.json(w, http.StatusOK, out)
}

// UlosTypes lists the known fabric types.
func (a *App) UlosTypes(w http.ResponseWriter, r *http.Request) {
	types, err := a.Catalog.UlosTypes(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list ulos types")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	if types == nil {
		types = []string{}
	}
	a.json(w, http.StatusOK, types)
}
