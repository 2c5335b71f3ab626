package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"pewarnaan/internal/storage"
)

// Static serves motifs and colored results from storage under /static/.
func (a *App) Static(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" {
		a.error(w, r, http.StatusNotFound, msgFileNotFound)
		return
	}
	rc, err := a.Store.Open(r.Context(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			a.log(r).Warn().Err(err).Str("key", key).Msg("static: open")
		}
		a.error(w, r, http.StatusNotFound, msgFileNotFound)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		a.log(r).Debug().Err(err).Str("key", key).Msg("static: copy interrupted")
	}
}
