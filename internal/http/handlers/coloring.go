package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pewarnaan/internal/domain"
	"pewarnaan/internal/domain/jsoncfg"
	"pewarnaan/pkg/zip"
)

const maxFormMemory = 1 << 20

type submitResponse struct {
	TaskID string `json:"task_id"`
}

type directResult struct {
	ColoredImageURL string             `json:"colored_image_url"`
	UsedColors      []domain.UsedColor `json:"used_colors"`
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// SubmitColoring validates the form and queues a coloring job. With
// mode=sync the job runs inline and the result is returned directly.
func (a *App) SubmitColoring(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		a.error(w, r, http.StatusBadRequest, msgInvalidForm)
		return
	}
	req := jsoncfg.ColoringRequest{
		UlosType:    r.FormValue("jenisUlos"),
		MotifID:     r.FormValue("selectedMotif"),
		ColorCodes:  jsoncfg.ParseColorList(r.FormValue("selectedColors")),
		Generations: a.Generations,
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		a.log(r).Debug().Err(err).Msg("submit: invalid form")
		a.error(w, r, http.StatusBadRequest, msgInvalidForm)
		return
	}
	if key, status, err := a.checkCatalog(r, &req); key != nil {
		if err != nil {
			a.log(r).Error().Err(err).Msg("submit: catalog check")
		}
		a.error(w, r, status, *key)
		return
	}

	log := a.log(r).With().Str("ulos_type", req.UlosType).Str("motif_id", req.MotifID).Logger()
	if r.FormValue("mode") == "sync" && a.Engine != nil {
		a.runSync(w, r, req)
		return
	}

	job := &domain.ColoringJob{
		ID:         a.NewID(),
		UlosType:   req.UlosType,
		MotifID:    req.MotifID,
		ColorCodes: req.ColorCodes,
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		log.Error().Err(err).Msg("submit: create job")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	a.Metrics.JobQueued()
	log.Info().Str("task_id", job.ID).Strs("colors", job.ColorCodes).Msg("coloring job queued")
	a.json(w, http.StatusAccepted, submitResponse{TaskID: job.ID})
}

// checkCatalog verifies the type, colors and motif against the catalog. A
// nil key means the request is acceptable. The motif defaults to empty when
// the type has no motifs.
func (a *App) checkCatalog(r *http.Request, req *jsoncfg.ColoringRequest) (*messageKey, int, error) {
	fail := func(k messageKey, status int, err error) (*messageKey, int, error) { return &k, status, err }
	ctx := r.Context()

	types, err := a.Catalog.UlosTypes(ctx)
	if err != nil {
		return fail(msgInternal, http.StatusInternalServerError, err)
	}
	if !slices.Contains(types, req.UlosType) {
		return fail(msgUnknownUlosType, http.StatusBadRequest, nil)
	}

	palette, err := a.palette(ctx)
	if err != nil {
		return fail(msgInternal, http.StatusInternalServerError, err)
	}
	for _, code := range req.ColorCodes {
		if _, ok := palette[code]; !ok {
			return fail(msgUnknownColor, http.StatusBadRequest, nil)
		}
	}

	if req.MotifID == "" {
		motifs, err := a.Catalog.ListMotifs(ctx, req.UlosType)
		if err != nil {
			return fail(msgInternal, http.StatusInternalServerError, err)
		}
		if len(motifs) > 0 {
			return fail(msgMotifRequired, http.StatusBadRequest, nil)
		}
		return nil, 0, nil
	}
	motif, err := a.Catalog.GetMotif(ctx, req.MotifID)
	if errors.Is(err, domain.ErrNotFound) {
		return fail(msgMotifMismatch, http.StatusBadRequest, nil)
	}
	if err != nil {
		return fail(msgInternal, http.StatusInternalServerError, err)
	}
	if motif.UlosType != req.UlosType {
		return fail(msgMotifMismatch, http.StatusBadRequest, nil)
	}
	return nil, 0, nil
}

func (a *App) runSync(w http.ResponseWriter, r *http.Request, req jsoncfg.ColoringRequest) {
	taskID := a.NewID()
	log := a.log(r).With().Str("task_id", taskID).Str("ulos_type", req.UlosType).Logger()
	a.Metrics.JobStarted()
	start := time.Now()
	result, err := a.Engine.Run(r.Context(), coloringInput(taskID, req), nil)
	a.Metrics.JobFinished(err == nil, time.Since(start))
	if err != nil {
		log.Error().Err(err).Msg("sync coloring failed")
		status := http.StatusInternalServerError
		key := msgColoringFailed
		switch {
		case errors.Is(err, domain.ErrUnknownColor):
			status, key = http.StatusBadRequest, msgUnknownColor
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
			status, key = http.StatusBadRequest, msgMotifMismatch
		}
		a.error(w, r, status, key)
		return
	}
	log.Info().Str("url", result.ColoredImageURL).Msg("sync coloring completed")
	a.json(w, http.StatusOK, directResult{ColoredImageURL: result.ColoredImageURL, UsedColors: result.UsedColors})
}

// Progress reports a job's percentage; once finished it carries the result
// or the error text.
func (a *App) Progress(w http.ResponseWriter, r *http.Request) {
	job, ok := a.loadJob(w, r)
	if !ok {
		return
	}
	resp := domain.JobProgress{Progress: job.Progress, Status: job.Status}
	switch job.Status {
	case domain.JobStatusRunning:
		resp.Status = domain.JobStatusPending
	case domain.JobStatusFailed:
		resp.Error = job.ErrorMessage
	case domain.JobStatusCompleted:
		var result domain.ColoringResult
		if err := json.Unmarshal(job.ResultJSON, &result); err != nil {
			a.log(r).Error().Err(err).Str("task_id", job.ID).Msg("progress: decode result")
			resp.Status = domain.JobStatusFailed
			resp.Error = a.text(r, msgColoringFailed)
			break
		}
		resp.ColoredImageURL = result.ColoredImageURL
		resp.UsedColors = result.UsedColors
		resp.ColorSchemeAnalysis = &result.ColorSchemeAnalysis
		resp.UsageRecommendations = &result.UsageRecommendations
		resp.OptimizationScores = &result.OptimizationScores
	}
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, resp)
}

// Download bundles the colored image and its palette as a zip archive.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	job, ok := a.loadJob(w, r)
	if !ok {
		return
	}
	if job.Status != domain.JobStatusCompleted {
		a.error(w, r, http.StatusConflict, msgResultNotReady)
		return
	}
	var result domain.ColoringResult
	if err := json.Unmarshal(job.ResultJSON, &result); err != nil {
		a.log(r).Error().Err(err).Str("task_id", job.ID).Msg("download: decode result")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	rc, err := a.Store.Open(r.Context(), result.ColoredImageURL)
	if err != nil {
		a.log(r).Error().Err(err).Str("task_id", job.ID).Msg("download: open image")
		a.error(w, r, http.StatusNotFound, msgFileNotFound)
		return
	}
	image, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	palette, _ := json.MarshalIndent(map[string]any{
		"task_id":               job.ID,
		"ulos_type":             job.UlosType,
		"motif_id":              job.MotifID,
		"selected_colors":       job.ColorCodes,
		"used_colors":           result.UsedColors,
		"color_scheme_analysis": result.ColorSchemeAnalysis,
		"usage_recommendations": result.UsageRecommendations,
		"optimization_scores":   result.OptimizationScores,
	}, "", "  ")
	archive, err := zip.Archive([]zip.Entry{
		{Filename: path.Base(result.ColoredImageURL), Data: image, Modified: job.UpdatedAt},
		{Filename: "palette.json", Data: palette, Modified: job.UpdatedAt},
	})
	if err != nil {
		a.log(r).Error().Err(err).Msg("download: build archive")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pewarnaan-%s.zip", job.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) loadJob(w http.ResponseWriter, r *http.Request) (*domain.ColoringJob, bool) {
	taskID := strings.TrimSpace(chi.URLParam(r, "taskID"))
	if taskID == "" {
		a.error(w, r, http.StatusNotFound, msgTaskNotFound)
		return nil, false
	}
	job, err := a.Jobs.GetByID(r.Context(), taskID)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, r, http.StatusNotFound, msgTaskNotFound)
		return nil, false
	}
	if err != nil {
		a.log(r).Error().Err(err).Str("task_id", taskID).Msg("load job")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return nil, false
	}
	return job, true
}
