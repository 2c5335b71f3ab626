package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pewarnaan/internal/colorspace"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/domain/jsoncfg"
	"pewarnaan/internal/scheme"
)

const (
	defaultSimilarCount = 5
	maxSimilarCount     = 30
)

type colorResponse struct {
	Code     string     `json:"code"`
	HexColor string     `json:"hex_color"`
	HSV      domain.HSV `json:"hsv"`
}

func toColorResponse(c domain.ThreadColor) colorResponse {
	return colorResponse{Code: c.Code, HexColor: colorspace.Hex(c.HSV), HSV: c.HSV}
}

// ListColors returns the thread color palette.
func (a *App) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := a.Catalog.ListColors(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list colors")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	out := make([]colorResponse, 0, len(colors))
	for _, c := range colors {
		out = append(out, toColorResponse(c))
	}
	a.json(w, http.StatusOK, out)
}

// SimilarColors suggests thread colors close to {code}.
func (a *App) SimilarColors(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	count := defaultSimilarCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = min(n, maxSimilarCount)
		}
	}
	palette, err := a.palette(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("similar colors: load palette")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	primary, ok := palette[code]
	if !ok {
		a.error(w, r, http.StatusNotFound, msgColorNotFound)
		return
	}
	similar := a.Analyzer.Similar(code, count)
	out := make([]colorResponse, 0, len(similar))
	for _, c := range similar {
		out = append(out, toColorResponse(palette[c]))
	}
	a.json(w, http.StatusOK, map[string]any{
		"primary_color":  toColorResponse(primary),
		"similar_colors": out,
	})
}

type previewRequest struct {
	SelectedColors []string `json:"selectedColors"`
}

// PreviewScheme analyzes a color selection without running the optimizer.
// Accepts a form field or a JSON body.
func (a *App) PreviewScheme(w http.ResponseWriter, r *http.Request) {
	var codes []string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, r, http.StatusBadRequest, msgInvalidForm)
			return
		}
		codes = req.SelectedColors
	} else {
		if err := parseForm(r); err != nil {
			a.error(w, r, http.StatusBadRequest, msgInvalidForm)
			return
		}
		codes = jsoncfg.ParseColorList(r.FormValue("selectedColors"))
	}
	req := jsoncfg.ColoringRequest{UlosType: "preview", ColorCodes: codes}
	req.Normalize()
	if len(req.ColorCodes) == 0 {
		a.error(w, r, http.StatusBadRequest, msgInvalidForm)
		return
	}

	palette, err := a.palette(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("preview: load palette")
		a.error(w, r, http.StatusInternalServerError, msgInternal)
		return
	}
	details := make(map[string]colorResponse, len(req.ColorCodes))
	for _, code := range req.ColorCodes {
		c, ok := palette[code]
		if !ok {
			a.error(w, r, http.StatusBadRequest, msgUnknownColor)
			return
		}
		details[code] = toColorResponse(c)
	}
	an := a.Analyzer.Analyze(req.ColorCodes)
	analysis, recs := scheme.ToDomain(an, scheme.Recommend(an))
	a.json(w, http.StatusOK, map[string]any{
		"scheme_type":     analysis.SchemeType,
		"description":     analysis.Description,
		"harmony_score":   analysis.ColorHarmonyScore,
		"analysis":        analysis,
		"recommendations": recs,
		"color_details":   details,
	})
}
