// Package coloring maps the gray levels of a motif to thread colors with a
// multi-objective differential evolution search and renders the result.
package coloring

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"pewarnaan/internal/colorspace"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/providers/recommend"
	"pewarnaan/internal/scheme"
)

// Progress checkpoints reported while a job runs.
const (
	StageStart            = 1
	StageLoadCatalog      = 5
	StageBuildPreference  = 10
	StagePrepareObjective = 15
	StageFetchColors      = 20
	StageOptimizeStart    = 25
	StageOptimizeEnd      = 90
	StageProcessResults   = 92
	StageSchemeAnalysis   = 94
	StageApplyColors      = 95
	StageSaveImage        = 98
	StageCompleted        = domain.ProgressCompleted
)

const outputPrefix = "ColoringFile/output"

// ProgressFunc receives the overall percentage and a short stage name.
type ProgressFunc func(percent int, stage string)

// Store reads motif images and writes rendered results.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Input is one coloring request.
type Input struct {
	TaskID      string
	UlosType    string
	MotifID     string
	ColorCodes  []string
	Generations int
}

type Engine struct {
	catalog     domain.CatalogRepository
	store       Store
	recommender recommend.Recommender
	analyzer    *scheme.Analyzer
	options     Options
	logger      zerolog.Logger
}

type EngineOptions struct {
	Catalog     domain.CatalogRepository
	Store       Store
	Recommender recommend.Recommender
	Analyzer    *scheme.Analyzer
	Search      Options
	Logger      zerolog.Logger
}

func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, errors.New("coloring: catalog is required")
	}
	if opts.Store == nil {
		return nil, errors.New("coloring: store is required")
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = scheme.NewAnalyzer(nil)
	}
	rec := opts.Recommender
	if rec == nil {
		rec = recommend.NewStaticRecommender(analyzer)
	}
	return &Engine{
		catalog:     opts.Catalog,
		store:       opts.Store,
		recommender: rec,
		analyzer:    analyzer,
		options:     opts.Search.normalized(),
		logger:      opts.Logger,
	}, nil
}

// Run colors the motif and returns the result. progress is called with
// non-decreasing percentages ending at StageCompleted on success.
func (e *Engine) Run(ctx context.Context, in Input, progress ProgressFunc) (*domain.ColoringResult, error) {
	report := func(p int, stage string) {
		if progress != nil {
			progress(p, stage)
		}
	}
	log := e.logger.With().Str("task_id", in.TaskID).Str("ulos_type", in.UlosType).Logger()

	report(StageStart, "start")

	report(StageLoadCatalog, "load_catalog")
	palette, err := e.catalog.ListColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load colors: %w", err)
	}
	e.analyzer.Refresh(palette)
	byCode := make(map[string]domain.HSV, len(palette))
	for _, c := range palette {
		byCode[c.Code] = c.HSV
	}
	var selected []domain.HSV
	for _, code := range in.ColorCodes {
		hsv, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownColor, code)
		}
		selected = append(selected, hsv)
	}

	report(StageBuildPreference, "build_preference")
	characteristics, err := e.catalog.ListCharacteristics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load characteristics: %w", err)
	}

	report(StagePrepareObjective, "prepare_objective")
	motif, err := e.resolveMotif(ctx, in)
	if err != nil {
		return nil, err
	}
	gray, err := e.loadMotif(ctx, motif)
	if err != nil {
		return nil, err
	}
	levels := Histogram(gray)
	if len(levels.Values) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrMotifImageInvalid)
	}

	report(StageFetchColors, "fetch_colors")
	rec, err := e.recommender.Recommend(ctx, recommend.Request{
		UlosType:       in.UlosType,
		Characteristic: characteristics[in.UlosType],
		Selected:       in.ColorCodes,
		Palette:        palette,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	if rec.FallbackReason != "" {
		log.Warn().Str("reason", rec.FallbackReason).Msg("coloring: recommender fell back to palette similarity")
	}
	candidates := buildCandidates(rec.Colors, in.ColorCodes, byCode)
	log.Debug().Int("levels", len(levels.Values)).Int("candidates", len(candidates)).Msg("coloring: search space ready")

	obj := &objective{
		levels:      levels,
		candidates:  candidates,
		preferences: selected,
		target:      len(in.ColorCodes),
	}
	searchOpts := e.options
	if in.Generations > 0 {
		searchOpts.Generations = in.Generations
	}

	report(StageOptimizeStart, "optimize")
	pop, err := Optimize(ctx, Problem{
		NumVars:  len(levels.Values),
		Upper:    len(candidates) - 1,
		Evaluate: func(x []int) []float64 { return obj.evaluate(x).minimized() },
	}, searchOpts, func(gen int) {
		report(optimizeProgress(gen, searchOpts.Generations), "optimize")
	})
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	report(StageOptimizeEnd, "optimize")

	report(StageProcessResults, "process_results")
	best := Best(pop)
	levelColors := make([]color.RGBA, len(best.X))
	usedSet := make(map[string]struct{})
	for i, idx := range best.X {
		levelColors[i] = candidates[idx].rgb
		usedSet[candidates[idx].code] = struct{}{}
	}
	used := make([]string, 0, len(usedSet))
	for code := range usedSet {
		used = append(used, code)
	}
	sort.Strings(used)

	report(StageSchemeAnalysis, "scheme_analysis")
	an := e.analyzer.Analyze(used)
	analysis, recs := scheme.ToDomain(an, scheme.Recommend(an))

	report(StageApplyColors, "apply_colors")
	rendered := Render(gray, levels, levelColors)

	report(StageSaveImage, "save_image")
	data, err := encodePNG(rendered)
	if err != nil {
		return nil, err
	}
	key, err := e.store.Write(ctx, OutputKey(in.UlosType, in.TaskID), data)
	if err != nil {
		return nil, fmt.Errorf("save colored image: %w", err)
	}

	usedColors := make([]domain.UsedColor, 0, len(used))
	for _, code := range used {
		usedColors = append(usedColors, domain.UsedColor{Code: code, HexColor: colorspace.Hex(byCode[code])})
	}
	scores := scoresFromMinimized(best.F).Domain()
	report(StageCompleted, "completed")
	log.Info().Str("scheme", analysis.SchemeType).Strs("used", used).Msg("coloring: completed")

	return &domain.ColoringResult{
		ColoredImageURL:      key,
		UsedColors:           usedColors,
		UniqueUsedColorCodes: used,
		ColorSchemeAnalysis:  analysis,
		UsageRecommendations: recs,
		OptimizationScores:   scores,
	}, nil
}

// OutputKey is the storage key of a rendered motif.
func OutputKey(ulosType, taskID string) string {
	name := "colored_ulos_" + sanitizeName(ulosType)
	if taskID != "" {
		name += "_" + sanitizeName(taskID)
	}
	return outputPrefix + "/" + name + ".png"
}

func optimizeProgress(gen, total int) int {
	span := StageOptimizeEnd - StageOptimizeStart
	if total <= 0 {
		return StageOptimizeEnd
	}
	if gen > total {
		gen = total
	}
	return StageOptimizeStart + gen*span/total
}

func (e *Engine) resolveMotif(ctx context.Context, in Input) (*domain.Motif, error) {
	if in.MotifID == "" {
		motifs, err := e.catalog.ListMotifs(ctx, in.UlosType)
		if err != nil {
			return nil, fmt.Errorf("list motifs: %w", err)
		}
		if len(motifs) == 0 {
			return nil, fmt.Errorf("%w: no motif for %s", domain.ErrNotFound, in.UlosType)
		}
		return &motifs[0], nil
	}
	motif, err := e.catalog.GetMotif(ctx, in.MotifID)
	if err != nil {
		return nil, fmt.Errorf("get motif: %w", err)
	}
	if motif.UlosType != in.UlosType {
		return nil, fmt.Errorf("%w: motif %s does not belong to %s", domain.ErrInvalidInput, motif.ID, in.UlosType)
	}
	return motif, nil
}

func (e *Engine) loadMotif(ctx context.Context, motif *domain.Motif) (*image.Gray, error) {
	rc, err := e.store.Open(ctx, motif.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open motif %s: %w", motif.ID, err)
	}
	defer func() {
		_ = rc.Close()
	}()
	gray, err := DecodeGray(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMotifImageInvalid, err)
	}
	return gray, nil
}

// buildCandidates merges recommended and selected threads into a stable,
// code-ordered candidate list.
func buildCandidates(recommended map[string]domain.HSV, selected []string, palette map[string]domain.HSV) []candidate {
	merged := make(map[string]domain.HSV, len(recommended)+len(selected))
	for code, hsv := range recommended {
		merged[code] = hsv
	}
	for _, code := range selected {
		if hsv, ok := palette[code]; ok {
			merged[code] = hsv
		}
	}
	codes := make([]string, 0, len(merged))
	for code := range merged {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]candidate, 0, len(codes))
	for _, code := range codes {
		hsv := merged[code]
		out = append(out, candidate{code: code, hsv: hsv, rgb: colorspace.ToRGB(hsv)})
	}
	return out
}

func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
