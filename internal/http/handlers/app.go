package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pewarnaan/internal/coloring"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/domain/jsoncfg"
	"pewarnaan/internal/metrics"
	"pewarnaan/internal/middleware"
	"pewarnaan/internal/scheme"
)

// Colorer runs a coloring request inline. Used by the synchronous mode of
// the submit endpoint.
type Colorer interface {
	Run(ctx context.Context, in coloring.Input, progress coloring.ProgressFunc) (*domain.ColoringResult, error)
}

// ObjectStore is the read side of result and motif storage.
type ObjectStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type App struct {
	Catalog        domain.CatalogRepository
	Jobs           domain.JobRepository
	Store          ObjectStore
	Engine         Colorer
	Analyzer       *scheme.Analyzer
	Metrics        *metrics.Registry
	Logger         zerolog.Logger
	StorageBaseURL string
	Generations    int
	NewID          func() string
}

// Options wires an App.
type Options struct {
	Catalog        domain.CatalogRepository
	Jobs           domain.JobRepository
	Store          ObjectStore
	Engine         Colorer
	Analyzer       *scheme.Analyzer
	Metrics        *metrics.Registry
	Logger         zerolog.Logger
	StorageBaseURL string
	Generations    int
}

func NewApp(opts Options) (*App, error) {
	if opts.Catalog == nil || opts.Jobs == nil || opts.Store == nil {
		return nil, errors.New("handlers: catalog, jobs and store are required")
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = scheme.NewAnalyzer(nil)
	}
	return &App{
		Catalog:        opts.Catalog,
		Jobs:           opts.Jobs,
		Store:          opts.Store,
		Engine:         opts.Engine,
		Analyzer:       analyzer,
		Metrics:        opts.Metrics,
		Logger:         opts.Logger,
		StorageBaseURL: strings.TrimRight(opts.StorageBaseURL, "/"),
		Generations:    opts.Generations,
		NewID:          uuid.NewString,
	}, nil
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes {"error": message} with the message localized for the request.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, key messageKey) {
	a.json(w, code, map[string]string{"error": a.text(r, key)})
}

// log returns the request scoped logger, falling back to the app logger.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

// publicURL maps a storage key to the URL a browser can load it from.
func (a *App) publicURL(key string) string {
	base := a.StorageBaseURL
	if base == "" {
		base = "/static"
	}
	return base + "/" + strings.TrimLeft(key, "/")
}

// palette loads the thread colors and keeps the analyzer in sync.
func (a *App) palette(ctx context.Context) (map[string]domain.ThreadColor, error) {
	colors, err := a.Catalog.ListColors(ctx)
	if err != nil {
		return nil, err
	}
	a.Analyzer.Refresh(colors)
	out := make(map[string]domain.ThreadColor, len(colors))
	for _, c := range colors {
		out[c.Code] = c
	}
	return out, nil
}

func (a *App) text(r *http.Request, key messageKey) string {
	return message(middleware.LocaleFromContext(r.Context()), key)
}

func coloringInput(taskID string, req jsoncfg.ColoringRequest) coloring.Input {
	return coloring.Input{
		TaskID:      taskID,
		UlosType:    req.UlosType,
		MotifID:     req.MotifID,
		ColorCodes:  req.ColorCodes,
		Generations: req.Generations,
	}
}
