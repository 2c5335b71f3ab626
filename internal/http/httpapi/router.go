package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pewarnaan/internal/http/handlers"
	"pewarnaan/internal/metrics"
	"pewarnaan/internal/middleware"
)

// RouterOptions carries the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	Logger          zerolog.Logger
	Metrics         *metrics.Registry
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	SubmitPerMinute int
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID(opts.Logger),
		chimw.Recoverer,
		opts.Metrics.Middleware,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.AccessLog,
	)

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Get("/get_motifs/", app.GetMotifs)
	r.Get("/ulos_types/", app.UlosTypes)

	r.Route("/colors", func(r chi.Router) {
		r.Get("/", app.ListColors)
		r.Get("/{code}/similar", app.SimilarColors)
		r.Post("/preview", app.PreviewScheme)
	})

	limiter := middleware.NewLimiter(opts.SubmitPerMinute, time.Minute, opts.Metrics.RateLimited)
	r.Route("/pewarnaan", func(r chi.Router) {
		r.With(limiter.Handler).Post("/", app.SubmitColoring)
		r.Get("/progress/{taskID}/", app.Progress)
		r.Get("/{taskID}/download.zip", app.Download)
	})

	r.Get("/static/*", app.Static)
	r.Head("/static/*", app.Static)

	return r
}
