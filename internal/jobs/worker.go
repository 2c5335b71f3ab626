// Package jobs runs queued coloring jobs and persists their progress.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/rs/zerolog"

	"pewarnaan/internal/coloring"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/metrics"
)

// Runner executes one coloring request.
type Runner interface {
	Run(ctx context.Context, in coloring.Input, progress coloring.ProgressFunc) (*domain.ColoringResult, error)
}

type Options struct {
	Jobs            domain.JobRepository
	Engine          Runner
	PollInterval    time.Duration
	CleanupInterval time.Duration
	Generations     int
	Metrics         *metrics.Registry
	Logger          zerolog.Logger
}

// Worker claims pending jobs one at a time.
type Worker struct {
	jobs        domain.JobRepository
	engine      Runner
	poll        time.Duration
	cleanup     time.Duration
	generations int
	metrics     *metrics.Registry
	logger      zerolog.Logger
	now         func() time.Time
}

func New(opts Options) (*Worker, error) {
	if opts.Jobs == nil {
		return nil, errors.New("jobs: repository is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("jobs: engine is required")
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	cleanup := opts.CleanupInterval
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &Worker{
		jobs:        opts.Jobs,
		engine:      opts.Engine,
		poll:        poll,
		cleanup:     cleanup,
		generations: opts.Generations,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         time.Now,
	}, nil
}

// Run drains the queue, then waits for the jittered ticker before claiming
// again. It returns ctx.Err() once ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Dur("poll_interval", w.poll).Msg("worker: started")
	ticker := jitterbug.New(w.poll, &jitterbug.Norm{Stdev: w.poll / 10})
	defer ticker.Stop()
	lastCleanup := w.now()

	for {
		for {
			handled, err := w.ProcessNext(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error().Err(err).Msg("worker: failed to claim job")
				break
			}
			if !handled {
				break
			}
		}

		if w.now().Sub(lastCleanup) >= w.cleanup {
			w.purgeExpired(ctx)
			lastCleanup = w.now()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ProcessNext claims and runs a single job. It reports false when the queue
// is empty.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.jobs.Claim(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoJobAvailable) {
			return false, nil
		}
		return false, err
	}
	w.handle(ctx, job)
	return true, nil
}

func (w *Worker) handle(ctx context.Context, job *domain.ColoringJob) {
	log := w.logger.With().Str("task_id", job.ID).Str("ulos_type", job.UlosType).Logger()
	log.Info().Strs("colors", job.ColorCodes).Str("motif_id", job.MotifID).Msg("worker: picked job")
	w.metrics.JobStarted()
	start := w.now()

	result, err := w.engine.Run(ctx, coloring.Input{
		TaskID:      job.ID,
		UlosType:    job.UlosType,
		MotifID:     job.MotifID,
		ColorCodes:  job.ColorCodes,
		Generations: w.generations,
	}, w.progressWriter(ctx, job.ID, log))

	// The final status must land even when shutdown interrupted the run.
	finalCtx := context.WithoutCancel(ctx)
	if err == nil {
		err = w.complete(finalCtx, job.ID, result)
	}
	if err != nil {
		log.Error().Err(err).Msg("worker: job failed")
		if ferr := w.jobs.Fail(finalCtx, job.ID, failureMessage(err)); ferr != nil {
			log.Error().Err(ferr).Msg("worker: mark job failed")
		}
		w.metrics.JobFinished(false, w.now().Sub(start))
		return
	}
	log.Info().Dur("duration", w.now().Sub(start)).Msg("worker: job completed")
	w.metrics.JobFinished(true, w.now().Sub(start))
}

// progressWriter persists every stage below 100. The terminal 100 is only
// written together with the final status so a poller never sees 100 on a
// running job.
func (w *Worker) progressWriter(ctx context.Context, jobID string, log zerolog.Logger) coloring.ProgressFunc {
	return func(percent int, stage string) {
		if percent >= domain.ProgressCompleted {
			return
		}
		if err := w.jobs.UpdateProgress(ctx, jobID, percent); err != nil {
			log.Warn().Err(err).Int("progress", percent).Str("stage", stage).Msg("worker: persist progress")
			return
		}
		log.Debug().Int("progress", percent).Str("stage", stage).Msg("worker: progress")
	}
}

func (w *Worker) complete(ctx context.Context, jobID string, result *domain.ColoringResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := w.jobs.Complete(ctx, jobID, payload); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

func (w *Worker) purgeExpired(ctx context.Context) {
	n, err := w.jobs.DeleteExpired(ctx, w.now())
	if err != nil {
		w.logger.Warn().Err(err).Msg("worker: purge expired jobs")
		return
	}
	if n > 0 {
		w.logger.Info().Int64("deleted", n).Msg("worker: purged expired jobs")
	}
}

// failureMessage is the text shown to the user after "Error: ".
func failureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownColor):
		return "Kode warna tidak dikenal."
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		return "Motif tidak ditemukan untuk jenis Ulos ini."
	case errors.Is(err, domain.ErrMotifImageInvalid):
		return "Gambar motif tidak dapat dibaca."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Proses pewarnaan dihentikan."
	default:
		return "Terjadi kesalahan saat memproses gambar: " + err.Error()
	}
}
