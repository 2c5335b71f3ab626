package domain

import (
	"context"
	"time"
)

// CatalogRepository exposes the thread colors, fabric characteristics and
// motifs used by the coloring form.
type CatalogRepository interface {
	ListColors(ctx context.Context) ([]ThreadColor, error)
	ListCharacteristics(ctx context.Context) (map[string]Characteristic, error)
	ListMotifs(ctx context.Context, ulosType string) ([]Motif, error)
	GetMotif(ctx context.Context, id string) (*Motif, error)
	UlosTypes(ctx context.Context) ([]string, error)
}

// CatalogWriter is used by seeding tools.
type CatalogWriter interface {
	UpsertColor(ctx context.Context, color ThreadColor) (created bool, err error)
	UpsertCharacteristic(ctx context.Context, c Characteristic) error
	InsertMotif(ctx context.Context, motif Motif) (inserted bool, err error)
}

// JobRepository persists coloring jobs and their progress.
type JobRepository interface {
	Create(ctx context.Context, job *ColoringJob) error
	// Claim marks the oldest pending job as running and returns it, or
	// ErrNoJobAvailable.
	Claim(ctx context.Context) (*ColoringJob, error)
	UpdateProgress(ctx context.Context, jobID string, progress int) error
	Complete(ctx context.Context, jobID string, resultJSON []byte) error
	Fail(ctx context.Context, jobID string, errMsg string) error
	// GetByID returns ErrNotFound for unknown or expired jobs.
	GetByID(ctx context.Context, jobID string) (*ColoringJob, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
