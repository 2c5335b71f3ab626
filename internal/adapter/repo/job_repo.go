package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pewarnaan/internal/domain"
	"pewarnaan/internal/infra"
	"pewarnaan/internal/sqlinline"
)

// DefaultStaleAfter is how long a running job may go without a write before
// another worker may claim it again.
const DefaultStaleAfter = 15 * time.Minute

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
	ttl time.Duration

	// StaleAfter overrides DefaultStaleAfter when positive.
	StaleAfter time.Duration
}

// NewJobRepository creates a new job repository backed by PostgreSQL. Every
// write pushes the job's expiry ttl into the future.
func NewJobRepository(sql infra.SQLExecutor, ttl time.Duration) *JobRepositoryPG {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobRepositoryPG{sql: sql, ttl: ttl}
}

func (r *JobRepositoryPG) ttlSeconds() int {
	return int(r.ttl / time.Second)
}

// Create inserts a new pending job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.ColoringJob) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertColoringJob,
		job.ID,
		job.UlosType,
		job.MotifID,
		job.ColorCodes,
		r.ttlSeconds(),
	)
	if err := row.Scan(&job.CreatedAt, &job.UpdatedAt, &job.ExpiresAt); err != nil {
		return err
	}
	job.Status = domain.JobStatusPending
	job.Progress = 0
	return nil
}

// Claim takes the oldest pending job, or a running one whose worker stopped
// writing progress more than StaleAfter ago.
func (r *JobRepositoryPG) Claim(ctx context.Context) (*domain.ColoringJob, error) {
	stale := r.StaleAfter
	if stale <= 0 {
		stale = DefaultStaleAfter
	}
	row := r.sql.QueryRow(ctx, sqlinline.QWorkerClaimJob, int(stale/time.Second))
	var job domain.ColoringJob
	if err := row.Scan(
		&job.ID,
		&job.UlosType,
		&job.MotifID,
		&job.ColorCodes,
		&job.Status,
		&job.Progress,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.ExpiresAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNoJobAvailable
		}
		return nil, err
	}
	return &job, nil
}

// UpdateProgress never moves progress backwards and ignores finished jobs.
func (r *JobRepositoryPG) UpdateProgress(ctx context.Context, jobID string, progress int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateJobProgress, jobID, progress, r.ttlSeconds())
	return err
}

func (r *JobRepositoryPG) Complete(ctx context.Context, jobID string, resultJSON []byte) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QCompleteJob, jobID, nullableBytes(resultJSON), r.ttlSeconds())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JobRepositoryPG) Fail(ctx context.Context, jobID string, errMsg string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QFailJob, jobID, errMsg, r.ttlSeconds())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID fetches a job by its identifier. Expired jobs are reported as not found.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.ColoringJob, error) {
	// ids are uuid columns; anything else cannot exist.
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QSelectJobByID, jobID)
	var job domain.ColoringJob
	if err := row.Scan(
		&job.ID,
		&job.UlosType,
		&job.MotifID,
		&job.ColorCodes,
		&job.Status,
		&job.Progress,
		&job.ResultJSON,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.ExpiresAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryPG) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteExpiredJobs, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
