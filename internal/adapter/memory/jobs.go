package memory

import (
	"context"
	"sync"
	"time"

	"pewarnaan/internal/domain"
)

// JobRepository is a process-local job queue. Jobs expire ttl after their
// last update, like the database-backed store.
type JobRepository struct {
	mu   sync.Mutex
	jobs map[string]*entry
	seq  uint64
	ttl  time.Duration
	now  func() time.Time
}

type entry struct {
	job domain.ColoringJob
	seq uint64
}

// NewJobRepository returns an empty queue.
func NewJobRepository(ttl time.Duration) *JobRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobRepository{jobs: make(map[string]*entry), ttl: ttl, now: time.Now}
}

func (r *JobRepository) touch(job *domain.ColoringJob) {
	now := r.now()
	job.UpdatedAt = now
	job.ExpiresAt = now.Add(r.ttl)
}

func (r *JobRepository) live(id string) (*entry, bool) {
	e, ok := r.jobs[id]
	if !ok || !r.now().Before(e.job.ExpiresAt) {
		return nil, false
	}
	return e, true
}

func (r *JobRepository) Create(_ context.Context, job *domain.ColoringJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return domain.ErrInvalidInput
	}
	job.Status = domain.JobStatusPending
	job.Progress = 0
	job.CreatedAt = r.now()
	r.touch(job)
	r.seq++
	stored := *job
	stored.ColorCodes = append([]string(nil), job.ColorCodes...)
	r.jobs[job.ID] = &entry{job: stored, seq: r.seq}
	return nil
}

func (r *JobRepository) Claim(context.Context) (*domain.ColoringJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *entry
	for id := range r.jobs {
		e, ok := r.live(id)
		if !ok || e.job.Status != domain.JobStatusPending {
			continue
		}
		if oldest == nil || e.seq < oldest.seq {
			oldest = e
		}
	}
	if oldest == nil {
		return nil, domain.ErrNoJobAvailable
	}
	oldest.job.Status = domain.JobStatusRunning
	r.touch(&oldest.job)
	out := oldest.job
	return &out, nil
}

func (r *JobRepository) UpdateProgress(_ context.Context, jobID string, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live(jobID)
	if !ok {
		return domain.ErrNotFound
	}
	if e.job.Status.Terminal() {
		return nil
	}
	if progress > e.job.Progress {
		e.job.Progress = progress
	}
	r.touch(&e.job)
	return nil
}

func (r *JobRepository) finish(jobID string, apply func(*domain.ColoringJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live(jobID)
	if !ok {
		return domain.ErrNotFound
	}
	apply(&e.job)
	e.job.Progress = domain.ProgressCompleted
	r.touch(&e.job)
	return nil
}

func (r *JobRepository) Complete(_ context.Context, jobID string, resultJSON []byte) error {
	return r.finish(jobID, func(job *domain.ColoringJob) {
		job.Status = domain.JobStatusCompleted
		job.ResultJSON = append([]byte(nil), resultJSON...)
		job.ErrorMessage = ""
	})
}

func (r *JobRepository) Fail(_ context.Context, jobID string, errMsg string) error {
	return r.finish(jobID, func(job *domain.ColoringJob) {
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = errMsg
	})
}

func (r *JobRepository) GetByID(_ context.Context, jobID string) (*domain.ColoringJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live(jobID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := e.job
	out.ColorCodes = append([]string(nil), e.job.ColorCodes...)
	return &out, nil
}

func (r *JobRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.jobs {
		if !now.Before(e.job.ExpiresAt) {
			delete(r.jobs, id)
			n++
		}
	}
	return n, nil
}

var _ domain.JobRepository = (*JobRepository)(nil)
