package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pewarnaan/internal/adapter/memory"
	"pewarnaan/internal/coloring"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/metrics"
)

type stubEngine struct {
	mu       sync.Mutex
	inputs   []coloring.Input
	progress []int
	err      error
	observe  func()
}

func (s *stubEngine) Run(_ context.Context, in coloring.Input, progress coloring.ProgressFunc) (*domain.ColoringResult, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, in)
	s.mu.Unlock()
	for _, p := range []int{coloring.StageStart, coloring.StageFetchColors, coloring.StageOptimizeEnd, coloring.StageSaveImage, coloring.StageCompleted} {
		progress(p, fmt.Sprintf("stage-%d", p))
		if s.observe != nil && p == coloring.StageCompleted {
			s.observe()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ColoringResult{
		ColoredImageURL: coloring.OutputKey(in.UlosType, in.TaskID),
		UsedColors:      []domain.UsedColor{{Code: "C001", HexColor: "#000000"}},
	}, nil
}

func newWorker(t *testing.T, repo domain.JobRepository, engine Runner) *Worker {
	t.Helper()
	w, err := New(Options{Jobs: repo, Engine: engine, Generations: 3, Metrics: metrics.New("test"), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return w
}

func TestProcessNextCompletesJob(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewJobRepository(time.Hour)
	job := &domain.ColoringJob{ID: "task-1", UlosType: "sadum", MotifID: "m1", ColorCodes: []string{"C001", "C006"}}
	if err := repo.Create(ctx, job); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	var seenBeforeFinish *domain.ColoringJob
	engine := &stubEngine{}
	engine.observe = func() {
		seenBeforeFinish, _ = repo.GetByID(ctx, "task-1")
	}
	w := newWorker(t, repo, engine)

	handled, err := w.ProcessNext(ctx)
	if err != nil || !handled {
		t.Fatalf("ProcessNext = %v, %v", handled, err)
	}
	if seenBeforeFinish.Progress != coloring.StageSaveImage || seenBeforeFinish.Status != domain.JobStatusRunning {
		t.Fatalf("running job exposed %d/%s", seenBeforeFinish.Progress, seenBeforeFinish.Status)
	}

	got, err := repo.GetByID(ctx, "task-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != domain.JobStatusCompleted || got.Progress != 100 {
		t.Fatalf("unexpected job: %+v", got)
	}
	var result domain.ColoringResult
	if err := json.Unmarshal(got.ResultJSON, &result); err != nil {
		t.Fatalf("result not json: %v", err)
	}
	if result.ColoredImageURL != "ColoringFile/output/colored_ulos_sadum_task-1.png" {
		t.Fatalf("ColoredImageURL = %q", result.ColoredImageURL)
	}
	in := engine.inputs[0]
	if in.MotifID != "m1" || in.Generations != 3 || len(in.ColorCodes) != 2 {
		t.Fatalf("unexpected engine input: %+v", in)
	}

	handled, err = w.ProcessNext(ctx)
	if err != nil || handled {
		t.Fatalf("empty queue ProcessNext = %v, %v", handled, err)
	}
}

func TestProcessNextRecordsFailure(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewJobRepository(time.Hour)
	_ = repo.Create(ctx, &domain.ColoringJob{ID: "bad", UlosType: "puca", ColorCodes: []string{"C001", "X"}})
	w := newWorker(t, repo, &stubEngine{err: fmt.Errorf("validate: %w", domain.ErrUnknownColor)})

	if _, err := w.ProcessNext(ctx); err != nil {
		t.Fatalf("ProcessNext returned error: %v", err)
	}
	got, _ := repo.GetByID(ctx, "bad")
	if got.Status != domain.JobStatusFailed || got.Progress != 100 {
		t.Fatalf("unexpected job: %+v", got)
	}
	if got.ErrorMessage != "Kode warna tidak dikenal." {
		t.Fatalf("ErrorMessage = %q", got.ErrorMessage)
	}
}

type failingClaims struct {
	domain.JobRepository
}

func (failingClaims) Claim(context.Context) (*domain.ColoringJob, error) {
	return nil, errors.New("connection reset")
}

func TestProcessNextPropagatesClaimErrors(t *testing.T) {
	w := newWorker(t, failingClaims{memory.NewJobRepository(time.Hour)}, &stubEngine{})
	if _, err := w.ProcessNext(context.Background()); err == nil {
		t.Fatal("expected claim error")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := memory.NewJobRepository(time.Hour)
	_ = repo.Create(ctx, &domain.ColoringJob{ID: "a", UlosType: "sadum"})
	w := newWorker(t, repo, &stubEngine{})
	w.poll = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		job, _ := repo.GetByID(context.Background(), "a")
		if job != nil && job.Status == domain.JobStatusCompleted {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job was not processed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrMotifImageInvalid, "Gambar motif tidak dapat dibaca."},
		{fmt.Errorf("motif: %w", domain.ErrNotFound), "Motif tidak ditemukan untuk jenis Ulos ini."},
		{context.Canceled, "Proses pewarnaan dihentikan."},
		{errors.New("disk full"), "Terjadi kesalahan saat memproses gambar: disk full"},
	}
	for _, tc := range tests {
		if got := failureMessage(tc.err); got != tc.want {
			t.Fatalf("failureMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
