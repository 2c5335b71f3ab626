package form

import (
	"context"
	"errors"
	"time"

	"pewarnaan/internal/domain"
)

const (
	MsgPollTransport = "Gagal terhubung ke server untuk update progres. Coba lagi."
	MsgUnknownError  = "Terjadi kesalahan tidak diketahui."
)

// DefaultPollInterval matches the page's setInterval period.
const DefaultPollInterval = 2 * time.Second

// ErrJobFailed is wrapped by the error Poll returns when the job ends in any
// status other than Completed.
var ErrJobFailed = errors.New("form: coloring job failed")

// StaticURL turns a result path into the URL the view loads.
func StaticURL(p string) string {
	return "/static/" + p
}

// Poller queries a job's progress at a fixed interval until it reaches 100.
type Poller struct {
	source   ProgressSource
	view     View
	interval time.Duration
	imageURL func(string) string
}

type PollerOption func(*Poller)

func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithImageURL replaces StaticURL, e.g. to produce absolute URLs.
func WithImageURL(fn func(string) string) PollerOption {
	return func(p *Poller) {
		if fn != nil {
			p.imageURL = fn
		}
	}
}

func NewPoller(source ProgressSource, view View, opts ...PollerOption) *Poller {
	p := &Poller{source: source, view: view, interval: DefaultPollInterval, imageURL: StaticURL}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll waits one interval before each query, like setInterval. onResponse,
// when set, runs before the first progress value is shown. Poll returns the
// final progress payload; a failed job yields ErrJobFailed and a transport
// failure stops the loop at once. Only ctx cancellation ends an endless job.
func (p *Poller) Poll(ctx context.Context, taskID string, onResponse func()) (*domain.JobProgress, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		prog, err := p.source.Progress(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.view.ShowError(MsgPollTransport)
			return nil, &Failure{Message: MsgPollTransport, Err: err}
		}
		if onResponse != nil {
			onResponse()
			onResponse = nil
		}
		p.view.SetProgress(prog.Progress)
		if prog.Progress < domain.ProgressCompleted {
			continue
		}
		if prog.Status == domain.JobStatusCompleted {
			p.showResult(prog.ColoredImageURL, prog.UsedColors)
			return prog, nil
		}
		msg := prog.Error
		if msg == "" {
			msg = MsgUnknownError
		}
		msg = "Error: " + msg
		p.view.ShowError(msg)
		return prog, &Failure{Message: msg, Err: ErrJobFailed}
	}
}

func (p *Poller) showResult(imagePath string, used []domain.UsedColor) {
	p.view.ShowImage(p.imageURL(imagePath))
	if len(used) > 0 {
		p.view.ShowUsedColors(used)
	}
}
