// Package form holds the coloring form logic independent of any rendering
// surface: color selection, motif loading, submission and progress polling.
package form

import (
	"context"

	"pewarnaan/internal/client"
	"pewarnaan/internal/domain"
)

// Chip is one selected color as shown in the selection list.
type Chip struct {
	Code string
	Hex  string
}

// View is the rendering surface the form writes to.
type View interface {
	ShowError(msg string)
	ClearError()
	SetLoading(on bool)
	SetSubmitEnabled(enabled bool)
	SetProgress(percent int)
	ShowImage(url string)
	HideImage()
	ShowUsedColors(colors []domain.UsedColor)
	HideUsedColors()
	RenderSelectedColors(chips []Chip, count int)
}

// Carousel presents the motifs of the current fabric type.
type Carousel interface {
	Destroy()
	Render(motifs []client.Motif)
	Select(id string)
	Show()
	Hide()
}

// MotifSource lists motifs of a fabric type.
type MotifSource interface {
	GetMotifs(ctx context.Context, ulosType string) ([]client.Motif, error)
}

// Submitter starts a coloring request.
type Submitter interface {
	Submit(ctx context.Context, req client.SubmitRequest) (*client.SubmitResponse, error)
}

// ProgressSource reports the state of a coloring job.
type ProgressSource interface {
	Progress(ctx context.Context, taskID string) (*domain.JobProgress, error)
}

// API is everything the form needs from the service.
type API interface {
	MotifSource
	Submitter
	ProgressSource
}

var _ API = (*client.Client)(nil)
