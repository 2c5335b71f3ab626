package form

import (
	"context"
	"fmt"
	"sync"

	"pewarnaan/internal/client"
	"pewarnaan/internal/domain"
)

type recordingView struct {
	mu            sync.Mutex
	events        []string
	errorText     string
	loading       bool
	submitEnabled bool
	progress      []int
	image         string
	usedColors    []domain.UsedColor
	chips         []Chip
	count         int
}

func newRecordingView() *recordingView {
	return &recordingView{submitEnabled: true}
}

func (v *recordingView) record(event string) {
	v.events = append(v.events, event)
}

func (v *recordingView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorText = msg
	v.record("error:" + msg)
}

func (v *recordingView) ClearError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorText = ""
	v.record("clear-error")
}

func (v *recordingView) SetLoading(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = on
	v.record(fmt.Sprintf("loading:%v", on))
}

func (v *recordingView) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitEnabled = enabled
	v.record(fmt.Sprintf("submit:%v", enabled))
}

func (v *recordingView) SetProgress(percent int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = append(v.progress, percent)
}

func (v *recordingView) ShowImage(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.image = url
	v.record("image:" + url)
}

func (v *recordingView) HideImage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.image = ""
	v.record("hide-image")
}

func (v *recordingView) ShowUsedColors(colors []domain.UsedColor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.usedColors = colors
}

func (v *recordingView) HideUsedColors() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.usedColors = nil
}

func (v *recordingView) RenderSelectedColors(chips []Chip, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chips = chips
	v.count = count
}

func (v *recordingView) snapshot() recordingView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return recordingView{
		events:        append([]string(nil), v.events...),
		errorText:     v.errorText,
		loading:       v.loading,
		submitEnabled: v.submitEnabled,
		progress:      append([]int(nil), v.progress...),
		image:         v.image,
		usedColors:    v.usedColors,
		chips:         v.chips,
		count:         v.count,
	}
}

type recordingCarousel struct {
	mu       sync.Mutex
	events   []string
	visible  bool
	slides   []client.Motif
	selected string
}

func (c *recordingCarousel) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slides = nil
	c.selected = ""
	c.events = append(c.events, "destroy")
}

func (c *recordingCarousel) Render(motifs []client.Motif) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slides = motifs
	c.events = append(c.events, fmt.Sprintf("render:%d", len(motifs)))
}

func (c *recordingCarousel) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
	c.events = append(c.events, "select:"+id)
}

func (c *recordingCarousel) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = true
	c.events = append(c.events, "show")
}

func (c *recordingCarousel) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
	c.events = append(c.events, "hide")
}

func (c *recordingCarousel) eventLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

// fakeAPI answers motif, submit and progress calls from canned data.
type fakeAPI struct {
	mu sync.Mutex

	motifs     map[string][]client.Motif
	motifErr   error
	motifCalls int
	// motifHook runs inside GetMotifs before it returns.
	motifHook func(ulosType string)

	submitResp  *client.SubmitResponse
	submitErr   error
	submitCalls int
	submitted   []client.SubmitRequest
	submitHook  func()

	progress      []*domain.JobProgress
	progressErrAt int
	progressErr   error
	progressCalls int
}

func (f *fakeAPI) GetMotifs(ctx context.Context, ulosType string) ([]client.Motif, error) {
	f.mu.Lock()
	f.motifCalls++
	hook := f.motifHook
	motifs, err := f.motifs[ulosType], f.motifErr
	f.mu.Unlock()
	if hook != nil {
		hook(ulosType)
	}
	return motifs, err
}

func (f *fakeAPI) Submit(ctx context.Context, req client.SubmitRequest) (*client.SubmitResponse, error) {
	f.mu.Lock()
	f.submitCalls++
	f.submitted = append(f.submitted, req)
	hook := f.submitHook
	resp, err := f.submitResp, f.submitErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return resp, err
}

// Progress returns the queued payloads in order and repeats the last one.
// progressErrAt is 1-based; zero disables the error.
func (f *fakeAPI) Progress(ctx context.Context, taskID string) (*domain.JobProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progressCalls++
	if f.progressErrAt > 0 && f.progressCalls == f.progressErrAt {
		return nil, f.progressErr
	}
	if len(f.progress) == 0 {
		return &domain.JobProgress{Status: domain.JobStatusPending}, nil
	}
	i := min(f.progressCalls-1, len(f.progress)-1)
	p := *f.progress[i]
	return &p, nil
}

func (f *fakeAPI) calls() (motif, submit, progress int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.motifCalls, f.submitCalls, f.progressCalls
}
