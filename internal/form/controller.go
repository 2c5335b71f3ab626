package form

import (
	"context"
	"errors"
	"sync/atomic"

	"pewarnaan/internal/client"
	"pewarnaan/internal/domain"
)

const (
	MsgInvalidForm  = "Harap pilih Jenis Ulos, Motif, dan minimal 2 warna."
	MsgNoTaskID     = "Server tidak memberikan Task ID. Proses tidak bisa dilanjutkan."
	MsgSubmitFailed = "Gagal memulai proses pewarnaan di server."
)

// MinColors is the smallest selection that may be submitted.
const MinColors = 2

var (
	ErrBusy         = errors.New("form: a submission is already in progress")
	ErrInvalidInput = errors.New("form: fabric type, motif and at least 2 colors are required")
	ErrNoTaskID     = errors.New("form: server returned neither a result nor a task id")
)

// Failure is a submission that ended with a message shown to the user.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.Err }

type State int32

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StatePolling
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a successful submission.
type Result struct {
	TaskID     string
	ImageURL   string
	UsedColors []domain.UsedColor
}

// Controller drives one submission at a time from validation to the final
// image or error message.
type Controller struct {
	api       Submitter
	selection *Selection
	motifs    *MotifLoader
	view      View
	poller    *Poller
	simulator *Simulator
	imageURL  func(string) string

	busy  atomic.Bool
	state atomic.Int32
}

type ControllerOptions struct {
	API       Submitter
	Selection *Selection
	Motifs    *MotifLoader
	View      View
	Poller    *Poller
	// Simulator is optional.
	Simulator *Simulator
	ImageURL  func(string) string
}

func NewController(opts ControllerOptions) *Controller {
	imageURL := opts.ImageURL
	if imageURL == nil {
		imageURL = StaticURL
	}
	return &Controller{
		api:       opts.API,
		selection: opts.Selection,
		motifs:    opts.Motifs,
		view:      opts.View,
		poller:    opts.Poller,
		simulator: opts.Simulator,
		imageURL:  imageURL,
	}
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// Submit validates the form, posts it and, for queued jobs, polls until the
// job finishes. It blocks for the whole submission.
func (c *Controller) Submit(ctx context.Context) (*Result, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	c.view.ClearError()
	c.view.HideImage()
	c.view.HideUsedColors()

	c.setState(StateValidating)
	req, ok := c.request()
	if !ok {
		c.view.ShowError(MsgInvalidForm)
		c.setState(StateIdle)
		return nil, ErrInvalidInput
	}

	c.setState(StateSubmitting)
	c.view.SetLoading(true)
	c.view.SetProgress(0)
	c.view.SetSubmitEnabled(false)
	defer func() {
		c.view.SetLoading(false)
		c.view.SetSubmitEnabled(true)
	}()

	res, err := c.submit(ctx, req)
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}
	c.setState(StateCompleted)
	return res, nil
}

func (c *Controller) request() (client.SubmitRequest, bool) {
	req := client.SubmitRequest{
		UlosType: c.motifs.FabricType(),
		MotifID:  c.motifs.Choice(),
		Colors:   c.selection.Codes(),
	}
	if req.UlosType == "" || len(req.Colors) < MinColors {
		return req, false
	}
	if req.MotifID == "" && c.motifs.MotifRequired() {
		return req, false
	}
	return req, true
}

func (c *Controller) submit(ctx context.Context, req client.SubmitRequest) (*Result, error) {
	resp, err := c.api.Submit(ctx, req)
	if err != nil {
		msg := MsgSubmitFailed
		var herr *client.HTTPError
		if errors.As(err, &herr) && herr.Message != "" {
			msg = herr.Message
		}
		c.view.ShowError(msg)
		return nil, &Failure{Message: msg, Err: err}
	}
	switch {
	case resp.ColoredImageURL != "":
		c.view.SetProgress(domain.ProgressCompleted)
		c.view.ShowImage(c.imageURL(resp.ColoredImageURL))
		if len(resp.UsedColors) > 0 {
			c.view.ShowUsedColors(resp.UsedColors)
		}
		return &Result{ImageURL: resp.ColoredImageURL, UsedColors: resp.UsedColors}, nil
	case resp.TaskID != "":
		return c.poll(ctx, resp.TaskID)
	default:
		c.view.ShowError(MsgNoTaskID)
		return nil, &Failure{Message: MsgNoTaskID, Err: ErrNoTaskID}
	}
}

func (c *Controller) poll(ctx context.Context, taskID string) (*Result, error) {
	c.setState(StatePolling)
	stop := func() {}
	if c.simulator != nil {
		stop = c.simulator.Start(ctx, c.view)
	}
	prog, err := c.poller.Poll(ctx, taskID, stop)
	stop()
	if err != nil {
		return nil, err
	}
	return &Result{TaskID: taskID, ImageURL: prog.ColoredImageURL, UsedColors: prog.UsedColors}, nil
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
}
