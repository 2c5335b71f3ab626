package form

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"pewarnaan/internal/client"
	"pewarnaan/internal/domain"
)

type harness struct {
	api        *fakeAPI
	view       *recordingView
	selection  *Selection
	loader     *MotifLoader
	controller *Controller
}

func newHarness(t *testing.T, api *fakeAPI) *harness {
	t.Helper()
	view := newRecordingView()
	h := &harness{
		api:       api,
		view:      view,
		selection: NewSelection(testPalette, view),
		loader:    NewMotifLoader(api, view, &recordingCarousel{}),
	}
	h.controller = NewController(ControllerOptions{
		API:       api,
		Selection: h.selection,
		Motifs:    h.loader,
		View:      view,
		Poller:    NewPoller(api, view, WithPollInterval(time.Millisecond)),
	})
	return h
}

// ready fills a valid form: puca, first motif, two colors.
func (h *harness) ready(t *testing.T) {
	t.Helper()
	if err := h.loader.ChangeFabricType(context.Background(), "puca"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	h.selection.Toggle("C001")
	h.selection.Toggle("C002")
}

func progressSeq(values ...int) []*domain.JobProgress {
	out := make([]*domain.JobProgress, 0, len(values))
	for _, v := range values {
		out = append(out, &domain.JobProgress{Progress: v, Status: domain.JobStatusPending})
	}
	return out
}

func TestSubmitWithFewerThanTwoColorsMakesNoRequest(t *testing.T) {
	h := newHarness(t, motifAPI())
	if err := h.loader.ChangeFabricType(context.Background(), "puca"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	h.selection.Toggle("C001")

	_, err := h.controller.Submit(context.Background())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, submits, polls := h.api.calls(); submits != 0 || polls != 0 {
		t.Fatalf("network calls: submit=%d progress=%d", submits, polls)
	}
	snap := h.view.snapshot()
	if snap.errorText != MsgInvalidForm {
		t.Fatalf("error = %q", snap.errorText)
	}
	if !snap.submitEnabled || h.controller.State() != StateIdle {
		t.Fatalf("submitEnabled = %v state = %v", snap.submitEnabled, h.controller.State())
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness)
		valid bool
	}{
		{"no fabric type", func(t *testing.T, h *harness) {
			h.selection.Toggle("C001")
			h.selection.Toggle("C002")
		}, false},
		{"motif still loading failed", func(t *testing.T, h *harness) {
			h.api.motifErr = errors.New("down")
			_ = h.loader.ChangeFabricType(context.Background(), "puca")
			h.selection.Toggle("C001")
			h.selection.Toggle("C002")
		}, false},
		{"same color toggled twice", func(t *testing.T, h *harness) {
			_ = h.loader.ChangeFabricType(context.Background(), "puca")
			h.selection.Toggle("C001")
			h.selection.Toggle("C001")
			h.selection.Toggle("C002")
		}, false},
		{"type without motifs", func(t *testing.T, h *harness) {
			_ = h.loader.ChangeFabricType(context.Background(), "harungguan")
			h.selection.Toggle("C001")
			h.selection.Toggle("C002")
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := motifAPI()
			api.submitResp = &client.SubmitResponse{ColoredImageURL: "out.png"}
			h := newHarness(t, api)
			tc.setup(t, h)
			_, err := h.controller.Submit(context.Background())
			_, submits, _ := api.calls()
			if tc.valid {
				if err != nil || submits != 1 {
					t.Fatalf("err = %v submits = %d", err, submits)
				}
				return
			}
			if !errors.Is(err, ErrInvalidInput) || submits != 0 {
				t.Fatalf("err = %v submits = %d", err, submits)
			}
		})
	}
}

func TestSubmitPollsUntilCompleted(t *testing.T) {
	api := motifAPI()
	api.submitResp = &client.SubmitResponse{TaskID: "task-1"}
	seq := progressSeq(10, 45)
	seq = append(seq, &domain.JobProgress{
		Progress:        100,
		Status:          domain.JobStatusCompleted,
		ColoredImageURL: "ColoringFile/output/out.png",
		UsedColors:      []domain.UsedColor{{Code: "C001", HexColor: "#000000"}},
	})
	api.progress = seq
	h := newHarness(t, api)
	h.ready(t)

	res, err := h.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if _, _, polls := api.calls(); polls != 3 {
		t.Fatalf("progress calls = %d, want 3", polls)
	}
	snap := h.view.snapshot()
	if snap.image != "/static/ColoringFile/output/out.png" {
		t.Fatalf("image = %q", snap.image)
	}
	if len(snap.usedColors) != 1 || snap.usedColors[0].Code != "C001" {
		t.Fatalf("used colors = %+v", snap.usedColors)
	}
	if !reflect.DeepEqual(snap.progress, []int{0, 10, 45, 100}) {
		t.Fatalf("progress = %v", snap.progress)
	}
	if snap.loading || !snap.submitEnabled {
		t.Fatalf("loading = %v submitEnabled = %v", snap.loading, snap.submitEnabled)
	}
	if res.TaskID != "task-1" || h.controller.State() != StateCompleted {
		t.Fatalf("res = %+v state = %v", res, h.controller.State())
	}
	sent := api.submitted[0]
	if sent.UlosType != "puca" || sent.MotifID != "1" || !reflect.DeepEqual(sent.Colors, []string{"C001", "C002"}) {
		t.Fatalf("submitted = %+v", sent)
	}

	// The poller stopped: waiting longer issues no more requests.
	time.Sleep(10 * time.Millisecond)
	if _, _, polls := api.calls(); polls != 3 {
		t.Fatalf("progress calls after completion = %d", polls)
	}
}

func TestSubmitFailedJobShowsServerError(t *testing.T) {
	tests := []struct {
		errText string
		want    string
	}{
		{"x", "Error: x"},
		{"", "Error: " + MsgUnknownError},
	}
	for _, tc := range tests {
		api := motifAPI()
		api.submitResp = &client.SubmitResponse{TaskID: "task-1"}
		api.progress = []*domain.JobProgress{{Progress: 100, Status: domain.JobStatusFailed, Error: tc.errText}}
		h := newHarness(t, api)
		h.ready(t)

		_, err := h.controller.Submit(context.Background())
		if !errors.Is(err, ErrJobFailed) {
			t.Fatalf("err = %v, want ErrJobFailed", err)
		}
		snap := h.view.snapshot()
		if snap.errorText != tc.want {
			t.Fatalf("error = %q, want %q", snap.errorText, tc.want)
		}
		if snap.image != "" || !snap.submitEnabled {
			t.Fatalf("image = %q submitEnabled = %v", snap.image, snap.submitEnabled)
		}
		if h.controller.State() != StateFailed {
			t.Fatalf("state = %v", h.controller.State())
		}
	}
}

func TestTransportFailureStopsPolling(t *testing.T) {
	api := motifAPI()
	api.submitResp = &client.SubmitResponse{TaskID: "task-1"}
	api.progress = progressSeq(10, 20, 30)
	api.progressErrAt = 2
	api.progressErr = errors.New("connection reset")
	h := newHarness(t, api)
	h.ready(t)

	_, err := h.controller.Submit(context.Background())
	var failure *Failure
	if !errors.As(err, &failure) || failure.Message != MsgPollTransport {
		t.Fatalf("err = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, _, polls := api.calls(); polls != 2 {
		t.Fatalf("progress calls = %d, want 2", polls)
	}
	snap := h.view.snapshot()
	if snap.errorText != MsgPollTransport || !snap.submitEnabled || snap.loading {
		t.Fatalf("error = %q submitEnabled = %v loading = %v", snap.errorText, snap.submitEnabled, snap.loading)
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *client.SubmitResponse
		err  error
		want string
	}{
		{"server message", nil, &client.HTTPError{Status: 400, Message: "Harap pilih motif."}, "Harap pilih motif."},
		{"status without message", nil, &client.HTTPError{Status: 500}, MsgSubmitFailed},
		{"transport", nil, errors.New("dial tcp: refused"), MsgSubmitFailed},
		{"no task id", &client.SubmitResponse{}, nil, MsgNoTaskID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := motifAPI()
			api.submitResp, api.submitErr = tc.resp, tc.err
			h := newHarness(t, api)
			h.ready(t)

			_, err := h.controller.Submit(context.Background())
			var failure *Failure
			if !errors.As(err, &failure) || failure.Message != tc.want {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
			snap := h.view.snapshot()
			if snap.errorText != tc.want || !snap.submitEnabled {
				t.Fatalf("error = %q submitEnabled = %v", snap.errorText, snap.submitEnabled)
			}
			if _, _, polls := api.calls(); polls != 0 {
				t.Fatalf("progress calls = %d", polls)
			}
		})
	}
}

func TestSubmitDirectResult(t *testing.T) {
	api := motifAPI()
	api.submitResp = &client.SubmitResponse{
		ColoredImageURL: "ColoringFile/output/sync.png",
		UsedColors:      []domain.UsedColor{{Code: "C002", HexColor: "#ff0000"}},
	}
	h := newHarness(t, api)
	h.ready(t)

	res, err := h.controller.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.ImageURL != "ColoringFile/output/sync.png" || res.TaskID != "" {
		t.Fatalf("res = %+v", res)
	}
	if h.view.snapshot().image != "/static/ColoringFile/output/sync.png" {
		t.Fatalf("image = %q", h.view.snapshot().image)
	}
	if _, _, polls := api.calls(); polls != 0 {
		t.Fatalf("progress calls = %d", polls)
	}
}

func TestSubmitWhileInFlightReturnsErrBusy(t *testing.T) {
	api := motifAPI()
	api.submitResp = &client.SubmitResponse{ColoredImageURL: "out.png"}
	entered := make(chan struct{})
	release := make(chan struct{})
	api.submitHook = func() {
		close(entered)
		<-release
	}
	h := newHarness(t, api)
	h.ready(t)

	done := make(chan error, 1)
	go func() {
		_, err := h.controller.Submit(context.Background())
		done <- err
	}()
	<-entered
	if h.controller.State() != StateSubmitting {
		t.Fatalf("state = %v", h.controller.State())
	}
	if _, err := h.controller.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Submit err = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	if _, submits, _ := api.calls(); submits != 1 {
		t.Fatalf("submits = %d", submits)
	}
}

func TestPollStopsOnContextCancel(t *testing.T) {
	api := &fakeAPI{}
	view := newRecordingView()
	poller := NewPoller(api, view, WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := poller.Poll(ctx, "task-1", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if view.snapshot().errorText != "" {
		t.Fatalf("cancel should not show an error, got %q", view.snapshot().errorText)
	}
}

func TestPollerImageURLOption(t *testing.T) {
	api := &fakeAPI{progress: []*domain.JobProgress{{Progress: 100, Status: domain.JobStatusCompleted, ColoredImageURL: "a.png"}}}
	view := newRecordingView()
	poller := NewPoller(api, view,
		WithPollInterval(time.Millisecond),
		WithImageURL(func(p string) string { return "http://host/static/" + p }))
	if _, err := poller.Poll(context.Background(), "t", nil); err != nil {
		t.Fatalf("Poll returned error: %v", err)
	}
	if view.snapshot().image != "http://host/static/a.png" {
		t.Fatalf("image = %q", view.snapshot().image)
	}
}
