package form

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pewarnaan/internal/client"
)

func motifAPI() *fakeAPI {
	return &fakeAPI{motifs: map[string][]client.Motif{
		"puca":  {{ID: "1", Src: "/static/img/motifs/puca/1.png"}, {ID: "2", Src: "/static/img/motifs/puca/2.png"}},
		"sadum": {{ID: "7", Src: "/static/img/motifs/sadum/7.png"}},
	}}
}

func TestChangeFabricTypeLoadsAndSelectsFirst(t *testing.T) {
	api := motifAPI()
	view := newRecordingView()
	car := &recordingCarousel{}
	loader := NewMotifLoader(api, view, car)

	if err := loader.ChangeFabricType(context.Background(), "puca"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	if loader.Choice() != "1" || loader.FabricType() != "puca" {
		t.Fatalf("choice = %q fabric = %q", loader.Choice(), loader.FabricType())
	}
	want := []string{"destroy", "render:2", "show", "select:1"}
	if got := car.eventLog(); !reflect.DeepEqual(got, want) {
		t.Fatalf("carousel events = %v, want %v", got, want)
	}
	if !loader.MotifRequired() {
		t.Fatal("motif should be required when motifs exist")
	}
}

func TestChangeFabricTypeResetsBeforeFetch(t *testing.T) {
	api := motifAPI()
	view := newRecordingView()
	car := &recordingCarousel{}
	loader := NewMotifLoader(api, view, car)
	if err := loader.ChangeFabricType(context.Background(), "puca"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	if err := loader.SelectMotif("2"); err != nil {
		t.Fatalf("SelectMotif returned error: %v", err)
	}

	var choiceDuringFetch string
	var eventsDuringFetch []string
	api.motifHook = func(string) {
		choiceDuringFetch = loader.Choice()
		eventsDuringFetch = car.eventLog()
	}
	if err := loader.ChangeFabricType(context.Background(), "sadum"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	if choiceDuringFetch != "" {
		t.Fatalf("motif choice during fetch = %q, want empty", choiceDuringFetch)
	}
	if last := eventsDuringFetch[len(eventsDuringFetch)-1]; last != "destroy" {
		t.Fatalf("last carousel event before fetch resolved = %q", last)
	}
	if loader.Choice() != "7" {
		t.Fatalf("choice = %q, want 7", loader.Choice())
	}
}

func TestChangeFabricTypeEmptyHidesWithoutFetch(t *testing.T) {
	api := motifAPI()
	car := &recordingCarousel{}
	loader := NewMotifLoader(api, newRecordingView(), car)
	if err := loader.ChangeFabricType(context.Background(), ""); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	if motifCalls, _, _ := api.calls(); motifCalls != 0 {
		t.Fatalf("motif fetches = %d", motifCalls)
	}
	if got := car.eventLog(); !reflect.DeepEqual(got, []string{"destroy", "hide"}) {
		t.Fatalf("carousel events = %v", got)
	}
}

func TestChangeFabricTypeWithoutMotifs(t *testing.T) {
	api := motifAPI()
	view := newRecordingView()
	car := &recordingCarousel{}
	loader := NewMotifLoader(api, view, car)
	if err := loader.ChangeFabricType(context.Background(), "harungguan"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	if view.snapshot().errorText != MsgNoMotifs {
		t.Fatalf("error = %q", view.snapshot().errorText)
	}
	if car.visible {
		t.Fatal("carousel should be hidden")
	}
	if loader.MotifRequired() {
		t.Fatal("a type without motifs should not require one")
	}
}

func TestChangeFabricTypeFetchFailure(t *testing.T) {
	api := motifAPI()
	api.motifErr = errors.New("connection refused")
	view := newRecordingView()
	car := &recordingCarousel{}
	loader := NewMotifLoader(api, view, car)

	err := loader.ChangeFabricType(context.Background(), "puca")
	if err == nil {
		t.Fatal("expected error")
	}
	if view.snapshot().errorText != MsgMotifsLoadFailed {
		t.Fatalf("error = %q", view.snapshot().errorText)
	}
	if car.visible || loader.Choice() != "" {
		t.Fatalf("visible = %v choice = %q", car.visible, loader.Choice())
	}
	if !loader.MotifRequired() {
		t.Fatal("failed load must still require a motif")
	}
	if motifCalls, _, _ := api.calls(); motifCalls != 1 {
		t.Fatalf("motif fetches = %d, want no retry", motifCalls)
	}
}

func TestStaleMotifResponseIsDiscarded(t *testing.T) {
	api := motifAPI()
	car := &recordingCarousel{}
	loader := NewMotifLoader(api, newRecordingView(), car)

	// The user switches to sadum while the puca request is still in flight.
	api.motifHook = func(ulosType string) {
		if ulosType == "puca" {
			if err := loader.ChangeFabricType(context.Background(), "sadum"); err != nil {
				t.Errorf("inner ChangeFabricType returned error: %v", err)
			}
		}
	}
	err := loader.ChangeFabricType(context.Background(), "puca")
	if !errors.Is(err, ErrStaleMotifs) {
		t.Fatalf("err = %v, want ErrStaleMotifs", err)
	}
	if loader.FabricType() != "sadum" || loader.Choice() != "7" {
		t.Fatalf("fabric = %q choice = %q", loader.FabricType(), loader.Choice())
	}
	if got := loader.Motifs(); len(got) != 1 || got[0].ID != "7" {
		t.Fatalf("motifs = %+v", got)
	}
}

func TestSelectMotifClearsErrorAndRejectsUnknown(t *testing.T) {
	api := motifAPI()
	view := newRecordingView()
	loader := NewMotifLoader(api, view, &recordingCarousel{})
	if err := loader.ChangeFabricType(context.Background(), "puca"); err != nil {
		t.Fatalf("ChangeFabricType returned error: %v", err)
	}
	view.ShowError("old")
	if err := loader.SelectMotif("2"); err != nil {
		t.Fatalf("SelectMotif returned error: %v", err)
	}
	if view.snapshot().errorText != "" {
		t.Fatal("error not cleared")
	}
	if err := loader.SelectMotif("7"); !errors.Is(err, ErrUnknownMotif) {
		t.Fatalf("err = %v", err)
	}
	if loader.Choice() != "2" {
		t.Fatalf("choice = %q", loader.Choice())
	}
}

func TestDotWindow(t *testing.T) {
	tests := []struct {
		total int
		want  []int
	}{
		{0, nil},
		{3, []int{0, 1, 2}},
		{5, []int{0, 1, 2, 3, 4}},
		{6, []int{1, 2, 3, 4, 5}},
		{9, []int{2, 3, 4, 5, 6}},
	}
	for _, tc := range tests {
		if got := VisibleDots(tc.total); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("VisibleDots(%d) = %v, want %v", tc.total, got, tc.want)
		}
	}
	if DotWindow(9, -1) || DotWindow(9, 9) {
		t.Fatal("out of range index reported visible")
	}
}
