package form

import (
	"reflect"
	"testing"
)

var testPalette = map[string]string{
	"C001": "#000000",
	"C002": "#ff0000",
	"C006": "#ffffff",
}

func TestToggleTwiceRestoresSelection(t *testing.T) {
	view := newRecordingView()
	sel := NewSelection(testPalette, view)
	sel.Toggle("C001")
	sel.Toggle("C002")
	before := sel.Codes()

	if !sel.Toggle("C006") {
		t.Fatal("first toggle should select")
	}
	if sel.Toggle("C006") {
		t.Fatal("second toggle should deselect")
	}
	if got := sel.Codes(); !reflect.DeepEqual(got, before) {
		t.Fatalf("Codes = %v, want %v", got, before)
	}
}

func TestToggleKeepsClickOrder(t *testing.T) {
	sel := NewSelection(testPalette, nil)
	for _, code := range []string{"C006", "C001", "C002"} {
		sel.Toggle(code)
	}
	sel.Toggle("C001")
	sel.Toggle("C001")
	if got := sel.Serialized(); got != "C006,C002,C001" {
		t.Fatalf("Serialized = %q", got)
	}
	if sel.Count() != 3 {
		t.Fatalf("Count = %d", sel.Count())
	}
}

func TestRemoveRendersChips(t *testing.T) {
	view := newRecordingView()
	sel := NewSelection(testPalette, view)
	sel.Toggle("C001")
	sel.Toggle("C002")
	sel.Remove("C001")
	sel.Remove("C999")

	snap := view.snapshot()
	if snap.count != 1 || len(snap.chips) != 1 || snap.chips[0] != (Chip{Code: "C002", Hex: "#ff0000"}) {
		t.Fatalf("chips = %+v count = %d", snap.chips, snap.count)
	}
	if sel.Contains("C001") {
		t.Fatal("C001 should be removed")
	}
}

func TestUnknownCodeStaysSelectedWithoutChip(t *testing.T) {
	view := newRecordingView()
	sel := NewSelection(testPalette, view)
	sel.Toggle("C001")
	sel.Toggle("X999")

	snap := view.snapshot()
	if snap.count != 2 || len(snap.chips) != 1 {
		t.Fatalf("count = %d chips = %+v", snap.count, snap.chips)
	}
	if sel.Serialized() != "C001,X999" {
		t.Fatalf("Serialized = %q", sel.Serialized())
	}
}

func TestRestoreDropsEmptyTokensAndDuplicates(t *testing.T) {
	view := newRecordingView()
	sel := NewSelection(testPalette, view)
	sel.Toggle("C006")
	sel.Restore("C001,,C002, C001,")

	if got := sel.Codes(); !reflect.DeepEqual(got, []string{"C001", "C002"}) {
		t.Fatalf("Codes = %v", got)
	}
	if view.snapshot().count != 2 {
		t.Fatalf("restore did not re-render")
	}
	sel.Restore("")
	if sel.Count() != 0 {
		t.Fatalf("Count = %d after empty restore", sel.Count())
	}
}

func TestCodesReturnsCopy(t *testing.T) {
	sel := NewSelection(testPalette, nil)
	sel.Toggle("C001")
	codes := sel.Codes()
	codes[0] = "mutated"
	if sel.Codes()[0] != "C001" {
		t.Fatal("Codes exposed internal slice")
	}
}
