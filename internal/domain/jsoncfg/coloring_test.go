package jsoncfg

import (
	"strings"
	"testing"
)

func TestParseColorListDropsEmptyTokens(t *testing.T) {
	got := ParseColorList(" C001,,C005 , ,C010,")
	want := []string{"C001", "C005", "C010"}
	if len(got) != len(want) {
		t.Fatalf("ParseColorList len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseColorList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColoringRequestNormalize(t *testing.T) {
	r := &ColoringRequest{
		UlosType:    "  Harungguan ",
		MotifID:     " motif-1 ",
		ColorCodes:  []string{"c001", "C005", "C001", " "},
		Generations: 500,
	}
	r.Normalize()

	if r.UlosType != "harungguan" {
		t.Fatalf("UlosType = %q, want %q", r.UlosType, "harungguan")
	}
	if r.MotifID != "motif-1" {
		t.Fatalf("MotifID = %q", r.MotifID)
	}
	if strings.Join(r.ColorCodes, ",") != "C001,C005" {
		t.Fatalf("ColorCodes = %v", r.ColorCodes)
	}
	if r.Generations != MaxGenerations {
		t.Fatalf("Generations = %d, want %d", r.Generations, MaxGenerations)
	}
}

func TestColoringRequestNormalizeDefaultsGenerations(t *testing.T) {
	r := &ColoringRequest{UlosType: "puca", ColorCodes: []string{"C001", "C002"}}
	r.Normalize()
	if r.Generations != DefaultGenerations {
		t.Fatalf("Generations = %d, want %d", r.Generations, DefaultGenerations)
	}
}

func TestColoringRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ColoringRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  ColoringRequest{UlosType: "sadum", MotifID: "m1", ColorCodes: []string{"C001", "C002"}, Generations: 1},
		},
		{
			name:    "missing type",
			req:     ColoringRequest{ColorCodes: []string{"C001", "C002"}, Generations: 1},
			wantErr: "ulos_type",
		},
		{
			name:    "single color",
			req:     ColoringRequest{UlosType: "sadum", ColorCodes: []string{"C001"}, Generations: 1},
			wantErr: "color_codes",
		},
		{
			name:    "zero generations",
			req:     ColoringRequest{UlosType: "sadum", ColorCodes: []string{"C001", "C002"}},
			wantErr: "generations",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %q, want it to mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}
