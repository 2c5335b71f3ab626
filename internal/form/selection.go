package form

import (
	"slices"
	"strings"
	"sync"
)

// Selection is the ordered set of chosen thread color codes. Order follows
// the user's clicks and a code appears at most once.
type Selection struct {
	mu      sync.Mutex
	codes   []string
	palette map[string]string
	view    View
}

// NewSelection creates an empty selection. palette maps color codes to hex
// values and is used only for rendering chips.
func NewSelection(palette map[string]string, view View) *Selection {
	p := make(map[string]string, len(palette))
	for code, hex := range palette {
		p[code] = hex
	}
	return &Selection{palette: p, view: view}
}

// Toggle adds code when absent and removes it when present. It reports
// whether the code is selected afterwards.
func (s *Selection) Toggle(code string) bool {
	s.mu.Lock()
	selected := true
	if i := slices.Index(s.codes, code); i >= 0 {
		s.codes = slices.Delete(s.codes, i, i+1)
		selected = false
	} else {
		s.codes = append(s.codes, code)
	}
	chips, count := s.snapshot()
	s.mu.Unlock()
	s.render(chips, count)
	return selected
}

// Remove drops code from the selection if present.
func (s *Selection) Remove(code string) {
	s.mu.Lock()
	s.codes = slices.DeleteFunc(s.codes, func(c string) bool { return c == code })
	chips, count := s.snapshot()
	s.mu.Unlock()
	s.render(chips, count)
}

// Restore replaces the selection with a previously serialized value.
func (s *Selection) Restore(serialized string) {
	s.mu.Lock()
	s.codes = s.codes[:0]
	for _, code := range strings.Split(serialized, ",") {
		code = strings.TrimSpace(code)
		if code == "" || slices.Contains(s.codes, code) {
			continue
		}
		s.codes = append(s.codes, code)
	}
	chips, count := s.snapshot()
	s.mu.Unlock()
	s.render(chips, count)
}

func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

func (s *Selection) Codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.codes)
}

func (s *Selection) Contains(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.codes, code)
}

// Serialized is the comma-joined form sent as the selectedColors field.
func (s *Selection) Serialized() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.codes, ",")
}

// Codes missing from the palette stay selected but get no chip.
func (s *Selection) snapshot() ([]Chip, int) {
	chips := make([]Chip, 0, len(s.codes))
	for _, code := range s.codes {
		if hex, ok := s.palette[code]; ok {
			chips = append(chips, Chip{Code: code, Hex: hex})
		}
	}
	return chips, len(s.codes)
}

func (s *Selection) render(chips []Chip, count int) {
	if s.view != nil {
		s.view.RenderSelectedColors(chips, count)
	}
}
