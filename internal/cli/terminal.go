package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"pewarnaan/internal/client"
	"pewarnaan/internal/domain"
	"pewarnaan/internal/form"
)

// TerminalView prints form updates as lines of text.
type TerminalView struct {
	mu       sync.Mutex
	out      io.Writer
	last     int
	quiet    bool
	ImageURL string
}

func NewTerminalView(out io.Writer, quiet bool) *TerminalView {
	return &TerminalView{out: out, quiet: quiet, last: -1}
}

func (v *TerminalView) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(v.out, format, args...)
}

func (v *TerminalView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("! %s\n", msg)
}

func (v *TerminalView) ClearError() {}

func (v *TerminalView) SetLoading(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if on {
		v.last = -1
		if !v.quiet {
			v.printf("Memproses pewarnaan...\n")
		}
	}
}

func (v *TerminalView) SetSubmitEnabled(bool) {}

// SetProgress prints a bar only when the percentage changed.
func (v *TerminalView) SetProgress(percent int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.quiet || percent == v.last {
		return
	}
	v.last = percent
	v.printf("[%s] %3d %%\n", progressBar(percent, 20), percent)
}

func (v *TerminalView) ShowImage(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ImageURL = url
	v.printf("Gambar: %s\n", url)
}

func (v *TerminalView) HideImage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ImageURL = ""
}

func (v *TerminalView) ShowUsedColors(colors []domain.UsedColor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("Warna yang digunakan:\n")
	for _, c := range colors {
		v.printf("  %s %s\n", c.Code, c.HexColor)
	}
}

func (v *TerminalView) HideUsedColors() {}

func (v *TerminalView) RenderSelectedColors(chips []form.Chip, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.quiet {
		return
	}
	codes := make([]string, 0, len(chips))
	for _, c := range chips {
		codes = append(codes, fmt.Sprintf("%s(%s)", c.Code, c.Hex))
	}
	v.printf("%d warna dipilih: %s\n", count, strings.Join(codes, " "))
}

func progressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

// TerminalCarousel lists motifs and marks the selected one.
type TerminalCarousel struct {
	mu       sync.Mutex
	out      io.Writer
	motifs   []client.Motif
	selected string
	visible  bool
}

func NewTerminalCarousel(out io.Writer) *TerminalCarousel {
	return &TerminalCarousel{out: out}
}

func (c *TerminalCarousel) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.motifs = nil
	c.selected = ""
}

func (c *TerminalCarousel) Render(motifs []client.Motif) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.motifs = motifs
}

func (c *TerminalCarousel) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
}

func (c *TerminalCarousel) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = true
}

func (c *TerminalCarousel) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = false
}

// Print writes the slide list followed by the dot row.
func (c *TerminalCarousel) Print() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.visible {
		return
	}
	var dots strings.Builder
	for i, m := range c.motifs {
		mark := " "
		if m.ID == c.selected {
			mark = "*"
		}
		_, _ = fmt.Fprintf(c.out, "%s %-6s %s\n", mark, m.ID, m.Src)
		if form.DotWindow(len(c.motifs), i) {
			if m.ID == c.selected {
				dots.WriteString("●")
			} else {
				dots.WriteString("○")
			}
		}
	}
	if dots.Len() > 0 {
		_, _ = fmt.Fprintf(c.out, "  %s\n", dots.String())
	}
}

var (
	_ form.View     = (*TerminalView)(nil)
	_ form.Carousel = (*TerminalCarousel)(nil)
)
