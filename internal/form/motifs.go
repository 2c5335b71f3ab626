package form

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"pewarnaan/internal/client"
)

const (
	MsgNoMotifs         = "Tidak ada motif yang tersedia untuk jenis Ulos ini."
	MsgMotifsLoadFailed = "Failed to load motifs. Please try again."
)

// MaxDots is the largest number of carousel dots shown at once.
const MaxDots = 5

var (
	ErrStaleMotifs  = errors.New("form: motif response belongs to a previous fabric type")
	ErrUnknownMotif = errors.New("form: motif is not loaded for the current fabric type")
)

type motifState int

const (
	motifsNone motifState = iota
	motifsLoading
	motifsLoaded
	motifsEmpty
	motifsFailed
)

// MotifLoader keeps the motif list and the chosen motif in step with the
// selected fabric type.
type MotifLoader struct {
	source   MotifSource
	view     View
	carousel Carousel

	mu     sync.Mutex
	gen    uint64
	fabric string
	state  motifState
	motifs []client.Motif
	choice string
}

func NewMotifLoader(source MotifSource, view View, carousel Carousel) *MotifLoader {
	return &MotifLoader{source: source, view: view, carousel: carousel}
}

// ChangeFabricType tears down the previous carousel and motif choice, then
// loads the motifs of ulosType. A response that arrives after another change
// is dropped and ErrStaleMotifs is returned.
func (l *MotifLoader) ChangeFabricType(ctx context.Context, ulosType string) error {
	ulosType = strings.TrimSpace(ulosType)

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.fabric = ulosType
	l.motifs = nil
	l.choice = ""
	l.carousel.Destroy()
	if ulosType == "" {
		l.state = motifsNone
		l.carousel.Hide()
		l.mu.Unlock()
		return nil
	}
	l.state = motifsLoading
	l.mu.Unlock()

	motifs, err := l.source.GetMotifs(ctx, ulosType)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return ErrStaleMotifs
	}
	if err != nil {
		l.state = motifsFailed
		l.view.ShowError(MsgMotifsLoadFailed)
		l.carousel.Hide()
		return fmt.Errorf("load motifs for %s: %w", ulosType, err)
	}
	if len(motifs) == 0 {
		l.state = motifsEmpty
		l.carousel.Hide()
		l.view.ShowError(MsgNoMotifs)
		return nil
	}
	l.state = motifsLoaded
	l.motifs = slices.Clone(motifs)
	l.carousel.Render(l.motifs)
	l.carousel.Show()
	l.choice = l.motifs[0].ID
	l.carousel.Select(l.choice)
	return nil
}

// SelectMotif records a slide click or slide change.
func (l *MotifLoader) SelectMotif(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.ContainsFunc(l.motifs, func(m client.Motif) bool { return m.ID == id }) {
		return ErrUnknownMotif
	}
	l.choice = id
	l.carousel.Select(id)
	l.view.ClearError()
	return nil
}

func (l *MotifLoader) FabricType() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fabric
}

func (l *MotifLoader) Choice() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.choice
}

func (l *MotifLoader) Motifs() []client.Motif {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.motifs)
}

// MotifRequired reports whether a submission needs a motif. Only a fabric
// type confirmed to have no motifs can be submitted without one.
func (l *MotifLoader) MotifRequired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state != motifsEmpty
}

// DotWindow reports whether the dot of slide i is drawn. With more than
// MaxDots slides only the dots around the middle slide are shown.
func DotWindow(total, i int) bool {
	if i < 0 || i >= total {
		return false
	}
	if total <= MaxDots {
		return true
	}
	middle := total / 2
	start := max(0, middle-MaxDots/2)
	end := min(total-1, middle+MaxDots/2)
	return i >= start && i <= end
}

// VisibleDots lists the slide indexes whose dots are drawn.
func VisibleDots(total int) []int {
	var out []int
	for i := 0; i < total; i++ {
		if DotWindow(total, i) {
			out = append(out, i)
		}
	}
	return out
}
