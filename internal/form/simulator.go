package form

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// SimulatedCeiling is the highest percentage the simulator shows.
const SimulatedCeiling = 90

// Simulator moves the progress bar by small random steps while the first
// real progress response is outstanding.
type Simulator struct {
	Interval time.Duration
	MaxStep  int
	Rand     *rand.Rand
}

func NewSimulator() *Simulator {
	return &Simulator{Interval: 500 * time.Millisecond, MaxStep: 5}
}

// Start runs the simulation in the background and returns a stop function.
// After stop returns, no further SetProgress calls are made.
func (s *Simulator) Start(ctx context.Context, view View) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.run(ctx, view)
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

func (s *Simulator) run(ctx context.Context, view View) {
	interval := s.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	step := s.MaxStep
	if step < 1 {
		step = 1
	}
	intn := rand.IntN
	if s.Rand != nil {
		intn = s.Rand.IntN
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	percent := 0
	for percent < SimulatedCeiling {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		percent = min(SimulatedCeiling, percent+1+intn(step))
		view.SetProgress(percent)
	}
}
