package coloring

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sort"
)

// Options configures the differential evolution search.
type Options struct {
	PopSize     int
	CR          float64
	F           float64
	Generations int
	Seed        uint64
}

// DefaultOptions are the production settings: DE/rand/1/bin with a
// population of five and a single generation.
func DefaultOptions() Options {
	return Options{PopSize: 5, CR: 0.7, F: 0.85, Generations: 1, Seed: 42}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.PopSize < 4 {
		o.PopSize = def.PopSize
	}
	if o.CR <= 0 || o.CR > 1 {
		o.CR = def.CR
	}
	if o.F <= 0 {
		o.F = def.F
	}
	if o.Generations < 0 {
		o.Generations = 0
	}
	return o
}

// Problem is an integer minimization problem with variables in [0, Upper].
type Problem struct {
	NumVars  int
	Upper    int
	Evaluate func(x []int) []float64
}

// Solution is one member of the population.
type Solution struct {
	X     []int
	F     []float64
	crowd float64
}

var errEmptyProblem = errors.New("coloring: problem has no variables")

// Optimize runs NSDE (DE/rand/1/bin with rank-and-crowding survival) and
// returns the final population. onGeneration, when set, is called after every
// generation with the 1-based generation number.
func Optimize(ctx context.Context, p Problem, opts Options, onGeneration func(gen int)) ([]Solution, error) {
	if p.NumVars <= 0 {
		return nil, errEmptyProblem
	}
	opts = opts.normalized()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	pop := make([]Solution, opts.PopSize)
	for i := range pop {
		x := make([]int, p.NumVars)
		for j := range x {
			x[j] = rng.IntN(p.Upper + 1)
		}
		pop[i] = Solution{X: x, F: p.Evaluate(x)}
	}

	for gen := 1; gen <= opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		offspring := make([]Solution, len(pop))
		for i := range pop {
			r1, r2, r3 := pickDistinct(rng, len(pop), i)
			base, a, b := pop[r1].X, pop[r2].X, pop[r3].X
			jrand := rng.IntN(p.NumVars)
			trial := make([]int, p.NumVars)
			for j := range trial {
				if j != jrand && rng.Float64() >= opts.CR {
					trial[j] = pop[i].X[j]
					continue
				}
				v := float64(base[j]) + opts.F*float64(a[j]-b[j])
				v = bounceBack(rng, v, float64(base[j]), float64(p.Upper))
				trial[j] = clampInt(int(math.Round(v)), 0, p.Upper)
			}
			offspring[i] = Solution{X: trial, F: p.Evaluate(trial)}
		}
		pop = survive(append(pop, offspring...), opts.PopSize)
		if onGeneration != nil {
			onGeneration(gen)
		}
	}
	return pop, nil
}

// Best returns the solution with the smallest sum of objective values.
func Best(pop []Solution) Solution {
	best, bestSum := 0, math.Inf(1)
	for i, s := range pop {
		var sum float64
		for _, f := range s.F {
			sum += f
		}
		if sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return pop[best]
}

func pickDistinct(rng *rand.Rand, n, exclude int) (int, int, int) {
	picked := make([]int, 0, 3)
	for len(picked) < 3 {
		c := rng.IntN(n)
		if c == exclude || contains(picked, c) {
			continue
		}
		picked = append(picked, c)
	}
	return picked[0], picked[1], picked[2]
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// bounceBack pulls an out-of-bounds value to a random point between the
// violated bound and the base vector.
func bounceBack(rng *rand.Rand, v, base, upper float64) float64 {
	switch {
	case v < 0:
		return rng.Float64() * base
	case v > upper:
		return upper - rng.Float64()*(upper-base)
	default:
		return v
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// survive keeps n solutions by non-dominated rank, breaking ties within the
// last admitted front by crowding distance.
func survive(all []Solution, n int) []Solution {
	fronts := nonDominatedSort(all)
	out := make([]Solution, 0, n)
	for _, front := range fronts {
		crowding(all, front)
		if len(out)+len(front) <= n {
			for _, idx := range front {
				out = append(out, all[idx])
			}
			continue
		}
		sort.SliceStable(front, func(i, j int) bool { return all[front[i]].crowd > all[front[j]].crowd })
		for _, idx := range front[:n-len(out)] {
			out = append(out, all[idx])
		}
		break
	}
	return out
}

func dominates(a, b []float64) bool {
	better := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

func nonDominatedSort(pop []Solution) [][]int {
	n := len(pop)
	dominatedBy := make([][]int, n)
	counts := make([]int, n)
	var fronts [][]int
	var current []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(pop[i].F, pop[j].F) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if dominates(pop[j].F, pop[i].F) {
				counts[i]++
			}
		}
		if counts[i] == 0 {
			current = append(current, i)
		}
	}
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominatedBy[i] {
				counts[j]--
				if counts[j] == 0 {
					next = append(next, j)
				}
			}
		}
		current = next
	}
	return fronts
}

func crowding(pop []Solution, front []int) {
	for _, idx := range front {
		pop[idx].crowd = 0
	}
	if len(front) <= 2 {
		for _, idx := range front {
			pop[idx].crowd = math.Inf(1)
		}
		return
	}
	m := len(pop[front[0]].F)
	sorted := append([]int(nil), front...)
	for k := 0; k < m; k++ {
		sort.SliceStable(sorted, func(i, j int) bool { return pop[sorted[i]].F[k] < pop[sorted[j]].F[k] })
		lo, hi := pop[sorted[0]].F[k], pop[sorted[len(sorted)-1]].F[k]
		pop[sorted[0]].crowd = math.Inf(1)
		pop[sorted[len(sorted)-1]].crowd = math.Inf(1)
		if hi == lo {
			continue
		}
		for i := 1; i < len(sorted)-1; i++ {
			pop[sorted[i]].crowd += (pop[sorted[i+1]].F[k] - pop[sorted[i-1]].F[k]) / (hi - lo)
		}
	}
}
