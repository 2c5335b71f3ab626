package coloring

import (
	"image/color"
	"math"

	"pewarnaan/internal/colorspace"
	"pewarnaan/internal/domain"
)

const numObjectives = 5

// Scores holds the objective values of one assignment. Every score is
// maximized; the optimizer minimizes their negations.
type Scores struct {
	Michelson    float64
	RMS          float64
	Colorfulness float64
	UniqueColors float64
	Preference   float64
}

func (s Scores) minimized() []float64 {
	return []float64{-s.Michelson, -s.RMS, -s.Colorfulness, -s.UniqueColors, -s.Preference}
}

func scoresFromMinimized(f []float64) Scores {
	return Scores{
		Michelson:    -f[0],
		RMS:          -f[1],
		Colorfulness: -f[2],
		UniqueColors: -f[3],
		Preference:   -f[4],
	}
}

// Domain converts scores to the persisted result shape.
func (s Scores) Domain() domain.OptimizationScores {
	return domain.OptimizationScores{
		MichaelsonContrast:  s.Michelson,
		RMSContrast:         s.RMS,
		Colorfulness:        s.Colorfulness,
		OptimalUniqueColors: s.UniqueColors,
		UserPreferenceMatch: s.Preference,
	}
}

type candidate struct {
	code string
	hsv  domain.HSV
	rgb  color.RGBA
}

// objective evaluates assignments of candidates to gray levels. It works on
// the histogram, so the cost is independent of the image size.
type objective struct {
	levels      Levels
	candidates  []candidate
	preferences []domain.HSV
	target      int
}

func (o *objective) evaluate(assign []int) Scores {
	return Scores{
		Michelson:    o.michelson(assign),
		RMS:          o.rmsContrast(assign),
		Colorfulness: o.colorfulness(assign),
		UniqueColors: o.uniqueColors(assign),
		Preference:   o.preference(assign),
	}
}

// michelson is the Michelson contrast of the hue channel, with hue scaled to
// [0,1].
func (o *objective) michelson(assign []int) float64 {
	minH, maxH := math.Inf(1), math.Inf(-1)
	for _, idx := range assign {
		h := math.Mod(float64(o.candidates[idx].hsv.H), 360) / 360
		minH = math.Min(minH, h)
		maxH = math.Max(maxH, h)
	}
	if maxH+minH == 0 {
		return 0
	}
	return (maxH - minH) / (maxH + minH)
}

// rmsContrast is the pixel-weighted standard deviation of relative luminance.
func (o *objective) rmsContrast(assign []int) float64 {
	total := float64(o.levels.Total)
	if total == 0 {
		return 0
	}
	var mean float64
	lum := make([]float64, len(assign))
	for i, idx := range assign {
		c := o.candidates[idx].rgb
		lum[i] = 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		mean += lum[i] * float64(o.levels.Counts[i])
	}
	mean /= total
	var variance float64
	for i := range assign {
		d := lum[i] - mean
		variance += d * d * float64(o.levels.Counts[i])
	}
	return math.Sqrt(variance / total)
}

// colorfulness is the Hasler and Suesstrunk metric over the rendered pixels.
func (o *objective) colorfulness(assign []int) float64 {
	total := float64(o.levels.Total)
	if total == 0 {
		return 0
	}
	rg := make([]float64, len(assign))
	yb := make([]float64, len(assign))
	var meanRG, meanYB float64
	for i, idx := range assign {
		c := o.candidates[idx].rgb
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		rg[i] = r - g
		yb[i] = 0.5*(r+g) - b
		w := float64(o.levels.Counts[i])
		meanRG += rg[i] * w
		meanYB += yb[i] * w
	}
	meanRG /= total
	meanYB /= total
	var varRG, varYB float64
	for i := range assign {
		w := float64(o.levels.Counts[i])
		varRG += (rg[i] - meanRG) * (rg[i] - meanRG) * w
		varYB += (yb[i] - meanYB) * (yb[i] - meanYB) * w
	}
	std := math.Sqrt(varRG/total + varYB/total)
	mean := math.Sqrt(meanRG*meanRG + meanYB*meanYB)
	return std + 0.3*mean
}

// uniqueColors rewards using about as many distinct threads as were asked
// for: within one of the target scores 1, otherwise 1/(1+difference).
func (o *objective) uniqueColors(assign []int) float64 {
	seen := make(map[int]struct{}, len(assign))
	for _, idx := range assign {
		seen[idx] = struct{}{}
	}
	diff := math.Abs(float64(len(seen) - o.target))
	if diff <= 1 {
		return 1
	}
	return 1 / (1 + diff)
}

// preference averages, over the user's colors, how closely the best matching
// used thread resembles it. An exact match scores 1.
func (o *objective) preference(assign []int) float64 {
	if len(o.preferences) == 0 {
		return 0
	}
	used := make(map[int]struct{}, len(assign))
	for _, idx := range assign {
		used[idx] = struct{}{}
	}
	var sum float64
	for _, pref := range o.preferences {
		best := 0.0
		for idx := range used {
			d := hsvDistance(pref, o.candidates[idx].hsv)
			best = math.Max(best, 1/(1+d))
		}
		sum += best
	}
	return sum / float64(len(o.preferences))
}

func hsvDistance(a, b domain.HSV) float64 {
	dh := colorspace.HueDistance(float64(a.H), float64(b.H)) / 360
	ds := math.Abs(float64(a.S-b.S)) / 100
	dv := math.Abs(float64(a.V-b.V)) / 100
	return math.Sqrt(dh*dh + ds*ds + dv*dv)
}
