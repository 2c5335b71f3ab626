// Package scheme classifies a set of thread colors into a classic color
// scheme and recommends how to distribute it on the cloth.
package scheme

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"pewarnaan/internal/colorspace"
	"pewarnaan/internal/domain"
)

// Type names a color scheme.
type Type string

const (
	Monochromatic Type = "Monochromatic"
	Analogous     Type = "Analogous"
	Complementary Type = "Complementary"
	Triadic       Type = "Triadic"
	Tetradic      Type = "Tetradic"
	Achromatic    Type = "Achromatic"
)

// achromaticSaturation is the saturation at or below which a thread reads as
// black, white or gray.
const achromaticSaturation = 20

type entry struct {
	code string
	hue  float64
	sat  float64
	val  float64
}

func (e entry) achromatic() bool { return e.sat <= achromaticSaturation }

// Analysis is the outcome of Analyze.
type Analysis struct {
	Type            Type
	Description     string
	Colors          []string
	HueRange        float64
	AvgHueDistance  float64
	AchromaticCount int
	ChromaticCount  int
	HarmonyScore    float64
}

// Recommendation gives usage ratios for a scheme.
type Recommendation struct {
	PrimaryRatio   string
	SecondaryRatio string
	AccentRatio    string
	HarmonyLevel   string
}

// Analyzer holds the palette snapshot used for lookups. It is safe for
// concurrent use; Refresh swaps the palette atomically.
type Analyzer struct {
	mu     sync.RWMutex
	colors map[string]entry
	order  []string
}

// NewAnalyzer builds an analyzer over the given palette.
func NewAnalyzer(palette []domain.ThreadColor) *Analyzer {
	a := &Analyzer{}
	a.Refresh(palette)
	return a
}

// Refresh replaces the palette.
func (a *Analyzer) Refresh(palette []domain.ThreadColor) {
	colors := make(map[string]entry, len(palette))
	order := make([]string, 0, len(palette))
	for _, c := range palette {
		colors[c.Code] = entry{
			code: c.Code,
			hue:  math.Mod(float64(c.HSV.H), 360),
			sat:  float64(c.HSV.S),
			val:  float64(c.HSV.V),
		}
		order = append(order, c.Code)
	}
	a.mu.Lock()
	a.colors = colors
	a.order = order
	a.mu.Unlock()
}

// Known reports whether code is in the palette.
func (a *Analyzer) Known(code string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.colors[code]
	return ok
}

// Similar returns up to count palette codes closest to primary, weighting hue
// over saturation over value. Unknown primaries yield nil.
func (a *Analyzer) Similar(primary string, count int) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.colors[primary]
	if !ok || count <= 0 {
		return nil
	}
	type scored struct {
		code  string
		score float64
	}
	var all []scored
	for _, code := range a.order {
		if code == primary {
			continue
		}
		c := a.colors[code]
		score := (360-colorspace.HueDistance(p.hue, c.hue))*0.5 +
			(100-math.Abs(p.sat-c.sat))*0.3 +
			(100-math.Abs(p.val-c.val))*0.2
		all = append(all, scored{code: code, score: score})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if count > len(all) {
		count = len(all)
	}
	out := make([]string, 0, count)
	for _, s := range all[:count] {
		out = append(out, s.code)
	}
	return out
}

// Analyze classifies the known codes among codes. Unknown codes are ignored.
func (a *Analyzer) Analyze(codes []string) Analysis {
	if len(codes) == 0 {
		return Analysis{Type: Achromatic, Description: "No colors provided"}
	}
	a.mu.RLock()
	var colors []entry
	for _, code := range codes {
		if c, ok := a.colors[code]; ok {
			colors = append(colors, c)
		}
	}
	a.mu.RUnlock()
	if len(colors) == 0 {
		return Analysis{Type: Achromatic, Description: "Invalid color codes"}
	}

	var achromatic, chromatic []entry
	for _, c := range colors {
		if c.achromatic() {
			achromatic = append(achromatic, c)
		} else {
			chromatic = append(chromatic, c)
		}
	}
	base := Analysis{
		Colors:          codes,
		AchromaticCount: len(achromatic),
		ChromaticCount:  len(chromatic),
	}

	switch {
	case len(chromatic) == 0:
		base.Type = Achromatic
		base.Description = "All colors are neutral (black, white, gray)"
		base.HarmonyScore = 0.8
		return base
	case len(chromatic) == 1:
		base.Type = Monochromatic
		base.Description = "Single color with neutral variations"
		base.HarmonyScore = 0.9
		return base
	case isTriadic(chromatic):
		base.Type = Triadic
		base.Description = "Three colors equally spaced around color wheel (120° apart)"
		base.HueRange = hueRange(chromatic)
		base.HarmonyScore = 0.75
		return base
	case isTetradic(chromatic):
		base.Type = Tetradic
		base.Description = "Four colors forming two complementary pairs"
		base.HueRange = hueRange(chromatic)
		base.HarmonyScore = 0.65
		return base
	}

	var distances []float64
	for i := 0; i < len(chromatic); i++ {
		for j := i + 1; j < len(chromatic); j++ {
			distances = append(distances, colorspace.HueDistance(chromatic[i].hue, chromatic[j].hue))
		}
	}
	maxDist, sum := 0.0, 0.0
	for _, d := range distances {
		sum += d
		if d > maxDist {
			maxDist = d
		}
	}
	base.HueRange = maxDist
	base.AvgHueDistance = sum / float64(len(distances))

	switch {
	case maxDist <= 30:
		base.Type = Monochromatic
		base.Description = fmt.Sprintf("Very similar hues within %.1f° range", maxDist)
		base.HarmonyScore = 0.9
	case maxDist <= 60:
		base.Type = Analogous
		base.Description = fmt.Sprintf("Adjacent hues spanning %.1f° on color wheel", maxDist)
		base.HarmonyScore = 0.8
	case anyNear(distances, 180, 30):
		base.Type = Complementary
		base.Description = "Colors from opposite sides of color wheel"
		base.HarmonyScore = 0.7
	default:
		base.Type = Tetradic
		base.Description = "Multiple colors with complex relationships"
		base.HarmonyScore = math.Max(0.3, 1.0-(maxDist-120)/240)
	}
	return base
}

// Recommend returns usage ratios for an analysis.
func Recommend(an Analysis) Recommendation {
	score := an.HarmonyScore
	level := func(threshold float64, hi, lo string) string {
		if score > threshold {
			return hi
		}
		return lo
	}
	switch an.Type {
	case Monochromatic:
		return Recommendation{"60%", "30%", "10%", level(0.85, "Very High", "High")}
	case Analogous:
		return Recommendation{"50%", "30%", "20%", level(0.75, "High", "Medium")}
	case Complementary:
		return Recommendation{"70%", "30%", "Use sparingly", level(0.65, "Medium", "Challenging")}
	case Triadic:
		return Recommendation{"50%", "30%", "20%", level(0.7, "Good", "Challenging")}
	case Tetradic:
		return Recommendation{"40%", "30%", "30% (distributed)", level(0.6, "Dynamic", "Complex")}
	case Achromatic:
		return Recommendation{"60%", "40%", "Consider adding color", "Neutral"}
	default:
		return Recommendation{}
	}
}

// ToDomain converts the analysis and recommendation into the persisted shape.
func ToDomain(an Analysis, rec Recommendation) (domain.SchemeAnalysis, domain.UsageRecommendations) {
	return domain.SchemeAnalysis{
			SchemeType:        string(an.Type),
			Description:       an.Description,
			HueRange:          an.HueRange,
			ColorHarmonyScore: an.HarmonyScore,
			AchromaticCount:   an.AchromaticCount,
			ChromaticCount:    an.ChromaticCount,
		}, domain.UsageRecommendations{
			HarmonyLevel:   rec.HarmonyLevel,
			PrimaryRatio:   rec.PrimaryRatio,
			SecondaryRatio: rec.SecondaryRatio,
			AccentRatio:    rec.AccentRatio,
		}
}

// isTriadic: exactly three chromatic hues with at least two of the three
// gaps around the wheel within 120±30.
func isTriadic(colors []entry) bool {
	if len(colors) != 3 {
		return false
	}
	hues := []float64{colors[0].hue, colors[1].hue, colors[2].hue}
	sort.Float64s(hues)
	gaps := []float64{hues[1] - hues[0], hues[2] - hues[1], hues[0] + 360 - hues[2]}
	valid := 0
	for _, g := range gaps {
		if math.Abs(g-120) <= 30 {
			valid++
		}
	}
	return valid >= 2
}

// isTetradic: exactly four chromatic hues with at least one complementary
// pair.
func isTetradic(colors []entry) bool {
	if len(colors) != 4 {
		return false
	}
	for i := 0; i < len(colors); i++ {
		for j := i + 1; j < len(colors); j++ {
			if math.Abs(colorspace.HueDistance(colors[i].hue, colors[j].hue)-180) <= 30 {
				return true
			}
		}
	}
	return false
}

func hueRange(colors []entry) float64 {
	if len(colors) <= 1 {
		return 0
	}
	lo, hi := colors[0].hue, colors[0].hue
	for _, c := range colors[1:] {
		lo = math.Min(lo, c.hue)
		hi = math.Max(hi, c.hue)
	}
	return hi - lo
}

func anyNear(values []float64, target, tolerance float64) bool {
	for _, v := range values {
		if math.Abs(v-target) <= tolerance {
			return true
		}
	}
	return false
}
