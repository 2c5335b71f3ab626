// Package colorspace converts catalog HSV thread colors to RGB and back.
package colorspace

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"pewarnaan/internal/domain"
)

// ParseHSV parses the "h, s, v" notation used by the seed data.
func ParseHSV(raw string) (domain.HSV, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return domain.HSV{}, fmt.Errorf("colorspace: expected 3 components, got %d", len(parts))
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.HSV{}, fmt.Errorf("colorspace: component %d: %w", i, err)
		}
		vals[i] = v
	}
	return domain.HSV{H: vals[0], S: vals[1], V: vals[2]}, nil
}

// FormatHSV is the inverse of ParseHSV.
func FormatHSV(h domain.HSV) string {
	return fmt.Sprintf("%d, %d, %d", h.H, h.S, h.V)
}

// ToRGB converts a catalog HSV value to 8-bit RGB. Channels are truncated,
// not rounded, so 255*fraction never overflows.
func ToRGB(h domain.HSV) color.RGBA {
	r, g, b := hsvToRGBFloat(float64(h.H)/360.0, clamp01(float64(h.S)/100.0), clamp01(float64(h.V)/100.0))
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}

// Hex renders a catalog HSV value as "#rrggbb".
func Hex(h domain.HSV) string {
	c := ToRGB(h)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FromRGB converts 8-bit RGB to hue in degrees [0,360) and saturation/value
// in [0,1].
func FromRGB(r, g, b uint8) (h, s, v float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	v = maxC
	delta := maxC - minC
	if maxC == 0 {
		return 0, 0, v
	}
	s = delta / maxC
	if delta == 0 {
		return 0, s, v
	}
	switch maxC {
	case rf:
		h = math.Mod((gf-bf)/delta, 6)
	case gf:
		h = (bf-rf)/delta + 2
	default:
		h = (rf-gf)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// HueDistance is the shortest distance between two hues on the color wheel.
func HueDistance(a, b float64) float64 {
	d := math.Abs(math.Mod(a, 360) - math.Mod(b, 360))
	return math.Min(d, 360-d)
}

func hsvToRGBFloat(h, s, v float64) (float64, float64, float64) {
	h = h - math.Floor(h)
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
