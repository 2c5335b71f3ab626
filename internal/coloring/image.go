package coloring

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
)

// Levels is the gray-level histogram of a motif. Values are sorted ascending
// and Counts[i] is the number of pixels at Values[i].
type Levels struct {
	Values []uint8
	Counts []int
	Total  int
}

// DecodeGray decodes a PNG or JPEG motif and converts it to 8-bit gray.
func DecodeGray(r io.Reader) (*image.Gray, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode motif: %w", err)
	}
	if g, ok := src.(*image.Gray); ok {
		return g, nil
	}
	b := src.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, src, b.Min, draw.Src)
	return gray, nil
}

// Histogram collects the unique gray levels of img.
func Histogram(img *image.Gray) Levels {
	var counts [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()]
		for _, p := range row {
			counts[p]++
		}
	}
	var lv Levels
	for v, n := range counts {
		if n == 0 {
			continue
		}
		lv.Values = append(lv.Values, uint8(v))
		lv.Counts = append(lv.Counts, n)
		lv.Total += n
	}
	return lv
}

// Render paints every pixel of img with the color assigned to its gray level.
// levelColors is indexed like Levels.Values.
func Render(img *image.Gray, lv Levels, levelColors []color.RGBA) *image.RGBA {
	var lut [256]color.RGBA
	for i, v := range lv.Values {
		lut[v] = levelColors[i]
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetRGBA(x, y, lut[img.GrayAt(x, y).Y])
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
