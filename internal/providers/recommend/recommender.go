package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"pewarnaan/internal/colorspace"
	"pewarnaan/internal/domain"
)

const (
	staticProviderName = "static"
	openAIProviderName = "openai"
)

// neighboursPerColor is how many palette neighbours the static recommender
// adds for every selected thread.
const neighboursPerColor = 2

// Request describes the palette extension being asked for.
type Request struct {
	UlosType       string
	Characteristic domain.Characteristic
	Selected       []string
	Palette        []domain.ThreadColor
}

// Result is the recommended candidate set keyed by thread code.
type Result struct {
	Colors         map[string]domain.HSV
	Provider       string
	FallbackReason string
}

// Codes returns the recommended codes in sorted order.
func (r *Result) Codes() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Colors))
	for code := range r.Colors {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

type Recommender interface {
	Recommend(ctx context.Context, req Request) (*Result, error)
}

// Similarity ranks palette neighbours for a thread code.
type Similarity interface {
	Similar(primary string, count int) []string
}

// StaticRecommender keeps the selected threads and adds their nearest palette
// neighbours. It never calls out to the network.
type StaticRecommender struct {
	similarity Similarity
}

func NewStaticRecommender(similarity Similarity) *StaticRecommender {
	return &StaticRecommender{similarity: similarity}
}

func (s *StaticRecommender) Recommend(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	byCode := paletteIndex(req.Palette)
	out := make(map[string]domain.HSV, len(req.Selected)*(neighboursPerColor+1))
	for _, code := range req.Selected {
		hsv, ok := byCode[code]
		if !ok {
			continue
		}
		out[code] = hsv
		if s.similarity == nil {
			continue
		}
		for _, near := range s.similarity.Similar(code, neighboursPerColor) {
			if v, ok := byCode[near]; ok {
				out[near] = v
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no known colors selected", domain.ErrUnknownColor)
	}
	return &Result{Colors: out, Provider: staticProviderName}, nil
}

func paletteIndex(palette []domain.ThreadColor) map[string]domain.HSV {
	byCode := make(map[string]domain.HSV, len(palette))
	for _, c := range palette {
		byCode[c.Code] = c.HSV
	}
	return byCode
}

// parseColorMap decodes the model's code -> HSV object. Values may be a
// three element array or the "h, s, v" string form. Codes outside the palette
// are dropped and the palette value wins over whatever the model echoed.
func parseColorMap(raw string, palette map[string]domain.HSV) (map[string]domain.HSV, error) {
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, errors.New("empty payload")
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, err
	}
	out := make(map[string]domain.HSV, len(decoded))
	for key, value := range decoded {
		code := strings.ToUpper(strings.TrimSpace(key))
		known, ok := palette[code]
		if !ok {
			continue
		}
		if !validHSVValue(value) {
			continue
		}
		out[code] = known
	}
	if len(out) == 0 {
		return nil, errors.New("no palette colors in payload")
	}
	return out, nil
}

func validHSVValue(raw json.RawMessage) bool {
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil {
		return len(arr) == 3
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		_, err := colorspace.ParseHSV(s)
		return err == nil
	}
	return false
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
