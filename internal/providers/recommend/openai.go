package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pewarnaan/internal/colorspace"
)

type OpenAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Recommender
	OnFallback func(reason string, err error)
	OnWarning  func(reason, detail string)
}

// OpenAIRecommender asks an OpenAI-compatible chat endpoint (DeepSeek by
// default) for related thread colors.
type OpenAIRecommender struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	fallback   Recommender
	onFallback func(reason string, err error)
}

const openAIDefaultTimeout = 30 * time.Second

const (
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"
)

var modelCanonical = map[string]string{
	"deepseek-chat":     "deepseek-chat",
	"deepseek-reasoner": "deepseek-reasoner",
	"gpt-4o-mini":       "gpt-4o-mini",
}

var modelAliases = map[string]string{
	"deepseek":    "deepseek-chat",
	"deepseek-v3": "deepseek-chat",
	"deepseek-r1": "deepseek-reasoner",
	"gpt4o-mini":  "gpt-4o-mini",
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenAIRecommender(opts OpenAIOptions) (*OpenAIRecommender, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("recommender api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	modelInput := strings.TrimSpace(opts.Model)
	model, reason := normalizeModel(modelInput)
	if reason != "" && opts.OnWarning != nil {
		detail := fmt.Sprintf("requested=%s resolved=%s", coalesce(modelInput, defaultModel), model)
		opts.OnWarning("model_"+reason, detail)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIRecommender{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      model,
		baseURL:    baseURL,
		client:     client,
		fallback:   opts.Fallback,
		onFallback: opts.OnFallback,
	}, nil
}

func (o *OpenAIRecommender) Recommend(ctx context.Context, req Request) (*Result, error) {
	if o.apiKey == "" {
		return o.useFallback(ctx, req, "missing_api_key", nil)
	}
	payload := chatRequest{
		Model:          o.model,
		Temperature:    0.2,
		ResponseFormat: &chatFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: "Kamu adalah ahli warna tenun ulos yang hanya menjawab dengan JSON valid."},
			{Role: "user", Content: buildPrompt(req)},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return o.useFallback(ctx, req, "encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/chat/completions", o.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return o.useFallback(ctx, req, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return o.useFallback(ctx, req, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return o.useFallback(ctx, req, fmt.Sprintf("http_%d", resp.StatusCode), fmt.Errorf("recommender status %d", resp.StatusCode))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return o.useFallback(ctx, req, "decode_response", err)
	}
	if len(out.Choices) == 0 {
		return o.useFallback(ctx, req, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return o.useFallback(ctx, req, "empty_response", errors.New("empty response"))
	}
	colors, err := parseColorMap(text, paletteIndex(req.Palette))
	if err != nil {
		return o.useFallback(ctx, req, "parse_payload", err)
	}
	return &Result{Colors: colors, Provider: openAIProviderName}, nil
}

func (o *OpenAIRecommender) useFallback(ctx context.Context, req Request, reason string, fallbackErr error) (*Result, error) {
	if o.onFallback != nil {
		o.onFallback(reason, fallbackErr)
	}
	fallback := o.fallback
	if fallback == nil {
		fallback = NewStaticRecommender(nil)
	}
	res, err := fallback.Recommend(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = staticProviderName
		}
		res.FallbackReason = reason
	}
	return res, err
}

var _ Recommender = (*OpenAIRecommender)(nil)
var _ Recommender = (*StaticRecommender)(nil)

func buildPrompt(req Request) string {
	title := cases.Title(language.Indonesian)
	selected := make([]string, 0, len(req.Selected))
	byCode := paletteIndex(req.Palette)
	for _, code := range req.Selected {
		if hsv, ok := byCode[code]; ok {
			selected = append(selected, fmt.Sprintf("%q: [%s]", code, colorspace.FormatHSV(hsv)))
		}
	}
	reference := make([]string, 0, len(req.Palette))
	for _, c := range req.Palette {
		reference = append(reference, fmt.Sprintf("%q: [%s]", c.Code, colorspace.FormatHSV(c.HSV)))
	}
	sort.Strings(reference)

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Ulos %s", title.String(req.UlosType))
	ch := req.Characteristic
	if ch.Garis != "" || ch.Pola != "" {
		fmt.Fprintf(sb, " dengan garis %q, pola %q, warna dominasi %q, warna aksen %q, kontras %q.", ch.Garis, ch.Pola, ch.WarnaDominasi, ch.WarnaAksen, ch.KontrasWarna)
	} else {
		sb.WriteString(".")
	}
	fmt.Fprintf(sb, " Daftar warna benang referensi (HSV): {%s}.", strings.Join(reference, ", "))
	fmt.Fprintf(sb, " Warna pilihan pengguna: {%s}.", strings.Join(selected, ", "))
	sb.WriteString(" Berikan warna dari daftar referensi yang paling relevan dan sejenis dengan warna pilihan pengguna, termasuk warna pilihan itu sendiri.")
	sb.WriteString(` Jawab hanya dengan objek JSON {"KODE":[h,s,v]} memakai kode dan nilai persis seperti daftar referensi.`)
	return sb.String()
}

func normalizeModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return defaultModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := modelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := modelAliases[normalized]; ok {
		return alias, "alias"
	}
	return defaultModel, "defaulted"
}
