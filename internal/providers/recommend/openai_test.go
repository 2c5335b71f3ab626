package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"pewarnaan/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type fixedSimilarity map[string][]string

func (f fixedSimilarity) Similar(primary string, count int) []string {
	out := f[primary]
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func testPalette() []domain.ThreadColor {
	return []domain.ThreadColor{
		{Code: "C001", HSV: domain.HSV{H: 0, S: 0, V: 0}},
		{Code: "C002", HSV: domain.HSV{H: 353, S: 51, V: 28}},
		{Code: "C007", HSV: domain.HSV{H: 359, S: 91, V: 55}},
		{Code: "C026", HSV: domain.HSV{H: 268, S: 57, V: 61}},
	}
}

func chatBody(content string) io.ReadCloser {
	payload := map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"content": content}}},
	}
	b, _ := json.Marshal(payload)
	return io.NopCloser(strings.NewReader(string(b)))
}

func TestOpenAIRecommenderParsesColorMap(t *testing.T) {
	var gotPath, gotAuth string
	rec, err := NewOpenAIRecommender(OpenAIOptions{
		APIKey:  "secret",
		BaseURL: "https://llm.example/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			gotPath = r.URL.String()
			gotAuth = r.Header.Get("Authorization")
			content := "```json\n{\"C002\": [353, 51, 28], \"c007\": \"359, 91, 55\", \"C999\": [1,2,3]}\n```"
			return &http.Response{StatusCode: http.StatusOK, Body: chatBody(content), Header: http.Header{}}, nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIRecommender returned error: %v", err)
	}
	res, err := rec.Recommend(context.Background(), Request{UlosType: "sadum", Selected: []string{"C002"}, Palette: testPalette()})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if gotPath != "https://llm.example/chat/completions" {
		t.Fatalf("endpoint = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if res.Provider != openAIProviderName || res.FallbackReason != "" {
		t.Fatalf("provider = %q reason = %q", res.Provider, res.FallbackReason)
	}
	if got := strings.Join(res.Codes(), ","); got != "C002,C007" {
		t.Fatalf("codes = %s, want C002,C007", got)
	}
}

func TestOpenAIRecommenderFallbackReasons(t *testing.T) {
	tests := []struct {
		name   string
		rt     roundTripFunc
		reason string
	}{
		{
			name: "transport",
			rt: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			},
			reason: "http_request",
		},
		{
			name: "status",
			rt: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusUnauthorized, Body: io.NopCloser(strings.NewReader("{}")), Header: http.Header{}}, nil
			},
			reason: "http_401",
		},
		{
			name: "no palette colors",
			rt: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: chatBody(`{"X1":[1,2,3]}`), Header: http.Header{}}, nil
			},
			reason: "parse_payload",
		},
		{
			name: "empty",
			rt: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: chatBody("  "), Header: http.Header{}}, nil
			},
			reason: "empty_response",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured string
			rec, err := NewOpenAIRecommender(OpenAIOptions{
				APIKey:     "dummy",
				HTTPClient: &http.Client{Transport: tc.rt},
				Fallback:   NewStaticRecommender(fixedSimilarity{"C002": {"C007", "C001", "C026"}}),
				OnFallback: func(reason string, err error) { captured = reason },
			})
			if err != nil {
				t.Fatalf("NewOpenAIRecommender returned error: %v", err)
			}
			res, err := rec.Recommend(context.Background(), Request{Selected: []string{"C002"}, Palette: testPalette()})
			if err != nil {
				t.Fatalf("Recommend returned error: %v", err)
			}
			if captured != tc.reason || res.FallbackReason != tc.reason {
				t.Fatalf("reason = %q/%q, want %q", captured, res.FallbackReason, tc.reason)
			}
			if res.Provider != staticProviderName {
				t.Fatalf("Provider = %q", res.Provider)
			}
			if got := strings.Join(res.Codes(), ","); got != "C001,C002,C007" {
				t.Fatalf("codes = %s", got)
			}
		})
	}
}

func TestStaticRecommenderRejectsUnknownSelection(t *testing.T) {
	rec := NewStaticRecommender(nil)
	_, err := rec.Recommend(context.Background(), Request{Selected: []string{"NOPE"}, Palette: testPalette()})
	if !errors.Is(err, domain.ErrUnknownColor) {
		t.Fatalf("err = %v, want ErrUnknownColor", err)
	}
}

func TestNormalizeModel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input  string
		model  string
		reason string
	}{
		{"", "deepseek-chat", ""},
		{"deepseek-chat", "deepseek-chat", ""},
		{"DeepSeek V3", "deepseek-chat", "alias"},
		{"deepseek_r1", "deepseek-reasoner", "alias"},
		{"llama-3", "deepseek-chat", "defaulted"},
	}
	for _, tc := range cases {
		gotModel, gotReason := normalizeModel(tc.input)
		if gotModel != tc.model || gotReason != tc.reason {
			t.Fatalf("normalizeModel(%q) = %q/%q, want %q/%q", tc.input, gotModel, gotReason, tc.model, tc.reason)
		}
	}
}

func TestNewOpenAIRecommenderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIRecommender(OpenAIOptions{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestBuildPromptMentionsSelection(t *testing.T) {
	p := buildPrompt(Request{
		UlosType:       "harungguan",
		Characteristic: domain.Characteristic{Garis: "horizontal", Pola: "geometris"},
		Selected:       []string{"C026"},
		Palette:        testPalette(),
	})
	for _, want := range []string{"Ulos Harungguan", `"C026": [268, 57, 61]`, "geometris"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q: %s", want, p)
		}
	}
}
