// Package client talks to the coloring service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pewarnaan/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Form field names expected by POST /pewarnaan/.
const (
	FieldUlosType = "jenisUlos"
	FieldColors   = "selectedColors"
	FieldMotif    = "selectedMotif"
)

// HTTPError is returned for any non-2xx response. Message carries the
// server's {"error": ...} text when the body had one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded with status %d", e.Status)
	}
	return fmt.Sprintf("server responded with status %d: %s", e.Status, e.Message)
}

// Motif is one entry of the motif list.
type Motif struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// SubmitRequest holds the three form fields of a coloring request.
type SubmitRequest struct {
	UlosType string
	Colors   []string
	MotifID  string
}

// SubmitResponse is either a task handle or an immediate result.
type SubmitResponse struct {
	TaskID          string             `json:"task_id,omitempty"`
	ColoredImageURL string             `json:"colored_image_url,omitempty"`
	UsedColors      []domain.UsedColor `json:"used_colors,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Locale     string
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	locale  string
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("client: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported scheme %q", base.Scheme)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: base, http: hc, locale: strings.TrimSpace(opts.Locale)}, nil
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.baseURL.String(), "/")
}

// ResolveStatic turns a storage path returned by the service into a URL under
// /static/.
func (c *Client) ResolveStatic(p string) string {
	return c.BaseURL() + "/static/" + strings.TrimLeft(p, "/")
}

// GetMotifs lists the motifs of a fabric type.
func (c *Client) GetMotifs(ctx context.Context, ulosType string) ([]Motif, error) {
	q := url.Values{}
	q.Set("jenis_ulos", ulosType)
	req, err := c.newRequest(ctx, http.MethodGet, "get_motifs/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out []Motif
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UlosTypes lists the fabric types the service knows.
func (c *Client) UlosTypes(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "ulos_types/", nil)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Color is an entry of the thread palette.
type Color struct {
	Code     string     `json:"code"`
	HexColor string     `json:"hex_color"`
	HSV      domain.HSV `json:"hsv"`
}

// Colors fetches the thread palette.
func (c *Client) Colors(ctx context.Context) ([]Color, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "colors/", nil)
	if err != nil {
		return nil, err
	}
	var out []Color
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submit posts the coloring form as multipart data, the way a browser
// FormData submission does.
func (c *Client) Submit(ctx context.Context, in SubmitRequest) (*SubmitResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{FieldUlosType, in.UlosType},
		{FieldColors, strings.Join(in.Colors, ",")},
		{FieldMotif, in.MotifID},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("client: encode form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("client: encode form: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "pewarnaan/", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	var out SubmitResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress fetches the state of a coloring job.
func (c *Client) Progress(ctx context.Context, taskID string) (*domain.JobProgress, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "pewarnaan/progress/"+url.PathEscape(taskID)+"/", nil)
	if err != nil {
		return nil, err
	}
	var out domain.JobProgress
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches the result archive of a completed job.
func (c *Client) Download(ctx context.Context, taskID string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "pewarnaan/"+url.PathEscape(taskID)+"/download.zip", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readHTTPError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read archive: %w", err)
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, ref string, body io.Reader) (*http.Request, error) {
	u, err := c.baseURL.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("client: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.locale != "" {
		req.Header.Set("X-Locale", c.locale)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func readHTTPError(resp *http.Response) error {
	herr := &HTTPError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		herr.Message = strings.TrimSpace(payload.Error)
	}
	return herr
}
