package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL, Locale: "id"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

func TestGetMotifsQueriesFabricType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_motifs/" || r.URL.Query().Get("jenis_ulos") != "sadum" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("X-Locale") != "id" {
			t.Errorf("X-Locale = %q", r.Header.Get("X-Locale"))
		}
		_, _ = w.Write([]byte(`[{"id":"1","src":"http://x/static/img/motifs/sadum/1.png"}]`))
	})
	motifs, err := c.GetMotifs(context.Background(), "sadum")
	if err != nil {
		t.Fatalf("GetMotifs returned error: %v", err)
	}
	if len(motifs) != 1 || motifs[0].ID != "1" {
		t.Fatalf("motifs = %+v", motifs)
	}
}

func TestSubmitSendsMultipartForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/pewarnaan/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			t.Errorf("missing X-Requested-With header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue(FieldColors); got != "C001,C002" {
			t.Errorf("selectedColors = %q", got)
		}
		if r.FormValue(FieldUlosType) != "puca" || r.FormValue(FieldMotif) != "3" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"task_id":"abc"}`))
	})
	resp, err := c.Submit(context.Background(), SubmitRequest{UlosType: "puca", Colors: []string{"C001", "C002"}, MotifID: "3"})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if resp.TaskID != "abc" {
		t.Fatalf("TaskID = %q", resp.TaskID)
	}
}

func TestNon2xxReturnsHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Harap pilih motif."}`))
	})
	_, err := c.Submit(context.Background(), SubmitRequest{UlosType: "puca"})
	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if herr.Status != http.StatusBadRequest || herr.Message != "Harap pilih motif." {
		t.Fatalf("HTTPError = %+v", herr)
	}
}

func TestNon2xxWithoutJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := c.Progress(context.Background(), "abc")
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.Message != "" || herr.Status != http.StatusBadGateway {
		t.Fatalf("err = %#v", err)
	}
}

func TestProgressDecodesPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pewarnaan/progress/abc/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"progress":100,"status":"Completed","colored_image_url":"out.png","used_colors":[{"code":"C001","hex_color":"#000000"}]}`))
	})
	p, err := c.Progress(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Progress returned error: %v", err)
	}
	if p.Progress != 100 || p.Status != "Completed" || len(p.UsedColors) != 1 {
		t.Fatalf("progress = %+v", p)
	}
}

func TestTransportErrorIsNotHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c, err := New(Options{BaseURL: url})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = c.Progress(context.Background(), "abc")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var herr *HTTPError
	if errors.As(err, &herr) {
		t.Fatalf("transport failure reported as HTTPError: %v", err)
	}
}

func TestResolveStatic(t *testing.T) {
	c, err := New(Options{BaseURL: "http://localhost:8080/"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := c.ResolveStatic("ColoringFile/output/a.png"); got != "http://localhost:8080/static/ColoringFile/output/a.png" {
		t.Fatalf("ResolveStatic = %q", got)
	}
	if _, err := New(Options{BaseURL: "ftp://x"}); err == nil || !strings.Contains(err.Error(), "scheme") {
		t.Fatalf("expected scheme error, got %v", err)
	}
}
