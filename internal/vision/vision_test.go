package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/polyglot/internal/llm"
	"github.com/abhisek/polyglot/internal/store"
)

// 1x1 PNG header bytes are enough for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/smile.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngBytes)
	})
	mux.HandleFunc("/typed.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg; charset=binary")
		w.Write([]byte("not really a jpeg"))
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>hi</body></html>"))
	})
	mux.HandleFunc("/huge.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
		w.Write(bytes.Repeat([]byte{0}, 64))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetch(t *testing.T) {
	server := imageServer(t)
	f := NewFetcher(server.Client())

	img, err := f.Fetch(context.Background(), server.URL+"/smile.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
	if !bytes.Equal(img.Data, pngBytes) {
		t.Error("data mismatch")
	}

	img, err = f.Fetch(context.Background(), server.URL+"/typed.jpg")
	if err != nil {
		t.Fatalf("Fetch typed: %v", err)
	}
	if img.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", img.MIMEType)
	}
}

func TestFetch_Errors(t *testing.T) {
	server := imageServer(t)
	f := NewFetcher(server.Client())
	f.maxBytes = int64(len(pngBytes) + 10)

	tests := []struct {
		name string
		url  string
	}{
		{"not found", server.URL + "/missing.png"},
		{"html", server.URL + "/page.html"},
		{"too large", server.URL + "/huge.png"},
		{"bad scheme", "ftp://example.com/a.png"},
		{"not a url", "teeth please"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			if !errors.Is(err, ErrFetch) {
				t.Errorf("err = %v, want ErrFetch", err)
			}
		})
	}
}

func newTestClassifier(t *testing.T, server *httptest.Server, responses ...llm.MockResponse) (*Classifier, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	c := NewClassifier(mock, NewFetcher(server.Client()), DefaultClassifierConfig(), nil)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c, mock
}

func TestClassifier_Analyze(t *testing.T) {
	server := imageServer(t)
	c, mock := newTestClassifier(t, server, llm.MockResponse{
		Content: json.RawMessage(`{"description":"A wide smile showing upper teeth","is_teeth":true,"confidence_score":0.93}`),
	})

	result, err := c.Analyze(context.Background(), "  "+server.URL+"/smile.png ")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.IsTeeth {
		t.Error("expected IsTeeth")
	}
	if result.ConfidencePercent() != 93 {
		t.Errorf("confidence = %d%%, want 93%%", result.ConfidencePercent())
	}
	if result.ImageURL != server.URL+"/smile.png" {
		t.Errorf("ImageURL = %q", result.ImageURL)
	}
	if result.Verdict() != "Teeth detected" {
		t.Errorf("Verdict = %q", result.Verdict())
	}
	if !result.Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", result.Timestamp)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != DetectionSchema {
		t.Error("expected detection schema")
	}
	msg := req.Messages[0]
	if msg.Content != detectionPrompt {
		t.Errorf("prompt = %q", msg.Content)
	}
	if len(msg.Images) != 1 || msg.Images[0].MIMEType != "image/png" {
		t.Errorf("images = %+v", msg.Images)
	}
}

func TestClassifier_FetchFailureSkipsModel(t *testing.T) {
	server := imageServer(t)
	c, mock := newTestClassifier(t, server)

	_, err := c.Analyze(context.Background(), server.URL+"/page.html")
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("model called %d times", mock.CallCount())
	}
	if got := Message(err); got == "" {
		t.Error("expected user message")
	}
}

func TestClassifier_NoResponse(t *testing.T) {
	server := imageServer(t)
	c, _ := newTestClassifier(t, server,
		llm.MockResponse{Content: nil},
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: llm.ErrEmptyResponse}},
	)

	for i := range 2 {
		_, err := c.Analyze(context.Background(), server.URL+"/smile.png")
		if !errors.Is(err, ErrNoResponse) {
			t.Errorf("call %d: err = %v, want ErrNoResponse", i, err)
		}
	}
	if Message(ErrNoResponse) != "No response from AI model." {
		t.Errorf("Message = %q", Message(ErrNoResponse))
	}
}

func TestClassifier_ProviderError(t *testing.T) {
	server := imageServer(t)
	c, _ := newTestClassifier(t, server, llm.MockResponse{Err: &llm.ErrAuth{Err: errors.New("401")}})

	_, err := c.Analyze(context.Background(), server.URL+"/smile.png")
	var auth *llm.ErrAuth
	if !errors.As(err, &auth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
	if Message(err) != "The AI provider rejected the API key. Check your configuration." {
		t.Errorf("Message = %q", Message(err))
	}
}

func openTestKV(t *testing.T) store.KVRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.KVRepo()
}

func result(url string) Result {
	return Result{ImageURL: url, Description: "d", Confidence: 0.5}
}

func TestHistory_BoundedNewestFirst(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistory(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 7 {
		if err := h.Add(ctx, result(fmt.Sprintf("https://img/%d.png", i))); err != nil {
			t.Fatal(err)
		}
	}

	entries := h.Entries()
	if len(entries) != MaxHistory {
		t.Fatalf("len = %d, want %d", len(entries), MaxHistory)
	}
	if entries[0].ImageURL != "https://img/6.png" {
		t.Errorf("newest = %q", entries[0].ImageURL)
	}
	if entries[4].ImageURL != "https://img/2.png" {
		t.Errorf("oldest = %q", entries[4].ImageURL)
	}
}

func TestHistory_DedupByURL(t *testing.T) {
	ctx := context.Background()
	h, _ := LoadHistory(ctx, nil)

	h.Add(ctx, result("a"))
	h.Add(ctx, result("b"))
	again := result("a")
	again.IsTeeth = true
	h.Add(ctx, again)

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ImageURL != "a" || !entries[0].IsTeeth {
		t.Errorf("first = %+v, want refreshed a", entries[0])
	}
	if entries[1].ImageURL != "b" {
		t.Errorf("second = %q, want b", entries[1].ImageURL)
	}
}

func TestHistory_Persists(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	h, err := LoadHistory(ctx, kv)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Entries()) != 0 {
		t.Fatal("expected empty history")
	}
	h.Add(ctx, result("x"))
	h.Add(ctx, result("y"))

	reloaded, err := LoadHistory(ctx, kv)
	if err != nil {
		t.Fatal(err)
	}
	entries := reloaded.Entries()
	if len(entries) != 2 || entries[0].ImageURL != "y" {
		t.Fatalf("reloaded = %+v", entries)
	}

	if err := reloaded.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	again, _ := LoadHistory(ctx, kv)
	if len(again.Entries()) != 0 {
		t.Error("expected history cleared")
	}
}

func TestLoadHistory_Corrupt(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)
	kv.Put(ctx, historyNamespace, historyKey, []byte("{not json"))

	if _, err := LoadHistory(ctx, kv); err == nil {
		t.Fatal("expected decode error")
	}
}
