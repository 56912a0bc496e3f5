package collyfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/editalradar/editalradar/internal/opportunity"
)

func TestFetchReturnsPageBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Trace"); got != "yes" {
			t.Errorf("X-Trace header = %q, want yes", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body>Edital 12/2025</body></html>"))
	}))
	defer srv.Close()

	f := New(Config{UserAgent: "test-agent", Timeout: 5 * time.Second})
	resp, err := f.Fetch(context.Background(), opportunity.FetchRequest{
		Source:  "test",
		URL:     srv.URL,
		Headers: http.Header{"X-Trace": {"yes"}},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != "<html><body>Edital 12/2025</body></html>" {
		t.Errorf("unexpected body: %q", resp.Body)
	}
	if resp.UsedHeadless {
		t.Error("plain fetch must not report headless use")
	}
	if resp.Headers.Get("Content-Type") == "" {
		t.Error("response headers were not captured")
	}
}

func TestFetchReportsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{Timeout: 5 * time.Second})
	if _, err := f.Fetch(context.Background(), opportunity.FetchRequest{URL: srv.URL}); err == nil {
		t.Fatal("Fetch() = nil error for 404 response")
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{Timeout: 5 * time.Second})
	if _, err := f.Fetch(ctx, opportunity.FetchRequest{URL: srv.URL}); err == nil {
		t.Fatal("Fetch() = nil error for canceled context")
	}
}
