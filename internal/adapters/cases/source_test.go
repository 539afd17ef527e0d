package cases

import (
	"case-map-service/internal/adapters/upstream"
	"case-map-service/internal/ports"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const samplePayload = `[
	{"country":"Canada","province":"Ontario","updatedAt":"2020-04-01 22:56:45","stats":{"confirmed":16000,"deaths":0,"recovered":0},"coordinates":{"latitude":"51.2538","longitude":"-85.3232"}},
	{"country":"Italy","province":null,"stats":{"confirmed":110574},"coordinates":{"latitude":41.8719,"longitude":12.5674}}
]`

func TestHTTPSourceRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if got := recs[0].Coordinates.Latitude.Value; got != 51.2538 {
		t.Errorf("latitude = %v, want 51.2538", got)
	}
	if got := *recs[1].Stats.Confirmed; got != 110574 {
		t.Errorf("confirmed = %d, want 110574", got)
	}
}

func TestHTTPSourceUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, _ := NewHTTPSource(srv.URL, upstream.New("cases").WithBackoff(time.Millisecond))
	_, err := src.Records(context.Background())
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestHTTPSourceRejectsObjectPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer srv.Close()

	src, _ := NewHTTPSource(srv.URL, nil)
	_, err := src.Records(context.Background())
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestHTTPSourceKeepsMalformedRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"stats":{"confirmed":1},"coordinates":{"latitude":"1","longitude":"2"}},
			{"stats":{"confirmed":1},"coordinates":{"latitude":"n/a","longitude":"2"}}
		]`))
	}))
	defer srv.Close()

	src, _ := NewHTTPSource(srv.URL, nil)
	recs, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Malformed != "" || recs[1].Malformed != "coordinates.latitude" {
		t.Errorf("malformed = %q, %q", recs[0].Malformed, recs[1].Malformed)
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.json")
	if err := os.WriteFile(path, []byte(samplePayload), 0o600); err != nil {
		t.Fatal(err)
	}

	recs, err := NewFileSource(path).Records(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	_, err = NewFileSource(filepath.Join(dir, "missing.json")).Records(context.Background())
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFileSourceRejectsObjectPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	if err := os.WriteFile(path, []byte(`{"message":"not found"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileSource(path).Records(context.Background())
	if !errors.Is(err, ErrBadPayload) || !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrBadPayload wrapped as ErrSourceUnavailable, got %v", err)
	}
}
