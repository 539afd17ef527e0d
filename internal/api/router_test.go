package api

import (
	"case-map-service/internal/adapters/cases"
	"case-map-service/internal/adapters/upstream"
	"case-map-service/internal/domain"
	"case-map-service/internal/ports"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAtlas struct {
	atlas ports.Atlas
	err   error
}

func (s stubAtlas) Fetch(ctx context.Context) (ports.Atlas, error) { return s.atlas, s.err }

func newTestRouter(source ports.CaseSource, atlas ports.AtlasProvider) http.Handler {
	return NewRouter(source, atlas, RouterOptions{Title: "Default title", Policy: domain.PolicySkip})
}

func sampleSource() ports.CaseSource {
	return cases.NewStaticSource(
		domain.NewRawRecord(10, 20, 16000),
		domain.RawRecord{Coordinates: &domain.Coordinates{Latitude: domain.Deg(1), Longitude: domain.Deg(2)}},
	)
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(sampleSource(), stubAtlas{}), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(sampleSource(), stubAtlas{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestVisualizationPayload(t *testing.T) {
	rec := do(t, newTestRouter(sampleSource(), stubAtlas{}), http.MethodGet, "/api/visualization")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":[{"lat":10,"long":20,"circleSize":2,"color":"#F8DBEF"}],"title":"Default title"}`,
		rec.Body.String(),
	)
}

func TestRecordsReportsRejected(t *testing.T) {
	rec := do(t, newTestRouter(sampleSource(), stubAtlas{}), http.MethodGet, "/api/records")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Records  []map[string]any `json:"records"`
		Rejected []struct {
			Index int    `json:"index"`
			Field string `json:"field"`
		} `json:"rejected"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Len(t, body.Records, 1)
	assert.Equal(t, 2, body.Total)
	require.Len(t, body.Rejected, 1)
	assert.Equal(t, 1, body.Rejected[0].Index)
	assert.Equal(t, "stats", body.Rejected[0].Field)
}

func TestAbortPolicyQuery(t *testing.T) {
	h := newTestRouter(sampleSource(), stubAtlas{})

	rec := do(t, h, http.MethodGet, "/api/visualization?policy=abort")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/visualization?policy=guess")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderSpecTitleOverride(t *testing.T) {
	rec := do(t, newTestRouter(sampleSource(), stubAtlas{}), http.MethodGet, "/api/render-spec?title=Weekly")
	require.Equal(t, http.StatusOK, rec.Code)

	var spec struct {
		Title string `json:"title"`
		Atlas struct {
			URL string `json:"url"`
		} `json:"atlas"`
		Markers []map[string]any `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "Weekly", spec.Title)
	assert.Equal(t, "/atlas.json", spec.Atlas.URL)
	assert.Len(t, spec.Markers, 1)
}

func TestMapPage(t *testing.T) {
	rec := do(t, newTestRouter(sampleSource(), stubAtlas{}), http.MethodGet, "/map")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "Default title")
}

func TestSourceUnavailable(t *testing.T) {
	source := cases.NewFailingSource(fmt.Errorf("%w: timeout", ports.ErrSourceUnavailable))
	rec := do(t, newTestRouter(source, stubAtlas{}), http.MethodGet, "/map")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"case data source unavailable"}`, rec.Body.String())
}

func TestAtlas(t *testing.T) {
	data := []byte(`{"type":"Topology"}`)
	atlas := stubAtlas{atlas: ports.Atlas{Source: "u", Data: data, FetchedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}}

	rec := do(t, newTestRouter(sampleSource(), atlas), http.MethodGet, "/atlas.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(data), rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Thu, 01 Jan 2026 00:00:00 GMT", rec.Header().Get("Last-Modified"))
}

func TestAtlasUnavailable(t *testing.T) {
	atlas := stubAtlas{err: fmt.Errorf("%w: dial tcp", ports.ErrAtlasUnavailable)}

	rec := do(t, newTestRouter(sampleSource(), atlas), http.MethodGet, "/atlas.json")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(sampleSource(), stubAtlas{})

	for _, path := range []string{"/health", "/api/records", "/api/visualization", "/map", "/atlas.json"} {
		rec := do(t, h, http.MethodPost, path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
		assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"), path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(sampleSource(), stubAtlas{})
	do(t, h, http.MethodGet, "/health")

	rec := do(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "casemap_http_requests_total")
}

func upstreamSource(t *testing.T, body string) ports.CaseSource {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	src, err := cases.NewHTTPSource(srv.URL, upstream.New("cases").WithBackoff(time.Millisecond))
	require.NoError(t, err)
	return src
}

func TestMalformedRecordIsSkipped(t *testing.T) {
	good := `{"stats":{"confirmed":16000},"coordinates":{"latitude":"10","longitude":"20"}}`
	bad := []string{
		`{"stats":{"confirmed":3},"coordinates":{"latitude":"n/a","longitude":"20"}}`,
		`{"stats":{"confirmed":12.5},"coordinates":{"latitude":"10","longitude":"20"}}`,
	}

	for _, b := range bad {
		h := newTestRouter(upstreamSource(t, "["+good+","+b+","+good+"]"), stubAtlas{})

		rec := do(t, h, http.MethodGet, "/api/records")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Records  []map[string]any `json:"records"`
			Rejected []struct {
				Index  int    `json:"index"`
				Reason string `json:"reason"`
			} `json:"rejected"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Records, 2)
		require.Len(t, body.Rejected, 1)
		assert.Equal(t, 1, body.Rejected[0].Index)
		assert.Equal(t, "malformed field", body.Rejected[0].Reason)

		rec = do(t, h, http.MethodGet, "/map?policy=abort")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestUpstreamObjectPayloadIsBadGateway(t *testing.T) {
	h := newTestRouter(upstreamSource(t, `{"message":"rate limited"}`), stubAtlas{})

	for _, path := range []string{"/api/records", "/api/visualization", "/map"} {
		rec := do(t, h, http.MethodGet, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
	}
}
