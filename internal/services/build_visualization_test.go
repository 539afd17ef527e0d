package services

import (
	"case-map-service/internal/adapters/cases"
	"case-map-service/internal/domain"
	"case-map-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestBuildVisualization(t *testing.T) {
	confirmed := int64(5)
	source := cases.NewStaticSource(
		domain.NewRawRecord(10, 20, 16000),
		domain.RawRecord{Stats: &domain.Stats{Confirmed: &confirmed}},
		domain.NewRawRecord(-1, -2, 0),
	)

	req := BuildVisualizationRequest{Title: "Daily", Policy: domain.PolicySkip, AtlasURL: "/atlas.json"}
	v, err := BuildVisualization(context.Background(), req, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Total != 3 {
		t.Errorf("total = %d, want 3", v.Total)
	}
	if len(v.Payload.Data) != 2 {
		t.Fatalf("expected 2 display records, got %d", len(v.Payload.Data))
	}
	if v.Payload.Title != "Daily" {
		t.Errorf("title = %q, want Daily", v.Payload.Title)
	}
	want := domain.DisplayRecord{Lat: 10, Long: 20, CircleSize: 2, Color: "#F8DBEF"}
	if v.Payload.Data[0] != want {
		t.Errorf("first record = %+v, want %+v", v.Payload.Data[0], want)
	}
	if len(v.Spec.Markers) != 2 {
		t.Errorf("expected 2 markers, got %d", len(v.Spec.Markers))
	}
	if v.Spec.Atlas.URL != "/atlas.json" {
		t.Errorf("atlas url = %q", v.Spec.Atlas.URL)
	}
	if len(v.Rejected) != 1 || v.Rejected[0].Index != 1 || v.Rejected[0].Field != "coordinates" {
		t.Errorf("unexpected rejected records: %+v", v.Rejected)
	}
}

func TestBuildVisualizationAbort(t *testing.T) {
	source := cases.NewStaticSource(domain.NewRawRecord(1, 1, 1), domain.RawRecord{})

	_, err := BuildVisualization(context.Background(), BuildVisualizationRequest{Policy: domain.PolicyAbort}, source)
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestBuildVisualizationSourceFailure(t *testing.T) {
	source := cases.NewFailingSource(fmt.Errorf("%w: connection refused", ports.ErrSourceUnavailable))

	_, err := BuildVisualization(context.Background(), BuildVisualizationRequest{}, source)
	if !errors.Is(err, ports.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestBuildVisualizationFromSavedFeed(t *testing.T) {
	source := cases.NewFileSource("../../testdata/jhucsse_sample.json")

	v, err := BuildVisualization(context.Background(), BuildVisualizationRequest{Policy: domain.PolicySkip}, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Total != 4 || len(v.Payload.Data) != 3 {
		t.Fatalf("expected 3 of 4 records, got %d of %d", len(v.Payload.Data), v.Total)
	}
	if got := v.Payload.Data[0].CircleSize; got != 6 {
		t.Errorf("new york circle size = %v, want 6", got)
	}
	if v.Payload.Title != "Map of COVID-19 confirmed cases daily" {
		t.Errorf("title = %q", v.Payload.Title)
	}
	if len(v.Rejected) != 1 || v.Rejected[0].Field != "coordinates.latitude" {
		t.Errorf("unexpected rejected records: %+v", v.Rejected)
	}
}
