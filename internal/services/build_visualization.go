package services

import (
	"case-map-service/internal/domain"
	"case-map-service/internal/platform/metrics"
	"case-map-service/internal/platform/obs"
	"case-map-service/internal/ports"
	"case-map-service/internal/visual"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type BuildVisualizationRequest struct {
	Title    string
	Policy   domain.MissingFieldPolicy
	AtlasURL string
}

// Payload is the data object handed to the render host.
type Payload struct {
	Data  []domain.DisplayRecord `json:"data"`
	Title string                 `json:"title"`
}

type Visualization struct {
	Payload  Payload
	Spec     visual.RenderSpec
	Rejected []*domain.RecordError
	Total    int
}

// BuildVisualization reads raw records from source, transforms them and
// configures the map. Records rejected under the skip policy are reported,
// not fatal.
func BuildVisualization(
	ctx context.Context,
	req BuildVisualizationRequest,
	source ports.CaseSource,
) (_ *Visualization, err error) {
	defer obs.Time(ctx, "services.BuildVisualization")(&err)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RendersTotal.WithLabelValues(outcome).Inc()
	}()

	if source == nil {
		return nil, errors.New("build visualization: source is nil")
	}

	raw, err := source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("build visualization: %w", err)
	}

	res, err := domain.Transform(raw, req.Policy)
	if err != nil {
		return nil, fmt.Errorf("build visualization: %w", err)
	}

	spec, err := visual.Configure(res.Records, req.Title)
	if err != nil {
		return nil, fmt.Errorf("build visualization: %w", err)
	}
	if req.AtlasURL != "" {
		spec.Atlas.URL = req.AtlasURL
	}

	if n := len(res.Rejected); n > 0 {
		metrics.RecordsRejectedTotal.Add(float64(n))
		zap.L().Warn("skipped incomplete case records",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.Int("rejected", n),
			zap.Int("total", len(raw)),
			zap.String("first", res.Rejected[0].Error()),
		)
	}

	return &Visualization{
		Payload:  Payload{Data: res.Records, Title: spec.Title},
		Spec:     spec,
		Rejected: res.Rejected,
		Total:    len(raw),
	}, nil
}
