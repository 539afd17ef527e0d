package api

import (
	"case-map-service/internal/api/handlers"
	"case-map-service/internal/domain"
	"case-map-service/internal/platform/metrics"
	"case-map-service/internal/ports"
	"net/http"
)

// RouterOptions carries the defaults applied when a request does not override them.
type RouterOptions struct {
	Title  string
	Policy domain.MissingFieldPolicy
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(source ports.CaseSource, atlas ports.AtlasProvider, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	vizHandler := &handlers.VisualizationHandler{
		Source:        source,
		DefaultTitle:  opts.Title,
		DefaultPolicy: opts.Policy,
		AtlasURL:      "/atlas.json",
	}
	atlasHandler := &handlers.AtlasHandler{Provider: atlas}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/records", vizHandler.Records)
	mux.HandleFunc("/api/visualization", vizHandler.Payload)
	mux.HandleFunc("/api/render-spec", vizHandler.Spec)
	mux.HandleFunc("/map", vizHandler.Page)
	mux.HandleFunc("/atlas.json", atlasHandler.Get)
	mux.Handle("/metrics", metrics.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
