package handlers

import (
	"case-map-service/internal/api/dto"
	"case-map-service/internal/domain"
	"case-map-service/internal/ports"
	"case-map-service/internal/services"
	"case-map-service/internal/visual"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// VisualizationHandler serves the transformed records, the render payload
// and the rendered map page.
type VisualizationHandler struct {
	Source        ports.CaseSource
	DefaultTitle  string
	DefaultPolicy domain.MissingFieldPolicy
	AtlasURL      string
}

// Records returns display records plus a report of skipped inputs.
func (h *VisualizationHandler) Records(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}

	res := dto.ListRecordsResponse{
		Records:  v.Payload.Data,
		Rejected: make([]dto.RejectedRecordResponse, 0, len(v.Rejected)),
		Total:    v.Total,
	}
	for _, re := range v.Rejected {
		res.Rejected = append(res.Rejected, dto.RejectedRecordResponse{
			Index:  re.Index,
			Field:  re.Field,
			Reason: re.Unwrap().Error(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Payload returns the {data, title} object handed to the render host.
func (h *VisualizationHandler) Payload(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, v.Payload)
}

// Spec returns the full render spec.
func (h *VisualizationHandler) Spec(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, v.Spec)
}

// Page renders the interactive map.
func (h *VisualizationHandler) Page(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := visual.RenderPage(w, v.Spec); err != nil {
		zap.L().Error("render page failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (h *VisualizationHandler) build(w http.ResponseWriter, r *http.Request) (*services.Visualization, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}

	q := r.URL.Query()

	title := strings.TrimSpace(q.Get("title"))
	if title == "" {
		title = h.DefaultTitle
	}

	policy := h.DefaultPolicy
	if p := q.Get("policy"); p != "" {
		parsed, err := domain.ParsePolicy(p)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "policy must be skip or abort")
			return nil, false
		}
		policy = parsed
	}

	req := services.BuildVisualizationRequest{Title: title, Policy: policy, AtlasURL: h.AtlasURL}
	v, err := services.BuildVisualization(r.Context(), req, h.Source)
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, ports.ErrSourceUnavailable):
		zap.L().Warn("case source unavailable", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "case data source unavailable")
	case errors.Is(err, domain.ErrMissingField), errors.Is(err, domain.ErrMalformedField):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, visual.ErrInvalidRecord):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		zap.L().Error("build visualization failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
	return nil, false
}
