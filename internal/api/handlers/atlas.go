package handlers

import (
	"case-map-service/internal/ports"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// AtlasHandler serves the base-map TopoJSON from the provider's cache.
type AtlasHandler struct {
	Provider ports.AtlasProvider
}

func (h *AtlasHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	a, err := h.Provider.Fetch(r.Context())
	if err != nil {
		zap.L().Warn("atlas fetch failed", zap.Error(err))
		if errors.Is(err, ports.ErrAtlasUnavailable) {
			writeError(w, r, http.StatusBadGateway, "world atlas unavailable")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	if !a.FetchedAt.IsZero() {
		w.Header().Set("Last-Modified", a.FetchedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		zap.L().Debug("atlas write failed", zap.Error(err))
	}
}
