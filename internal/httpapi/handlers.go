package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"claim-fraud-alerts/internal/claims"
	"claim-fraud-alerts/internal/export"
	"claim-fraud-alerts/internal/scan"
)

// Handler holds dependencies for the JSON boundary.
type Handler struct {
	engine *scan.Engine
	logger zerolog.Logger
}

// NewHandler wires the scan engine into the HTTP handlers.
func NewHandler(engine *scan.Engine, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With().Str("component", "httpapi").Logger(),
	}
}

// Routes registers all endpoints on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /api/scan", h.Scan)
	mux.HandleFunc("GET /api/providers/{id}/alerts", h.ProviderAlerts)
	mux.HandleFunc("GET /api/stats", h.Stats)
	mux.HandleFunc("GET /api/export.csv", h.ExportCSV)
	return mux
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Scan runs a full scan with optional threshold/limit overrides.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	params, ok := h.scanParams(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Run(r.Context(), params)
	if err != nil {
		h.writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"alerts":            result.Alerts,
		"total_alerts":      result.TotalAlertCount,
		"flagged_providers": result.FlaggedProviderCount(),
	})
}

// ProviderAlerts returns the scan subset for one provider.
func (h *Handler) ProviderAlerts(w http.ResponseWriter, r *http.Request) {
	providerID := strings.TrimSpace(r.PathValue("id"))
	if providerID == "" {
		writeError(w, http.StatusBadRequest, "provider id is required")
		return
	}
	params, ok := h.scanParams(w, r)
	if !ok {
		return
	}

	alerts, err := h.engine.ProviderAlerts(r.Context(), providerID, params)
	if err != nil {
		h.writeScanError(w, err)
		return
	}
	if alerts == nil {
		alerts = []scan.FraudAlert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"provider_id": providerID,
		"alerts":      alerts,
	})
}

// Stats returns the dashboard aggregate counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	params, ok := h.scanParams(w, r)
	if !ok {
		return
	}

	counts, err := h.engine.Counts(r.Context(), params)
	if err != nil {
		h.writeScanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// ExportCSV streams the delimited alert export.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	params, ok := h.scanParams(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Run(r.Context(), params)
	if err != nil {
		h.writeScanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="fraud_alerts.csv"`)
	_, _ = w.Write([]byte(export.AlertsCSV(result.Alerts)))
}

// scanParams parses optional ?threshold= and ?limit= overrides. Values
// are passed through as given; range policy lives with the UI, but a
// value that is not a number at all is a transport error.
func (h *Handler) scanParams(w http.ResponseWriter, r *http.Request) (scan.Params, bool) {
	var params scan.Params

	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "threshold must be numeric")
			return params, false
		}
		params.ThresholdPct = &threshold
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return params, false
		}
		params.Limit = &limit
	}
	return params, true
}

func (h *Handler) writeScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, claims.ErrSourceUnavailable) {
		h.logger.Error().Err(err).Msg("claim source unavailable")
		writeError(w, http.StatusServiceUnavailable, "claim source unavailable")
		return
	}
	h.logger.Error().Err(err).Msg("scan failed")
	writeError(w, http.StatusInternalServerError, "scan failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
