package reports

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/report-atlas/pkg/metrics"
	"github.com/de-tools/report-atlas/pkg/models/api"
	"github.com/de-tools/report-atlas/pkg/reports"
	"github.com/de-tools/report-atlas/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	service  reports.Service
	sessions session.Manager
	metrics  *metrics.Metrics
}

func NewHandler(service reports.Service, sessions session.Manager, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		metrics:  m,
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	infos := h.service.Reports()
	response := make([]api.Report, 0, len(infos))
	for _, info := range infos {
		response = append(response, api.Report{Name: info.Name, Title: info.Title, Endpoint: info.Endpoint})
	}

	writeJSON(w, http.StatusOK, response, logger)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report := chi.URLParam(r, "report")

	sess, created := h.sessions.Get(r.Header.Get(api.SessionHeader))
	if created {
		h.metrics.ActiveSessions.Set(float64(h.sessions.Len()))
	}
	w.Header().Set(api.SessionHeader, sess.ID)

	logger := zerolog.Ctx(ctx).With().Str("session", sess.ID).Logger()
	ctx = logger.WithContext(ctx)

	view, err := h.service.Render(ctx, sess, report, r.URL.Query())
	if err != nil {
		writeError(w, err, &logger)
		return
	}

	writeJSON(w, http.StatusOK, api.ReportView{Session: sess.ID, View: view}, &logger)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "session"))
	h.metrics.ActiveSessions.Set(float64(h.sessions.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error, logger *zerolog.Logger) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, reports.ErrUnknownReport):
		status, code = http.StatusNotFound, "unknown_report"
	case errors.Is(err, reports.ErrInvalidParams):
		status, code = http.StatusBadRequest, "invalid_params"
	case errors.Is(err, reports.ErrMalformedPayload):
		status, code = http.StatusBadGateway, "malformed_payload"
	case errors.Is(err, reports.ErrUpstream):
		status, code = http.StatusBadGateway, "upstream_unavailable"
	}
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("failed to render report")
	}
	writeJSON(w, status, api.Error{Error: code, Message: err.Error()}, logger)
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode response")
	}
}
