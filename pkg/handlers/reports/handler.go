package reports

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wc-tools/camp-reports/pkg/models/api"
	"github.com/wc-tools/camp-reports/pkg/reports"
)

// Handler exposes the report registry over HTTP.
type Handler struct {
	registry reports.Registry
}

func NewHandler(registry reports.Registry) *Handler {
	return &Handler{registry: registry}
}

// ListReports returns the metadata of every registered report.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	metas := h.registry.List()

	response := make([]api.ReportMeta, 0, len(metas))
	for _, m := range metas {
		response = append(response, api.ReportMeta{
			Slug:        m.Slug,
			Name:        m.Name,
			Description: m.Description,
			Group:       m.Group,
		})
	}
	writeJSON(w, r, http.StatusOK, response)
}

// RunReport executes one report for the requested date window.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "report")

	report, err := h.registry.Get(slug)
	if err != nil {
		writeJSON(w, r, http.StatusNotFound, api.RunResponse{
			Report: slug,
			Errors: []api.ReportError{{Code: "unknown_report", Message: err.Error()}},
		})
		return
	}

	req := requestFromQuery(r)
	data, errs := report.Run(ctx, req)

	response := api.RunResponse{
		Report:    slug,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Data:      data,
	}
	status := http.StatusOK
	if errs.HasErrors() {
		for _, e := range errs.Errors() {
			response.Errors = append(response.Errors, api.ReportError{Code: e.Code, Message: e.Message})
		}
		response.Data = nil
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, r, status, response)
}

func requestFromQuery(r *http.Request) reports.Request {
	q := r.URL.Query()
	scopeID, _ := strconv.ParseInt(q.Get("camp_id"), 10, 64)
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	return reports.Request{
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
		ScopeID:      scopeID,
		Status:       q.Get("status"),
		CacheEnabled: true,
		FlushCache:   refresh,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
