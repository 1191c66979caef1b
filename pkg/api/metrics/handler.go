// Package metrics serves the dashboard, aggregate, highlights and report views over HTTP.
package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"tenderflow/pkg/core/cashflow"
	"tenderflow/pkg/core/currency"
	coremetrics "tenderflow/pkg/core/metrics"
	"tenderflow/pkg/core/report"
	"tenderflow/pkg/core/store"
	"tenderflow/pkg/models"
)

// errBadRequest marks caller mistakes.
var errBadRequest = errors.New("bad request")

// Handler holds dependencies for the metrics endpoints.
type Handler struct {
	Loader  store.SnapshotLoader
	Options coremetrics.Options
	Log     zerolog.Logger
	Now     func() time.Time
}

// NewHandler creates a handler. opts carries the currency configuration
// applied to every request; AsOf is set per request.
func NewHandler(loader store.SnapshotLoader, opts coremetrics.Options, log zerolog.Logger) *Handler {
	return &Handler{Loader: loader, Options: opts, Log: log, Now: time.Now}
}

// Routes returns a chi.Router with every endpoint and middleware mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", h.HandleHealth)
	r.Route("/api/workspaces/{workspace}", func(r chi.Router) {
		r.Get("/dashboard", h.HandleDashboard)
		r.Get("/aggregate", h.HandleAggregate)
		r.Get("/highlights", h.HandleHighlights)
		r.Get("/report", h.HandleReport)
	})
	r.Post("/api/metrics/dashboard", h.HandleDashboardFromBody)
	return r
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, opts, err := h.load(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	dash, err := coremetrics.SelectDashboardMetrics(coremetrics.DashboardInputFrom(snap), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	snap, opts, err := h.load(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	agg, err := coremetrics.SelectAggregatedFinancialMetrics(coremetrics.AggregateInputFrom(snap), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

func (h *Handler) HandleHighlights(w http.ResponseWriter, r *http.Request) {
	snap, _, err := h.load(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coremetrics.SelectFinancialHighlights(coremetrics.HighlightInputFrom(snap)))
}

// HandleReport renders the dashboard as md, html (default) or xlsx.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "md" && format != "xlsx" {
		h.fail(w, r, fmt.Errorf("%w: unknown format %q", errBadRequest, format))
		return
	}

	snap, opts, err := h.load(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	dash, err := coremetrics.SelectDashboardMetrics(coremetrics.DashboardInputFrom(snap), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	title := fmt.Sprintf("%s dashboard", snap.Workspace)

	switch format {
	case "xlsx":
		agg, err := coremetrics.SelectAggregatedFinancialMetrics(coremetrics.AggregateInputFrom(snap), opts)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		f, err := report.Workbook(dash, agg)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		defer f.Close()
		var buf bytes.Buffer
		if _, err := f.WriteTo(&buf); err != nil {
			h.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-dashboard.xlsx"`, snap.Workspace))
		w.Write(buf.Bytes())
	case "md":
		md := report.Markdown(title, dash, coremetrics.SelectFinancialHighlights(coremetrics.HighlightInputFrom(snap)))
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
	default:
		md := report.Markdown(title, dash, coremetrics.SelectFinancialHighlights(coremetrics.HighlightInputFrom(snap)))
		page, err := report.HTML(title, md)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}
}

// DashboardRequest is the body of POST /api/metrics/dashboard. Currency
// fields left empty fall back to the server configuration.
type DashboardRequest struct {
	Snapshot                models.Snapshot    `json:"snapshot"`
	AsOf                    *time.Time         `json:"asOf"`
	StartingBalanceFallback float64            `json:"startingBalanceFallback"`
	BaseCurrency            string             `json:"baseCurrency"`
	CurrencyRates           map[string]float64 `json:"currencyRates"`
	CurrencyTimestamp       *string            `json:"currencyTimestamp"`
	StrictCurrency          *bool              `json:"strictCurrency"`
}

// HandleDashboardFromBody computes a dashboard from records supplied by the caller.
func (h *Handler) HandleDashboardFromBody(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err))
		return
	}

	opts := h.Options
	opts.AsOf = req.AsOf
	if opts.AsOf == nil {
		now := h.Now()
		opts.AsOf = &now
	}
	opts.StartingBalanceFallback = req.StartingBalanceFallback
	if req.BaseCurrency != "" {
		opts.BaseCurrency = req.BaseCurrency
	}
	if req.CurrencyRates != nil {
		opts.CurrencyRates = req.CurrencyRates
		opts.CurrencyTimestamp = req.CurrencyTimestamp
	}
	if req.StrictCurrency != nil {
		opts.StrictCurrency = *req.StrictCurrency
	}
	opts.Logger = h.requestLogger(r)

	dash, err := coremetrics.SelectDashboardMetrics(coremetrics.DashboardInputFrom(&req.Snapshot), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// load fetches the workspace snapshot and builds per-request options.
func (h *Handler) load(r *http.Request) (*models.Snapshot, coremetrics.Options, error) {
	opts := h.Options
	asOf := h.Now()
	if v := r.URL.Query().Get("asOf"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, opts, fmt.Errorf("%w: asOf must be RFC 3339: %v", errBadRequest, err)
		}
		asOf = parsed
	}
	opts.AsOf = &asOf
	opts.Logger = h.requestLogger(r)

	workspace := chi.URLParam(r, "workspace")
	snap, err := h.Loader.Load(r.Context(), workspace)
	if err != nil {
		return nil, opts, err
	}
	if snap.Workspace == "" {
		snap.Workspace = workspace
	}
	return snap, opts, nil
}

func (h *Handler) requestLogger(r *http.Request) *zerolog.Logger {
	l := h.Log.With().Str("request_id", RequestIDFrom(r.Context())).Logger()
	return &l
}

// statusFor maps engine and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, currency.ErrMissingRate), errors.Is(err, cashflow.ErrMissingID):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := RequestIDFrom(r.Context())
	evt := h.Log.Warn()
	if status >= http.StatusInternalServerError {
		evt = h.Log.Error()
	}
	evt.Err(err).Str("request_id", id).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error(), "requestId": id})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
