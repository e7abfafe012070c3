package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"fricu/internal/analysis"
	"fricu/internal/auth"
	"fricu/internal/service"
	"fricu/internal/store"
)

const (
	dataPrefix     = "/v1/data/"
	analysisPrefix = "/v1/analysis/"
)

// Handler coordinates HTTP requests with the sync and query services
type Handler struct {
	sync          *service.SyncService
	query         *service.QueryService
	defaultWindow analysis.Window
}

// RegisterRoutes wires endpoints to the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", health)
	mux.HandleFunc(dataPrefix, h.data)
	mux.HandleFunc(analysisPrefix, h.analysis)
	mux.HandleFunc("/", notFound)
}

func health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (h *Handler) data(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, dataPrefix)
	if !store.IsValidKey(key) {
		writeError(w, http.StatusNotFound, "unknown key")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getData(w, r, key)
	case http.MethodPut:
		h.putData(w, r, key)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) getData(w http.ResponseWriter, r *http.Request, key string) {
	doc, err := h.sync.Get(r.Context(), key)
	if err != nil {
		h.storeError(w, r, key, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) putData(w http.ResponseWriter, r *http.Request, key string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "invalid content length")
			return
		}
		writeError(w, http.StatusBadRequest, "unable to read body")
		return
	}

	var subject string
	if claims, ok := auth.FromContext(r.Context()); ok {
		subject = claims.Subject
	}
	if err := h.sync.Put(r.Context(), key, body, subject); err != nil {
		h.storeError(w, r, key, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, key string, err error) {
	switch {
	case errors.Is(err, store.ErrUnknownKey):
		writeError(w, http.StatusNotFound, "unknown key")
	case errors.Is(err, store.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, "invalid json payload")
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("key", key).Msg("store request failed")
		writeError(w, http.StatusInternalServerError, "database error")
	}
}

func (h *Handler) analysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view := strings.TrimPrefix(r.URL.Path, analysisPrefix)
	switch view {
	case "report", "pmc", "zones", "distribution", "summary":
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	query, err := h.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.query.Report(r.Context(), query)
	if errors.Is(err, store.ErrMalformedDocument) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("view", view).Msg("computing report failed")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	switch view {
	case "report":
		writeJSON(w, http.StatusOK, report)
	case "pmc":
		writeJSON(w, http.StatusOK, toPMCView(report))
	case "zones":
		writeJSON(w, http.StatusOK, report.Intensity)
	case "distribution":
		writeJSON(w, http.StatusOK, DistributionView{Mix: report.Intensity.Mix, Matches: report.Distribution})
	case "summary":
		writeJSON(w, http.StatusOK, report.Summary)
	}
}

// parseQuery reads window, sport and as_of query parameters
func (h *Handler) parseQuery(r *http.Request) (analysis.Query, error) {
	params := r.URL.Query()
	query := analysis.Query{Window: h.defaultWindow}

	if raw := params.Get("window"); raw != "" {
		w, err := analysis.ParseWindow(raw)
		if err != nil {
			return analysis.Query{}, err
		}
		query.Window = w
	}

	if raw := params.Get("sport"); raw != "" {
		sport := store.Sport(strings.ToLower(raw))
		if !sport.IsKnown() {
			return analysis.Query{}, errors.New("unknown sport " + raw)
		}
		query.Sport = sport
	}

	if raw := params.Get("as_of"); raw != "" {
		asOf, err := time.ParseInLocation(service.DateLayout, raw, h.query.Location())
		if err != nil {
			return analysis.Query{}, errors.New("as_of must be YYYY-MM-DD")
		}
		query.AsOf = asOf
	}
	return query, nil
}

// PMCView is the load series response
type PMCView struct {
	Window  string                    `json:"window"`
	From    time.Time                 `json:"from"`
	To      time.Time                 `json:"to"`
	Current analysis.DailyLoadPoint   `json:"current"`
	Form    string                    `json:"form"`
	Load    []analysis.DailyLoadPoint `json:"load"`
}

func toPMCView(r *analysis.Report) PMCView {
	return PMCView{
		Window:  r.Window,
		From:    r.From,
		To:      r.To,
		Current: r.Current,
		Form:    r.Form,
		Load:    r.Load,
	}
}

// DistributionView is the template match response
type DistributionView struct {
	Mix     analysis.IntensityMix    `json:"mix"`
	Matches []analysis.TemplateMatch `json:"matches"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
