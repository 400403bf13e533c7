package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// maxSuggestBody caps the request body of POST /suggest.
const maxSuggestBody = 1 << 20

// Handlers provides the JSON endpoints of the suggestion server.
type Handlers struct {
	engine  *kql.Engine
	refresh RefreshFunc
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *kql.Engine, refresh RefreshFunc, logger *slog.Logger) *Handlers {
	return &Handlers{
		engine:  engine,
		refresh: refresh,
		logger:  logger,
	}
}

// SuggestRequest is the body of POST /api/v1/suggest. Text is the full
// query fragment up to the cursor.
type SuggestRequest struct {
	Text string `json:"text"`
}

// SuggestResponse carries the completion candidates for one fragment.
type SuggestResponse struct {
	Query       string           `json:"query"`
	Count       int              `json:"count"`
	Suggestions []kql.Suggestion `json:"suggestions"`
}

// TemplatesResponse carries the built-in query template catalog.
type TemplatesResponse struct {
	Count     int            `json:"count"`
	Templates []kql.Template `json:"templates"`
}

// RefreshResponse reports the outcome of a schema reload.
type RefreshResponse struct {
	Source string `json:"source"`
	Tables int    `json:"tables"`
}

// HealthResponse reports liveness and schema state.
type HealthResponse struct {
	Status       string `json:"status"`
	SchemaLoaded bool   `json:"schema_loaded"`
	Tables       int    `json:"tables"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Suggest returns completion candidates for the query text in the body.
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSuggestBody)

	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	suggestions := h.engine.GetSuggestions(req.Text)
	if suggestions == nil {
		suggestions = []kql.Suggestion{}
	}

	writeJSON(w, http.StatusOK, SuggestResponse{
		Query:       req.Text,
		Count:       len(suggestions),
		Suggestions: suggestions,
	})
}

// Templates returns the built-in query template catalog.
func (h *Handlers) Templates(w http.ResponseWriter, _ *http.Request) {
	templates := kql.QueryTemplates()
	writeJSON(w, http.StatusOK, TemplatesResponse{
		Count:     len(templates),
		Templates: templates,
	})
}

// Schema returns the currently loaded schema.
func (h *Handlers) Schema(w http.ResponseWriter, _ *http.Request) {
	schema := h.engine.Registry().Current()
	if schema == nil {
		writeError(w, http.StatusNotFound, "no schema loaded")
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

// RefreshSchema forces a reload of the schema from its configured source.
func (h *Handlers) RefreshSchema(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		writeError(w, http.StatusServiceUnavailable, "no schema source configured")
		return
	}

	source, err := h.refresh(r.Context(), true)
	if err != nil {
		h.logger.Error("schema refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("schema refresh failed: %v", err))
		return
	}

	tables := 0
	if schema := h.engine.Registry().Current(); schema != nil {
		tables = len(schema.Tables)
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		Source: source,
		Tables: tables,
	})
}

// Health reports liveness and whether a schema is loaded.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	schema := h.engine.Registry().Current()
	tables := 0
	if schema != nil {
		tables = len(schema.Tables)
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		SchemaLoaded: schema != nil,
		Tables:       tables,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
