package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/artifact-narrator/narrator/internal/narrator"
	"github.com/artifact-narrator/narrator/internal/results"
	"github.com/artifact-narrator/narrator/internal/storage"
)

// Handler serves the narration page and its API
type Handler struct {
	orchestrator *narrator.Orchestrator
	runStore     *storage.RunStore
	baseURL      string
	locale       string
}

func New(orchestrator *narrator.Orchestrator, runStore *storage.RunStore, baseURL, locale string) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		runStore:     runStore,
		baseURL:      baseURL,
		locale:       locale,
	}
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/submit", h.HandleSubmit)
	mux.HandleFunc("/api/state", h.HandleState)
	mux.HandleFunc("/api/sessions", h.HandleSessions)
	mux.HandleFunc("/api/sessions/", h.HandleSessionDetail)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	mux.Handle("/", h.StaticHandler())
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Run helpers
func (h *Handler) getRunOrError(w http.ResponseWriter, runID string) (*results.RunRecord, bool) {
	record, exists := h.runStore.Get(runID)
	if !exists {
		h.writeError(w, "Run not found", http.StatusNotFound)
		return nil, false
	}
	return record, true
}
