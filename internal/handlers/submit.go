package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/artifact-narrator/narrator/internal/narrator"
	"github.com/artifact-narrator/narrator/internal/results"
	"github.com/artifact-narrator/narrator/internal/ui"
)

type submitResponse struct {
	ID    string   `json:"id,omitempty"`
	Kind  string   `json:"kind,omitempty"`
	State ui.State `json:"state"`
}

// HandleSubmit runs one recognize-then-narrate sequence for the uploaded
// image and returns the resulting view state
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, err := readSelectedFile(w, r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	started := time.Now()
	state, err := h.orchestrator.Submit(r.Context(), file)
	if errors.Is(err, narrator.ErrBusy) {
		h.writeJSONStatus(w, http.StatusConflict, submitResponse{
			Kind:  string(narrator.KindBusy),
			State: state,
		})
		return
	}

	record := &results.RunRecord{
		ID:        uuid.NewString(),
		BaseURL:   h.baseURL,
		Locale:    h.locale,
		State:     state,
		Kind:      string(narrator.KindOf(err)),
		CreatedAt: started,
		Duration:  time.Since(started),
	}
	if file != nil {
		record.Filename = file.Name
	}
	if err != nil {
		record.Error = err.Error()
	}
	h.runStore.Set(record)

	h.writeJSON(w, submitResponse{
		ID:    record.ID,
		Kind:  record.Kind,
		State: state,
	})
}

// HandleState returns the current view state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.orchestrator.State())
}
