package narrator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/artifact-narrator/narrator/internal/format"
	"github.com/artifact-narrator/narrator/internal/locale"
	"github.com/artifact-narrator/narrator/internal/models"
	"github.com/artifact-narrator/narrator/internal/ui"
)

// Service is the pair of backend calls a run makes
type Service interface {
	Recognize(ctx context.Context, file models.SelectedFile) (*models.RecognitionResult, error)
	Narrate(ctx context.Context, request models.NarrationRequest) (*models.NarrationResult, error)
}

// Renderer draws a view state. It is called after every transition.
type Renderer interface {
	Render(state ui.State)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(state ui.State)

func (f RendererFunc) Render(state ui.State) { f(state) }

// Orchestrator runs the recognize-then-narrate sequence for one submit
// action at a time
type Orchestrator struct {
	service  Service
	catalog  locale.Catalog
	renderer Renderer

	busy  atomic.Bool
	mu    sync.RWMutex
	state ui.State
}

// New creates an orchestrator. renderer may be nil.
func New(svc Service, loc locale.Locale, renderer Renderer) *Orchestrator {
	return &Orchestrator{
		service:  svc,
		catalog:  locale.Lookup(loc),
		renderer: renderer,
		state:    ui.Idle(),
	}
}

// Catalog returns the strings the orchestrator renders with
func (o *Orchestrator) Catalog() locale.Catalog {
	return o.catalog
}

// State returns the current view state
func (o *Orchestrator) State() ui.State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Busy reports whether a submit is in flight
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Submit runs one submit action and returns the final view state.
// The returned error is nil only when the narration was rendered.
// While another submit is running it returns ErrBusy and leaves the
// view untouched.
func (o *Orchestrator) Submit(ctx context.Context, file *models.SelectedFile) (ui.State, error) {
	if !o.busy.CompareAndSwap(false, true) {
		slog.Warn("Submit rejected, run already in progress")
		return o.State(), ErrBusy
	}
	defer o.busy.Store(false)

	if file == nil {
		slog.Info("Submit without a selected file")
		return o.apply(ui.NoFile{}), ErrNoFileSelected
	}

	o.apply(ui.Started{})
	slog.Info("Uploading image for recognition", "filename", file.Name, "bytes", len(file.Data))

	result, err := o.service.Recognize(ctx, *file)
	if err != nil {
		return o.fail(err)
	}
	o.apply(ui.Recognized{Details: format.Artifact(*result, o.catalog)})

	request := models.NewNarrationRequest(*result)
	slog.Info("Artifact recognized", "name", request.Name, "dynasty", request.Dynasty)

	narration, err := o.service.Narrate(ctx, request)
	if err != nil {
		return o.fail(err)
	}

	state := o.apply(ui.Narrated{Text: narration.Narration})
	slog.Info("Narration generated", "name", request.Name, "length", len(narration.Narration))
	return state, nil
}

func (o *Orchestrator) fail(err error) (ui.State, error) {
	slog.Error("Narration run failed", "kind", KindOf(err), "err", err)
	return o.apply(ui.Failed{Reason: Describe(err, o.catalog)}), err
}

func (o *Orchestrator) apply(e ui.Event) ui.State {
	o.mu.Lock()
	o.state = ui.Reduce(o.state, e, o.catalog)
	state := o.state
	o.mu.Unlock()

	if o.renderer != nil {
		o.renderer.Render(state)
	}
	return state
}
