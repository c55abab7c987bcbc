package selection

import (
	"log/slog"
	"sync"
)

type rebindTarget struct {
	highlightClass string
	rowHighlight   bool
}

// Rebinder re-runs Controller.Init for a grid after its content was
// replaced, so the listener lives on the current container node.
type Rebinder struct {
	ctrl   *Controller
	logger *slog.Logger

	mu    sync.Mutex
	grids map[string]rebindTarget
}

// NewRebinder returns a rebinder driving ctrl. A nil logger uses slog.Default.
func NewRebinder(ctrl *Controller, logger *slog.Logger) *Rebinder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebinder{
		ctrl:   ctrl,
		logger: logger,
		grids:  make(map[string]rebindTarget),
	}
}

// Register records how to rebind containerID. Grids without row
// highlighting are recorded so notifications for them are quiet no-ops.
func (r *Rebinder) Register(containerID, highlightClass string, rowHighlight bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grids[containerID] = rebindTarget{highlightClass: highlightClass, rowHighlight: rowHighlight}
}

// Attach subscribes the rebinder to doc's content-replaced notifications.
func (r *Rebinder) Attach(doc *Document) {
	doc.OnContentReplaced(r.NotifyContentReplaced)
}

// NotifyContentReplaced re-initialises selection highlighting for
// containerID. It must be called after the replacement has completed.
// Safe to call redundantly.
func (r *Rebinder) NotifyContentReplaced(containerID string) {
	r.mu.Lock()
	t, ok := r.grids[containerID]
	r.mu.Unlock()

	if !ok || !t.rowHighlight {
		r.logger.Debug("rebind skipped", "container", containerID, "registered", ok)
		return
	}

	// Binding errors are logged by the controller and leave the page usable.
	_ = r.ctrl.Init(containerID, t.highlightClass)
}
