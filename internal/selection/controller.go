package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
)

// ErrBinding matches every *BindingError.
var ErrBinding = errors.New("selection binding error")

// BindingError reports an Init call that could not bind. It is logged and
// the call is a no-op; the rest of the page keeps working.
type BindingError struct {
	ContainerID string
	Reason      string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("bind selection on %q: %s", e.ContainerID, e.Reason)
}

func (e *BindingError) Is(target error) bool {
	return target == ErrBinding
}

// listenerNamespace scopes the delegated listener on the container, so a
// second Init overwrites the first instead of adding to it.
const listenerNamespace = "change.kvSelectRow"

var highlightClassPattern = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// Binding is the controller's record for one grid container.
type Binding struct {
	ContainerID    string
	HighlightClass string
	Bound          bool

	node   *Container
	events atomic.Int64
}

// Events returns the number of change events handled by this binding.
func (b *Binding) Events() int64 {
	return b.events.Load()
}

// Controller binds row highlighting to checkbox state, one delegated
// listener per grid container.
type Controller struct {
	doc    *Document
	logger *slog.Logger

	mu       sync.Mutex
	bindings map[string]*Binding
}

// NewController returns a controller over doc. A nil logger uses slog.Default.
func NewController(doc *Document, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		doc:      doc,
		logger:   logger,
		bindings: make(map[string]*Binding),
	}
}

// Init binds the container gridID so that checkbox changes toggle
// highlightClass on rows. Calling Init again for the same container
// replaces the binding; listeners are never stacked.
//
// Rows that are already checked are highlighted immediately. A missing
// container or an invalid class yields a *BindingError, which is logged.
func (c *Controller) Init(gridID, highlightClass string) error {
	if gridID == "" {
		return c.fail(&BindingError{ContainerID: gridID, Reason: "empty container id"})
	}
	if !highlightClassPattern.MatchString(highlightClass) {
		return c.fail(&BindingError{ContainerID: gridID, Reason: fmt.Sprintf("invalid highlight class %q", highlightClass)})
	}

	b := &Binding{ContainerID: gridID, HighlightClass: highlightClass, Bound: true}
	node := c.doc.bind(gridID, listenerNamespace, b.handle)
	if node == nil {
		return c.fail(&BindingError{ContainerID: gridID, Reason: "container not found"})
	}

	c.doc.View(gridID, func(ct *Container) {
		for _, r := range ct.rows {
			r.toggleClass(highlightClass, r.Checked)
		}
		ct.HeaderCheck = ct.AllChecked()
	})

	b.node = node
	c.mu.Lock()
	c.bindings[gridID] = b
	c.mu.Unlock()

	c.logger.Debug("selection bound", "container", gridID, "class", highlightClass)
	return nil
}

// Binding returns the current binding record for a container.
func (c *Controller) Binding(gridID string) (*Binding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[gridID]
	return b, ok
}

// IsBound reports whether the binding for gridID is attached to the
// container's current node. It turns false after content replacement until
// the container is re-initialised.
func (c *Controller) IsBound(gridID string) bool {
	b, ok := c.Binding(gridID)
	if !ok {
		return false
	}
	bound := false
	c.doc.View(gridID, func(ct *Container) {
		bound = ct == b.node
	})
	return bound
}

func (c *Controller) fail(err *BindingError) error {
	c.logger.Warn("selection binding skipped",
		"container", err.ContainerID,
		"reason", err.Reason,
	)
	return err
}

// handle is the delegated change listener.
//
// Select-all sets every row checkbox and its highlight. A row change
// highlights that row. Either way the header is re-derived from all rows,
// so select-all on an empty page leaves it unchecked.
func (b *Binding) handle(c *Container, ev ChangeEvent) {
	b.events.Add(1)

	if ev.All {
		for _, r := range c.rows {
			r.Checked = ev.Checked
			r.toggleClass(b.HighlightClass, ev.Checked)
		}
	} else if r, ok := c.byKey[ev.Key]; ok {
		r.toggleClass(b.HighlightClass, r.Checked)
	}
	c.HeaderCheck = c.AllChecked()
}
