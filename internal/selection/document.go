package selection

import (
	"fmt"
	"slices"
	"sync"
)

// RowNode is one grid row: its checkbox state and CSS classes.
type RowNode struct {
	Key     string
	Checked bool
	classes []string
}

// HasClass reports whether the row carries class c.
func (r *RowNode) HasClass(c string) bool {
	return slices.Contains(r.classes, c)
}

// Classes returns a copy of the row's classes.
func (r *RowNode) Classes() []string {
	return slices.Clone(r.classes)
}

func (r *RowNode) toggleClass(c string, on bool) {
	has := r.HasClass(c)
	switch {
	case on && !has:
		r.classes = append(r.classes, c)
	case !on && has:
		r.classes = slices.DeleteFunc(r.classes, func(s string) bool { return s == c })
	}
}

// Listener handles a change event delegated to a container.
type Listener func(c *Container, ev ChangeEvent)

// Container is the grid container node. Replacing a grid's content
// creates a new Container; listeners bound to the old node are gone.
type Container struct {
	ID          string
	HeaderCheck bool // Checked property of the select-all checkbox

	rows      []*RowNode
	byKey     map[string]*RowNode
	listeners map[string]Listener
}

func newContainer(id string, rows []RowState) *Container {
	c := &Container{
		ID:        id,
		rows:      make([]*RowNode, 0, len(rows)),
		byKey:     make(map[string]*RowNode, len(rows)),
		listeners: make(map[string]Listener),
	}
	for _, rs := range rows {
		n := &RowNode{Key: rs.Key, Checked: rs.Checked}
		c.rows = append(c.rows, n)
		c.byKey[rs.Key] = n
	}
	return c
}

// Rows returns the row nodes in page order.
func (c *Container) Rows() []*RowNode {
	return c.rows
}

// Row returns the row with key.
func (c *Container) Row(key string) (*RowNode, bool) {
	r, ok := c.byKey[key]
	return r, ok
}

// AllChecked reports whether every row checkbox is checked. An empty page
// is never "all checked".
func (c *Container) AllChecked() bool {
	if len(c.rows) == 0 {
		return false
	}
	for _, r := range c.rows {
		if !r.Checked {
			return false
		}
	}
	return true
}

// CheckedKeys returns the keys of checked rows in page order.
func (c *Container) CheckedKeys() []string {
	var keys []string
	for _, r := range c.rows {
		if r.Checked {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// ListenerCount returns the number of listeners bound to this node.
func (c *Container) ListenerCount() int {
	return len(c.listeners)
}

// on sets or replaces the listener registered under namespace.
func (c *Container) on(namespace string, l Listener) {
	c.listeners[namespace] = l
}

// RowState is the initial state of one row when a container is mounted.
type RowState struct {
	Key     string
	Checked bool
}

// Keys builds unchecked row states from keys.
func Keys(keys ...string) []RowState {
	out := make([]RowState, len(keys))
	for i, k := range keys {
		out[i] = RowState{Key: k}
	}
	return out
}

// ChangeEvent is a checkbox change inside a container.
type ChangeEvent struct {
	All     bool   // The select-all header checkbox changed
	Key     string // Row key when All is false
	Checked bool   // New checked state of the target checkbox
}

// HeaderChange is a select-all checkbox change.
func HeaderChange(checked bool) ChangeEvent {
	return ChangeEvent{All: true, Checked: checked}
}

// RowChange is a row checkbox change.
func RowChange(key string, checked bool) ChangeEvent {
	return ChangeEvent{Key: key, Checked: checked}
}

// Document holds the grid containers of one page.
type Document struct {
	mu         sync.Mutex
	containers map[string]*Container
	replaced   []func(id string)
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{containers: make(map[string]*Container)}
}

// Mount creates (or recreates) the container id with rows.
func (d *Document) Mount(id string, rows []RowState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[id] = newContainer(id, rows)
}

// Replace swaps the container's content for rows and then notifies
// content-replaced subscribers. Subscribers run strictly after the new node
// is in place.
func (d *Document) Replace(id string, rows []RowState) error {
	d.mu.Lock()
	if _, ok := d.containers[id]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("replace content: container %q not mounted", id)
	}
	d.containers[id] = newContainer(id, rows)
	subs := slices.Clone(d.replaced)
	d.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
	return nil
}

// OnContentReplaced subscribes fn to content replacement notifications.
func (d *Document) OnContentReplaced(fn func(id string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replaced = append(d.replaced, fn)
}

// Dispatch delivers a change event: the target checkbox takes the new
// state, then the container's listeners run.
func (d *Document) Dispatch(id string, ev ChangeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.containers[id]
	if !ok {
		return fmt.Errorf("dispatch: container %q not mounted", id)
	}

	if ev.All {
		c.HeaderCheck = ev.Checked
	} else {
		row, ok := c.byKey[ev.Key]
		if !ok {
			return fmt.Errorf("dispatch: row %q not in container %q", ev.Key, id)
		}
		row.Checked = ev.Checked
	}

	for _, l := range c.listeners {
		l(c, ev)
	}
	return nil
}

// View runs fn with the container id under the document lock.
func (d *Document) View(id string, fn func(c *Container)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.containers[id]
	if ok {
		fn(c)
	}
	return ok
}

// bind attaches l to the current node of container id under namespace.
// It returns the node bound to, or nil when the container does not exist.
func (d *Document) bind(id, namespace string, l Listener) *Container {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.containers[id]
	if !ok {
		return nil
	}
	c.on(namespace, l)
	return c
}
