package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/checkgrid/internal/assets"
	"github.com/JonMunkholm/checkgrid/internal/export"
	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/logging"
	"github.com/JonMunkholm/checkgrid/internal/selection"
	"github.com/JonMunkholm/checkgrid/internal/store"
	"github.com/JonMunkholm/checkgrid/internal/web/templates"
)

// handleIndex lists the registered grids.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	defs := grid.All()
	list := make([]templates.GridSummary, len(defs))
	for i, d := range defs {
		label := d.Label
		if label == "" {
			label = d.ID
		}
		list[i] = templates.GridSummary{ID: d.ID, Label: label}
	}
	s.render(w, r, templates.Layout("Grids", nil, templates.GridIndex(list)))
}

// handleGrid renders one page of a grid. HTMX requests get only the grid
// body; the session's document content is replaced and highlighting is
// rebound to the new rows.
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	def, err := grid.Lookup(chi.URLParam(r, "gridID"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	sess := s.sessions.Get(w, r)

	page, err := s.loadPage(r.Context(), def, parseIntParam(r, "page", 1))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	partial := isHTMX(r)
	if err := s.syncDocument(sess, def, page, partial); err != nil {
		respondError(w, r, err, 0)
		return
	}

	view, err := s.buildView(r.Context(), sess, def, page)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	if partial {
		s.render(w, r, templates.GridBody(view))
		return
	}

	scripts := assets.NewPage()
	def.Checkbox.RegisterClientScript(scripts, def.ContainerID())
	s.render(w, r, templates.Layout(view.Label, scripts, templates.GridPage(view)))
}

// handleSelect applies a checkbox change posted by the grid: form field key
// names a row, all=1 targets the select-all checkbox, checked is the new
// state. HTMX requests get the re-rendered body; plain form posts are
// redirected back to the page.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	def, err := grid.Lookup(chi.URLParam(r, "gridID"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errSelection, err), http.StatusBadRequest)
		return
	}
	sess := s.sessions.Get(w, r)
	cid := def.ContainerID()

	pageNum := parseIntParam(r, "page", 1)
	page, err := s.loadPage(r.Context(), def, pageNum)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	// The container must hold the posted page before the change applies.
	mounted := sess.Document().View(cid, func(*selection.Container) {})
	if err := s.syncDocument(sess, def, page, mounted); err != nil {
		respondError(w, r, err, 0)
		return
	}

	ev, err := parseChange(r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := applyChange(sess.Document(), cid, ev); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errSelection, err), http.StatusBadRequest)
		return
	}
	sess.Record(cid)

	logging.ForGrid(r.Context(), def.ID, cid).Debug("selection changed",
		"all", ev.All, "key", ev.Key, "checked", ev.Checked)

	if !isHTMX(r) {
		http.Redirect(w, r, fmt.Sprintf("/grid/%s?page=%d", def.ID, page.Number), http.StatusSeeOther)
		return
	}

	if err := s.syncDocument(sess, def, page, true); err != nil {
		respondError(w, r, err, 0)
		return
	}
	view, err := s.buildView(r.Context(), sess, def, page)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	s.render(w, r, templates.GridBody(view))
}

// handleExport writes one page in the requested format. Columns hidden for
// that format are left out; the checkbox column reflects the session's
// selection.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	def, err := grid.Lookup(chi.URLParam(r, "gridID"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	token := r.URL.Query().Get("format")
	format, err := grid.ParseExportFormat(token)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %w", export.ErrUnsupportedFormat, err), 0)
		return
	}
	writer, err := export.WriterFor(format)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	sess := s.sessions.Get(w, r)
	page, err := s.loadPage(r.Context(), def, parseIntParam(r, "page", 1))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	if err := s.exports.Acquire(r.Context()); err != nil {
		respondError(w, r, err, 0)
		return
	}
	defer s.exports.Release()

	def.Checkbox.CheckboxOptions = sessionOverlay(sess, def.ContainerID(), def.Checkbox.CheckboxOptions)

	table, err := export.Build(r.Context(), def, page, format)
	if err != nil {
		logging.ForGrid(r.Context(), def.ID, def.ContainerID()).Warn("export failed", "format", format, "error", err)
		respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(def, page.Number, writer)))
	if err := writer.Write(r.Context(), w, table); err != nil {
		// Headers are already sent; log only.
		logging.ForGrid(r.Context(), def.ID, def.ContainerID()).Error("export write failed", "format", format, "error", err)
	}
}

// loadPage reads one page of the grid's source.
func (s *Server) loadPage(ctx context.Context, def grid.Definition, page int) (*store.Page, error) {
	size := def.PageSize
	if size == 0 {
		size = s.cfg.Grid.PageSize
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	p, err := s.provider.Page(ctx, store.Query{
		Table:     def.Source.Table,
		KeyColumn: def.Source.KeyColumn,
		Columns:   def.Attributes(),
		Page:      page,
		PageSize:  size,
	})
	if err != nil {
		return nil, fmt.Errorf("load grid %s page %d: %w", def.ID, page, err)
	}
	return p, nil
}

// syncDocument puts the page's rows into the session document. A full page
// load mounts a fresh container and binds highlighting; a partial refresh
// replaces the container content, which triggers the rebind.
func (s *Server) syncDocument(sess *Session, def grid.Definition, page *store.Page, replace bool) error {
	cid := def.ContainerID()
	col := &def.Checkbox

	states := make([]selection.RowState, len(page.Rows))
	for i, r := range page.Rows {
		checked, ok := sess.Lookup(cid, r.Key)
		if !ok {
			var err error
			checked, err = grid.IsChecked(col, grid.DisplayContext(r.Values, r.Key, i))
			if err != nil {
				return err
			}
		}
		states[i] = selection.RowState{Key: r.Key, Checked: checked}
	}

	sess.Rebinder().Register(cid, col.RowSelectedClass, col.RowHighlight)

	doc := sess.Document()
	mounted := doc.View(cid, func(*selection.Container) {})
	if replace && mounted {
		if err := doc.Replace(cid, states); err != nil {
			return err
		}
	} else {
		doc.Mount(cid, states)
		if col.RowHighlight {
			// Binding failures are logged by the controller; the grid still renders.
			_ = sess.Controller().Init(cid, col.RowSelectedClass)
		}
	}
	sess.Record(cid)
	return nil
}

// rowSnapshot is the document state of one row at render time.
type rowSnapshot struct {
	checked bool
	class   string
}

// buildView renders the checkbox column and data cells for a page using
// the session document as the source of checked and highlight state.
func (s *Server) buildView(ctx context.Context, sess *Session, def grid.Definition, page *store.Page) (templates.GridView, error) {
	cid := def.ContainerID()

	snap := make(map[string]rowSnapshot, len(page.Rows))
	var allChecked bool
	sess.Document().View(cid, func(c *selection.Container) {
		for _, n := range c.Rows() {
			snap[n.Key] = rowSnapshot{checked: n.Checked, class: strings.Join(n.Classes(), " ")}
		}
		allChecked = c.AllChecked()
	})

	col := def.Checkbox
	col.CheckboxOptions = col.CheckboxOptions.Then(func(a grid.Attrs, _ any, key string, _ int) grid.Attrs {
		a["checked"] = snap[key].checked
		return a
	})

	rows := make([]grid.Row, len(page.Rows))
	for i, r := range page.Rows {
		rows[i] = grid.Row{Model: r.Values, Key: r.Key}
	}
	rendered, err := grid.RenderColumn(ctx, &col, grid.Pass{
		Rows:    rows,
		Header:  grid.HeaderContext{AllChecked: allChecked, FilterRow: def.Filters},
		Workers: s.cfg.Grid.RenderWorkers,
	}, grid.NewPageSummaryState())
	if err != nil {
		return templates.GridView{}, err
	}

	var data []grid.DataColumn
	var columns []templates.ColumnView
	for _, c := range def.Columns {
		if c.Hidden {
			continue
		}
		data = append(data, c)
		columns = append(columns, templates.ColumnView{
			Label: c.Header(),
			Class: strings.Join(c.VisibilityClasses(), " "),
		})
	}

	view := templates.GridView{
		GridID:      def.ID,
		Label:       def.Label,
		ContainerID: cid,
		Page:        page.Number,
		TotalPages:  page.TotalPages,
		TotalRows:   page.TotalRows,
		Selected:    sess.SelectedCount(cid),
		FilterRow:   def.Filters,
		Columns:     columns,
		Checkbox:    rendered,
		Formats:     export.Supported(),
	}
	if view.Label == "" {
		view.Label = def.ID
	}
	for _, r := range page.Rows {
		cells := make([]string, len(data))
		for j, c := range data {
			cells[j] = templ.EscapeString(formatValue(r.Values[c.Attribute]))
		}
		view.Rows = append(view.Rows, templates.RowView{Key: r.Key, Class: snap[r.Key].class, Cells: cells})
	}
	return view, nil
}

// sessionOverlay sets checked from the session for rows it has seen and
// leaves the column's own rule in charge of the rest.
func sessionOverlay(sess *Session, containerID string, rule grid.ContentRule) grid.ContentRule {
	return rule.Then(func(a grid.Attrs, _ any, key string, _ int) grid.Attrs {
		if checked, ok := sess.Lookup(containerID, key); ok {
			a["checked"] = checked
		}
		return a
	})
}

// applyChange dispatches ev to the container. Select-all also sets every
// row checkbox, whether or not highlighting is bound to the container.
func applyChange(doc *selection.Document, containerID string, ev selection.ChangeEvent) error {
	if err := doc.Dispatch(containerID, ev); err != nil {
		return err
	}
	if !ev.All {
		return nil
	}

	var keys []string
	doc.View(containerID, func(c *selection.Container) {
		for _, r := range c.Rows() {
			keys = append(keys, r.Key)
		}
	})
	for _, k := range keys {
		if err := doc.Dispatch(containerID, selection.RowChange(k, ev.Checked)); err != nil {
			return err
		}
	}
	return nil
}

// parseChange reads the posted checkbox change.
func parseChange(r *http.Request) (selection.ChangeEvent, error) {
	checked, err := parseChecked(r.FormValue("checked"))
	if err != nil {
		return selection.ChangeEvent{}, fmt.Errorf("%w: checked: %v", errSelection, err)
	}
	if r.FormValue("all") == "1" {
		return selection.HeaderChange(checked), nil
	}
	key := r.FormValue("key")
	if key == "" {
		return selection.ChangeEvent{}, fmt.Errorf("%w: key or all=1 is required", errSelection)
	}
	return selection.RowChange(key, checked), nil
}

// parseChecked accepts the values browsers and htmx post for a checkbox.
// A missing value means unchecked.
func parseChecked(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "", "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	}
	return false, errors.New("expected a boolean, got " + strconv.Quote(v))
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// formatValue formats a store value for display.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// render writes a component as HTML, logging render failures.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}
