// Package assets ships the client-side scripts and collects the script
// snippets a page registers while it renders.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"
)

//go:embed static
var staticFiles embed.FS

// CheckboxColumnScript is the path of the row highlighting script under
// the static mount.
const CheckboxColumnScript = "checkbox-column.js"

// FS returns the static files rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("assets: %v", err))
	}
	return sub
}

// Page collects script files and inline snippets for one rendered page.
// Registering the same file or snippet key twice keeps the first.
type Page struct {
	mu      sync.Mutex
	files   []string
	keys    []string
	scripts map[string]string
}

// NewPage returns an empty page registry.
func NewPage() *Page {
	return &Page{scripts: make(map[string]string)}
}

// RegisterFile adds a static script file.
func (p *Page) RegisterFile(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.files, name) {
		p.files = append(p.files, name)
	}
}

// RegisterJS adds an inline snippet under key.
func (p *Page) RegisterJS(key, js string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.scripts[key]; ok {
		return
	}
	p.keys = append(p.keys, key)
	p.scripts[key] = js
}

// Files returns the registered script files in registration order.
func (p *Page) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.files)
}

// Inline returns the registered snippets joined in registration order.
func (p *Page) Inline() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	for _, k := range p.keys {
		b.WriteString(p.scripts[k])
		b.WriteString("\n")
	}
	return b.String()
}

// RegisterSelectRow registers the highlighting script for a grid container:
// the initial kvSelectRow call, and a rebind after every HTMX swap into the
// container.
func (p *Page) RegisterSelectRow(containerID, highlightClass string) {
	id := jsString(containerID)
	css := jsString(highlightClass)

	p.RegisterFile(CheckboxColumnScript)
	p.RegisterJS("kvSelectRow:"+containerID, fmt.Sprintf("kvSelectRow(%s, %s);", id, css))
	p.RegisterJS("kvSelectRow.rebind:"+containerID, fmt.Sprintf(
		`document.body.addEventListener("htmx:afterSwap", function (e) { if (e.detail && e.detail.target && e.detail.target.id === %s) { kvSelectRow(%s, %s); } });`,
		id, id, css,
	))
}

// jsString encodes s as a JavaScript string literal safe inside <script>.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
