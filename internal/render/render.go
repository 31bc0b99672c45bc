// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the site.
// It supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header, and renders the listing grids
// on their own so they can be cached.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ailab/internal/lab"
	"ailab/internal/markdown"
	"ailab/internal/middleware"
	"ailab/internal/models"
	"ailab/internal/pagination"
	"ailab/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

// Shared templates parsed into every page. base.html is the layout.
const (
	baseTemplate     = "templates/base.html"
	partialsTemplate = "templates/partials.html"
)

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string // Page title for <title> tag
	CSRFToken string // CSRF token for forms and HTMX headers

	Snap     lab.Snapshot     // Session state for the current view
	Stats    stats.Snapshot   // Live counters
	Featured []models.Product // Curated products on the home view
	Chat     ChatData

	// Grid is the pre-rendered listing of the current vault or market page.
	Grid template.HTML

	SyncDelay   time.Duration
	CheckoutURL string
	Flashes     []Flash

	// Posts drafted in this session, listed on the admin view.
	Drafts []models.Post

	// AI providers offered on the admin view.
	Providers      []string
	ActiveProvider string
}

// ChatData is the state of the chat widget.
type ChatData struct {
	Messages []models.ChatMessage
	Typing   bool
	Speaking bool
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	fragments *template.Template
	funcMap   template.FuncMap
}

// printer formats numbers with thousands separators.
var printer = message.NewPrinter(language.English)

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each page template is paired with the base layout and the
// shared partials. When devMode is true, templates load the unminified
// HTMX build.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target any) string {
				if fmt.Sprint(current) == fmt.Sprint(target) {
					return "text-blue-500"
				}
				return "text-gray-500 hover:text-white"
			},
			"isDev":            func() bool { return devMode },
			"number":           FormatNumber,
			"price":            FormatPrice,
			"rating":           FormatRating,
			"typeLabel":        TypeLabel,
			"initial":          Initial,
			"progress":         Progress,
			"millis":           func(d time.Duration) int64 { return d.Milliseconds() },
			"markdown":         markdown.Render,
			"filterCategories": func() []models.Category { return models.Categories[:3] },
			"footerCategories": func() []models.Category { return models.Categories[:4] },
			"csrfField":        func() string { return middleware.CSRFFormField },
			"list":             func(items ...string) []string { return items },
		},
	}

	fragments, err := template.New("partials.html").Funcs(r.funcMap).ParseFS(templateFS, partialsTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	r.fragments = fragments

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == path.Base(baseTemplate) || name == path.Base(partialsTemplate) {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, baseTemplate, partialsTemplate, "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests only the "app" block (header, view, footer)
// is sent; the chat widget outside it keeps its state.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	execName := "base.html"
	if IsHTMX(r) {
		execName = "app"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Fragment renders one of the shared partials into a byte slice.
func (rn *Renderer) Fragment(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := executeTemplate(&buf, rn.fragments, name, data); err != nil {
		return nil, fmt.Errorf("render fragment %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteFragment renders one of the shared partials as an HTML response.
func (rn *Renderer) WriteFragment(w http.ResponseWriter, name string, data any) {
	html, err := rn.Fragment(name, data)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// FormatNumber prints n with English thousands separators.
func FormatNumber(n any) string {
	switch v := n.(type) {
	case int:
		return printer.Sprintf("%d", v)
	case int64:
		return printer.Sprintf("%d", v)
	}
	return fmt.Sprint(n)
}

// FormatPrice prints a product price in dollars. Whole amounts carry no
// decimals.
func FormatPrice(p float64) string {
	if p == math.Trunc(p) {
		return printer.Sprintf("$%d", int64(p))
	}
	return printer.Sprintf("$%.2f", p)
}

// FormatRating prints a star rating with one decimal.
func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}

// TypeLabel turns PROMPT_PACK into "PROMPT PACK".
func TypeLabel(t models.ProductType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Initial returns the first character of s, for avatar badges.
func Initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// Progress is the width of a cursor's progress bar.
func Progress(c pagination.Cursor) template.CSS {
	return template.CSS(fmt.Sprintf("width: %.6f%%", c.Progress()*100))
}
