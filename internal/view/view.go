// Package view serves the storefront map as server-rendered HTML.
package view

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/shelf-locator/internal/client"
	"github.com/rogerio-castellano/shelf-locator/internal/layout"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/sirupsen/logrus"
)

//go:embed templates/map.html
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html"))

// Lookup is the part of the API the map needs.
type Lookup interface {
	ByPos(ctx context.Context, pos string) (resolver.Result, error)
	ByCode(ctx context.Context, code string) (resolver.Result, error)
}

type Cell struct {
	Pos       string
	Highlight bool
}

type ShelfView struct {
	ID    string
	Title string
	Rows  [][]Cell
}

// Page is the template model. At most one of Detail and Message is set.
type Page struct {
	Title   string
	Code    string
	Message string
	Detail  *resolver.Result
	Shelves []ShelfView
}

type Handler struct {
	layout *layout.Layout
	lookup Lookup
	log    logrus.FieldLogger
}

func NewHandler(l *layout.Layout, lookup Lookup, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{layout: l, lookup: lookup, log: log.WithField("component", "view")}
}

// ServeHTTP renders the grid. ?code= looks the product up and highlights
// its position; ?pos= opens the detail panel for a cell. Each request makes
// at most one API call.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := strings.TrimSpace(q.Get("code"))
	pos := strings.TrimSpace(q.Get("pos"))

	page := h.Build(r.Context(), code, pos)

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, page); err != nil {
		h.log.WithError(err).Error("failed to render map")
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Build resolves the requested action into a page model.
func (h *Handler) Build(ctx context.Context, code, pos string) Page {
	page := Page{Title: h.layout.Title, Code: code}

	var (
		result resolver.Result
		err    error
	)
	switch {
	case code != "":
		result, err = h.lookup.ByCode(ctx, code)
	case pos != "":
		result, err = h.lookup.ByPos(ctx, pos)
	}

	highlight := ""
	switch {
	case err != nil:
		page.Message = h.message(err, code, pos)
	case code != "" || pos != "":
		page.Detail = &result
		highlight = result.Pos
	}

	page.Shelves = shelves(h.layout, highlight)
	return page
}

func (h *Handler) message(err error, code, pos string) string {
	var (
		apiErr *client.APIError
		nf     *resolver.NotFoundError
		ve     *resolver.ValidationError
	)
	switch {
	case errors.As(err, &nf), errors.As(err, &apiErr) && apiErr.NotFound():
		if code != "" {
			return fmt.Sprintf("No product found for code %s.", code)
		}
		return fmt.Sprintf("Nothing is stored at %s.", pos)
	case errors.As(err, &ve):
		return ve.Error()
	case apiErr != nil && apiErr.StatusCode < http.StatusInternalServerError:
		return apiErr.Message
	default:
		h.log.WithError(err).Warn("lookup failed")
		return "The lookup service is unavailable, please try again."
	}
}

func shelves(l *layout.Layout, highlight string) []ShelfView {
	out := make([]ShelfView, 0, len(l.Shelves))
	for _, s := range l.Shelves {
		sv := ShelfView{ID: s.ID, Title: s.Title}
		for _, row := range s.Rows {
			codes := row.Codes(s.ID)
			cells := make([]Cell, len(codes))
			for i, c := range codes {
				cells[i] = Cell{Pos: c, Highlight: c == highlight}
			}
			sv.Rows = append(sv.Rows, cells)
		}
		out = append(out, sv)
	}
	return out
}
