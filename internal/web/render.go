package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/unclebandit/customer-records/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"customers",
	"customer_form",
	"customer_detail",
	"address_form",
	"confirm_delete",
}

// Flash is the one-shot banner carried across a redirect in the query string
type Flash struct {
	Kind    string // success or error
	Message string
}

type view struct {
	Title string
	Flash *Flash
	Error string // replaces the page content with an error panel
	Data  any
}

func parseTemplates() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	if v.Flash == nil {
		v.Flash = flashFrom(r)
	}

	// Render into a buffer so a template failure never leaves a half-written page
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", v); err != nil {
		logger.FromContext(r.Context()).Error("Failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func flashFrom(r *http.Request) *Flash {
	q := r.URL.Query()
	msg := q.Get("flash")
	if msg == "" {
		return nil
	}
	kind := q.Get("flash_kind")
	if kind != "error" {
		kind = "success"
	}
	return &Flash{Kind: kind, Message: msg}
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, msg string) {
	q := url.Values{}
	q.Set("flash", msg)
	q.Set("flash_kind", kind)
	http.Redirect(w, r, target+"?"+q.Encode(), http.StatusSeeOther)
}
