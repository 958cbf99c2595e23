// Package view renders the dashboard's HTML pages.
package view

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/flash"
	"github.com/MrJamesThe3rd/backoffice/internal/format"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

// NavLink is a menu entry as rendered for the current page.
type NavLink struct {
	Path   string
	Label  string
	Active bool
}

// Chrome is everything the layout needs besides the page body.
type Chrome struct {
	App       string
	UserName  string
	RoleLabel string
	ReadOnly  bool
	Nav       []NavLink
	MountID   string
	Notice    string
}

type chromeKey struct{}

func WithChrome(ctx context.Context, c Chrome) context.Context {
	return context.WithValue(ctx, chromeKey{}, c)
}

func ChromeFrom(ctx context.Context) Chrome {
	c, _ := ctx.Value(chromeKey{}).(Chrome)
	return c
}

type pageData struct {
	Chrome Chrome
	Title  string
	Body   any
}

type Renderer struct {
	app    string
	pages  map[string]*template.Template
	notes  *flash.Store
	format *format.Formatter
}

// New parses the layout together with every page template.
func New(app string, f *format.Formatter, notes *flash.Store) (*Renderer, error) {
	v := &Renderer{app: app, pages: make(map[string]*template.Template), notes: notes, format: f}

	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	for _, name := range names {
		if name == layoutFile {
			continue
		}

		t, err := template.New(path.Base(layoutFile)).Funcs(v.funcs()).ParseFS(files, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		v.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}

	return v, nil
}

func (v *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(x any) string {
			if d, ok := toDecimal(x); ok {
				return v.format.Money(d)
			}

			return fmt.Sprint(x)
		},
		"num": func(x any) string {
			if d, ok := toDecimal(x); ok {
				return v.format.Number(d)
			}

			return fmt.Sprint(x)
		},
		"count": func(n int) string { return v.format.Count(n) },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}

			return t.Format(time.DateOnly)
		},
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"lang":     func() string { return v.format.Tag().String() },
	}
}

func toDecimal(x any) (decimal.Decimal, bool) {
	switch t := x.(type) {
	case decimal.Decimal:
		return t, true
	case api.Numeric:
		return t.Decimal()
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	}

	return decimal.Zero, false
}

// Render writes page with the chrome stored in the request context.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, body any) {
	t, ok := v.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	c := ChromeFrom(r.Context())
	c.App = v.app

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pageData{Chrome: c, Title: title, Body: body}); err != nil {
		slog.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "page", page, "error", err)
	}
}

// Notify queues a notice for the next rendered page.
func (v *Renderer) Notify(w http.ResponseWriter, message string) {
	if err := v.notes.Set(w, message); err != nil {
		slog.Error("failed to set notice", "error", err)
	}
}

// PopNotice returns and clears the pending notice.
func (v *Renderer) PopNotice(w http.ResponseWriter, r *http.Request) string {
	return v.notes.Pop(w, r)
}

type errorBody struct {
	Message string
}

// Fail renders the error panel for err. An expired or superseded session sends the
// user back to the login page instead.
func (v *Renderer) Fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		if api.IsSuperseded(err) {
			v.Notify(w, session.SupersededNotice)
		}

		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)

		return
	}

	status := http.StatusBadGateway
	msg := "The service is unavailable. Please try again."

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		msg = reqErr.Message

		switch {
		case reqErr.Status == http.StatusNotFound:
			status = http.StatusNotFound
		case reqErr.Status == http.StatusForbidden:
			status = http.StatusForbidden
		case reqErr.Status < 500:
			status = http.StatusUnprocessableEntity
		}
	} else {
		slog.Error("remote api call failed", "path", r.URL.Path, "error", err)
	}

	v.Render(w, r, status, "error", "Something went wrong", errorBody{Message: msg})
}

// Message returns what a form alert should say about a failed mutating call.
func Message(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}

	return "The service is unavailable. Please try again."
}

// Forbidden renders the access-denied page.
func (v *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusForbidden, "forbidden", "Access denied", nil)
}
