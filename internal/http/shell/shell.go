// Package shell is the protected frame every dashboard page mounts in. A mount
// resolves the session, applies the opening-balance gate and the role filter, then
// hands the page an immutable Mount.
package shell

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/balance"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

// ClientFactory builds an API client that carries the browser's credentials.
type ClientFactory func(r *http.Request) (*api.Client, error)

// Mount is what a page knows about the request it serves.
type Mount struct {
	ID       string
	Identity session.Identity
	Nav      []nav.Entry
	Path     string
	Client   *api.Client
}

type mountKey struct{}

func FromContext(ctx context.Context) *Mount {
	m, _ := ctx.Value(mountKey{}).(*Mount)
	return m
}

func WithMount(ctx context.Context, m *Mount) context.Context {
	ctx = session.WithIdentity(ctx, m.Identity)
	return context.WithValue(ctx, mountKey{}, m)
}

type Shell struct {
	newClient ClientFactory
	view      *view.Renderer
	entries   []nav.Entry
	failOpen  bool
}

func New(newClient ClientFactory, v *view.Renderer, failOpen bool) *Shell {
	return &Shell{newClient: newClient, view: v, entries: nav.Entries, failOpen: failOpen}
}

// Middleware mounts the shell around next.
func (s *Shell) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, err := s.newClient(r)
		if err != nil {
			slog.Error("building api client", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		ctx := r.Context()

		id, ok := session.NewResolver(client).Mount(ctx, &redirector{w: w, r: r, view: s.view})
		if !ok {
			return
		}

		st := balance.NewGate(client, s.failOpen).Check(ctx, id)

		switch balance.Decide(st, r.URL.Path, navigable(r)) {
		case balance.Redirect:
			http.Redirect(w, r, balance.SetupPath, http.StatusSeeOther)
			return
		case balance.Block:
			s.block(w, r, id)
			return
		}

		m := &Mount{
			ID:       uuid.NewString(),
			Identity: id,
			Nav:      nav.Visible(id.Role(), s.entries),
			Path:     r.URL.Path,
			Client:   client,
		}

		ctx = WithMount(ctx, m)
		ctx = view.WithChrome(ctx, m.chrome(s.view.PopNotice(w, r)))
		r = r.WithContext(ctx)

		if !nav.Allowed(id.Role(), s.entries, r.URL.Path) {
			slog.Info("page refused for role", "path", r.URL.Path, "role", id.Role().Code(), "mount_id", m.ID)
			s.view.Forbidden(w, r)

			return
		}

		w.Header().Set("X-Mount-ID", m.ID)
		slog.Debug("shell mounted", "path", m.Path, "role", id.Role().Code(), "mount_id", m.ID)

		next.ServeHTTP(w, r)
	})
}

func (s *Shell) block(w http.ResponseWriter, r *http.Request, id session.Identity) {
	if wantsJSON(r) {
		http.Error(w, "opening balance required", http.StatusForbidden)
		return
	}

	m := &Mount{Identity: id, Nav: nav.Visible(id.Role(), s.entries), Path: r.URL.Path}
	r = r.WithContext(view.WithChrome(r.Context(), m.chrome("")))

	s.view.Render(w, r, http.StatusForbidden, "blocked", "Opening balance required", struct{ SetupPath string }{balance.SetupPath})
}

// Writable refuses mutating requests from read-only roles.
func Writable(v *view.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := FromContext(r.Context())
			if m != nil && m.Identity.ReadOnly() && r.Method != http.MethodGet && r.Method != http.MethodHead {
				slog.Warn("mutation refused for read-only role", "path", r.URL.Path, "mount_id", m.ID)
				v.Forbidden(w, r)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Mount) chrome(notice string) view.Chrome {
	links := make([]view.NavLink, len(m.Nav))
	for i, e := range m.Nav {
		links[i] = view.NavLink{Path: e.Path, Label: e.Label, Active: nav.IsActive(e, m.Path)}
	}

	return view.Chrome{
		UserName:  m.Identity.Name(),
		RoleLabel: m.Identity.Role().Label(),
		ReadOnly:  m.Identity.ReadOnly(),
		Nav:       links,
		MountID:   m.ID,
		Notice:    notice,
	}
}

// navigable reports whether the request can follow a redirect to another page.
func navigable(r *http.Request) bool {
	return (r.Method == http.MethodGet || r.Method == http.MethodHead) && !wantsJSON(r)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// redirector is the session.Navigator of a web request.
type redirector struct {
	w    http.ResponseWriter
	r    *http.Request
	view *view.Renderer
}

func (n *redirector) Notify(message string) {
	n.view.Notify(n.w, message)
}

func (n *redirector) RedirectToLogin() {
	if wantsJSON(n.r) {
		http.Error(n.w, "unauthorized", http.StatusUnauthorized)
		return
	}

	target := session.LoginPath
	if n.r.Method == http.MethodGet {
		target += "?" + url.Values{"next": {n.r.URL.RequestURI()}}.Encode()
	}

	http.Redirect(n.w, n.r, target, http.StatusSeeOther)
}
