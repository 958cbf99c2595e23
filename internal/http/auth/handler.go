package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
)

type Handler struct {
	newClient shell.ClientFactory
	view      *view.Renderer
}

func NewHandler(newClient shell.ClientFactory, v *view.Renderer) *Handler {
	return &Handler{newClient: newClient, view: v}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/login", h.form)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type loginPage struct {
	Username string
	Next     string
	Error    string
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) {
	page := loginPage{Next: safeNext(r.URL.Query().Get("next"))}

	r = r.WithContext(view.WithChrome(r.Context(), view.Chrome{Notice: h.view.PopNotice(w, r)}))
	h.view.Render(w, r, http.StatusOK, "login", "Sign in", page)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	creds := api.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	page := loginPage{Username: creds.Username, Next: safeNext(r.PostFormValue("next"))}

	if msg := api.Validate(creds); msg != "" {
		page.Error = msg
		h.view.Render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", page)

		return
	}

	client, err := h.newClient(r)
	if err != nil {
		slog.Error("building api client", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	u, err := client.Login(r.Context(), creds)
	if err != nil {
		status := http.StatusBadGateway

		var reqErr *api.RequestError

		switch {
		case !errors.As(err, &reqErr):
			slog.Error("login failed", "error", err)
		case reqErr.Status >= 400 && reqErr.Status < 500:
			status = reqErr.Status
		default:
			slog.Error("login rejected upstream", "status", reqErr.Status, "error", err)
		}

		page.Error = view.Message(err)
		h.view.Render(w, r, status, "login", "Sign in", page)

		return
	}

	shell.MirrorCookies(w, client.Cookies())
	slog.Info("user signed in", "user_id", u.ID, "role", u.Role.Code())

	http.Redirect(w, r, page.Next, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	client, err := h.newClient(r)
	if err == nil {
		err = client.Logout(r.Context())
	}

	if err != nil && !errors.Is(err, api.ErrUnauthorized) {
		slog.Warn("remote logout failed", "error", err)
	}

	shell.ExpireCookies(w, shell.BrowserCookies(r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeNext keeps post-login redirects inside the dashboard.
func safeNext(next string) string {
	if next == nav.PathHome || strings.HasPrefix(next, nav.PathHome+"/") || strings.HasPrefix(next, nav.PathHome+"?") {
		return next
	}

	return nav.PathHome
}
