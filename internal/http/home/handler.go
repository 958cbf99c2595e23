package home

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
)

type Handler struct {
	view *view.Renderer
}

func NewHandler(v *view.Renderer) *Handler {
	return &Handler{view: v}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.overview)
}

type overviewPage struct {
	Inventories    []api.Inventory
	Summary        *api.BalanceSummary
	InventoryLinks bool
	Unavailable    []string
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())
	role := m.Identity.Role()

	page := overviewPage{InventoryLinks: nav.Allowed(role, nav.Entries, nav.PathInventory)}
	f := view.NewFetches(r.Context(), m.ID)

	f.Go("Inventories", func(ctx context.Context) (err error) {
		page.Inventories, err = m.Client.ListInventories(ctx)
		return err
	})

	if nav.Allowed(role, nav.Entries, nav.PathBalance) {
		f.Go("Balance", func(ctx context.Context) (err error) {
			page.Summary, err = m.Client.BalanceSummary(ctx)
			return err
		})
	}

	var err error
	if page.Unavailable, err = f.Wait(); err != nil {
		h.view.Fail(w, r, err)
		return
	}

	h.view.Render(w, r, http.StatusOK, "home", "Overview", page)
}
