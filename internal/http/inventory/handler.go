package inventory

import (
	"net/http"
	"strings"

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
	r.Get("/inventory", h.stocks)
	r.Get("/items", h.items)
	r.Post("/items", h.createItem)
	r.Post("/items/{id}/prices", h.updatePrices)
	r.Post("/items/{id}/delete", h.deleteItem)
}

type stocksPage struct {
	Inventories  []api.Inventory
	Selected     string
	Section      api.Section
	Sections     []api.Section
	FixedSection bool
	Stocks       []api.Stock
}

func (h *Handler) stocks(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	invs, err := m.Client.ListInventories(r.Context())
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page := stocksPage{
		Inventories: invs,
		Selected:    r.URL.Query().Get("inventory"),
		Section:     api.Section(r.URL.Query().Get("section")),
		Sections:    api.Sections,
	}

	// Sales staff only ever see their own section.
	if s, ok := api.SectionFor(m.Identity.Role()); ok {
		page.Section, page.FixedSection = s, true
	}

	if page.Selected == "" && len(invs) > 0 {
		page.Selected = invs[0].ID
	}

	if page.Selected != "" {
		page.Stocks, err = m.Client.InventoryStocks(r.Context(), page.Selected, page.Section)
		if err != nil {
			h.view.Fail(w, r, err)
			return
		}
	}

	h.view.Render(w, r, http.StatusOK, "inventory", "Inventory", page)
}

type itemsPage struct {
	Items    []api.Item
	Sections []api.Section
	Form     api.CreateItemInput
	Error    string
}

func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	h.renderItems(w, r, http.StatusOK, itemsPage{Form: api.CreateItemInput{Section: api.SectionGrocery}})
}

func (h *Handler) renderItems(w http.ResponseWriter, r *http.Request, status int, page itemsPage) {
	m := shell.FromContext(r.Context())

	items, err := m.Client.ListItems(r.Context())
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page.Items = items
	page.Sections = api.Sections

	h.view.Render(w, r, status, "items", "Items & prices", page)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.CreateItemInput{
		SKU:       strings.TrimSpace(r.PostFormValue("sku")),
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Unit:      strings.TrimSpace(r.PostFormValue("unit")),
		Section:   api.Section(r.PostFormValue("section")),
		BuyPrice:  strings.TrimSpace(r.PostFormValue("buyPrice")),
		SellPrice: strings.TrimSpace(r.PostFormValue("sellPrice")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderItems(w, r, http.StatusUnprocessableEntity, itemsPage{Form: in, Error: msg})
		return
	}

	if _, err := m.Client.CreateItem(r.Context(), in); err != nil {
		h.renderItems(w, r, http.StatusUnprocessableEntity, itemsPage{Form: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Item "+in.Name+" created.")
	http.Redirect(w, r, nav.PathItems, http.StatusSeeOther)
}

func (h *Handler) updatePrices(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.ItemPricesInput{
		BuyPrice:  strings.TrimSpace(r.PostFormValue("buyPrice")),
		SellPrice: strings.TrimSpace(r.PostFormValue("sellPrice")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderItems(w, r, http.StatusUnprocessableEntity, itemsPage{Error: msg})
		return
	}

	if err := m.Client.UpdateItemPrices(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		h.renderItems(w, r, http.StatusUnprocessableEntity, itemsPage{Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Prices updated.")
	http.Redirect(w, r, nav.PathItems, http.StatusSeeOther)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	if err := m.Client.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.renderItems(w, r, http.StatusUnprocessableEntity, itemsPage{Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Item deleted.")
	http.Redirect(w, r, nav.PathItems, http.StatusSeeOther)
}
