package procurement

import (
	"context"
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
	r.Get("/procurement", h.list)
	r.Post("/procurement", h.create)
	r.Post("/procurement/{id}/confirm-payment", h.confirmPayment)
	r.Post("/procurement/{id}/receive", h.receive)
}

type listPage struct {
	Orders      []api.ProcurementOrder
	Suppliers   []api.Supplier
	Inventories []api.Inventory
	Items       []api.Item
	Methods     []api.PaymentMethod
	Lines       []api.Line
	Form        api.CreateOrderInput
	Error       string
	Unavailable []string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, listPage{Form: api.CreateOrderInput{Method: api.PaymentBank}})
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, page listPage) {
	m := shell.FromContext(r.Context())
	f := view.NewFetches(r.Context(), m.ID)

	f.Go("Orders", func(ctx context.Context) (err error) {
		page.Orders, err = m.Client.ListProcurementOrders(ctx)
		return err
	})

	if !m.Identity.ReadOnly() {
		f.Go("Suppliers", func(ctx context.Context) (err error) {
			page.Suppliers, err = m.Client.ListSuppliers(ctx)
			return err
		})
		f.Go("Inventories", func(ctx context.Context) (err error) {
			page.Inventories, err = m.Client.ListInventories(ctx)
			return err
		})
		f.Go("Items", func(ctx context.Context) (err error) {
			page.Items, err = m.Client.ListItems(ctx)
			return err
		})
	}

	var err error
	if page.Unavailable, err = f.Wait(); err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page.Methods = api.PaymentMethods
	page.Lines = view.PadLines(page.Form.Lines)

	h.view.Render(w, r, status, "procurement", "Procurement orders", page)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.CreateOrderInput{
		SupplierID:  r.PostFormValue("supplierId"),
		InventoryID: r.PostFormValue("inventoryId"),
		Method:      api.PaymentMethod(r.PostFormValue("paymentMethod")),
		Lines:       view.FormLines(r),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderList(w, r, http.StatusUnprocessableEntity, listPage{Form: in, Error: msg})
		return
	}

	order, err := m.Client.CreateProcurementOrder(r.Context(), in)
	if err != nil {
		h.renderList(w, r, http.StatusUnprocessableEntity, listPage{Form: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Order "+order.Number+" created.")
	http.Redirect(w, r, nav.PathProcurement, http.StatusSeeOther)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	if err := m.Client.ConfirmOrderPayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.renderList(w, r, http.StatusUnprocessableEntity, listPage{Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Payment confirmed.")
	http.Redirect(w, r, nav.PathProcurement, http.StatusSeeOther)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	var (
		notes   = strings.TrimSpace(r.PostFormValue("notes"))
		partial = r.PostFormValue("partial") == "true"
	)

	if err := m.Client.ReceiveOrder(r.Context(), chi.URLParam(r, "id"), notes, partial); err != nil {
		h.renderList(w, r, http.StatusUnprocessableEntity, listPage{Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Goods received.")
	http.Redirect(w, r, nav.PathProcurement, http.StatusSeeOther)
}
