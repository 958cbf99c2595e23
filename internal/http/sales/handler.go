package sales

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
	r.Get("/sales", h.list)
	r.Post("/sales", h.create)
	r.Get("/sales/{id}", h.detail)
	r.Post("/sales/{id}/payments", h.addPayment)
	r.Post("/sales/{id}/confirm-payment", h.confirmPayment)
	r.Post("/sales/{id}/deliver", h.deliver)
}

type listPage struct {
	Invoices    []api.SalesInvoice
	Customers   []api.Customer
	Inventories []api.Inventory
	Items       []api.Item
	Lines       []api.Line
	Form        api.CreateInvoiceInput
	Error       string
	Unavailable []string
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, listPage{})
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, page listPage) {
	m := shell.FromContext(r.Context())
	f := view.NewFetches(r.Context(), m.ID)

	f.Go("Invoices", func(ctx context.Context) (err error) {
		page.Invoices, err = m.Client.ListSalesInvoices(ctx)
		return err
	})

	if !m.Identity.ReadOnly() {
		filter := api.CustomerFilter{}
		if s, ok := api.SectionFor(m.Identity.Role()); ok {
			filter.Division = s
		}

		f.Go("Customers", func(ctx context.Context) (err error) {
			page.Customers, err = m.Client.ListCustomers(ctx, filter)
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

	page.Lines = view.PadLines(page.Form.Lines)

	h.view.Render(w, r, status, "sales", "Sales invoices", page)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.CreateInvoiceInput{
		CustomerID:  r.PostFormValue("customerId"),
		InventoryID: r.PostFormValue("inventoryId"),
		Lines:       view.FormLines(r),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderList(w, r, http.StatusUnprocessableEntity, listPage{Form: in, Error: msg})
		return
	}

	inv, err := m.Client.CreateSalesInvoice(r.Context(), in)
	if err != nil {
		h.renderList(w, r, http.StatusUnprocessableEntity, listPage{Form: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Invoice "+inv.Number+" created.")
	http.Redirect(w, r, nav.PathSales+"/"+inv.ID, http.StatusSeeOther)
}

type detailPage struct {
	Invoice *api.SalesInvoice
	Methods []api.PaymentMethod
	Payment api.PaymentInput
	Error   string
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, http.StatusOK, detailPage{Payment: api.PaymentInput{Method: api.PaymentCash}})
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, status int, page detailPage) {
	m := shell.FromContext(r.Context())

	inv, err := m.Client.GetSalesInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page.Invoice = inv
	page.Methods = api.PaymentMethods

	h.view.Render(w, r, status, "invoice", "Invoice "+inv.Number, page)
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.PaymentInput{
		Amount:    strings.TrimSpace(r.PostFormValue("amount")),
		Method:    api.PaymentMethod(r.PostFormValue("method")),
		Reference: strings.TrimSpace(r.PostFormValue("reference")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderDetail(w, r, http.StatusUnprocessableEntity, detailPage{Payment: in, Error: msg})
		return
	}

	id := chi.URLParam(r, "id")

	if err := m.Client.AddPayment(r.Context(), id, in); err != nil {
		h.renderDetail(w, r, http.StatusUnprocessableEntity, detailPage{Payment: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Payment recorded.")
	http.Redirect(w, r, nav.PathSales+"/"+id, http.StatusSeeOther)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := m.Client.ConfirmInvoicePayment(r.Context(), id); err != nil {
		h.renderDetail(w, r, http.StatusUnprocessableEntity, detailPage{Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Payment confirmed.")
	http.Redirect(w, r, nav.PathSales+"/"+id, http.StatusSeeOther)
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := m.Client.DeliverInvoice(r.Context(), id, strings.TrimSpace(r.PostFormValue("notes"))); err != nil {
		h.renderDetail(w, r, http.StatusUnprocessableEntity, detailPage{Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Invoice marked as delivered.")
	http.Redirect(w, r, nav.PathSales+"/"+id, http.StatusSeeOther)
}
