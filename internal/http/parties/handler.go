package parties

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
	r.Get("/customers", h.customers)
	r.Post("/customers", h.createCustomer)
	r.Get("/customers/{id}", h.customer)
	r.Get("/suppliers", h.suppliers)
	r.Post("/suppliers", h.createSupplier)
}

var customerTypes = []api.CustomerType{api.CustomerRetail, api.CustomerWholesale}

type customersPage struct {
	Customers     []api.Customer
	Filter        api.CustomerFilter
	FixedDivision bool
	Types         []api.CustomerType
	Sections      []api.Section
	Form          api.CreateCustomerInput
	Error         string
}

func (h *Handler) customers(w http.ResponseWriter, r *http.Request) {
	page := customersPage{
		Filter: api.CustomerFilter{
			Type:     api.CustomerType(r.URL.Query().Get("type")),
			Division: api.Section(r.URL.Query().Get("division")),
		},
		Form: api.CreateCustomerInput{Type: api.CustomerRetail},
	}

	h.renderCustomers(w, r, http.StatusOK, page)
}

func (h *Handler) renderCustomers(w http.ResponseWriter, r *http.Request, status int, page customersPage) {
	m := shell.FromContext(r.Context())

	if s, ok := api.SectionFor(m.Identity.Role()); ok {
		page.Filter.Division, page.FixedDivision = s, true

		if page.Form.Division == "" {
			page.Form.Division = s
		}
	}

	customers, err := m.Client.ListCustomers(r.Context(), page.Filter)
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page.Customers = customers
	page.Types = customerTypes
	page.Sections = api.Sections

	h.view.Render(w, r, status, "customers", "Customers", page)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.CreateCustomerInput{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Type:     api.CustomerType(r.PostFormValue("type")),
		Division: api.Section(r.PostFormValue("division")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Address:  strings.TrimSpace(r.PostFormValue("address")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderCustomers(w, r, http.StatusUnprocessableEntity, customersPage{Form: in, Error: msg})
		return
	}

	if _, err := m.Client.CreateCustomer(r.Context(), in); err != nil {
		h.renderCustomers(w, r, http.StatusUnprocessableEntity, customersPage{Form: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Customer "+in.Name+" created.")
	http.Redirect(w, r, nav.PathCustomers, http.StatusSeeOther)
}

type customerPage struct {
	Customer *api.Customer
	Invoices []api.SalesInvoice
}

func (h *Handler) customer(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	c, err := m.Client.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page := customerPage{Customer: c}

	// Only roles that can open sales invoices see them here.
	if nav.Allowed(m.Identity.Role(), nav.Entries, nav.PathSales) {
		all, err := m.Client.ListSalesInvoices(r.Context())
		if err != nil {
			h.view.Fail(w, r, err)
			return
		}

		for _, inv := range all {
			if inv.CustomerID == c.ID {
				page.Invoices = append(page.Invoices, inv)
			}
		}
	}

	h.view.Render(w, r, http.StatusOK, "customer", c.Name, page)
}

type suppliersPage struct {
	Suppliers []api.Supplier
	Form      api.CreateSupplierInput
	Error     string
}

func (h *Handler) suppliers(w http.ResponseWriter, r *http.Request) {
	h.renderSuppliers(w, r, http.StatusOK, suppliersPage{})
}

func (h *Handler) renderSuppliers(w http.ResponseWriter, r *http.Request, status int, page suppliersPage) {
	m := shell.FromContext(r.Context())

	suppliers, err := m.Client.ListSuppliers(r.Context())
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page.Suppliers = suppliers

	h.view.Render(w, r, status, "suppliers", "Suppliers", page)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.CreateSupplierInput{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Phone:   strings.TrimSpace(r.PostFormValue("phone")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderSuppliers(w, r, http.StatusUnprocessableEntity, suppliersPage{Form: in, Error: msg})
		return
	}

	if _, err := m.Client.CreateSupplier(r.Context(), in); err != nil {
		h.renderSuppliers(w, r, http.StatusUnprocessableEntity, suppliersPage{Form: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Supplier "+in.Name+" created.")
	http.Redirect(w, r, nav.PathSuppliers, http.StatusSeeOther)
}
