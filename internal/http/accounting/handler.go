package accounting

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/backoffice/internal/aggregate"
	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/export"
	"github.com/MrJamesThe3rd/backoffice/internal/http/shell"
	"github.com/MrJamesThe3rd/backoffice/internal/http/view"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/nav"
)

type Handler struct {
	view *view.Renderer
	now  func() time.Time
}

func NewHandler(v *view.Renderer) *Handler {
	return &Handler{view: v, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/accounting/expenses", h.expenses)
	r.Post("/accounting/expenses", h.createExpense)
	r.Post("/accounting/expenses/import", h.importStatement)
	r.Get("/accounting/opening-balance", h.openingForm)
	r.Post("/accounting/opening-balance", h.openPeriod)
	r.Get("/accounting/balance", h.balance)
	r.Get("/accounting/audit", h.audit)
	r.Get("/accounting/recalculate", h.recalculateForm)
	r.Post("/accounting/recalculate", h.recalculate)
}

type methodGroup struct {
	Label string
	aggregate.Bucket
}

type expensesPage struct {
	Expenses []api.Expense
	Groups   []methodGroup
	Total    aggregate.Bucket
	Methods  []api.PaymentMethod
	Banks    []importer.Bank
	Form     api.CreateExpenseInput
	Error    string
}

func (h *Handler) expenses(w http.ResponseWriter, r *http.Request) {
	form := api.CreateExpenseInput{Date: h.now().Format(time.DateOnly), Method: api.PaymentCash}
	h.renderExpenses(w, r, http.StatusOK, expensesPage{Form: form})
}

func (h *Handler) renderExpenses(w http.ResponseWriter, r *http.Request, status int, page expensesPage) {
	m := shell.FromContext(r.Context())

	expenses, err := m.Client.ListExpenses(r.Context())
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	totals := export.ByMethod(expenses)
	for _, g := range totals.Sorted() {
		page.Groups = append(page.Groups, methodGroup{Label: api.PaymentMethod(g.Key).Label(), Bucket: g.Bucket})
	}

	page.Expenses = expenses
	page.Total = totals.Sum()
	page.Methods = api.PaymentMethods
	page.Banks = importer.Banks

	h.view.Render(w, r, status, "expenses", "Expenses", page)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.CreateExpenseInput{
		Date:        strings.TrimSpace(r.PostFormValue("date")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Type:        strings.TrimSpace(r.PostFormValue("type")),
		Amount:      strings.TrimSpace(r.PostFormValue("amount")),
		Method:      api.PaymentMethod(r.PostFormValue("method")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderExpenses(w, r, http.StatusUnprocessableEntity, expensesPage{Form: in, Error: msg})
		return
	}

	if _, err := m.Client.CreateExpense(r.Context(), in); err != nil {
		h.renderExpenses(w, r, http.StatusUnprocessableEntity, expensesPage{Form: in, Error: view.Message(err)})
		return
	}

	h.view.Notify(w, "Expense recorded.")
	http.Redirect(w, r, nav.PathExpenses, http.StatusSeeOther)
}

const maxStatementSize = 10 << 20

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())
	fail := func(msg string) {
		h.renderExpenses(w, r, http.StatusUnprocessableEntity, expensesPage{
			Form:  api.CreateExpenseInput{Date: h.now().Format(time.DateOnly), Method: api.PaymentCash},
			Error: msg,
		})
	}

	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		fail("statement: could not read the upload")
		return
	}

	f, _, err := r.FormFile("statement")
	if err != nil {
		fail("statement: is required")
		return
	}
	defer f.Close()

	svc := importer.NewService(m.Client)

	drafts, err := svc.Parse(importer.Bank(r.FormValue("bank")), f)
	if err != nil {
		fail(err.Error())
		return
	}

	res := svc.Record(r.Context(), drafts)
	slog.Info("bank statement imported", "created", res.Created, "failed", len(res.Failed), "user_id", m.Identity.ID())

	notice := fmt.Sprintf("%d expenses imported.", res.Created)
	if len(res.Failed) > 0 {
		notice += fmt.Sprintf(" %d rows failed, first: row %d, %s", len(res.Failed), res.Failed[0].Row, res.Failed[0].Message)
	}

	h.view.Notify(w, notice)
	http.Redirect(w, r, nav.PathExpenses, http.StatusSeeOther)
}

type bucketField struct {
	Name  string
	Label string
	Value string
}

type openingPage struct {
	PeriodStart string
	Fields      []bucketField
	Error       string
}

func bucketFields(values map[api.AccountBucket]string) []bucketField {
	fields := make([]bucketField, len(api.AccountBuckets))
	for i, b := range api.AccountBuckets {
		fields[i] = bucketField{Name: string(b), Label: b.Label(), Value: values[b]}
	}

	return fields
}

func (h *Handler) openingForm(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	values := make(map[api.AccountBucket]string, len(api.AccountBuckets))

	current, err := m.Client.OpeningBalances(r.Context())
	if err != nil {
		slog.Info("no opening balances to prefill", "error", err, "mount_id", m.ID)
	}

	for b, v := range current {
		values[b] = string(v)
	}

	page := openingPage{
		PeriodStart: time.Date(h.now().Year(), h.now().Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		Fields:      bucketFields(values),
	}

	h.view.Render(w, r, http.StatusOK, "opening_balance", "Opening balance", page)
}

func (h *Handler) openPeriod(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.SetOpeningBalancesInput{
		PeriodStart: strings.TrimSpace(r.PostFormValue("periodStart")),
		Balances:    make(map[api.AccountBucket]string, len(api.AccountBuckets)),
	}

	for _, b := range api.AccountBuckets {
		v := strings.TrimSpace(r.PostFormValue(string(b)))
		if v == "" {
			v = "0"
		}

		in.Balances[b] = v
	}

	page := openingPage{PeriodStart: in.PeriodStart, Fields: bucketFields(in.Balances)}

	if msg := api.Validate(in); msg != "" {
		page.Error = msg
		h.view.Render(w, r, http.StatusUnprocessableEntity, "opening_balance", "Opening balance", page)

		return
	}

	if err := m.Client.SetOpeningBalances(r.Context(), in); err != nil {
		page.Error = view.Message(err)
		h.view.Render(w, r, http.StatusUnprocessableEntity, "opening_balance", "Opening balance", page)

		return
	}

	slog.Info("accounting period opened", "period_start", in.PeriodStart, "user_id", m.Identity.ID())
	h.view.Notify(w, "Opening balances saved. The period is open.")
	http.Redirect(w, r, nav.PathHome, http.StatusSeeOther)
}

type openingRow struct {
	Label string
	Value api.Numeric
}

type balancePage struct {
	Summary     *api.BalanceSummary
	Opening     []openingRow
	Unavailable []string
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	var (
		summary *api.BalanceSummary
		opening api.OpeningBalances
		f       = view.NewFetches(r.Context(), m.ID)
	)

	f.Go("Balance", func(ctx context.Context) (err error) {
		summary, err = m.Client.BalanceSummary(ctx)
		return err
	})
	f.Go("Opening balances", func(ctx context.Context) (err error) {
		opening, err = m.Client.OpeningBalances(ctx)
		return err
	})

	unavailable, err := f.Wait()
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page := balancePage{Summary: summary, Unavailable: unavailable}
	for _, b := range api.AccountBuckets {
		if v, ok := opening[b]; ok {
			page.Opening = append(page.Opening, openingRow{Label: b.Label(), Value: v})
		}
	}

	h.view.Render(w, r, http.StatusOK, "balance", "Balance", page)
}

type auditPage struct {
	Logs []api.AuditLog
}

func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	logs, err := m.Client.AuditLogs(r.Context())
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	h.view.Render(w, r, http.StatusOK, "audit", "Audit log", auditPage{Logs: logs})
}

type recalculatePage struct {
	Inventories []api.Inventory
	Sections    []api.Section
	Form        api.RecalculateInput
	Error       string
}

func (h *Handler) recalculateForm(w http.ResponseWriter, r *http.Request) {
	today := h.now()
	form := api.RecalculateInput{
		StartDate: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
		EndDate:   today.Format(time.DateOnly),
	}

	h.renderRecalculate(w, r, http.StatusOK, recalculatePage{Form: form})
}

func (h *Handler) renderRecalculate(w http.ResponseWriter, r *http.Request, status int, page recalculatePage) {
	m := shell.FromContext(r.Context())

	invs, err := m.Client.ListInventories(r.Context())
	if err != nil {
		h.view.Fail(w, r, err)
		return
	}

	page.Inventories = invs
	page.Sections = api.Sections

	h.view.Render(w, r, status, "recalculate", "Recalculate totals", page)
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	m := shell.FromContext(r.Context())

	in := api.RecalculateInput{
		StartDate:   strings.TrimSpace(r.PostFormValue("startDate")),
		EndDate:     strings.TrimSpace(r.PostFormValue("endDate")),
		InventoryID: r.PostFormValue("inventoryId"),
		Section:     api.Section(r.PostFormValue("section")),
	}

	if msg := api.Validate(in); msg != "" {
		h.renderRecalculate(w, r, http.StatusUnprocessableEntity, recalculatePage{Form: in, Error: msg})
		return
	}

	if in.EndDate < in.StartDate {
		h.renderRecalculate(w, r, http.StatusUnprocessableEntity, recalculatePage{Form: in, Error: "endDate: must not be before startDate"})
		return
	}

	m.Client.RecalculateAggregators(r.Context(), in, nil)

	h.view.Notify(w, "Recalculation started.")
	http.Redirect(w, r, nav.PathRecalculate, http.StatusSeeOther)
}
