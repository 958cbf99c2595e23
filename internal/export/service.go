package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/backoffice/internal/aggregate"
	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type ExpenseLister interface {
	ListExpenses(ctx context.Context) ([]api.Expense, error)
}

// Filter narrows an export. Zero values match everything; both dates are inclusive.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Method    api.PaymentMethod
}

func (f Filter) match(e api.Expense) bool {
	day := e.Date.Truncate(24 * time.Hour)

	if f.StartDate != nil && day.Before(f.StartDate.Truncate(24*time.Hour)) {
		return false
	}

	if f.EndDate != nil && day.After(f.EndDate.Truncate(24*time.Hour)) {
		return false
	}

	return f.Method == "" || e.Method == f.Method
}

// Service handles the export of expenses.
type Service struct {
	expenses ExpenseLister
}

func NewService(expenses ExpenseLister) *Service {
	return &Service{expenses: expenses}
}

// Export lists the expenses matching filter, in the order the API returned them.
func (s *Service) Export(ctx context.Context, filter Filter) ([]api.Expense, error) {
	all, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	items := make([]api.Expense, 0, len(all))

	for _, e := range all {
		if filter.match(e) {
			items = append(items, e)
		}
	}

	return items, nil
}

var header = []string{"date", "description", "type", "method", "amount"}

// WriteCSV writes items with a header row. Amounts are written as the API sent them.
func WriteCSV(w io.Writer, items []api.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range items {
		rec := []string{
			e.Date.Format(time.DateOnly),
			e.Description,
			e.Type,
			string(e.Method),
			string(e.Amount),
		}

		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Filename returns the attachment name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("expenses_%s.csv", now.Format("20060102"))
}

// Summary renders one line per payment method followed by the grand total, for
// pasting into a message.
func Summary(items []api.Expense) string {
	totals := ByMethod(items)

	var sb strings.Builder

	for _, g := range totals.Sorted() {
		label := api.PaymentMethod(g.Key).Label()
		fmt.Fprintf(&sb, "* %s | %d | %s\n", label, g.Count, g.Total.StringFixed(2))
	}

	fmt.Fprintf(&sb, "Total: %s\n", totals.Sum().Total.StringFixed(2))

	return sb.String()
}

// ByMethod totals expenses per payment method. Methods outside api.PaymentMethods
// share the Other group.
func ByMethod(items []api.Expense) aggregate.Result {
	return aggregate.By(items,
		func(e api.Expense) string {
			if !slices.Contains(api.PaymentMethods, e.Method) {
				return aggregate.Other
			}

			return string(e.Method)
		},
		func(e api.Expense) string { return string(e.Amount) },
	)
}
