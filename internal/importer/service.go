package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/importer/cgd"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type ExpenseCreator interface {
	CreateExpense(ctx context.Context, in api.CreateExpenseInput) (*api.Expense, error)
}

type Service struct {
	parsers  map[Bank]Parser
	expenses ExpenseCreator
}

func NewService(expenses ExpenseCreator) *Service {
	return &Service{
		parsers:  map[Bank]Parser{BankCGD: cgd.NewParser()},
		expenses: expenses,
	}
}

func (s *Service) Parse(bank Bank, r io.Reader) ([]api.CreateExpenseInput, error) {
	p, ok := s.parsers[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return p.Parse(r)
}

// RowError explains why one draft was not recorded. Row is 1-based.
type RowError struct {
	Row         int
	Description string
	Message     string
}

type Result struct {
	Created int
	Failed  []RowError
}

// Record creates the drafts one by one. A failed row does not stop the rest; a
// cancelled context does.
func (s *Service) Record(ctx context.Context, drafts []api.CreateExpenseInput) Result {
	var res Result

	for i, d := range drafts {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, RowError{Row: i + 1, Description: d.Description, Message: ctx.Err().Error()})
			continue
		}

		if problem := api.Validate(d); problem != "" {
			res.Failed = append(res.Failed, RowError{Row: i + 1, Description: d.Description, Message: problem})
			continue
		}

		if _, err := s.expenses.CreateExpense(ctx, d); err != nil {
			slog.Warn("importing expense failed", "row", i+1, "error", err)
			res.Failed = append(res.Failed, RowError{Row: i + 1, Description: d.Description, Message: err.Error()})

			continue
		}

		res.Created++
	}

	return res
}
