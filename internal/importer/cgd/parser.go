package cgd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	enc "github.com/MrJamesThe3rd/backoffice/internal/encoding"
)

// ExpenseType is the type given to every imported expense.
const ExpenseType = "Bank statement"

// Parser reads CGD bank CSV exports. The format (conta, extrato, cartão) is
// detected from the column headers.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]api.CreateExpenseInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(enc.ToUTF8(raw)))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	l, cols, headerIdx := detectLayout(rows)
	if l == nil {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for %s", layoutNames())
	}

	return parseRows(l, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func layoutNames() string {
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.name
	}

	return strings.Join(names, ", ")
}

// detectLayout returns the first layout whose columns all appear in one row,
// with that row's column index and position.
func detectLayout(rows [][]string) (*layout, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range layouts {
			if matchesLayout(&layouts[i], cols) {
				return &layouts[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesLayout(p *layout, cols colIndex) bool {
	for _, name := range p.columns() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns outgoing movements into drafts. Rows without a date (footers,
// page markers) and incoming movements are skipped.
func parseRows(p *layout, cols colIndex, rows [][]string, headerRowNum int) ([]api.CreateExpenseInput, error) {
	dateIdx := cols[p.date]
	descIdx := cols[p.desc]

	var drafts []api.CreateExpenseInput

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		amount, ok := debit(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		drafts = append(drafts, api.CreateExpenseInput{
			Date:        date.Format(time.DateOnly),
			Description: desc,
			Type:        ExpenseType,
			Amount:      amount.StringFixed(2),
			Method:      p.method,
		})
	}

	return drafts, nil
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// debit returns the absolute amount of an outgoing movement. ok is false for
// credits and unreadable amounts.
func debit(p *layout, cols colIndex, row []string) (decimal.Decimal, bool) {
	if p.signed != "" {
		d, ok := amountAt(row, cols[p.signed])
		if !ok || !d.IsNegative() {
			return decimal.Zero, false
		}

		return d.Abs(), true
	}

	d, ok := amountAt(row, cols[p.debit])
	if !ok || d.IsZero() {
		return decimal.Zero, false
	}

	return d.Abs(), true
}

func amountAt(row []string, idx int) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
