package view

import (
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

// LineRows is how many line rows an order form offers.
const LineRows = 5

// FormLines reads the repeated itemId/quantity/unitPrice fields of an order form.
// Rows without an item are dropped.
func FormLines(r *http.Request) []api.Line {
	if err := r.ParseForm(); err != nil {
		return nil
	}

	var (
		items  = r.PostForm["itemId"]
		qtys   = r.PostForm["quantity"]
		prices = r.PostForm["unitPrice"]
		lines  []api.Line
	)

	for i, id := range items {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		lines = append(lines, api.Line{
			ItemID:    id,
			Quantity:  api.Numeric(strings.TrimSpace(at(qtys, i))),
			UnitPrice: api.Numeric(strings.TrimSpace(at(prices, i))),
		})
	}

	return lines
}

// PadLines returns lines followed by empty rows up to LineRows.
func PadLines(lines []api.Line) []api.Line {
	out := append([]api.Line(nil), lines...)
	for len(out) < LineRows {
		out = append(out, api.Line{})
	}

	return out
}

func at(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}

	return ""
}
