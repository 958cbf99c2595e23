package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "Valid",
			in:   api.CreateExpenseInput{Date: "2024-01-31", Description: "Fuel", Type: "TRANSPORT", Amount: "12.5", Method: api.PaymentCash},
			want: "",
		},
		{
			name: "MissingAndMalformed",
			in:   api.CreateExpenseInput{Date: "31/01/2024", Description: "Fuel", Type: "TRANSPORT", Amount: "abc", Method: "GOLD"},
			want: "date: must be a date (YYYY-MM-DD); amount: must be a number; method: must be one of CASH BANK CARD CREDIT",
		},
		{
			name: "NoLines",
			in:   api.CreateInvoiceInput{CustomerID: "c1", InventoryID: "i1"},
			want: "lines: is required",
		},
		{
			name: "BadLine",
			in: api.CreateInvoiceInput{CustomerID: "c1", InventoryID: "i1", Lines: []api.Line{
				{ItemID: "it", Quantity: "2"},
			}},
			want: "lines[0].unitPrice: is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.Validate(tt.in))
		})
	}
}
