package aggregate_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/aggregate"
	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

func byMethod(expenses []api.Expense) aggregate.Result {
	return aggregate.By(expenses,
		func(e api.Expense) string { return string(e.Method) },
		func(e api.Expense) string { return string(e.Amount) },
	)
}

func TestBy_ExpensesByPaymentMethod(t *testing.T) {
	expenses := []api.Expense{
		{Amount: "100.50", Method: api.PaymentCash},
		{Amount: "50", Method: api.PaymentBank},
		{Amount: "bad", Method: api.PaymentCash},
	}

	res := byMethod(expenses)

	cash := res.Get("CASH")
	assert.True(t, decimal.RequireFromString("100.50").Equal(cash.Total), cash.Total.String())
	assert.Equal(t, 2, cash.Count)

	bank := res.Get("BANK")
	assert.True(t, decimal.NewFromInt(50).Equal(bank.Total))
	assert.Equal(t, 1, bank.Count)
}

func TestBy_Empty(t *testing.T) {
	res := byMethod(nil)

	assert.Empty(t, res)
	assert.True(t, res.Get("CASH").Total.IsZero())
	assert.Equal(t, 0, res.Sum().Count)
	assert.Empty(t, res.Sorted())
}

func TestBy_MissingGroupGoesToOther(t *testing.T) {
	res := byMethod([]api.Expense{
		{Amount: "10", Method: ""},
		{Amount: "5", Method: "  "},
		{Amount: "1", Method: api.PaymentCard},
	})

	other := res.Get(aggregate.Other)
	assert.Equal(t, 2, other.Count)
	assert.True(t, decimal.NewFromInt(15).Equal(other.Total))

	sorted := res.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, aggregate.Other, sorted[1].Key)
}

func TestBy_CountsAndTotalsAddUp(t *testing.T) {
	amounts := []string{"1.10", "x", "2.20", "", "-0.30", "1e2", "3"}
	methods := []api.PaymentMethod{api.PaymentCash, api.PaymentBank, api.PaymentCard, "", api.PaymentCash, api.PaymentBank, "WIRE"}

	var (
		expenses []api.Expense
		want     decimal.Decimal
	)

	for i, a := range amounts {
		expenses = append(expenses, api.Expense{Amount: api.Numeric(a), Method: methods[i]})

		if d, err := decimal.NewFromString(a); err == nil {
			want = want.Add(d)
		}
	}

	all := byMethod(expenses).Sum()
	assert.Equal(t, len(expenses), all.Count)
	assert.True(t, want.Equal(all.Total), "want %s got %s", want, all.Total)
}

func TestSorted_Order(t *testing.T) {
	res := byMethod([]api.Expense{
		{Amount: "5", Method: api.PaymentBank},
		{Amount: "5", Method: api.PaymentCard},
		{Amount: "20", Method: api.PaymentCash},
	})

	var keys []string
	for _, g := range res.Sorted() {
		keys = append(keys, g.Key)
	}

	assert.Equal(t, []string{"CASH", "BANK", "CARD"}, keys)
}

func TestFields_RawRecords(t *testing.T) {
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(`[
		{"amount":"100.50","method":"CASH"},
		{"amount":50,"method":"BANK"},
		{"amount":"bad","method":"CASH"},
		{"amount":7}
	]`), &records))

	res := aggregate.Fields(records, "method", "amount")

	assert.Equal(t, 2, res.Get("CASH").Count)
	assert.Equal(t, "100.5", res.Get("CASH").Total.String())
	assert.Equal(t, "50", res.Get("BANK").Total.String())
	assert.Equal(t, 1, res.Get(aggregate.Other).Count)
}
