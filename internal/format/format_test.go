package format_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/format"
)

func TestNew_RejectsUnknownCodes(t *testing.T) {
	_, err := format.New("en", "XYZW")
	assert.Error(t, err)

	_, err = format.New("not a locale!", "USD")
	assert.Error(t, err)
}

func TestFormatter_Number(t *testing.T) {
	f, err := format.New("en", "USD")
	require.NoError(t, err)

	assert.Equal(t, "1,234.50", f.Number(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", f.Number(decimal.Zero))
	assert.Equal(t, "12,000", f.Count(12000))
	assert.Equal(t, "100.50", f.Text("100.5"))
	assert.Equal(t, "n/a", f.Text("n/a"))
}

func TestFormatter_Money(t *testing.T) {
	f, err := format.New("en", "USD")
	require.NoError(t, err)

	got := f.Money(decimal.RequireFromString("1234.5"))
	assert.Contains(t, got, "$")
	assert.Contains(t, got, "1,234.50")
}

func TestFormatter_GermanGrouping(t *testing.T) {
	f, err := format.New("de", "EUR")
	require.NoError(t, err)

	assert.Equal(t, "1.234,50", f.Number(decimal.RequireFromString("1234.5")))
}
