package cgd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/importer/cgd"
)

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	drafts, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, api.CreateExpenseInput{
		Date:        "2026-01-30",
		Description: "INSTITUTO GESTAO FINA",
		Type:        cgd.ExpenseType,
		Amount:      "588.74",
		Method:      api.PaymentBank,
	}, drafts[0])
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Intervalo de ;01-02-2026 a 14-02-2026

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	drafts, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, "2026-02-13", drafts[0].Date)
	assert.Equal(t, "PAGAMENTO TSU", drafts[0].Description)
	assert.Equal(t, "608.13", drafts[0].Amount)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Conta cartão ;4163 **** **** 8016 - EUR - Business Débito

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
 ; ; ; ;Página 1/2 ;
`

	drafts, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "2025-12-16", drafts[0].Date)
	assert.Equal(t, "64.00", drafts[0].Amount)
	assert.Equal(t, api.PaymentCard, drafts[0].Method)

	assert.Equal(t, "UBER   *TRIP             HELP.UBER.COMNL", drafts[1].Description)
	assert.Equal(t, "47.91", drafts[1].Amount)
}

func TestParser_DraftsPassValidation(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
`

	drafts, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Empty(t, api.Validate(drafts[0]))
}

func TestParser_Latin1Encoding(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Data mov.;Descrição;Montante\n30-01-2026;CAFÉ CENTRAL;-10,00\n"))
	require.NoError(t, err)

	drafts, err := cgd.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, "CAFÉ CENTRAL", drafts[0].Description)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{name: "EmptyFile", csv: "", wantErr: "no matching CGD format"},
		{name: "MissingDescription", csv: "Data mov.;Descrição;Montante\n30-01-2026;;-10,00\n", wantErr: "row 2: missing description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_Rows(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		wantAmount []string
	}{
		{
			name:       "DifferentColumnOrder",
			csv:        "Random;MetaData\nMontante;Descrição;Data mov.;Ignored\n-10,00;TEST_ORDER;30-01-2026;XXX\n",
			wantAmount: []string{"10.00"},
		},
		{
			name: "HeaderOnly",
			csv:  "Data mov.;Data-valor;Descrição;Montante",
		},
		{
			name:       "LargeAmounts",
			csv:        "Data mov.;Descrição;Montante\n30-01-2026;BIG TRANSFER;-1.234.567,89\n",
			wantAmount: []string{"1234567.89"},
		},
		{
			name:       "SkipsFooterRows",
			csv:        "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\nTotais;;;;\n",
			wantAmount: []string{"10.00"},
		},
		{
			name: "SkipsIncomeAndZero",
			csv:  "Data mov.;Descrição;Montante\n30-01-2026;IN;10,00\n30-01-2026;NOTHING;0,00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := cgd.NewParser().Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)

			var got []string
			for _, d := range drafts {
				got = append(got, d.Amount)
			}

			assert.Equal(t, tt.wantAmount, got)
		})
	}
}
