package cgd

import "github.com/MrJamesThe3rd/backoffice/internal/api"

// layout is one CGD export format: the header names to look for and the payment
// method its debits were made with.
type layout struct {
	name   string
	method api.PaymentMethod
	date   string
	desc   string

	// signed holds the amount column for exports where debits are negative.
	// Card exports leave it empty and report debits in their own column.
	signed string
	debit  string
	credit string
}

func (l *layout) columns() []string {
	if l.signed != "" {
		return []string{l.date, l.desc, l.signed}
	}

	return []string{l.date, l.desc, l.debit, l.credit}
}

// layouts are tried in order; card comes first because its header is the narrowest.
var layouts = []layout{
	{name: "cartão", method: api.PaymentCard, date: "Data", desc: "Descrição", debit: "Débito", credit: "Crédito"},
	{name: "extrato", method: api.PaymentBank, date: "Data mov.", desc: "Descrição", signed: "Movimento"},
	{name: "conta", method: api.PaymentBank, date: "Data mov.", desc: "Descrição", signed: "Montante"},
}
