// Package importer turns bank statement exports into expense drafts.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

// Banks lists the supported statement formats.
var Banks = []Bank{BankCGD}

// Parser reads one bank's statement format. Only outgoing movements become drafts.
type Parser interface {
	Parse(r io.Reader) ([]api.CreateExpenseInput, error)
}
