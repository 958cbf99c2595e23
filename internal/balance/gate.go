// Package balance implements the opening-balance gate: accountants and managers
// cannot use the dashboard until the accounting period has been opened.
package balance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/nav"
	"github.com/MrJamesThe3rd/backoffice/internal/role"
	"github.com/MrJamesThe3rd/backoffice/internal/session"
)

// SetupPath is the only page a gated user can reach while the period is not open.
const SetupPath = nav.PathOpeningBalance

type PeriodStatus int

const (
	Open PeriodStatus = iota
	NotOpen
)

func (s PeriodStatus) String() string {
	if s == NotOpen {
		return "not_open"
	}

	return "open"
}

// Decision is what the shell does with the requested page.
type Decision int

const (
	Pass Decision = iota
	Redirect
	Block
)

//go:generate mockgen -source=gate.go -destination=gate_mock.go -package=balance
type StatusSource interface {
	BalanceStatus(ctx context.Context) (json.RawMessage, error)
}

type Gate struct {
	source   StatusSource
	failOpen bool
}

// NewGate creates a gate. failOpen decides how a failed status query is treated:
// true lets the user through, false blocks as if the period were not open.
func NewGate(source StatusSource, failOpen bool) *Gate {
	return &Gate{source: source, failOpen: failOpen}
}

// Check returns the period status as it applies to id. Roles outside the gate are
// always Open and cause no API call.
func (g *Gate) Check(ctx context.Context, id session.Identity) PeriodStatus {
	if !role.GatedByOpeningBalance(id.Role()) {
		return Open
	}

	raw, err := g.source.BalanceStatus(ctx)
	if err == nil {
		var st PeriodStatus

		st, err = ParseStatus(raw)
		if err == nil {
			return st
		}
	}

	slog.Warn("balance status check failed", "error", err, "fail_open", g.failOpen)

	if g.failOpen {
		return Open
	}

	return NotOpen
}

// Decide maps a status and the requested path to a decision. navigable is false for
// requests that cannot follow a redirect, which get the blocking panel instead.
func Decide(st PeriodStatus, path string, navigable bool) Decision {
	if st == Open || path == SetupPath {
		return Pass
	}

	if navigable {
		return Redirect
	}

	return Block
}

// ParseStatus reads either {"isOpen": bool} or the legacy map of account buckets,
// where the period counts as open once any bucket holds a positive amount.
func ParseStatus(raw json.RawMessage) (PeriodStatus, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return NotOpen, fmt.Errorf("decoding balance status: %w", err)
	}

	if v, ok := doc["isOpen"]; ok {
		var open bool
		if err := json.Unmarshal(v, &open); err != nil {
			return NotOpen, fmt.Errorf("decoding isOpen: %w", err)
		}

		if open {
			return Open, nil
		}

		return NotOpen, nil
	}

	for _, v := range doc {
		if d, ok := bucketAmount(v); ok && d.IsPositive() {
			return Open, nil
		}
	}

	return NotOpen, nil
}

func bucketAmount(v json.RawMessage) (decimal.Decimal, bool) {
	v = bytes.Trim(bytes.TrimSpace(v), `"`)

	d, err := decimal.NewFromString(string(v))
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}
