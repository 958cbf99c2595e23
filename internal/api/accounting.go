package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

func (c *Client) ListExpenses(ctx context.Context) ([]Expense, error) {
	var out []Expense
	if err := c.Request(ctx, "/accounting/expenses", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, in CreateExpenseInput) (*Expense, error) {
	var out Expense
	if err := c.Request(ctx, "/accounting/expenses", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) OpeningBalances(ctx context.Context) (OpeningBalances, error) {
	out := OpeningBalances{}
	if err := c.Request(ctx, "/accounting/opening-balances", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) SetOpeningBalances(ctx context.Context, in SetOpeningBalancesInput) error {
	return c.Request(ctx, "/accounting/opening-balances", RequestOptions{Method: http.MethodPost, Body: in}, nil)
}

func (c *Client) BalanceSummary(ctx context.Context) (*BalanceSummary, error) {
	var out BalanceSummary
	if err := c.Request(ctx, "/accounting/balance/summary", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// BalanceStatus returns the raw balance-status document. Two response shapes are
// in circulation, so interpretation is left to the caller.
func (c *Client) BalanceStatus(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Request(ctx, "/accounting/balance-status", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) AuditLogs(ctx context.Context) ([]AuditLog, error) {
	var out []AuditLog
	if err := c.Request(ctx, "/accounting/audit", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// RecalculateAggregators asks the API to rebuild its aggregate tables and returns
// immediately. The outcome is only logged; done, if not nil, is closed afterwards.
func (c *Client) RecalculateAggregators(ctx context.Context, in RecalculateInput, done chan<- struct{}) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if done != nil {
			defer close(done)
		}

		err := c.Request(ctx, "/accounting/aggregators/recalculate", RequestOptions{Method: http.MethodPost, Body: in}, nil)
		if err != nil {
			slog.Warn("aggregator recalculation failed", "error", err, "start", in.StartDate, "end", in.EndDate)
			return
		}

		slog.Info("aggregator recalculation requested", "start", in.StartDate, "end", in.EndDate)
	}()
}
