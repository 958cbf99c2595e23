package api

import (
	"context"
	"net/http"
	"net/url"
)

func orderPath(id, action string) string {
	return "/procurement/orders/" + url.PathEscape(id) + "/" + action
}

func (c *Client) ListProcurementOrders(ctx context.Context) ([]ProcurementOrder, error) {
	var out []ProcurementOrder
	if err := c.Request(ctx, "/procurement/orders", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateProcurementOrder(ctx context.Context, in CreateOrderInput) (*ProcurementOrder, error) {
	var out ProcurementOrder
	if err := c.Request(ctx, "/procurement/orders", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ConfirmOrderPayment(ctx context.Context, orderID string) error {
	return c.Request(ctx, orderPath(orderID, "confirm-payment"), RequestOptions{Method: http.MethodPost}, nil)
}

// ReceiveOrder books the goods of an order into its inventory. partial marks a
// delivery that does not yet complete the order.
func (c *Client) ReceiveOrder(ctx context.Context, orderID, notes string, partial bool) error {
	body := struct {
		Notes   string `json:"notes"`
		Partial bool   `json:"partial"`
	}{Notes: notes, Partial: partial}

	return c.Request(ctx, orderPath(orderID, "receive"), RequestOptions{Method: http.MethodPost, Body: body}, nil)
}
