package api

import (
	"context"
	"net/http"
	"net/url"
)

func invoicePath(id, action string) string {
	p := "/sales/invoices/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}

	return p
}

func (c *Client) ListSalesInvoices(ctx context.Context) ([]SalesInvoice, error) {
	var out []SalesInvoice
	if err := c.Request(ctx, "/sales/invoices", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetSalesInvoice(ctx context.Context, id string) (*SalesInvoice, error) {
	var out SalesInvoice
	if err := c.Request(ctx, invoicePath(id, ""), RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateSalesInvoice(ctx context.Context, in CreateInvoiceInput) (*SalesInvoice, error) {
	var out SalesInvoice
	if err := c.Request(ctx, "/sales/invoices", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) AddPayment(ctx context.Context, invoiceID string, in PaymentInput) error {
	return c.Request(ctx, invoicePath(invoiceID, "payments"), RequestOptions{Method: http.MethodPost, Body: in}, nil)
}

func (c *Client) ConfirmInvoicePayment(ctx context.Context, invoiceID string) error {
	return c.Request(ctx, invoicePath(invoiceID, "confirm-payment"), RequestOptions{Method: http.MethodPost}, nil)
}

func (c *Client) DeliverInvoice(ctx context.Context, invoiceID, notes string) error {
	body := struct {
		Notes string `json:"notes"`
	}{Notes: notes}

	return c.Request(ctx, invoicePath(invoiceID, "deliver"), RequestOptions{Method: http.MethodPost, Body: body}, nil)
}
