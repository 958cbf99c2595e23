package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error) {
	q := url.Values{}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}

	if filter.Division != "" {
		q.Set("division", string(filter.Division))
	}

	var out []Customer
	if err := c.Request(ctx, "/customers", RequestOptions{Query: q}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var out Customer
	if err := c.Request(ctx, "/customers/"+url.PathEscape(id), RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*Customer, error) {
	var out Customer
	if err := c.Request(ctx, "/customers", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	var out []Supplier
	if err := c.Request(ctx, "/suppliers", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateSupplier(ctx context.Context, in CreateSupplierInput) (*Supplier, error) {
	var out Supplier
	if err := c.Request(ctx, "/suppliers", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
