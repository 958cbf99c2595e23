package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListInventories(ctx context.Context) ([]Inventory, error) {
	var out []Inventory
	if err := c.Request(ctx, "/inventories", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// InventoryStocks lists stock levels of one inventory, optionally narrowed to a section.
func (c *Client) InventoryStocks(ctx context.Context, inventoryID string, section Section) ([]Stock, error) {
	opts := RequestOptions{}
	if section != "" {
		opts.Query = url.Values{"section": {string(section)}}
	}

	var out []Stock
	if err := c.Request(ctx, "/inventories/"+url.PathEscape(inventoryID)+"/stocks", opts, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var out []Item
	if err := c.Request(ctx, "/items", RequestOptions{}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, in CreateItemInput) (*Item, error) {
	var out Item
	if err := c.Request(ctx, "/items", RequestOptions{Method: http.MethodPost, Body: in}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) UpdateItemPrices(ctx context.Context, itemID string, in ItemPricesInput) error {
	return c.Request(ctx, "/items/"+url.PathEscape(itemID)+"/prices", RequestOptions{Method: http.MethodPut, Body: in}, nil)
}

func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.Request(ctx, "/items/"+url.PathEscape(itemID), RequestOptions{Method: http.MethodDelete}, nil)
}
