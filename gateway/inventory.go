package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
)

func (c *Client) ListCategories(ctx context.Context, query url.Values) (inventory.Page[inventory.Category], error) {
	var page inventory.Page[inventory.Category]
	err := c.do(ctx, call{method: http.MethodGet, path: "/categories/", query: query}, &page)
	return page, err
}

func (c *Client) CreateCategory(ctx context.Context, in inventory.NewCategory) (*inventory.Category, error) {
	var out inventory.Category
	if err := c.do(ctx, call{method: http.MethodPost, path: "/categories/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context, query url.Values) (inventory.Page[inventory.Product], error) {
	var page inventory.Page[inventory.Product]
	err := c.do(ctx, call{method: http.MethodGet, path: "/products/", query: query}, &page)
	return page, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*inventory.Product, error) {
	var out inventory.Product
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/products/{id}/",
		path:   fmt.Sprintf("/products/%d/", id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in inventory.ProductInput) (*inventory.Product, error) {
	var out inventory.Product
	if err := c.do(ctx, call{method: http.MethodPost, path: "/products/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in inventory.ProductInput) (*inventory.Product, error) {
	var out inventory.Product
	err := c.do(ctx, call{
		method: http.MethodPut,
		route:  "/products/{id}/",
		path:   fmt.Sprintf("/products/%d/", id),
		body:   in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMovements(ctx context.Context, query url.Values) (inventory.Page[inventory.Movement], error) {
	var page inventory.Page[inventory.Movement]
	err := c.do(ctx, call{method: http.MethodGet, path: "/movements/", query: query}, &page)
	return page, err
}

func (c *Client) CreateMovement(ctx context.Context, in inventory.NewMovement) (*inventory.Movement, error) {
	var out inventory.Movement
	if err := c.do(ctx, call{method: http.MethodPost, path: "/movements/", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
