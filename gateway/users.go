package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"github.com/jrsteele09/go-inventory-dashboard/tenants"
	"github.com/jrsteele09/go-inventory-dashboard/users"
)

func (c *Client) ListUsers(ctx context.Context, query url.Values) (inventory.Page[users.Profile], error) {
	var page inventory.Page[users.Profile]
	err := c.do(ctx, call{method: http.MethodGet, path: "/users/", query: query}, &page)
	return page, err
}

// GetUserProfile returns the authenticated user (GET /users/me/).
func (c *Client) GetUserProfile(ctx context.Context) (*users.Profile, error) {
	var p users.Profile
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users/me/"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateUser(ctx context.Context, in users.NewUser) (*users.Profile, error) {
	var p users.Profile
	if err := c.do(ctx, call{method: http.MethodPost, path: "/users/", body: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in users.ProfileUpdate) (*users.Profile, error) {
	var p users.Profile
	err := c.do(ctx, call{
		method: http.MethodPut,
		route:  "/users/{id}/",
		path:   fmt.Sprintf("/users/%d/", id),
		body:   in,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListEmpresas(ctx context.Context, query url.Values) (inventory.Page[tenants.Empresa], error) {
	var page inventory.Page[tenants.Empresa]
	err := c.do(ctx, call{method: http.MethodGet, path: "/empresas/", query: query}, &page)
	return page, err
}

// GetEmpresaProfile returns the caller's empresa (GET /empresas/me/).
func (c *Client) GetEmpresaProfile(ctx context.Context) (*tenants.Empresa, error) {
	var e tenants.Empresa
	if err := c.do(ctx, call{method: http.MethodGet, path: "/empresas/me/"}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateEmpresa(ctx context.Context, in tenants.Empresa) (*tenants.Empresa, error) {
	var e tenants.Empresa
	if err := c.do(ctx, call{method: http.MethodPost, path: "/empresas/", body: in}, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateEmpresa(ctx context.Context, id int64, in tenants.Empresa) (*tenants.Empresa, error) {
	var e tenants.Empresa
	err := c.do(ctx, call{
		method: http.MethodPut,
		route:  "/empresas/{id}/",
		path:   fmt.Sprintf("/empresas/%d/", id),
		body:   in,
	}, &e)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
