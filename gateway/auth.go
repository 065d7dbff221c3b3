package gateway

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-inventory-dashboard/credentials"
)

// ObtainToken exchanges email and password for a token pair
// (POST /auth/token/).
func (c *Client) ObtainToken(ctx context.Context, email, password string) (credentials.Pair, error) {
	var pair credentials.Pair
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/token/",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
	}, &pair)
	return pair, err
}

// RefreshToken exchanges a refresh token for a new access token
// (POST /auth/token/refresh/).
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	var out struct {
		Access string `json:"access"`
	}
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/token/refresh/",
		body:   map[string]string{"refresh": refresh},
	}, &out)
	return out.Access, err
}
