package gateway

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// authTransport is both interceptors: it attaches the stored token to the
// outgoing request and reacts to a 401 on the way back.
type authTransport struct {
	base           http.RoundTripper
	creds          CredentialProvider
	onUnauthorized UnauthorizedHandler
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	// RoundTrippers must not modify the caller's request
	req = req.Clone(ctx)
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	if t.creds != nil {
		token, err := t.creds.AccessToken(ctx)
		if err != nil {
			// Same as an absent token: the backend decides
			log.Ctx(ctx).Warn().Err(err).Msg("read access token")
		} else if token != "" {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if t.creds != nil {
			if err := t.creds.Clear(ctx); err != nil {
				log.Ctx(ctx).Error().Err(err).Msg("clear credentials after 401")
			}
		}
		if t.onUnauthorized != nil {
			t.onUnauthorized(ctx)
		}
	}
	return resp, nil
}
