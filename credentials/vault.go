package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Pair is the credential pair returned by POST /auth/token/.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (p Pair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// Token converts the pair to an oauth2 token. Expiry comes from the access
// token's exp claim when it is a JWT, and is zero otherwise.
func (p Pair) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
		TokenType:    "Bearer",
	}
	if exp, ok := AccessTokenExpiry(p.Access); ok {
		tok.Expiry = exp
	}
	return tok
}

// AccessTokenExpiry reads the exp claim without verifying the signature.
// The dashboard never trusts it for authorization, only for display.
func AccessTokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Vault reads and writes the credential pair in a Storage. It is the
// gateway's credential provider.
type Vault struct {
	storage Storage
}

func NewVault(storage Storage) *Vault {
	return &Vault{storage: storage}
}

// Save persists both tokens in one write
func (v *Vault) Save(ctx context.Context, p Pair) error {
	err := v.storage.Set(ctx, map[string]string{
		AccessTokenKey:  p.Access,
		RefreshTokenKey: p.Refresh,
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load returns the stored pair; ok is false when there is no access token.
func (v *Vault) Load(ctx context.Context) (Pair, bool, error) {
	access, ok, err := v.storage.Get(ctx, AccessTokenKey)
	if err != nil {
		return Pair{}, false, fmt.Errorf("load access token: %w", err)
	}
	if !ok || access == "" {
		return Pair{}, false, nil
	}
	refresh, _, err := v.storage.Get(ctx, RefreshTokenKey)
	if err != nil {
		return Pair{}, false, fmt.Errorf("load refresh token: %w", err)
	}
	return Pair{Access: access, Refresh: refresh}, true, nil
}

// AccessToken returns the stored access token, or "" when there is none.
func (v *Vault) AccessToken(ctx context.Context) (string, error) {
	access, _, err := v.storage.Get(ctx, AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("load access token: %w", err)
	}
	return access, nil
}

// SetAccessToken replaces only the access token, after a refresh exchange.
func (v *Vault) SetAccessToken(ctx context.Context, access string) error {
	if err := v.storage.Set(ctx, map[string]string{AccessTokenKey: access}); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	return nil
}

// Clear removes both keys. Safe to call when nothing is stored.
func (v *Vault) Clear(ctx context.Context) error {
	if err := v.storage.Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
