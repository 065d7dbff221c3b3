package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-inventory-dashboard/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyBrowserID stores the id of the browser's credential slot
	ContextKeyBrowserID ContextKey = "browser_id"
	// ContextKeySession stores the browser's *session.Store
	ContextKeySession ContextKey = "session"
)

func browserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyBrowserID).(string)
	return id
}

func sessionFromContext(ctx context.Context) *session.Store {
	store, _ := ctx.Value(ContextKeySession).(*session.Store)
	return store
}

// BrowserSessionMiddleware identifies the browser by its cookie, minting a
// new id on first visit, and attaches the browser's session store. The
// cookie of an authenticated browser is re-issued on every request so it
// outlives the credentials it points at.
func (s *Server) BrowserSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := s.config.GetBrowserCookieName()

		var browserID string
		if cookie, err := r.Cookie(name); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				browserID = cookie.Value
			}
		}
		if browserID == "" {
			browserID = uuid.NewString()
			s.SetBrowserCookie(w, r, browserID)
		}

		ctx := context.WithValue(r.Context(), ContextKeyBrowserID, browserID)
		store := s.sessions.Get(ctx, browserID)
		ctx = context.WithValue(ctx, ContextKeySession, store)
		r = r.WithContext(ctx)
		if store.IsAuthenticated() {
			s.renewBrowserCookie(w, r)
		}
		next(w, r)
	}
}

// RequireSession sends anonymous browsers to the login page.
// Must run after BrowserSessionMiddleware.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store := sessionFromContext(r.Context())
			if store == nil || !store.IsAuthenticated() {
				redirectSuccess(w, r, RouteLogin)
				return
			}
			next(w, r)
		}
	}
}
