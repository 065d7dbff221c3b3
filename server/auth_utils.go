package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-inventory-dashboard/gateway"
	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/rs/zerolog/log"
)

// SetBrowserCookie stores the browser id. It lives as long as the stored
// credentials do.
func (s *Server) SetBrowserCookie(w http.ResponseWriter, r *http.Request, browserID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetBrowserCookieName(),
		Value:    browserID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetCredentialTTL().Seconds()),
	})
}

// renewBrowserCookie re-issues the cookie the request carried, restarting
// its max age. A cookie minted for this request is already on the response.
func (s *Server) renewBrowserCookie(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(s.config.GetBrowserCookieName())
	if err != nil || cookie.Value != browserIDFromContext(r.Context()) {
		return
	}
	s.SetBrowserCookie(w, r, cookie.Value)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithFlash helper for htmx-aware redirects that carry a message
func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	redirectSuccess(w, r, path+"?flash="+url.QueryEscape(msg))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// handleUnauthorized redirects to the login page when err is a backend 401.
// The gateway has already cleared the credentials and dropped the session.
func handleUnauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apperrors.Is(err, apperrors.ErrUnauthorized) {
		return false
	}
	redirectSuccess(w, r, RouteLogin)
	return true
}

// errorMessage is the banner text for a failed backend call: the backend's
// own detail when it sent one, fallback otherwise.
func errorMessage(r *http.Request, err error, fallback string) string {
	log.Ctx(r.Context()).Err(err).Msg(fallback)
	var ve *apperrors.ValidationError
	if apperrors.As(err, &ve) {
		return ve.Message
	}
	if detail := gateway.Detail(err); detail != "" {
		return detail
	}
	return fallback
}
