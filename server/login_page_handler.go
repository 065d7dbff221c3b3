package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/jrsteele09/go-inventory-dashboard/session"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Page
	Email string // Preserve email on error
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store := sessionFromContext(r.Context()); store != nil && store.IsAuthenticated() {
			redirectSuccess(w, r, RouteDashboard)
			return
		}
		data := LoginPageData{Page: s.page(r, "Iniciar sesión", "")}
		s.render(w, r, http.StatusOK, "login.html", data)
	}
}

// LoginSubmissionHandler processes the login form submission (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := formValue(r.PostForm, "email")
		password := r.PostForm.Get("password")

		store := sessionFromContext(r.Context())
		renewed := store.IsAuthenticated()
		if err := store.Login(r.Context(), email, password); err != nil {
			msg := store.Snapshot().Error
			if msg == "" {
				msg = session.MsgLoginFailed
			}
			data := LoginPageData{Page: s.page(r, "Iniciar sesión", ""), Email: email}
			data.Error = msg
			s.render(w, r, formErrorStatus(err), "login.html", data)
			return
		}
		if !renewed {
			s.renewBrowserCookie(w, r)
		}
		redirectSuccess(w, r, RouteDashboard)
	}
}

// LogoutHandler clears the browser's credentials (POST /logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store := sessionFromContext(r.Context()); store != nil {
			if err := store.Logout(r.Context()); err != nil {
				log.Ctx(r.Context()).Err(err).Msg("Logout: failed to clear credentials")
			}
		}
		redirectSuccess(w, r, RouteLogin)
	}
}

// formErrorStatus is 422 for input the user must fix, 401 for rejected
// credentials and 502 for anything the backend got wrong.
func formErrorStatus(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrServer), apperrors.Is(err, apperrors.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// IndexHandler sends / to the dashboard
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectSuccess(w, r, RouteDashboard)
	}
}
