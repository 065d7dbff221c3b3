package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/tenants"
	"github.com/jrsteele09/go-inventory-dashboard/users"
)

const (
	MsgEmpresaFailed  = "Error al cargar empresa"
	MsgProfileUpdate  = "Error al actualizar perfil"
	MsgProfileUpdated = "Perfil actualizado"
)

type ProfilePageData struct {
	Page
	Form        users.ProfileUpdate
	Empresa     *tenants.Empresa
	TokenExpiry time.Time
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, status int, data ProfilePageData) {
	empresa, err := s.client(r).GetEmpresaProfile(r.Context())
	if err != nil {
		if handleUnauthorized(w, r, err) {
			return
		}
		if data.Error == "" {
			data.Error = errorMessage(r, err, MsgEmpresaFailed)
		}
	}
	data.Empresa = empresa
	if store := sessionFromContext(r.Context()); store != nil {
		data.TokenExpiry, _ = store.Snapshot().AccessExpiry()
	}
	s.render(w, r, status, "profile.html", data)
}

// ProfileHandler shows the user and their empresa (GET /profile)
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ProfilePageData{Page: s.page(r, "Mi Perfil", "profile")}
		if data.User != nil {
			data.Form = data.User.Update()
		}
		s.renderProfile(w, r, http.StatusOK, data)
	}
}

// ProfileUpdateHandler saves the editable fields and refreshes the session's
// copy of the profile (POST /profile)
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		data := ProfilePageData{Page: s.page(r, "Mi Perfil", "profile")}
		if data.User == nil {
			redirectSuccess(w, r, RouteLogin)
			return
		}

		form := data.User.Update()
		form.FirstName = strings.TrimSpace(formValue(r.PostForm, "first_name"))
		form.LastName = strings.TrimSpace(formValue(r.PostForm, "last_name"))
		form.Telefono = strings.TrimSpace(r.PostForm.Get("telefono"))
		data.Form = form

		updated, err := s.client(r).UpdateUser(r.Context(), data.User.ID, form)
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgProfileUpdate)
			s.renderProfile(w, r, formErrorStatus(err), data)
			return
		}

		sessionFromContext(r.Context()).SetUser(updated)
		redirectWithFlash(w, r, RouteProfile, MsgProfileUpdated)
	}
}
