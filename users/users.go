package users

import (
	"strings"
)

// Profile is the authenticated user as returned by GET /users/me/.
// It is owned by the session store; views only read it.
type Profile struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Telefono      string `json:"telefono,omitempty"`
	Empresa       int64  `json:"empresa,omitempty"`        // Tenant (empresa) the user belongs to
	EmpresaNombre string `json:"empresa_nombre,omitempty"` // Read-only, filled in by the backend
	IsActive      bool   `json:"is_active"`
}

// ProfileUpdate is the body accepted by PUT /users/{id}/.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Telefono  string `json:"telefono,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// NewUser is the body accepted by POST /users/.
type NewUser struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
	Empresa   int64  `json:"empresa,omitempty"`
}

// FullName joins first and last name
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName is the name shown in the navbar and the dashboard greeting.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	if fullName := p.FullName(); fullName != "" {
		return fullName
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// Update returns the editable part of the profile
func (p *Profile) Update() ProfileUpdate {
	return ProfileUpdate{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Telefono:  p.Telefono,
		IsActive:  p.IsActive,
	}
}
