package inventory

import (
	"strings"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
)

type Category struct {
	ID          int64  `json:"id"`
	Empresa     int64  `json:"empresa,omitempty"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// NewCategory is the body accepted by POST /categories/.
type NewCategory struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

func (c NewCategory) Validate() error {
	if strings.TrimSpace(c.Nombre) == "" {
		return apperrors.NewValidation("", "El nombre de la categoría es obligatorio")
	}
	return nil
}
