package inventory

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
)

// MsgMovementRequired is shown when no product was selected
const MsgMovementRequired = "Por favor completa los campos requeridos"

// DefaultQuantity is submitted when the quantity is omitted or unparseable
const DefaultQuantity = 1

type MovementType string

const (
	MovementIn  MovementType = "ENTRADA"
	MovementOut MovementType = "SALIDA"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

func (t MovementType) Label() string {
	switch t {
	case MovementIn:
		return "Entrada (Ingreso)"
	case MovementOut:
		return "Salida (Egreso)"
	default:
		return string(t)
	}
}

type Movement struct {
	ID             int64        `json:"id"`
	Producto       int64        `json:"producto"`
	ProductoNombre string       `json:"producto_nombre,omitempty"`
	Tipo           MovementType `json:"tipo"`
	Cantidad       int          `json:"cantidad"`
	Razon          string       `json:"razon"`
	CreatedAt      time.Time    `json:"created_at"`
}

// ProductLabel prefers the product name the backend joins in
func (m Movement) ProductLabel() string {
	if m.ProductoNombre != "" {
		return m.ProductoNombre
	}
	return strconv.FormatInt(m.Producto, 10)
}

// NewMovement is the body of POST /movements/.
type NewMovement struct {
	Producto int64        `json:"producto"`
	Tipo     MovementType `json:"tipo"`
	Cantidad int          `json:"cantidad"`
	Razon    string       `json:"razon"`
}

// MovementForm holds the raw submitted strings
type MovementForm struct {
	Producto string
	Tipo     string
	Cantidad string
	Razon    string
}

// ParseQuantity reads the leading integer of s, so "5abc" is 5 and "3.7" is
// 3. Empty, non-numeric, zero or out of range input gives DefaultQuantity.
// Negative values are sent as they are and the backend rejects them.
func ParseQuantity(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return DefaultQuantity
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return DefaultQuantity
	}
	return n
}

// Input validates the form and applies the defaults (tipo ENTRADA, cantidad 1).
func (f MovementForm) Input() (NewMovement, error) {
	producto := strings.TrimSpace(f.Producto)
	if producto == "" {
		return NewMovement{}, apperrors.NewValidation("", MsgMovementRequired)
	}
	id, err := strconv.ParseInt(producto, 10, 64)
	if err != nil || id <= 0 {
		return NewMovement{}, apperrors.NewValidation("producto", "producto inválido")
	}

	tipo := MovementType(strings.ToUpper(strings.TrimSpace(f.Tipo)))
	if tipo == "" {
		tipo = MovementIn
	}
	if !tipo.Valid() {
		return NewMovement{}, apperrors.NewValidation("tipo", "tipo de movimiento inválido")
	}

	return NewMovement{
		Producto: id,
		Tipo:     tipo,
		Cantidad: ParseQuantity(f.Cantidad),
		Razon:    f.Razon,
	}, nil
}
