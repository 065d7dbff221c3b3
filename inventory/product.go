package inventory

import (
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
)

// MsgProductRequired is shown when codigo, nombre or categoria are missing
const MsgProductRequired = "Por favor completa todos los campos requeridos"

type Product struct {
	ID              int64  `json:"id"`
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	Descripcion     string `json:"descripcion"`
	PrecioVenta     Amount `json:"precio_venta"`
	PrecioCosto     Amount `json:"precio_costo"`
	Categoria       int64  `json:"categoria"`
	CategoriaNombre string `json:"categoria_nombre,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// Label is used in selects: "PROD-001 - Paracetamol"
func (p Product) Label() string {
	if p.Codigo == "" {
		return p.Nombre
	}
	return p.Codigo + " - " + p.Nombre
}

// ProductInput is the body of POST /products/ and PUT /products/{id}/.
type ProductInput struct {
	Codigo      string  `json:"codigo"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	PrecioVenta float64 `json:"precio_venta"`
	PrecioCosto float64 `json:"precio_costo"`
	Categoria   int64   `json:"categoria"`
}

// ProductForm holds the raw submitted strings so the form can be re-rendered
type ProductForm struct {
	Codigo      string
	Nombre      string
	Descripcion string
	PrecioVenta string
	PrecioCosto string
	Categoria   string
}

// FormFromProduct pre-fills the edit form
func FormFromProduct(p Product) ProductForm {
	return ProductForm{
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		PrecioVenta: p.PrecioVenta.String(),
		PrecioCosto: p.PrecioCosto.String(),
		Categoria:   strconv.FormatInt(p.Categoria, 10),
	}
}

// Input validates the required fields and converts the form.
// Prices that do not parse are sent as 0.
func (f ProductForm) Input() (ProductInput, error) {
	codigo := strings.TrimSpace(f.Codigo)
	nombre := strings.TrimSpace(f.Nombre)
	if codigo == "" || nombre == "" || strings.TrimSpace(f.Categoria) == "" {
		return ProductInput{}, apperrors.NewValidation("", MsgProductRequired)
	}
	categoria, err := strconv.ParseInt(strings.TrimSpace(f.Categoria), 10, 64)
	if err != nil || categoria <= 0 {
		return ProductInput{}, apperrors.NewValidation("categoria", "categoría inválida")
	}
	return ProductInput{
		Codigo:      codigo,
		Nombre:      nombre,
		Descripcion: f.Descripcion,
		PrecioVenta: float64(ParseAmount(f.PrecioVenta)),
		PrecioCosto: float64(ParseAmount(f.PrecioCosto)),
		Categoria:   categoria,
	}, nil
}
