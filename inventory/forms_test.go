package inventory_test

import (
	"encoding/json"
	"testing"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"github.com/stretchr/testify/require"
)

func TestProductForm_Input(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in, err := inventory.ProductForm{
			Codigo:      " PROD-001 ",
			Nombre:      "Paracetamol",
			PrecioVenta: "12.5",
			PrecioCosto: "not-a-number",
			Categoria:   "3",
		}.Input()
		require.NoError(t, err)
		require.Equal(t, "PROD-001", in.Codigo)
		require.Equal(t, 12.5, in.PrecioVenta)
		require.Equal(t, 0.0, in.PrecioCosto)
		require.Equal(t, int64(3), in.Categoria)
	})

	for name, form := range map[string]inventory.ProductForm{
		"missing codigo":    {Nombre: "x", Categoria: "1"},
		"missing nombre":    {Codigo: "x", Categoria: "1"},
		"missing categoria": {Codigo: "x", Nombre: "y"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := form.Input()
			require.ErrorIs(t, err, apperrors.ErrValidation)
			require.Equal(t, inventory.MsgProductRequired, err.Error())
		})
	}

	t.Run("round trip through edit form", func(t *testing.T) {
		p := inventory.Product{Codigo: "A", Nombre: "B", PrecioVenta: 3, PrecioCosto: 1.5, Categoria: 9}
		in, err := inventory.FormFromProduct(p).Input()
		require.NoError(t, err)
		require.Equal(t, 3.0, in.PrecioVenta)
		require.Equal(t, 1.5, in.PrecioCosto)
		require.Equal(t, int64(9), in.Categoria)
	})
}

func TestParseQuantity(t *testing.T) {
	for in, want := range map[string]int{
		"":      1,
		"5":     5,
		"  12 ": 12,
		"5abc":  5,
		"3.7":   3,
		"+4":    4,
		"-2":    -2,
		"-2kg":  -2,
		"0":     1,
		"-0":    1,
		"abc5":  1,
		"-":     1,
	} {
		require.Equal(t, want, inventory.ParseQuantity(in), "%q", in)
	}
	require.Equal(t, inventory.DefaultQuantity, inventory.ParseQuantity("99999999999999999999"))
}

func TestMovementForm_Input(t *testing.T) {
	t.Run("quantity omitted defaults to 1", func(t *testing.T) {
		in, err := inventory.MovementForm{Producto: "3", Tipo: "SALIDA"}.Input()
		require.NoError(t, err)
		require.Equal(t, 1, in.Cantidad)
	})

	t.Run("quantity unparseable defaults to 1", func(t *testing.T) {
		in, err := inventory.MovementForm{Producto: "3", Cantidad: "muchos"}.Input()
		require.NoError(t, err)
		require.Equal(t, 1, in.Cantidad)
		require.Equal(t, inventory.MovementIn, in.Tipo)
	})

	t.Run("negative quantity is left to the backend", func(t *testing.T) {
		in, err := inventory.MovementForm{Producto: "3", Cantidad: "-2"}.Input()
		require.NoError(t, err)
		require.Equal(t, -2, in.Cantidad)
	})

	t.Run("product required", func(t *testing.T) {
		_, err := inventory.MovementForm{Cantidad: "5"}.Input()
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Equal(t, inventory.MsgMovementRequired, err.Error())
	})

	t.Run("unknown tipo rejected", func(t *testing.T) {
		_, err := inventory.MovementForm{Producto: "3", Tipo: "AJUSTE"}.Input()
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("wire format", func(t *testing.T) {
		in, err := inventory.MovementForm{Producto: "3", Tipo: "salida", Cantidad: "5", Razon: "venta"}.Input()
		require.NoError(t, err)
		body, err := json.Marshal(in)
		require.NoError(t, err)
		require.JSONEq(t, `{"producto":3,"tipo":"SALIDA","cantidad":5,"razon":"venta"}`, string(body))
	})
}

func TestMovement_ProductLabel(t *testing.T) {
	require.Equal(t, "Paracetamol", inventory.Movement{Producto: 3, ProductoNombre: "Paracetamol"}.ProductLabel())
	require.Equal(t, "3", inventory.Movement{Producto: 3}.ProductLabel())
}
