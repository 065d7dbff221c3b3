package server

import (
	"net/http"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
)

const (
	MsgMovementsFailed = "Error al cargar movimientos"
	MsgMovementCreate  = "Error al registrar movimiento"
	MsgMovementCreated = "Movimiento registrado"
)

type MovementsPageData struct {
	Page
	Movements []inventory.Movement
}

type MovementFormPageData struct {
	Page
	Form     inventory.MovementForm
	Products []inventory.Product
}

// MovementsListHandler renders the movement history (GET /movements)
func (s *Server) MovementsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := MovementsPageData{Page: s.page(r, "Movimientos", "movements")}

		page, err := s.client(r).ListMovements(r.Context(), nil)
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgMovementsFailed)
		}
		data.Movements = page.Results
		s.render(w, r, http.StatusOK, "movements.html", data)
	}
}

func (s *Server) renderMovementForm(w http.ResponseWriter, r *http.Request, status int, data MovementFormPageData) {
	products, err := s.client(r).ListProducts(r.Context(), nil)
	if err != nil {
		if handleUnauthorized(w, r, err) {
			return
		}
		if data.Error == "" {
			data.Error = errorMessage(r, err, MsgProductsFailed)
		}
	}
	data.Products = products.Results
	s.render(w, r, status, "movement_form.html", data)
}

// MovementNewHandler renders the form (GET /movements/new). A product can be
// preselected with ?producto=ID.
func (s *Server) MovementNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := MovementFormPageData{
			Page: s.page(r, "Nuevo Movimiento", "movements"),
			Form: inventory.MovementForm{
				Producto: r.URL.Query().Get("producto"),
				Tipo:     string(inventory.MovementIn),
				Cantidad: "1",
			},
		}
		s.renderMovementForm(w, r, http.StatusOK, data)
	}
}

// MovementCreateHandler records a movement (POST /movements)
func (s *Server) MovementCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := inventory.MovementForm{
			Producto: r.PostForm.Get("producto"),
			Tipo:     r.PostForm.Get("tipo"),
			Cantidad: r.PostForm.Get("cantidad"),
			Razon:    formValue(r.PostForm, "razon"),
		}
		data := MovementFormPageData{Page: s.page(r, "Nuevo Movimiento", "movements"), Form: form}

		input, err := form.Input()
		if err == nil {
			_, err = s.client(r).CreateMovement(r.Context(), input)
		}
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgMovementCreate)
			s.renderMovementForm(w, r, formErrorStatus(err), data)
			return
		}
		redirectWithFlash(w, r, RouteMovements, MsgMovementCreated)
	}
}
