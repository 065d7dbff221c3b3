package server

import (
	"net/http"
	"strconv"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"github.com/jrsteele09/go-inventory-dashboard/inventory"
)

const (
	MsgProductsFailed   = "Error al cargar productos"
	MsgCategoriesFailed = "Error al cargar categorías"
	MsgProductCreate    = "Error al crear producto"
	MsgProductUpdate    = "Error al actualizar producto"
	MsgProductCreated   = "Producto creado"
	MsgProductUpdated   = "Producto actualizado"
)

type ProductsPageData struct {
	Page
	Products []inventory.Product
	Total    int
}

type ProductFormPageData struct {
	Page
	Form       inventory.ProductForm
	Categories []inventory.Category
	// ProductID is zero when creating
	ProductID int64
	Action    string
}

// ProductsListHandler renders the product table (GET /products)
func (s *Server) ProductsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ProductsPageData{Page: s.page(r, "Productos", "products")}

		page, err := s.client(r).ListProducts(r.Context(), nil)
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgProductsFailed)
		}
		data.Products = page.Results
		data.Total = page.Count
		s.render(w, r, http.StatusOK, "products.html", data)
	}
}

// renderProductForm loads the category options and renders the form. A
// category failure is shown in the banner unless a more specific error is
// already set.
func (s *Server) renderProductForm(w http.ResponseWriter, r *http.Request, status int, data ProductFormPageData) {
	categories, err := s.client(r).ListCategories(r.Context(), nil)
	if err != nil {
		if handleUnauthorized(w, r, err) {
			return
		}
		if data.Error == "" {
			data.Error = errorMessage(r, err, MsgCategoriesFailed)
		}
	}
	data.Categories = categories.Results
	s.render(w, r, status, "product_form.html", data)
}

func productForm(r *http.Request) inventory.ProductForm {
	return inventory.ProductForm{
		Codigo:      formValue(r.PostForm, "codigo"),
		Nombre:      formValue(r.PostForm, "nombre"),
		Descripcion: formValue(r.PostForm, "descripcion"),
		PrecioVenta: r.PostForm.Get("precio_venta"),
		PrecioCosto: r.PostForm.Get("precio_costo"),
		Categoria:   r.PostForm.Get("categoria"),
	}
}

// ProductNewHandler renders the empty form (GET /products/new)
func (s *Server) ProductNewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ProductFormPageData{
			Page:   s.page(r, "Nuevo Producto", "products"),
			Form:   inventory.ProductForm{PrecioVenta: "0", PrecioCosto: "0"},
			Action: RouteProducts,
		}
		s.renderProductForm(w, r, http.StatusOK, data)
	}
}

// ProductCreateHandler validates and creates a product (POST /products)
func (s *Server) ProductCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := productForm(r)
		data := ProductFormPageData{
			Page:   s.page(r, "Nuevo Producto", "products"),
			Form:   form,
			Action: RouteProducts,
		}

		input, err := form.Input()
		if err == nil {
			_, err = s.client(r).CreateProduct(r.Context(), input)
		}
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgProductCreate)
			s.renderProductForm(w, r, formErrorStatus(err), data)
			return
		}
		redirectWithFlash(w, r, RouteProducts, MsgProductCreated)
	}
}

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// ProductEditHandler renders the form pre-filled (GET /products/{id})
func (s *Server) ProductEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		product, err := s.client(r).GetProduct(r.Context(), id)
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			if apperrors.Is(err, apperrors.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			redirectWithFlash(w, r, RouteProducts, errorMessage(r, err, MsgProductsFailed))
			return
		}

		data := ProductFormPageData{
			Page:      s.page(r, "Editar Producto", "products"),
			Form:      inventory.FormFromProduct(*product),
			ProductID: id,
			Action:    RouteProducts + "/" + strconv.FormatInt(id, 10),
		}
		s.renderProductForm(w, r, http.StatusOK, data)
	}
}

// ProductUpdateHandler saves the edit form (POST /products/{id})
func (s *Server) ProductUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := productForm(r)
		data := ProductFormPageData{
			Page:      s.page(r, "Editar Producto", "products"),
			Form:      form,
			ProductID: id,
			Action:    RouteProducts + "/" + strconv.FormatInt(id, 10),
		}

		input, err := form.Input()
		if err == nil {
			_, err = s.client(r).UpdateProduct(r.Context(), id, input)
		}
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgProductUpdate)
			s.renderProductForm(w, r, formErrorStatus(err), data)
			return
		}
		redirectWithFlash(w, r, RouteProducts, MsgProductUpdated)
	}
}
