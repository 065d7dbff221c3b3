package server

import (
	"net/http"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
)

const (
	MsgCategoryCreate  = "Error al crear categoría"
	MsgCategoryCreated = "Categoría creada"
)

type CategoriesPageData struct {
	Page
	Categories []inventory.Category
	Form       inventory.NewCategory
}

func (s *Server) renderCategories(w http.ResponseWriter, r *http.Request, status int, data CategoriesPageData) {
	page, err := s.client(r).ListCategories(r.Context(), nil)
	if err != nil {
		if handleUnauthorized(w, r, err) {
			return
		}
		if data.Error == "" {
			data.Error = errorMessage(r, err, MsgCategoriesFailed)
		}
	}
	data.Categories = page.Results
	s.render(w, r, status, "categories.html", data)
}

// CategoriesHandler lists categories with an inline create form (GET /categories)
func (s *Server) CategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderCategories(w, r, http.StatusOK, CategoriesPageData{Page: s.page(r, "Categorías", "categories")})
	}
}

// CategoryCreateHandler creates a category (POST /categories)
func (s *Server) CategoryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := inventory.NewCategory{
			Nombre:      formValue(r.PostForm, "nombre"),
			Descripcion: formValue(r.PostForm, "descripcion"),
		}
		data := CategoriesPageData{Page: s.page(r, "Categorías", "categories"), Form: form}

		err := form.Validate()
		if err == nil {
			_, err = s.client(r).CreateCategory(r.Context(), form)
		}
		if err != nil {
			if handleUnauthorized(w, r, err) {
				return
			}
			data.Error = errorMessage(r, err, MsgCategoryCreate)
			s.renderCategories(w, r, formErrorStatus(err), data)
			return
		}
		redirectWithFlash(w, r, RouteCategories, MsgCategoryCreated)
	}
}
