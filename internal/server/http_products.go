package server

import (
	"net/http"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

type productResponse struct {
	Product model.Product `json:"product"`
	Warning string        `json:"warning,omitempty"`
}

// handleListProducts handles GET /v1/products[?q=query].
func (s *StudioServer) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.studio.Products.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{"products": nonNil(products)})
}

// handleAddProduct handles POST /v1/products.
func (s *StudioServer) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var draft model.ProductDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	product, err := s.studio.Products.Add(r.Context(), draft)
	warning, err := warningOf(err)
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, productResponse{Product: product, Warning: warning})
}

// handleRemoveProduct handles DELETE /v1/products/{id}.
func (s *StudioServer) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	warning, err := warningOf(s.studio.Products.Remove(r.Context(), r.PathValue("id")))
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}
	if warning != "" {
		writeJSON(w, http.StatusOK, map[string]string{"warning": warning})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
