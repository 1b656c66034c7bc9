package http

import (
	"net/http"

	"backoffice/internal/core"
	"backoffice/internal/storage"
)

// productResponse adds the derived figures to a stored product.
type productResponse struct {
	core.Product
	core.ProductFigures
}

func newProductResponse(p core.Product) productResponse {
	if p.Images == nil {
		p.Images = []core.ProductImage{}
	}
	return productResponse{Product: p, ProductFigures: p.Figures()}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := ParsePageParams(q, s.opts.PageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period, err := ParsePeriod(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := storage.ProductFilter{Category: sanitizeInput(q.Get("category")), Period: period}
	products, total, err := s.svc.Products.List(r.Context(), f, page.Storage())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = newProductResponse(p)
	}
	writeJSON(w, http.StatusOK, newListResponse(out, total, page))
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p core.Product
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Products.Create(r.Context(), &p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProductResponse(created))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(p))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	p.ID = id
	updated, err := s.svc.Products.Update(r.Context(), &p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(updated))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleAddProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in struct {
		Image string `json:"image"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	img, err := s.svc.Products.AddImage(r.Context(), id, sanitizeInput(in.Image))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (s *Server) handleDeleteProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	imageID, err := pathID(r, "imageID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Products.DeleteImage(r.Context(), id, imageID); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
