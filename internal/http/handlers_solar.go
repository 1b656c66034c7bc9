package http

import (
	"net/http"

	"backoffice/internal/core"
)

// solarRequest is a project body. Checklist items may be ticked by id.
type solarRequest struct {
	core.SolarProject
	ChecklistIDs []int64 `json:"checklist_ids"`
}

type tickRequest struct {
	ItemID int64 `json:"item_id"`
}

func (s *Server) handleListSolar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := ParsePageParams(q, s.opts.PageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := ParseProjectFilter(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	projects, total, err := s.svc.Solar.List(r.Context(), f, page.Storage())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(projects, total, page))
}

func (s *Server) handleCreateSolar(w http.ResponseWriter, r *http.Request) {
	var req solarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := req.SolarProject
	for _, id := range req.ChecklistIDs {
		p.Checklist = append(p.Checklist, core.ChecklistItem{ID: id})
	}
	created, err := s.svc.Solar.Create(r.Context(), &p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetSolar(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Solar.Get(r.Context(), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateSolar changes the project fields only. Products, images and
// checklist have their own routes.
func (s *Server) handleUpdateSolar(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	p, err := s.svc.Solar.Get(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	p.ProjectID = projectID
	updated, err := s.svc.Solar.Update(r.Context(), &p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSolar(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Solar.Delete(r.Context(), r.PathValue("projectID")); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleListSolarLineItems(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Solar.Get(r.Context(), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse(p.LineItems))
}

func (s *Server) handleAddSolarLineItem(w http.ResponseWriter, r *http.Request) {
	var it core.SolarLineItem
	if err := decodeJSON(w, r, &it); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Solar.AddLineItem(r.Context(), r.PathValue("projectID"), it)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateSolarLineItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var it core.SolarLineItem
	if err := decodeJSON(w, r, &it); err != nil {
		writeError(w, r, err)
		return
	}
	it.ID = itemID
	p, err := s.svc.Solar.UpdateLineItem(r.Context(), r.PathValue("projectID"), it)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteSolarLineItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Solar.DeleteLineItem(r.Context(), r.PathValue("projectID"), itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListSolarImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.svc.Solar.ListImages(r.Context(), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse(images))
}

func (s *Server) handleAddSolarImage(w http.ResponseWriter, r *http.Request) {
	var img core.SolarImage
	if err := decodeJSON(w, r, &img); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Solar.AddImage(r.Context(), r.PathValue("projectID"), img)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSolarChecklist(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Solar.ListChecklist(r.Context(), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse(items))
}

func (s *Server) handleTickSolarChecklist(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ItemID <= 0 {
		writeError(w, r, core.FieldError("item_id", "this field is required"))
		return
	}
	items, err := s.svc.Solar.TickChecklist(r.Context(), r.PathValue("projectID"), req.ItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemsResponse(items))
}

func (s *Server) handleUntickSolarChecklist(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Solar.UntickChecklist(r.Context(), r.PathValue("projectID"), itemID); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleListSolarCatalog(w http.ResponseWriter, r *http.Request) {
	products, err := s.svc.Solar.ListCatalog(r.Context(), queryBool(r.URL.Query(), "active", false))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse(products))
}

func (s *Server) handleCreateSolarCatalog(w http.ResponseWriter, r *http.Request) {
	c := core.SolarCatalogProduct{IsActive: true}
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Solar.CreateCatalogProduct(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListChecklistItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Solar.ListChecklistItems(r.Context(), queryBool(r.URL.Query(), "active", false))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse(items))
}

func (s *Server) handleCreateChecklistItem(w http.ResponseWriter, r *http.Request) {
	c := core.ChecklistItem{IsActive: true}
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Solar.CreateChecklistItem(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
