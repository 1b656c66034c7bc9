package http

import (
	"net/http"

	"backoffice/internal/core"
)

// zarorratRequest is a project body plus the catalog services to link.
type zarorratRequest struct {
	core.ZarorratProject
	ServiceIDs []int64 `json:"service_ids"`
}

func (s *Server) handleListZarorratServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.svc.Zarorrat.ListServices(r.Context(), queryBool(r.URL.Query(), "active", false))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse(services))
}

func (s *Server) handleCreateZarorratService(w http.ResponseWriter, r *http.Request) {
	svc := core.ZarorratService{IsActive: true}
	if err := decodeJSON(w, r, &svc); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Zarorrat.CreateService(r.Context(), svc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListZarorrat(w http.ResponseWriter, r *http.Request) {
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
	projects, total, err := s.svc.Zarorrat.List(r.Context(), f, page.Storage())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(projects, total, page))
}

func (s *Server) handleCreateZarorrat(w http.ResponseWriter, r *http.Request) {
	var req zarorratRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Zarorrat.Create(r.Context(), &req.ZarorratProject, req.ServiceIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetZarorrat(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Zarorrat.Get(r.Context(), r.PathValue("projectID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateZarorrat applies the body over the stored project. Omitting
// service_ids keeps the linked services; an empty list clears them.
func (s *Server) handleUpdateZarorrat(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	current, err := s.svc.Zarorrat.Get(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := zarorratRequest{ZarorratProject: current}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.ProjectID = projectID
	updated, err := s.svc.Zarorrat.Update(r.Context(), &req.ZarorratProject, req.ServiceIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteZarorrat(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Zarorrat.Delete(r.Context(), r.PathValue("projectID")); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
