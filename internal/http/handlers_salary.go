package http

import (
	"context"
	"net/http"

	"backoffice/internal/core"
	"backoffice/internal/storage"
)

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
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
	f := storage.SalaryFilter{
		Employee: sanitizeInput(q.Get("employee")),
		WageType: core.WageType(sanitizeInput(q.Get("wage_type"))),
		Period:   period,
	}
	if f.WageType != "" && !f.WageType.Valid() {
		writeError(w, r, core.FieldError("wage_type", "\""+string(f.WageType)+"\" is not a valid choice"))
		return
	}
	salaries, total, err := s.svc.Salaries.List(r.Context(), f, page.Storage())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(salaries, total, page))
}

// createSalaryWith decodes a salary and hands it to create.
func (s *Server) createSalaryWith(create func(context.Context, *core.Salary) (core.Salary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sal core.Salary
		if err := decodeJSON(w, r, &sal); err != nil {
			writeError(w, r, err)
			return
		}
		created, err := create(r.Context(), &sal)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	s.createSalaryWith(s.svc.Salaries.Create)(w, r)
}

func (s *Server) handleCreateDailyWage(w http.ResponseWriter, r *http.Request) {
	s.createSalaryWith(s.svc.Salaries.CreateDailyWage)(w, r)
}

func (s *Server) handleCreateMonthlySalary(w http.ResponseWriter, r *http.Request) {
	s.createSalaryWith(s.svc.Salaries.CreateMonthlySalary)(w, r)
}

func (s *Server) handleGetSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sal, err := s.svc.Salaries.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sal)
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sal, err := s.svc.Salaries.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(w, r, &sal); err != nil {
		writeError(w, r, err)
		return
	}
	sal.ID = id
	updated, err := s.svc.Salaries.Update(r.Context(), &sal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Salaries.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(r.PathValue("name"))
	mp, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.Salaries.Reconcile(r.Context(), name, mp.Month, mp.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListAdvances(w http.ResponseWriter, r *http.Request) {
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
	f := storage.AdvanceFilter{Employee: sanitizeInput(q.Get("employee")), Period: period}
	advances, total, err := s.svc.Salaries.ListAdvances(r.Context(), f, page.Storage())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(advances, total, page))
}

func (s *Server) handleCreateAdvance(w http.ResponseWriter, r *http.Request) {
	var a core.AdvanceHistory
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Salaries.CreateAdvance(r.Context(), &a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAdvance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Salaries.GetAdvance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAdvance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Salaries.GetAdvance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	a.ID = id
	updated, err := s.svc.Salaries.UpdateAdvance(r.Context(), &a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAdvance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Salaries.DeleteAdvance(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
