package http

import (
	"net/http"

	"backoffice/internal/core"
	"backoffice/internal/storage"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
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
	f := storage.ExpenseFilter{
		Utilizer: sanitizeInput(q.Get("utilizer")),
		Category: sanitizeInput(q.Get("category")),
		Period:   period,
	}
	expenses, total, err := s.svc.Expenses.List(r.Context(), f, page.Storage())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(expenses, total, page))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.Expenses.Create(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.Expenses.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.Expenses.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = id
	updated, err := s.svc.Expenses.Update(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Expenses.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
