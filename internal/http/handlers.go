package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.opts.Ready == nil {
		checks["database"] = "not_configured"
	} else if err := s.opts.Ready(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		checks["database"] = "failed"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"rejected":       s.limiter.Hits(),
	}
	tm := s.tracer.GetMetrics()
	checks["requests"] = map[string]any{
		"total":         tm.TotalRequests,
		"server_errors": tm.ServerErrors,
		"suspicious":    s.detector.GetMetrics().SuspiciousRequests,
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// requireAuth admits requests carrying a valid access token and stores the
// caller in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AuthDisabled {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			UnauthorizedError("authentication credentials were not provided").Write(w)
			return
		}
		claims, err := s.svc.Tokens.Verify(strings.TrimSpace(token), auth.TokenAccess)
		if err != nil {
			log.FromContext(r.Context()).InfoContext(r.Context(), "Rejected access token", log.FieldError, err)
			UnauthorizedError("invalid or expired token").Write(w)
			return
		}
		id, err := claims.UserID()
		if err != nil {
			UnauthorizedError("invalid or expired token").Write(w)
			return
		}
		ctx := auth.WithCurrentUser(r.Context(), auth.CurrentUser{ID: id, Username: claims.Username})
		next(w, r.WithContext(ctx))
	}
}

// currentUserID returns the caller or writes a 401.
func currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	u := auth.FromContext(r.Context())
	if u == nil || u.ID < 1 {
		UnauthorizedError("authentication credentials were not provided").Write(w)
		return 0, false
	}
	return u.ID, true
}

// listResponse is the paginated list envelope.
type listResponse[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

func newListResponse[T any](items []T, total int, p PageParams) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: total, Page: p.Page, PageSize: p.PageSize, Results: items}
}

// itemsResponse wraps an unpaginated collection.
func itemsResponse[T any](items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{"count": len(items), "results": items}
}
