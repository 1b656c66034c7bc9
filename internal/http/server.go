package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/log"
	"backoffice/internal/middleware/ratelimit"
	"backoffice/internal/middleware/security"
	"backoffice/internal/middleware/trace"
	"backoffice/internal/services"
)

// Services bundles what the handlers call into.
type Services struct {
	Auth     *services.AuthService
	Tokens   *auth.Tokens
	Reports  *services.ReportService
	Products *services.ProductService
	Expenses *services.ExpenseService
	Salaries *services.SalaryService
	Zarorrat *services.ZarorratProjectService
	Solar    *services.SolarService
}

// Options tunes the server.
type Options struct {
	AuthDisabled bool
	PageSize     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Ready reports whether dependencies (the database) are reachable.
	Ready func(ctx context.Context) error
	// Now is the clock used for year/month defaults.
	Now func() time.Time
}

type Server struct {
	http.Server
	svc     Services
	opts    Options
	logger  *log.Logger
	started time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Services, opts Options, logger *log.Logger) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageSize < 1 || opts.PageSize > maxPageSize {
		opts.PageSize = defaultPageSize
	}
	if logger == nil {
		logger = log.Discard()
	}

	s := &Server{
		svc:      svc,
		opts:     opts,
		logger:   logger.WithComponent(log.ComponentHTTP),
		started:  time.Now(),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError().Write(w)
	})(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	h = s.recoverer(h)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)

	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("GET /auth/profile", s.requireAuth(s.handleGetProfile))
	mux.HandleFunc("PUT /auth/profile", s.requireAuth(s.handleUpdateProfile))
	mux.HandleFunc("POST /auth/change-password", s.requireAuth(s.handleChangePassword))

	mux.HandleFunc("GET /dashboard/data", s.requireAuth(s.handleDashboardData))
	mux.HandleFunc("GET /dashboard/summary", s.requireAuth(s.handleDashboardSummary))
	mux.HandleFunc("GET /dashboard/daily", s.requireAuth(s.handleDashboardDaily))
	mux.HandleFunc("GET /dashboard/financial", s.requireAuth(s.handleDashboardFinancial))

	mux.HandleFunc("GET /products", s.requireAuth(s.handleListProducts))
	mux.HandleFunc("POST /products", s.requireAuth(s.handleCreateProduct))
	mux.HandleFunc("GET /products/{id}", s.requireAuth(s.handleGetProduct))
	mux.HandleFunc("PUT /products/{id}", s.requireAuth(s.handleUpdateProduct))
	mux.HandleFunc("DELETE /products/{id}", s.requireAuth(s.handleDeleteProduct))
	mux.HandleFunc("POST /products/{id}/images", s.requireAuth(s.handleAddProductImage))
	mux.HandleFunc("DELETE /products/{id}/images/{imageID}", s.requireAuth(s.handleDeleteProductImage))

	mux.HandleFunc("GET /expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /salary", s.requireAuth(s.handleListSalaries))
	mux.HandleFunc("POST /salary", s.requireAuth(s.handleCreateSalary))
	mux.HandleFunc("POST /salary/daily-wage", s.requireAuth(s.handleCreateDailyWage))
	mux.HandleFunc("POST /salary/monthly-salary", s.requireAuth(s.handleCreateMonthlySalary))
	mux.HandleFunc("GET /salary/advance", s.requireAuth(s.handleListAdvances))
	mux.HandleFunc("POST /salary/advance", s.requireAuth(s.handleCreateAdvance))
	mux.HandleFunc("GET /salary/advance/{id}", s.requireAuth(s.handleGetAdvance))
	mux.HandleFunc("PUT /salary/advance/{id}", s.requireAuth(s.handleUpdateAdvance))
	mux.HandleFunc("DELETE /salary/advance/{id}", s.requireAuth(s.handleDeleteAdvance))
	mux.HandleFunc("GET /salary/employee/{name}/summary", s.requireAuth(s.handleEmployeeSummary))
	mux.HandleFunc("GET /salary/{id}", s.requireAuth(s.handleGetSalary))
	mux.HandleFunc("PUT /salary/{id}", s.requireAuth(s.handleUpdateSalary))
	mux.HandleFunc("DELETE /salary/{id}", s.requireAuth(s.handleDeleteSalary))

	mux.HandleFunc("GET /projects/zarorrat-services", s.requireAuth(s.handleListZarorratServices))
	mux.HandleFunc("POST /projects/zarorrat-services", s.requireAuth(s.handleCreateZarorratService))
	mux.HandleFunc("GET /projects/zarorrat", s.requireAuth(s.handleListZarorrat))
	mux.HandleFunc("POST /projects/zarorrat", s.requireAuth(s.handleCreateZarorrat))
	mux.HandleFunc("GET /projects/zarorrat/{projectID}", s.requireAuth(s.handleGetZarorrat))
	mux.HandleFunc("PUT /projects/zarorrat/{projectID}", s.requireAuth(s.handleUpdateZarorrat))
	mux.HandleFunc("DELETE /projects/zarorrat/{projectID}", s.requireAuth(s.handleDeleteZarorrat))

	mux.HandleFunc("GET /projects/solar", s.requireAuth(s.handleListSolar))
	mux.HandleFunc("POST /projects/solar", s.requireAuth(s.handleCreateSolar))
	mux.HandleFunc("GET /projects/solar/{projectID}", s.requireAuth(s.handleGetSolar))
	mux.HandleFunc("PUT /projects/solar/{projectID}", s.requireAuth(s.handleUpdateSolar))
	mux.HandleFunc("DELETE /projects/solar/{projectID}", s.requireAuth(s.handleDeleteSolar))
	mux.HandleFunc("GET /projects/solar/{projectID}/products", s.requireAuth(s.handleListSolarLineItems))
	mux.HandleFunc("POST /projects/solar/{projectID}/products", s.requireAuth(s.handleAddSolarLineItem))
	mux.HandleFunc("PUT /projects/solar/{projectID}/products/{itemID}", s.requireAuth(s.handleUpdateSolarLineItem))
	mux.HandleFunc("DELETE /projects/solar/{projectID}/products/{itemID}", s.requireAuth(s.handleDeleteSolarLineItem))
	mux.HandleFunc("GET /projects/solar/{projectID}/images", s.requireAuth(s.handleListSolarImages))
	mux.HandleFunc("POST /projects/solar/{projectID}/images", s.requireAuth(s.handleAddSolarImage))
	mux.HandleFunc("GET /projects/solar/{projectID}/checklist", s.requireAuth(s.handleListSolarChecklist))
	mux.HandleFunc("POST /projects/solar/{projectID}/checklist", s.requireAuth(s.handleTickSolarChecklist))
	mux.HandleFunc("DELETE /projects/solar/{projectID}/checklist/{itemID}", s.requireAuth(s.handleUntickSolarChecklist))

	mux.HandleFunc("GET /projects/solar-catalog", s.requireAuth(s.handleListSolarCatalog))
	mux.HandleFunc("POST /projects/solar-catalog", s.requireAuth(s.handleCreateSolarCatalog))
	mux.HandleFunc("GET /projects/checklist-items", s.requireAuth(s.handleListChecklistItems))
	mux.HandleFunc("POST /projects/checklist-items", s.requireAuth(s.handleCreateChecklistItem))
}

// recoverer turns a handler panic into a logged 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.ErrorContext(r.Context(), "Handler panic",
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path,
					"panic", rec)
				InternalServerError("internal server error").Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) now() time.Time { return s.opts.Now() }

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Close releases background goroutines without draining. Used by tests.
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.Server.Close()
}
