// Package http serves the BudgetBuddy dashboard, its forms, the PDF report
// and a JSON summary.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/metrics"
	"budgetbuddy/internal/middleware/ratelimit"
	"budgetbuddy/internal/middleware/security"
	"budgetbuddy/internal/middleware/trace"
	"budgetbuddy/internal/services"
	appweb "budgetbuddy/web"

	"github.com/shopspring/decimal"
)

// BudgetAPI is the application surface used by the handlers. It is
// satisfied by *services.BudgetService.
type BudgetAPI interface {
	Dashboard(ctx context.Context) services.Dashboard
	Summary(ctx context.Context) core.SummaryView
	AddTransaction(ctx context.Context, in services.TransactionInput) (core.Transaction, error)
	SetBudgetLimit(ctx context.Context, raw string) (decimal.Decimal, error)
	Ready(ctx context.Context) error
}

type Config struct {
	Addr               string
	RateLimitPerMinute int
	// TrustedProxies are CIDRs whose X-Forwarded-For is honored in
	// addition to loopback and private networks.
	TrustedProxies []string
	Logger         *log.Logger
}

type Server struct {
	http.Server
	budget    BudgetAPI
	templates *template.Template
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	now       func() time.Time
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(cfg Config, budget BudgetAPI) (*Server, error) {
	if budget == nil {
		return nil, errors.New("budget service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	templates, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	detector := security.NewDetector()
	for _, cidr := range cfg.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	s := &Server{
		budget:    budget,
		templates: templates,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector:  detector,
		now:       time.Now,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /static/", security.StaticCache(3600)(http.StripPrefix("/static/", http.FileServerFS(static))))
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /add", s.handleAddForm)
	mux.HandleFunc("POST /add", s.handleAddTransaction)
	mux.HandleFunc("POST /set_budget", s.handleSetBudget)
	mux.HandleFunc("GET /download_report", s.handleDownloadReport)
	mux.HandleFunc("GET /api/summary", s.handleAPISummary)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	// trace -> security headers -> probe detection -> POST rate limit -> request logger
	var h http.Handler = mux
	h = log.Middleware(logger, trace.GetRequestID)(h)
	h = s.limiter.Middleware(detector.ExtractClientIP, nil)(h)
	h = detector.Middleware(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = trace.NewMiddleware(detector.ExtractClientIP).WithRoutes(mux).Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

// RunMaintenance evicts idle rate limiter entries until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) {
	s.limiter.Run(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.budget.Ready(r.Context()); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
