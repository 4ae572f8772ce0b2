package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"household/internal/cache"
	"household/internal/core"
	"household/internal/log"
	"household/internal/metrics"
	"household/internal/middleware/ratelimit"
	"household/internal/middleware/security"
	"household/internal/middleware/trace"
	"household/internal/services"
)

const dashboardCacheKey = "dashboard"

// Deps are the collaborators the server needs. Metrics may be nil.
type Deps struct {
	Household *services.HouseholdService
	Dashboard *services.DashboardService
	Metrics   *metrics.Metrics
	Logger    *log.Logger
	// CacheTTL bounds how long a built dashboard is served; zero disables
	// caching.
	CacheTTL  time.Duration
	RateLimit ratelimit.Config
}

type Server struct {
	http.Server

	household *services.HouseholdService
	dashboard *services.DashboardService
	metrics   *metrics.Metrics
	logger    *log.Logger
	started   time.Time

	rateLimiter    *ratelimit.Limiter
	dashboardCache *cache.LRUCache[core.Dashboard]
	cacheManager   *cache.Manager
	cacheEnabled   bool
	// dashboardMu orders cache fills against invalidations; dashboardGen
	// counts invalidations so a build that raced a mutation is not stored.
	dashboardMu  sync.Mutex
	dashboardGen uint64

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		household:      deps.Household,
		dashboard:      deps.Dashboard,
		metrics:        deps.Metrics,
		logger:         logger,
		started:        time.Now(),
		rateLimiter:    ratelimit.NewLimiter(deps.RateLimit),
		dashboardCache: cache.NewLRUCache[core.Dashboard](1, deps.CacheTTL),
		cacheManager:   cache.NewManager(logger),
		cacheEnabled:   deps.CacheTTL > 0,
	}
	s.cacheManager.Register(s.dashboardCache)
	if s.cacheEnabled {
		s.cacheManager.StartCleanup(max(deps.CacheTTL, time.Second))
	}

	mux := http.NewServeMux()
	s.routes(mux)

	clientIP := security.NewClientIPResolver()
	var handler http.Handler = mux
	handler = log.RequestIDMiddleware(requestIDOf)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.rateLimiter.Middleware(clientIP.ClientIP, s.onRateLimited)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(logger, clientIP.ClientIP, s.metricsObserver()).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/bills", s.handleListBills)
	mux.HandleFunc("POST /api/bills", s.handleCreateBill)
	mux.HandleFunc("GET /api/bills/summary", s.handleBillSummary)
	mux.HandleFunc("GET /api/bills/buckets", s.handleBillBuckets)
	mux.HandleFunc("POST /api/bills/{id}/paid", s.handleSetBillPaid(true))
	mux.HandleFunc("DELETE /api/bills/{id}/paid", s.handleSetBillPaid(false))

	mux.HandleFunc("GET /api/subscriptions", s.handleListSubscriptions)
	mux.HandleFunc("POST /api/subscriptions", s.handleCreateSubscription)

	mux.HandleFunc("GET /api/passwords", s.handleListPasswords)
	mux.HandleFunc("POST /api/passwords", s.handleCreatePassword)

	mux.HandleFunc("GET /api/vehicles", s.handleListVehicles)
	mux.HandleFunc("POST /api/vehicles", s.handleCreateVehicle)
	mux.HandleFunc("GET /api/vehicles/{id}/services", s.handleListServiceRecords)
	mux.HandleFunc("POST /api/vehicles/{id}/services", s.handleCreateServiceRecord)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)
}

func requestIDOf(r *http.Request) string {
	return trace.GetRequestID(r.Context())
}

// metricsObserver avoids handing trace a typed nil.
func (s *Server) metricsObserver() trace.Observer {
	if s.metrics == nil {
		return nil
	}
	return s.metrics
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Error(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Send(w)
}

// invalidateDashboard drops the cached overview after any mutation.
func (s *Server) invalidateDashboard() {
	s.dashboardMu.Lock()
	s.dashboardGen++
	s.dashboardCache.Purge()
	s.dashboardMu.Unlock()
}

func (s *Server) dashboardGeneration() uint64 {
	s.dashboardMu.Lock()
	defer s.dashboardMu.Unlock()
	return s.dashboardGen
}

// storeDashboard caches d unless a mutation happened since gen was read.
func (s *Server) storeDashboard(gen uint64, d core.Dashboard) {
	s.dashboardMu.Lock()
	defer s.dashboardMu.Unlock()
	if s.dashboardGen != gen {
		return
	}
	s.dashboardCache.Set(dashboardCacheKey, d)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
