package http

import (
	"context"
	"net/http"
	"time"

	"household/internal/core"
	"household/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Send(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if err := s.household.Store().Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}
	checks["cache"] = map[string]any{
		"enabled":           s.cacheEnabled,
		"dashboard_entries": s.dashboardCache.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
	}

	NewJSONResponse().Status(httpStatus).Body(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Send(w)
}

type categoryInfo struct {
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// handleCategories lists the closed category sets with their display icons.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	bills := make([]categoryInfo, 0, len(core.BillCategories()))
	for _, c := range core.BillCategories() {
		icon, err := c.Icon()
		if err != nil {
			writeError(w, r, err)
			return
		}
		bills = append(bills, categoryInfo{Value: string(c), Icon: icon})
	}

	passwordCats := append([]core.PasswordCategory{core.PasswordCategoryAll}, core.PasswordCategories()...)
	passwords := make([]categoryInfo, 0, len(passwordCats))
	for _, c := range passwordCats {
		icon, err := c.Icon()
		if err != nil {
			writeError(w, r, err)
			return
		}
		passwords = append(passwords, categoryInfo{Value: string(c), Icon: icon})
	}

	cycles := make([]string, 0, 3)
	for _, c := range core.BillingCycles() {
		cycles = append(cycles, string(c))
	}
	strengths := make([]string, 0, 3)
	for _, st := range core.PasswordStrengths() {
		strengths = append(strengths, string(st))
	}

	NewJSONResponse().Body(map[string]any{
		"bill_categories":     bills,
		"password_categories": passwords,
		"billing_cycles":      cycles,
		"password_strengths":  strengths,
	}).Send(w)
}

// handleDashboard serves the overview, rebuilding it when the cache is cold.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.cacheEnabled {
		if d, ok := s.dashboardCache.Get(dashboardCacheKey); ok {
			s.metrics.DashboardCache(true)
			NewJSONResponse().Header("X-Cache", "HIT").Body(d).Send(w)
			return
		}
		s.metrics.DashboardCache(false)
	}

	gen := s.dashboardGeneration()
	d, err := s.dashboard.Build(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.cacheEnabled {
		s.storeDashboard(gen, d)
	}
	NewJSONResponse().Header("X-Cache", "MISS").Body(d).Send(w)
}

// recordChanged logs a successful mutation and invalidates derived views.
func (s *Server) recordChanged(r *http.Request, op, kind, id, name string) {
	s.invalidateDashboard()
	log.NewStructuredLogger(log.FromContext(r.Context())).LogRecordChanged(r.Context(), op, kind, id, name)
}

// amountChanged is recordChanged for records that carry money.
func (s *Server) amountChanged(r *http.Request, op, kind, id, name string, amount core.Money) {
	s.invalidateDashboard()
	log.NewStructuredLogger(log.FromContext(r.Context())).LogAmountChanged(r.Context(), op, kind, id, name, amount.Cents)
}
