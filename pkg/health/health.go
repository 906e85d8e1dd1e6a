// Package health serves liveness and readiness probes for a headless
// simulation. Readiness runs every registered check; the simulation check
// fails when the world stops advancing.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/opd-ai/go-morph/pkg/logging"
)

// Probe status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusAlive     = "alive"
)

// readinessTimeout bounds one readiness request
const readinessTimeout = 5 * time.Second

// HealthCheck is one named probe
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated readiness report
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of one check
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker holds the registered checks
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
	logger *logging.Logger
}

// NewHealthChecker creates a health checker with no checks
func NewHealthChecker(logger *logging.Logger) *HealthChecker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
		logger: logger,
	}
}

// AddCheck registers check, replacing any check with the same name
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names returns the registered check names in sorted order
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The overall status is healthy only if all
// checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	hc.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": StatusAlive})
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	health := hc.CheckHealth(ctx)
	code := http.StatusOK
	if health.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
		hc.logger.Warn(ctx, "readiness check failed", "checks", len(health.Checks))
	}
	hc.writeJSON(ctx, w, code, health)
}

// Handler returns a mux serving /health and /ready
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

func (hc *HealthChecker) writeJSON(ctx context.Context, w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		hc.logger.Error(ctx, "failed to write health response", err)
	}
}

// SimulationHealthCheck fails when the world tick has not advanced for
// longer than stallAfter. A paused world is healthy.
type SimulationHealthCheck struct {
	tick       func() uint64
	paused     func() bool
	now        func() time.Time
	stallAfter time.Duration

	mu       sync.Mutex
	lastTick uint64
	lastSeen time.Time
}

// NewSimulationHealthCheck creates a stall detector reading the world tick
// and pause state through the given functions
func NewSimulationHealthCheck(tick func() uint64, paused func() bool, stallAfter time.Duration) *SimulationHealthCheck {
	return &SimulationHealthCheck{
		tick:       tick,
		paused:     paused,
		now:        time.Now,
		stallAfter: stallAfter,
		lastTick:   tick(),
		lastSeen:   time.Now(),
	}
}

// Name returns the name of this health check.
func (s *SimulationHealthCheck) Name() string {
	return "simulation"
}

// Check reports an error when the tick is stuck
func (s *SimulationHealthCheck) Check(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if tick := s.tick(); tick != s.lastTick || s.paused() {
		s.lastTick = tick
		s.lastSeen = now
		return nil
	}
	if idle := now.Sub(s.lastSeen); idle > s.stallAfter {
		return fmt.Errorf("simulation stalled at tick %d for %s", s.lastTick, idle.Round(time.Millisecond))
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
