package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// mockHealthCheck implements HealthCheck for testing
type mockHealthCheck struct {
	name    string
	healthy bool
}

func (m *mockHealthCheck) Name() string {
	return m.name
}

func (m *mockHealthCheck) Check(ctx context.Context) error {
	if !m.healthy {
		return errors.New("mock health check failed")
	}
	return nil
}

// slowHealthCheck blocks until delay passes or ctx is done
type slowHealthCheck struct {
	name  string
	delay time.Duration
}

func (s *slowHealthCheck) Name() string {
	return s.name
}

func (s *slowHealthCheck) Check(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestHealthChecker_AddRemoveCheck(t *testing.T) {
	hc := NewHealthChecker(nil)

	hc.AddCheck(&mockHealthCheck{name: "b", healthy: true})
	hc.AddCheck(&mockHealthCheck{name: "a", healthy: true})
	hc.AddCheck(&mockHealthCheck{name: "a", healthy: false})

	if got := strings.Join(hc.Names(), ","); got != "a,b" {
		t.Errorf("Names() = %s, want a,b", got)
	}

	hc.RemoveCheck("a")
	if got := strings.Join(hc.Names(), ","); got != "b" {
		t.Errorf("Names() after remove = %s, want b", got)
	}
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		checks   []*mockHealthCheck
		expected string
	}{
		{
			name:     "no checks - healthy",
			checks:   []*mockHealthCheck{},
			expected: StatusHealthy,
		},
		{
			name: "all healthy",
			checks: []*mockHealthCheck{
				{name: "check1", healthy: true},
				{name: "check2", healthy: true},
			},
			expected: StatusHealthy,
		},
		{
			name: "one unhealthy",
			checks: []*mockHealthCheck{
				{name: "check1", healthy: true},
				{name: "check2", healthy: false},
			},
			expected: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker(nil)
			for _, check := range tt.checks {
				hc.AddCheck(check)
			}

			status := hc.CheckHealth(context.Background())

			if status.Status != tt.expected {
				t.Errorf("Expected status %s, got %s", tt.expected, status.Status)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("Expected %d check results, got %d", len(tt.checks), len(status.Checks))
			}
			for _, check := range tt.checks {
				want := StatusHealthy
				if !check.healthy {
					want = StatusUnhealthy
				}
				if got := status.Checks[check.name].Status; got != want {
					t.Errorf("Check %s: expected status %s, got %s", check.name, want, got)
				}
			}
		})
	}
}

func TestHealthChecker_CheckHealthWithTimeout(t *testing.T) {
	hc := NewHealthChecker(nil)
	hc.AddCheck(&slowHealthCheck{name: "slow", delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	status := hc.CheckHealth(ctx)
	if status.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy status due to timeout, got %s", status.Status)
	}
	if msg := status.Checks["slow"].Message; !strings.Contains(msg, "deadline") {
		t.Errorf("Expected a deadline message, got %q", msg)
	}
}

func TestHealthChecker_Handler(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		healthy    bool
		wantCode   int
		wantStatus string
	}{
		{"liveness", "/health", false, http.StatusOK, StatusAlive},
		{"ready", "/ready", true, http.StatusOK, StatusHealthy},
		{"not ready", "/ready", false, http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker(nil)
			hc.AddCheck(&mockHealthCheck{name: "simulation", healthy: tt.healthy})
			server := httptest.NewServer(hc.Handler())
			defer server.Close()

			resp, err := http.Get(server.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s error = %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Errorf("Expected status code %d, got %d", tt.wantCode, resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", ct)
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, body.Status)
			}
		})
	}
}

func TestSimulationHealthCheck(t *testing.T) {
	var tick uint64
	paused := false
	clock := time.Unix(0, 0)

	check := NewSimulationHealthCheck(
		func() uint64 { return tick },
		func() bool { return paused },
		time.Second,
	)
	check.now = func() time.Time { return clock }
	check.lastSeen = clock

	steps := []struct {
		name    string
		advance time.Duration
		ticks   uint64
		pause   bool
		wantErr bool
	}{
		{"fresh", 0, 0, false, false},
		{"ticking", 2 * time.Second, 120, false, false},
		{"short stall", 500 * time.Millisecond, 0, false, false},
		{"stalled", time.Second, 0, false, true},
		{"paused", time.Minute, 0, true, false},
		{"resumed", 500 * time.Millisecond, 1, false, false},
	}

	for _, step := range steps {
		clock = clock.Add(step.advance)
		tick += step.ticks
		paused = step.pause

		err := check.Check(context.Background())
		if (err != nil) != step.wantErr {
			t.Errorf("%s: Check() error = %v, wantErr %v", step.name, err, step.wantErr)
		}
	}
	if check.Name() != "simulation" {
		t.Errorf("Name() = %s, want simulation", check.Name())
	}
}

func TestMemoryHealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		usage       int64
		expectError bool
	}{
		{"under limit", 100, false},
		{"at limit", 500, false},
		{"over limit", 501, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewMemoryHealthCheck(500, func() int64 { return tt.usage })
			err := check.Check(context.Background())
			if (err != nil) != tt.expectError {
				t.Errorf("Check() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}
