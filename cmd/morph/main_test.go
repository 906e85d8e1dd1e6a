// cmd/morph/main_test.go
package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-morph/pkg/config"
	"github.com/opd-ai/go-morph/pkg/engine"
	"github.com/opd-ai/go-morph/pkg/logging"
)

func TestNewHealthServer(t *testing.T) {
	cfg := config.DefaultConfig()
	world := engine.NewWorld(cfg)
	if _, err := world.SpawnFleet(cfg.Fleet); err != nil {
		t.Fatalf("SpawnFleet() error = %v", err)
	}

	server := newHealthServer(world, nil, ":0")
	if server.Addr != ":0" {
		t.Errorf("Addr = %s, want :0", server.Addr)
	}

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d: %s", path, rec.Code, http.StatusOK, rec.Body.String())
		}
	}
}

func TestRun_WritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morph.json")
	if err := run([]string{"-default", "-config", path}, logging.Discard()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}

	if err := run([]string{"-default"}, logging.Discard()); err == nil {
		t.Error("run(-default) without -config should fail")
	}
}

func TestRun_UnknownRenderer(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLoggerWithWriter(&buf, slog.LevelInfo)

	if err := run([]string{"-renderer", "vt100"}, logger); err == nil {
		t.Fatal("run() with an unknown renderer should fail")
	}
	out := buf.String()
	if !strings.Contains(out, "Simulation stopped with an error") {
		t.Errorf("failure not logged: %s", out)
	}
	if !strings.Contains(out, `"correlation_id"`) {
		t.Errorf("log lines carry no correlation id: %s", out)
	}
}

func TestRun_FleetErrorLandsInLogFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Render.Backend = config.BackendTerminal
	cfg.Fleet = []config.ShipSpawn{{Player: "raiders", PlayerType: "ai", X: 1e9, Mass: 10}}
	configPath := filepath.Join(dir, "morph.json")
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	logPath := filepath.Join(dir, "morph.log")

	if err := run([]string{"-config", configPath, "-log", logPath}, logging.Discard()); err == nil {
		t.Fatal("run() with an out of range spawn should fail")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "Failed to spawn fleet") {
		t.Errorf("log file = %q, want the fleet failure", data)
	}
}
