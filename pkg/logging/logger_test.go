package logging

import (
	"os"
	"path/filepath"
	"testing"

	"krishigo/pkg/config"
)

func TestInitAndRotate(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	requestLog := filepath.Join(tempDir, "requests.log")

	// Pre-existing log should be rotated to .old
	if err := os.WriteFile(serverLog, []byte("previous run\n"), 0o644); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	cfg := &config.LogConfig{
		Server:   config.LogSettings{Path: serverLog, Level: "DEBUG"},
		Requests: config.LogSettings{Path: requestLog, Level: "INFO"},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(serverLog + ".old"); err != nil {
		t.Errorf("expected rotated log: %v", err)
	}
	if RequestLogger == nil {
		t.Fatal("RequestLogger not initialized")
	}

	RequestLogger.Info("request", "path", "/api/query")
	data, err := os.ReadFile(requestLog)
	if err != nil {
		t.Fatalf("read request log: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected request log entry")
	}
}
