package db

import (
	"path/filepath"
	"testing"
)

func TestInitAndState(t *testing.T) {
	tempDir := t.TempDir()
	d, err := Init(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer d.Close()

	if _, ok := d.GetState("language"); ok {
		t.Error("expected no state initially")
	}

	if err := d.SetState("language", "hi"); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if err := d.SetState("language", "te"); err != nil {
		t.Fatalf("SetState upsert failed: %v", err)
	}

	got, ok := d.GetState("language")
	if !ok || got != "te" {
		t.Errorf("GetState = (%q, %v), want (te, true)", got, ok)
	}
}
