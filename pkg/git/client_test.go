package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)
	ctx := context.Background()

	unlock, err := client.Lock(ctx)
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, DefaultLockName)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	// A second acquisition must give up once its context expires.
	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := client.Lock(short); err == nil {
		t.Error("expected contended lock to time out")
	}

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_InitCommitLog(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)
	ctx := context.Background()

	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, ".git")); os.IsNotExist(err) {
		t.Fatal(".git directory not created")
	}
	if !client.IsRepo() {
		t.Fatal("expected work tree")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "state.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := client.Add(ctx, "state.json"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit(ctx, "update state"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	body, err := client.Run(ctx, "log", "-1", "--format=%B")
	if err != nil {
		t.Fatalf("log body: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(body), Footer) {
		t.Errorf("commit body %q lacks footer", body)
	}

	// Nothing staged: commit is skipped instead of failing.
	if err := client.Commit(ctx, "noop"); err != nil {
		t.Fatalf("empty Commit failed: %v", err)
	}

	log, err := client.Log(ctx, 10)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(log) != 1 {
		t.Errorf("expected 1 commit, got %d: %v", len(log), log)
	}

	status, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != "" {
		t.Errorf("expected clean tree, got %q", status)
	}
}
