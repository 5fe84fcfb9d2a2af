package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadDirOverrideWins(t *testing.T) {
	tempDir := t.TempDir()
	override := filepath.Join(tempDir, "override")
	configured := filepath.Join(tempDir, "configured")

	dir, err := DownloadDir(override, configured)
	if err != nil {
		t.Fatalf("DownloadDir failed: %v", err)
	}
	if dir != override {
		t.Errorf("Expected override dir %s, got %s", override, dir)
	}

	// Directory must be created
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Expected directory to be created: %s", dir)
	}
}

func TestDownloadDirUsesConfigured(t *testing.T) {
	configured := filepath.Join(t.TempDir(), "configured")

	dir, err := DownloadDir("", configured)
	if err != nil {
		t.Fatalf("DownloadDir failed: %v", err)
	}
	if dir != configured {
		t.Errorf("Expected configured dir %s, got %s", configured, dir)
	}
}

func TestFindNear(t *testing.T) {
	tempDir := t.TempDir()

	// Missing tool
	if got := findNear(tempDir, "sometool"); got != "" {
		t.Errorf("Expected empty path for missing tool, got %s", got)
	}

	// Present tool
	toolPath := filepath.Join(tempDir, "sometool")
	if err := os.WriteFile(toolPath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if got := findNear(tempDir, "sometool"); got != toolPath {
		t.Errorf("Expected %s, got %s", toolPath, got)
	}

	// A directory with the tool's name must not match
	dirPath := filepath.Join(tempDir, "dirtool")
	if err := os.Mkdir(dirPath, 0755); err != nil {
		t.Fatal(err)
	}
	if got := findNear(tempDir, "dirtool"); got != "" {
		t.Errorf("Expected directories to be skipped, got %s", got)
	}
}

func TestToolVersionMissingTool(t *testing.T) {
	if got := ToolVersion(""); got != "unknown" {
		t.Errorf("Expected 'unknown' for empty path, got %q", got)
	}
	if got := ToolVersion("/nonexistent/tool"); got != "unknown" {
		t.Errorf("Expected 'unknown' for missing tool, got %q", got)
	}
}
