package platform

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Operating system constants
const (
	OSWindows = "windows"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

const (
	DownloadsFolderName = "flowdl"
	versionProbeTimeout = 10 * time.Second
)

// DownloadDir resolves the directory downloads are written to, creating it
// if needed. Priority: explicit override, configured value, OS default
// (~/Downloads/flowdl).
func DownloadDir(override, configured string) (string, error) {
	dir := override
	if dir == "" {
		dir = configured
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, "Downloads", DownloadsFolderName)
	}

	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	return dir, nil
}

// FindTool locates an external tool binary. Search order: system PATH,
// then the directory of the running executable (for bundled tools).
func FindTool(name string) string {
	if found, err := exec.LookPath(name); err == nil {
		return found
	}

	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return findNear(filepath.Dir(exe), name)
}

// findNear checks dir for name, with a .exe variant on Windows.
func findNear(dir, name string) string {
	candidates := []string{filepath.Join(dir, name)}
	if runtime.GOOS == OSWindows {
		candidates = append(candidates, filepath.Join(dir, name+".exe"))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// FindFFmpeg locates ffmpeg and returns its path (or "") plus a status
// message for the startup report.
func FindFFmpeg() (string, string) {
	path := FindTool("ffmpeg")
	if path != "" {
		return path, fmt.Sprintf("ffmpeg found: %s", path)
	}
	return "", "ffmpeg NOT found - install it or place the binary next to the executable"
}

// FindYtdlpBinary locates a standalone yt-dlp binary on the system.
func FindYtdlpBinary() (string, string) {
	path := FindTool("yt-dlp")
	if path != "" {
		return path, fmt.Sprintf("yt-dlp binary found: %s", path)
	}
	return "", "yt-dlp binary NOT found - the managed library install will be used if available"
}

// ToolVersion runs "<path> --version" and returns the trimmed first line,
// or "unknown" when the probe fails.
func ToolVersion(path string) string {
	if path == "" {
		return "unknown"
	}

	ctx, cancel := context.WithTimeout(context.Background(), versionProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "unknown"
	}

	version := strings.TrimSpace(string(bytes.SplitN(out, []byte("\n"), 2)[0]))
	if version == "" {
		return "unknown"
	}
	return version
}
