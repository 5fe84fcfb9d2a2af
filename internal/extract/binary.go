package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/flowdl/flowdl/internal/model"
	"github.com/flowdl/flowdl/internal/platform"
)

// Output lines that reveal where yt-dlp wrote the result.
var (
	destinationRe = regexp.MustCompile(`\[download\] Destination: (.+)`)
	mergerRe      = regexp.MustCompile(`\[Merger\] Merging formats into "(.+)"`)
	audioDestRe   = regexp.MustCompile(`\[ExtractAudio\] Destination: (.+)`)
)

// BinaryExtractor runs extractions through a standalone yt-dlp binary.
// Fallback strategy: progress is coarse - only the process exit status is
// observed, and failures carry the truncated diagnostic output.
type BinaryExtractor struct {
	binPath     string
	downloadDir string
	ffmpegDir   string
}

// NewBinaryExtractor creates the external-process strategy around a
// discovered yt-dlp binary.
func NewBinaryExtractor(binPath, downloadDir, ffmpegDir string) *BinaryExtractor {
	return &BinaryExtractor{
		binPath:     binPath,
		downloadDir: downloadDir,
		ffmpegDir:   ffmpegDir,
	}
}

func (e *BinaryExtractor) Name() string { return "yt-dlp (system)" }

func (e *BinaryExtractor) Version() string { return platform.ToolVersion(e.binPath) }

// Run invokes the binary and blocks until it exits. The sink only sees the
// initial downloading event; no incremental progress is available.
func (e *BinaryExtractor) Run(ctx context.Context, task *model.Task, sink ProgressSink) (string, error) {
	args := e.buildArgs(task)

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	cmd.Dir = e.downloadDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	sink(Progress{Stage: StageDownloading, Percent: -1})

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("yt-dlp: %s", TruncateDetail(detail))
	}

	return e.resolveOutputPath(stdout.String()), nil
}

// buildArgs maps the task through the shared format policy onto a CLI
// invocation equivalent to the library strategy's option set.
func (e *BinaryExtractor) buildArgs(task *model.Task) []string {
	policy := BuildPolicy(task.Kind, task.Quality, task.Format)

	var args []string
	if policy.ExtractAudio {
		args = append(args,
			"-x",
			"--audio-format", policy.AudioFormat,
			"--audio-quality", policy.AudioQuality,
			"--add-metadata",
		)
	} else {
		args = append(args, "-f", policy.Selector)
		if policy.MergeFormat != "" {
			args = append(args, "--merge-output-format", policy.MergeFormat)
		}
	}

	if task.Playlist {
		args = append(args, "--yes-playlist")
	} else {
		args = append(args, "--no-playlist")
	}

	if e.ffmpegDir != "" {
		args = append(args, "--ffmpeg-location", e.ffmpegDir)
	}

	args = append(args, "--force-overwrites", "--restrict-filenames")
	args = append(args, "-o", "%(title)s.%(ext)s", task.URL)
	return args
}

// resolveOutputPath recovers the written file from yt-dlp's stdout. Merge
// and audio-conversion destinations win over the raw download destination,
// since they name the final artifact.
func (e *BinaryExtractor) resolveOutputPath(output string) string {
	path := ""
	if m := mergerRe.FindStringSubmatch(output); m != nil {
		path = m[1]
	} else if m := audioDestRe.FindStringSubmatch(output); m != nil {
		path = m[1]
	} else if ms := destinationRe.FindAllStringSubmatch(output, -1); len(ms) > 0 {
		path = ms[len(ms)-1][1]
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.downloadDir, path)
	}
	return path
}
