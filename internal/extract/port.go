package extract

import (
	"context"
	"errors"

	"github.com/flowdl/flowdl/internal/model"
)

// MaxErrorDetail bounds the length of error summaries attached to tasks.
const MaxErrorDetail = 500

// ErrNoExtractor is returned when neither extraction strategy is available.
var ErrNoExtractor = errors.New("no extraction capability: install yt-dlp")

// ErrCancelled signals that a run stopped because the task was cancelled.
var ErrCancelled = errors.New("extraction cancelled")

// Stage distinguishes the fetch itself from post-processing work
// (merging, audio conversion, tagging).
type Stage int

const (
	StageDownloading Stage = iota
	StageProcessing
)

// Progress is one incremental status event from a running extraction.
type Progress struct {
	Stage    Stage
	Percent  float64 // 0-100, negative when unknown
	Speed    string  // human readable, empty when unknown
	ETA      string  // human readable, empty when unknown
	Title    string  // resolved media title, empty when unknown
	Filename string  // output file path, empty until known
}

// ProgressSink receives progress events. Implementations must be safe for
// calls from the extraction goroutine.
type ProgressSink func(Progress)

// Extractor runs one media extraction job for a task. Run blocks until the
// job finishes and returns the resolved output path on success. The task is
// read-only for implementations; all state flows through the sink and the
// return values.
type Extractor interface {
	Name() string
	Version() string
	Run(ctx context.Context, task *model.Task, sink ProgressSink) (string, error)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateDetail bounds an error summary to MaxErrorDetail bytes.
func TruncateDetail(s string) string {
	return truncate(s, MaxErrorDetail)
}
