package extract

import (
	"context"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/flowdl/flowdl/internal/model"
	"github.com/flowdl/flowdl/internal/platform"
)

const progressInterval = 500 * time.Millisecond

// LibraryExtractor runs extractions through the managed go-ytdlp install.
// It is the preferred strategy: progress callbacks give fine-grained
// per-task status.
type LibraryExtractor struct {
	downloadDir string
	ffmpegDir   string
	executable  string
}

// NewLibraryExtractor creates the managed-install strategy. executable is
// the resolved yt-dlp path, used only for version reporting.
func NewLibraryExtractor(downloadDir, ffmpegDir, executable string) *LibraryExtractor {
	return &LibraryExtractor{
		downloadDir: downloadDir,
		ffmpegDir:   ffmpegDir,
		executable:  executable,
	}
}

func (e *LibraryExtractor) Name() string { return "yt-dlp (managed)" }

func (e *LibraryExtractor) Version() string { return platform.ToolVersion(e.executable) }

// Run downloads one task, streaming progress into sink. The call blocks for
// the duration of the job; cancellation is cooperative only.
func (e *LibraryExtractor) Run(ctx context.Context, task *model.Task, sink ProgressSink) (string, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		Output(filepath.Join(e.downloadDir, "%(title)s.%(ext)s"))

	policy := BuildPolicy(task.Kind, task.Quality, task.Format)
	if policy.ExtractAudio {
		dl = dl.Format(policy.Selector).
			ExtractAudio().
			AudioFormat(policy.AudioFormat).
			AudioQuality(policy.AudioQuality).
			EmbedMetadata()
	} else {
		dl = dl.Format(policy.Selector)
		if policy.MergeFormat != "" {
			dl = dl.MergeOutputFormat(policy.MergeFormat)
		}
	}

	if task.Playlist {
		dl = dl.YesPlaylist()
	} else {
		dl = dl.NoPlaylist()
	}

	if e.ffmpegDir != "" {
		dl = dl.FFmpegLocation(e.ffmpegDir)
	}

	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		sink(progressFromUpdate(update))
	})

	result, err := dl.Run(ctx, task.URL)
	if err != nil {
		return "", err
	}

	return outputPath(result), nil
}

// progressFromUpdate translates a go-ytdlp progress event into the port's
// progress model.
func progressFromUpdate(update ytdlp.ProgressUpdate) Progress {
	p := Progress{Stage: StageDownloading, Percent: -1}

	if update.TotalBytes > 0 {
		p.Percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		// The fetch is done; whatever runs now is post-processing.
		if update.DownloadedBytes >= update.TotalBytes {
			p.Stage = StageProcessing
		}
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started).Seconds()
		if elapsed > 0 {
			p.Speed = platform.FormatRate(float64(update.DownloadedBytes) / elapsed)
		}
	}

	if eta := update.ETA(); eta > 0 {
		p.ETA = platform.FormatETA(int(eta.Seconds()))
	}

	if update.Info != nil {
		if update.Info.Title != nil {
			p.Title = *update.Info.Title
		}
		if update.Info.Filename != nil {
			p.Filename = *update.Info.Filename
		}
	}

	return p
}

func outputPath(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 || info[0].Filename == nil {
		return ""
	}
	return *info[0].Filename
}
