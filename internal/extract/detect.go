package extract

import (
	"context"
	"log"

	"github.com/lrstanley/go-ytdlp"
)

// Tools carries the discovered external binaries that feed strategy
// selection.
type Tools struct {
	FFmpegDir   string // directory holding ffmpeg, empty when not found
	YtdlpBinary string // standalone yt-dlp path, empty when not found
}

// Detect selects the extraction strategy once at startup: the managed
// library install when it can be resolved, otherwise a discovered
// standalone binary. ErrNoExtractor means every future enqueue must be
// rejected while the rest of the process stays usable.
func Detect(ctx context.Context, downloadDir string, tools Tools) (Extractor, error) {
	install, err := ytdlp.Install(ctx, nil)
	if err == nil {
		log.Printf("[Extract] using managed yt-dlp: %s", install.Executable)
		return NewLibraryExtractor(downloadDir, tools.FFmpegDir, install.Executable), nil
	}
	log.Printf("[Extract] managed yt-dlp unavailable: %v", err)

	if tools.YtdlpBinary != "" {
		log.Printf("[Extract] falling back to system yt-dlp: %s", tools.YtdlpBinary)
		return NewBinaryExtractor(tools.YtdlpBinary, downloadDir, tools.FFmpegDir), nil
	}

	return nil, ErrNoExtractor
}
