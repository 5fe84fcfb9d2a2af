package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowdl/flowdl/internal/model"
)

// QualityBest selects the best available stream with no resolution ceiling.
const QualityBest = "best"

// FormatPolicy is the strategy-independent format selection for one task.
// Both extraction strategies derive their invocation from the same policy so
// a request downloads identically regardless of which one runs it.
type FormatPolicy struct {
	Selector      string // yt-dlp format selector expression
	MergeFormat   string // non-empty: merge streams into this container
	ExtractAudio  bool
	AudioFormat   string
	AudioQuality  string
	EmbedMetadata bool
}

// BuildPolicy maps a request's kind/quality/format onto a format policy.
//
// Audio requests take the best audio-only stream and convert it to the
// requested codec at the requested quality tier. Video quality "best" means
// no height ceiling; any other quality string is a maximum vertical
// resolution in pixels ("720p" -> 720) with an explicit container merge.
func BuildPolicy(kind model.MediaKind, quality, format string) FormatPolicy {
	if kind == model.KindAudio {
		return FormatPolicy{
			Selector:      "bestaudio/best",
			ExtractAudio:  true,
			AudioFormat:   format,
			AudioQuality:  quality,
			EmbedMetadata: true,
		}
	}

	height, ok := parseHeight(quality)
	if !ok {
		return FormatPolicy{Selector: "bestvideo+bestaudio/best"}
	}

	return FormatPolicy{
		Selector:    fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height),
		MergeFormat: format,
	}
}

// parseHeight interprets a quality descriptor as a resolution ceiling.
// "best", empty, and unparseable values mean no ceiling.
func parseHeight(quality string) (int, bool) {
	q := strings.TrimSpace(strings.ToLower(quality))
	if q == "" || q == QualityBest {
		return 0, false
	}

	height, err := strconv.Atoi(strings.TrimSuffix(q, "p"))
	if err != nil || height <= 0 {
		return 0, false
	}
	return height, true
}
