package extract

import (
	"strings"
	"testing"

	"github.com/flowdl/flowdl/internal/model"
)

func newTestTask(kind model.MediaKind, quality, format string, playlist bool) *model.Task {
	return model.NewTask("deadbeef", model.Request{
		URL:      "https://x.test/watch?v=abc",
		Kind:     kind,
		Quality:  quality,
		Format:   format,
		Playlist: playlist,
	})
}

func TestBuildArgsVideoWithCeiling(t *testing.T) {
	e := NewBinaryExtractor("/usr/bin/yt-dlp", "/downloads", "/opt/ffmpeg")
	args := e.buildArgs(newTestTask(model.KindVideo, "720p", "mp4", false))
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-f bestvideo[height<=720]+bestaudio/best[height<=720]") {
		t.Errorf("Expected capped format selector, got: %s", joined)
	}
	if !strings.Contains(joined, "--merge-output-format mp4") {
		t.Errorf("Expected merge directive, got: %s", joined)
	}
	if !strings.Contains(joined, "--no-playlist") {
		t.Errorf("Expected --no-playlist, got: %s", joined)
	}
	if !strings.Contains(joined, "--ffmpeg-location /opt/ffmpeg") {
		t.Errorf("Expected ffmpeg location, got: %s", joined)
	}
	if args[len(args)-1] != "https://x.test/watch?v=abc" {
		t.Errorf("Expected URL as the last argument, got: %s", args[len(args)-1])
	}
}

func TestBuildArgsVideoBest(t *testing.T) {
	e := NewBinaryExtractor("/usr/bin/yt-dlp", "/downloads", "")
	args := e.buildArgs(newTestTask(model.KindVideo, "best", "mp4", false))
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-f bestvideo+bestaudio/best") {
		t.Errorf("Expected uncapped selector, got: %s", joined)
	}
	if strings.Contains(joined, "--merge-output-format") {
		t.Errorf("Expected no merge directive for 'best', got: %s", joined)
	}
	if strings.Contains(joined, "--ffmpeg-location") {
		t.Errorf("Expected no ffmpeg flag when undiscovered, got: %s", joined)
	}
}

func TestBuildArgsAudio(t *testing.T) {
	e := NewBinaryExtractor("/usr/bin/yt-dlp", "/downloads", "")
	args := e.buildArgs(newTestTask(model.KindAudio, "192", "mp3", false))
	joined := strings.Join(args, " ")

	for _, want := range []string{"-x", "--audio-format mp3", "--audio-quality 192", "--add-metadata"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected %q in args, got: %s", want, joined)
		}
	}
}

func TestBuildArgsPlaylist(t *testing.T) {
	e := NewBinaryExtractor("/usr/bin/yt-dlp", "/downloads", "")
	args := e.buildArgs(newTestTask(model.KindVideo, "best", "mp4", true))

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--yes-playlist") {
		t.Errorf("Expected --yes-playlist, got: %s", joined)
	}
}

func TestResolveOutputPath(t *testing.T) {
	e := NewBinaryExtractor("/usr/bin/yt-dlp", "/downloads", "")

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "merger wins over download destination",
			output: "[download] Destination: clip.f137.mp4\n[download] Destination: clip.f140.m4a\n[Merger] Merging formats into \"clip.mp4\"\n",
			want:   "/downloads/clip.mp4",
		},
		{
			name:   "audio conversion destination",
			output: "[download] Destination: song.webm\n[ExtractAudio] Destination: song.mp3\n",
			want:   "/downloads/song.mp3",
		},
		{
			name:   "last download destination",
			output: "[download] Destination: clip.mp4\n",
			want:   "/downloads/clip.mp4",
		},
		{
			name:   "absolute path kept",
			output: "[download] Destination: /elsewhere/clip.mp4\n",
			want:   "/elsewhere/clip.mp4",
		},
		{
			name:   "no destination",
			output: "[youtube] abc: Downloading webpage\n",
			want:   "",
		},
	}

	for _, tt := range tests {
		if got := e.resolveOutputPath(tt.output); got != tt.want {
			t.Errorf("%s: resolveOutputPath() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTruncateDetail(t *testing.T) {
	long := strings.Repeat("x", MaxErrorDetail+100)
	if got := TruncateDetail(long); len(got) != MaxErrorDetail {
		t.Errorf("Expected %d bytes, got %d", MaxErrorDetail, len(got))
	}
	if got := TruncateDetail("short"); got != "short" {
		t.Errorf("Expected short strings untouched, got %q", got)
	}
}
