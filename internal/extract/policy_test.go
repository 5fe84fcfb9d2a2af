package extract

import (
	"testing"

	"github.com/flowdl/flowdl/internal/model"
)

func TestBuildPolicyVideoBest(t *testing.T) {
	policy := BuildPolicy(model.KindVideo, "best", "mp4")

	if policy.Selector != "bestvideo+bestaudio/best" {
		t.Errorf("Expected no-ceiling selector, got %q", policy.Selector)
	}
	if policy.MergeFormat != "" {
		t.Errorf("Expected no merge directive for 'best', got %q", policy.MergeFormat)
	}
	if policy.ExtractAudio {
		t.Error("Expected video policy to not extract audio")
	}
}

func TestBuildPolicyVideoCeiling(t *testing.T) {
	policy := BuildPolicy(model.KindVideo, "720p", "mp4")

	want := "bestvideo[height<=720]+bestaudio/best[height<=720]"
	if policy.Selector != want {
		t.Errorf("Expected selector %q, got %q", want, policy.Selector)
	}
	if policy.MergeFormat != "mp4" {
		t.Errorf("Expected merge into mp4, got %q", policy.MergeFormat)
	}
}

func TestBuildPolicyAudio(t *testing.T) {
	policy := BuildPolicy(model.KindAudio, "192", "mp3")

	if policy.Selector != "bestaudio/best" {
		t.Errorf("Expected audio-only selector, got %q", policy.Selector)
	}
	if !policy.ExtractAudio {
		t.Error("Expected audio policy to extract audio")
	}
	if policy.AudioFormat != "mp3" || policy.AudioQuality != "192" {
		t.Errorf("Expected codec mp3 at quality 192, got %q/%q", policy.AudioFormat, policy.AudioQuality)
	}
	if !policy.EmbedMetadata {
		t.Error("Expected audio policy to attach metadata")
	}
}

func TestParseHeight(t *testing.T) {
	tests := []struct {
		quality string
		height  int
		ok      bool
	}{
		{"best", 0, false},
		{"", 0, false},
		{"720p", 720, true},
		{"2160p", 2160, true},
		{"1080", 1080, true},
		{"0p", 0, false},
		{"garbage", 0, false},
	}

	for _, tt := range tests {
		height, ok := parseHeight(tt.quality)
		if height != tt.height || ok != tt.ok {
			t.Errorf("parseHeight(%q) = (%d, %v), want (%d, %v)", tt.quality, height, ok, tt.height, tt.ok)
		}
	}
}
