package model

import (
	"strings"
	"time"
)

// MediaKind selects what the extraction tool should produce.
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// Request is an incoming download request, before a task exists for it.
type Request struct {
	URL      string    `json:"url"`
	Kind     MediaKind `json:"download_type"`
	Playlist bool      `json:"is_playlist"`
	Quality  string    `json:"quality"`
	Format   string    `json:"format"`
	Title    string    `json:"title"`
}

// Task represents one download in the queue and its mutable progress state.
// A task is owned by the scheduler until it reaches a terminal status, then
// moves to the read-only history.
type Task struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Kind     MediaKind `json:"download_type"`
	Quality  string    `json:"quality"`
	Format   string    `json:"format"`
	Playlist bool      `json:"is_playlist"`

	Status   TaskStatus `json:"status"`
	Progress float64    `json:"progress"` // 0 to 100
	Speed    string     `json:"speed"`    // human readable, e.g. "1.2 MB/s"
	ETA      string     `json:"eta"`      // human readable, e.g. "01:24"

	FilePath  string    `json:"file_path,omitempty"` // set only on success
	Error     string    `json:"error,omitempty"`     // set only on failure
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a Queued task for the given request. The URL is stored as
// given; normalization happens before the task is created.
func NewTask(id string, req Request) *Task {
	return &Task{
		ID:        id,
		URL:       req.URL,
		Title:     req.Title,
		Kind:      req.Kind,
		Quality:   req.Quality,
		Format:    req.Format,
		Playlist:  req.Playlist,
		Status:    StatusQueued,
		Speed:     "-",
		ETA:       "-",
		CreatedAt: time.Now(),
	}
}

// DisplayTitle returns the title, the output filename, or the URL, in order
// of preference.
func (t *Task) DisplayTitle() string {
	if t.Title != "" && t.Title != "Untitled" && !strings.HasPrefix(t.Title, "http") {
		return t.Title
	}
	if t.FilePath != "" {
		parts := strings.FieldsFunc(t.FilePath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			name := parts[len(parts)-1]
			if idx := strings.LastIndex(name, "."); idx > 0 {
				name = name[:idx]
			}
			return name
		}
	}
	if t.Title != "" {
		return t.Title
	}
	return t.URL
}
