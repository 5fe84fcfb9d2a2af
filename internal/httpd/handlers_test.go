package httpd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowdl/flowdl/internal/extract"
	"github.com/flowdl/flowdl/internal/model"
	"github.com/flowdl/flowdl/internal/queue"
)

// fakeQueue implements DownloadQueue for handler tests.
type fakeQueue struct {
	enqueueID  string
	enqueueErr error
	lastReq    model.Request
	cancelled  map[string]bool
	active     []model.Task
	history    []model.Task
}

func (f *fakeQueue) Enqueue(req model.Request) (string, error) {
	f.lastReq = req
	return f.enqueueID, f.enqueueErr
}

func (f *fakeQueue) Cancel(id string) bool   { return f.cancelled[id] }
func (f *fakeQueue) QueueDepth() int         { return len(f.active) }
func (f *fakeQueue) Active() []model.Task    { return f.active }
func (f *fakeQueue) History() []model.Task   { return f.history }
func (f *fakeQueue) ToolDescription() string { return "fake 0.0" }

func doRequest(t *testing.T, q DownloadQueue, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(q, "test")

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	q := &fakeQueue{active: []model.Task{{ID: "a"}, {ID: "b"}}}
	rec := doRequest(t, q, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "online" {
		t.Errorf("Expected status 'online', got %v", resp["status"])
	}
	if resp["active_downloads"].(float64) != 2 {
		t.Errorf("Expected 2 active downloads, got %v", resp["active_downloads"])
	}
}

func TestAddDownload(t *testing.T) {
	q := &fakeQueue{enqueueID: "abc12345"}
	body := `{"url":"https://x.test/watch?v=abc","download_type":"audio","quality":"192","format":"mp3","title":"Song"}`
	rec := doRequest(t, q, http.MethodPost, "/add-download", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EnqueueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TaskID != "abc12345" {
		t.Errorf("Expected task id 'abc12345', got %q", resp.TaskID)
	}

	if q.lastReq.Kind != model.KindAudio || q.lastReq.Format != "mp3" {
		t.Errorf("Request not passed through: %+v", q.lastReq)
	}
}

func TestAddDownloadInvalidURL(t *testing.T) {
	q := &fakeQueue{enqueueErr: queue.ErrInvalidURL}
	rec := doRequest(t, q, http.MethodPost, "/add-download", `{"url":"notaurl"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestAddDownloadMalformedBody(t *testing.T) {
	q := &fakeQueue{}
	rec := doRequest(t, q, http.MethodPost, "/add-download", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestAddDownloadNoExtractor(t *testing.T) {
	q := &fakeQueue{enqueueErr: extract.ErrNoExtractor}
	rec := doRequest(t, q, http.MethodPost, "/add-download", `{"url":"https://x.test/a"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}

func TestQueueSnapshot(t *testing.T) {
	q := &fakeQueue{active: []model.Task{
		{ID: "a", Status: model.StatusDownloading, Progress: 42},
	}}
	rec := doRequest(t, q, http.MethodGet, "/queue", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		QueueSize   int          `json:"queue_size"`
		ActiveTasks []model.Task `json:"active_tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.ActiveTasks) != 1 || resp.ActiveTasks[0].Progress != 42 {
		t.Errorf("Unexpected active snapshot: %+v", resp.ActiveTasks)
	}
}

func TestCancel(t *testing.T) {
	q := &fakeQueue{cancelled: map[string]bool{"known123": true}}

	rec := doRequest(t, q, http.MethodDelete, "/cancel/known123", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for known task, got %d", rec.Code)
	}

	rec = doRequest(t, q, http.MethodDelete, "/cancel/missing1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown task, got %d", rec.Code)
	}
}
