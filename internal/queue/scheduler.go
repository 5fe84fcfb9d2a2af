package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/flowdl/flowdl/internal/extract"
	"github.com/flowdl/flowdl/internal/model"
)

// DefaultConcurrency is the default download ceiling.
const DefaultConcurrency = 3

// How long an idle worker sleeps before re-checking the queue. The wait is
// bounded so workers notice shutdown promptly.
const defaultPollInterval = 200 * time.Millisecond

const taskIDLength = 8

// ErrShuttingDown rejects enqueues after shutdown has been requested.
var ErrShuttingDown = errors.New("scheduler is shutting down")

// ErrInvalidKind rejects a request with an unknown media kind.
var ErrInvalidKind = errors.New("invalid media kind")

// Scheduler owns the pending queue, the active-task index, and the history
// of finished tasks. One instance is constructed at startup and passed to
// every collaborator; all access is synchronized through its mutex.
type Scheduler struct {
	extractor     extract.Extractor
	updater       func(stop <-chan struct{})
	maxConcurrent int
	poll          time.Duration

	mu      sync.Mutex
	pending []*model.Task
	active  map[string]*model.Task
	history []*model.Task
	seenIDs map[string]struct{}

	sem      *semaphore.Weighted
	stop     chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a scheduler bound to an extraction strategy. A nil
// extractor is allowed: the process stays up for status reporting, but
// every enqueue is rejected.
func NewScheduler(extractor extract.Extractor, maxConcurrent int) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultConcurrency
	}
	return &Scheduler{
		extractor:     extractor,
		maxConcurrent: maxConcurrent,
		poll:          defaultPollInterval,
		active:        make(map[string]*model.Task),
		seenIDs:       make(map[string]struct{}),
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
		stop:          make(chan struct{}),
	}
}

// SetUpdater installs the background maintenance hook started by Run.
func (s *Scheduler) SetUpdater(updater func(stop <-chan struct{})) {
	s.updater = updater
}

// Enqueue validates and normalizes a request, creates a Queued task, and
// appends it to the pending queue. It never blocks on network or disk.
func (s *Scheduler) Enqueue(req model.Request) (string, error) {
	if s.extractor == nil {
		return "", extract.ErrNoExtractor
	}
	select {
	case <-s.stop:
		return "", ErrShuttingDown
	default:
	}

	if req.Kind == "" {
		req.Kind = model.KindVideo
	}
	if req.Kind != model.KindVideo && req.Kind != model.KindAudio {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}

	normalized, err := NormalizeURL(req.URL, req.Playlist)
	if err != nil {
		return "", err
	}
	req.URL = normalized

	if req.Quality == "" {
		req.Quality = "1080p"
	}
	if req.Format == "" {
		req.Format = "mp4"
	}
	if req.Title == "" {
		req.Title = "Untitled"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := model.NewTask(s.newID(), req)
	s.pending = append(s.pending, task)
	s.active[task.ID] = task

	log.Printf("[Scheduler] queued [%s] %s", task.ID, task.DisplayTitle())
	return task.ID, nil
}

// Cancel marks a non-terminal task Cancelled and moves it to history. A
// task already being processed keeps running (cancellation is cooperative;
// the in-flight call is never force-killed) but its late outcome is
// discarded. Returns whether a cancellable task was found.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.active[id]
	if !ok || !task.Status.CanTransition(model.StatusCancelled) {
		return false
	}

	task.Status = model.StatusCancelled
	task.Speed, task.ETA = "-", "-"

	for i, queued := range s.pending {
		if queued.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}

	delete(s.active, id)
	s.history = append(s.history, task)

	log.Printf("[Scheduler] cancelled [%s]", id)
	return true
}

// Run starts the worker pool and the background updater and blocks until
// shutdown. Cancelling ctx is equivalent to calling Shutdown: workers
// finish their current task and exit.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[Scheduler] starting %d workers", s.maxConcurrent)

	var wg sync.WaitGroup
	for i := 0; i < s.maxConcurrent; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(id)
		}(i)
	}

	if s.updater != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.updater(s.stop)
		}()
	}

	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown()
		case <-s.stop:
		}
	}()

	wg.Wait()
	log.Println("[Scheduler] stopped")
}

// Shutdown signals workers to stop after finishing their current task.
func (s *Scheduler) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// worker pulls queued tasks and processes them one at a time.
func (s *Scheduler) worker(id int) {
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		task := s.nextQueued()
		if task == nil {
			select {
			case <-s.stop:
				return
			case <-time.After(s.poll):
			}
			continue
		}

		// The permit bounds concurrent extractions independent of pool
		// size and queue depth.
		if err := s.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		s.process(id, task)
		s.sem.Release(1)
	}
}

// nextQueued pops the oldest task that is still Queued, preserving FIFO
// order. Tasks cancelled while waiting are skipped without side effects.
func (s *Scheduler) nextQueued() *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.pending) > 0 {
		task := s.pending[0]
		s.pending = s.pending[1:]
		if task.Status == model.StatusQueued {
			return task
		}
	}
	return nil
}

// process runs one task through the extraction port. Success, failure, and
// cancellation all converge on finalize, so a task is moved to history
// exactly once.
func (s *Scheduler) process(workerID int, task *model.Task) {
	s.mu.Lock()
	if task.Status != model.StatusQueued {
		s.mu.Unlock()
		return
	}
	task.Status = model.StatusDownloading
	s.mu.Unlock()

	log.Printf("[Worker-%d] starting [%s] %s", workerID, task.ID, task.DisplayTitle())

	// Extraction is detached from the shutdown signal on purpose: a
	// worker finishes its current task before exiting.
	var resolvedPath string
	path, err := s.extractor.Run(context.Background(), task, s.sinkFor(task, &resolvedPath))

	s.finalize(workerID, task, firstNonEmpty(path, resolvedPath), err)
}

// sinkFor builds the progress callback for one task. Updates are applied
// under the scheduler lock; once the task is terminal (cancelled
// mid-flight) further events are ignored. The output path seen during
// post-processing is stashed in pathOut rather than on the task, so a
// late failure never leaves both a file path and an error behind.
func (s *Scheduler) sinkFor(task *model.Task, pathOut *string) extract.ProgressSink {
	return func(p extract.Progress) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if task.Status.IsTerminal() {
			return
		}

		if p.Title != "" && (task.Title == "" || task.Title == "Untitled") {
			task.Title = p.Title
		}

		if p.Stage == extract.StageProcessing {
			if task.Status == model.StatusDownloading {
				task.Status = model.StatusProcessing
			}
			task.Progress = 100
			task.Speed, task.ETA = "-", "-"
			if p.Filename != "" {
				*pathOut = p.Filename
			}
			return
		}

		if p.Percent > task.Progress {
			task.Progress = p.Percent
		}
		if p.Speed != "" {
			task.Speed = p.Speed
		}
		if p.ETA != "" {
			task.ETA = p.ETA
		}
	}
}

// finalize records the outcome and moves the task to history. If the task
// was cancelled while running it is already in history and the late
// outcome is discarded.
func (s *Scheduler) finalize(workerID int, task *model.Task, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[task.ID]; !ok {
		log.Printf("[Worker-%d] discarding late outcome for cancelled [%s]", workerID, task.ID)
		return
	}

	switch {
	case err == nil:
		task.Status = model.StatusCompleted
		task.Progress = 100
		task.FilePath = path
		task.Speed, task.ETA = "-", "-"
		log.Printf("[Worker-%d] completed [%s] %s", workerID, task.ID, task.DisplayTitle())
	case errors.Is(err, extract.ErrCancelled):
		task.Status = model.StatusCancelled
		task.Speed, task.ETA = "-", "-"
		log.Printf("[Worker-%d] cancelled [%s]", workerID, task.ID)
	default:
		task.Status = model.StatusFailed
		task.Error = extract.TruncateDetail(err.Error())
		task.Speed, task.ETA = "-", "-"
		log.Printf("[Worker-%d] failed [%s]: %v", workerID, task.ID, err)
	}

	delete(s.active, task.ID)
	s.history = append(s.history, task)
}

// QueueDepth returns the number of tasks waiting in the pending queue.
func (s *Scheduler) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Active returns a snapshot of all non-terminal tasks, oldest first.
func (s *Scheduler) Active() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]model.Task, 0, len(s.active))
	for _, task := range s.active {
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}

// History returns a snapshot of finished tasks in finalization order.
func (s *Scheduler) History() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]model.Task, 0, len(s.history))
	for _, task := range s.history {
		tasks = append(tasks, *task)
	}
	return tasks
}

// ToolDescription names the extraction strategy and its version for status
// surfaces.
func (s *Scheduler) ToolDescription() string {
	if s.extractor == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%s %s", s.extractor.Name(), s.extractor.Version())
}

// newID draws a short unique task id. Caller holds the lock. Ids are never
// reused within a process lifetime.
func (s *Scheduler) newID() string {
	for {
		id := uuid.NewString()[:taskIDLength]
		if _, taken := s.seenIDs[id]; !taken {
			s.seenIDs[id] = struct{}{}
			return id
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
