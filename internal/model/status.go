package model

// TaskStatus represents the lifecycle state of a download task.
type TaskStatus string

const (
	// StatusQueued means the task is waiting in the pending queue.
	StatusQueued TaskStatus = "Queued"

	// StatusDownloading means a worker is fetching the media.
	StatusDownloading TaskStatus = "Downloading"

	// StatusProcessing means the fetch finished and post-processing
	// (merging, audio extraction, tagging) is running.
	StatusProcessing TaskStatus = "Processing"

	// StatusCompleted means the task finished successfully.
	StatusCompleted TaskStatus = "Completed"

	// StatusFailed means the task failed with an error.
	StatusFailed TaskStatus = "Failed"

	// StatusCancelled means the task was cancelled by the user.
	StatusCancelled TaskStatus = "Cancelled"
)

// String returns the string representation of TaskStatus.
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while a worker is attributing progress to the task.
func (ts TaskStatus) IsActive() bool {
	return ts == StatusDownloading || ts == StatusProcessing
}

// IsTerminal returns true once the task can no longer change state.
func (ts TaskStatus) IsTerminal() bool {
	return ts == StatusCompleted || ts == StatusFailed || ts == StatusCancelled
}

// CanTransition reports whether moving from ts to next is a legal step in
// the task state machine. No transition leaves a terminal state.
func (ts TaskStatus) CanTransition(next TaskStatus) bool {
	switch ts {
	case StatusQueued:
		return next == StatusDownloading || next == StatusFailed || next == StatusCancelled
	case StatusDownloading:
		return next == StatusProcessing || next == StatusCompleted ||
			next == StatusFailed || next == StatusCancelled
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}
