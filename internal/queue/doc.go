package queue

// Package queue implements the download scheduler: the pending queue, the
// fixed-size worker pool, task lifecycle and progress aggregation, and the
// append-only history of finished tasks. The scheduler is the single owner
// of all task state; collaborators reach it through Enqueue/Cancel and
// read-only snapshots.
