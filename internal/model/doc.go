package model

// Package model defines the domain data structures shared across the app:
// download requests, queued tasks, and the task status state machine.
// Structures carry JSON tags for direct use in API responses.
