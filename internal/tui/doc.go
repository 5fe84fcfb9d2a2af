package tui

// Package tui provides a Bubble Tea live dashboard over the download
// queue. It is a pure read-only renderer: on every tick it re-reads the
// scheduler snapshots and repaints; it never mutates task state except by
// requesting shutdown on quit.
