package extract

// Package extract implements the extraction port: running one media fetch
// for a task via yt-dlp. Two interchangeable strategies exist - a managed
// library call (go-ytdlp, fine-grained progress callbacks) and a standalone
// binary call (os/exec, coarse exit-status outcome). The strategy is picked
// once at startup. A background updater keeps the tooling fresh without
// ever touching the queue.
