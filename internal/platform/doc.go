package platform

// Package platform contains OS integration and external tooling glue:
// download directory resolution, discovery of the ffmpeg and yt-dlp
// binaries, and human-readable formatting helpers.
