package config

// Package config handles the persisted settings file and environment
// overrides. The settings record is loaded once at startup and rewritten
// only on explicit changes (e.g. a new download directory).
