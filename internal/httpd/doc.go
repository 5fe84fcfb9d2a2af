package httpd

// Package httpd exposes the download queue over a small local HTTP API,
// consumed by the browser-extension client. It is thin plumbing: every
// handler maps one request onto one scheduler operation or snapshot.
