package queue

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL rejects a request whose URL is not a well-formed
// http/https address.
var ErrInvalidURL = errors.New("invalid URL")

// Query parameters that select an item out of a playlist. They are dropped
// for single-item requests so the tool does not fetch the whole playlist.
var playlistParams = map[string]struct{}{
	"list":  {},
	"index": {},
}

// NormalizeURL validates raw and, for non-playlist requests, strips the
// playlist-selector query parameters.
func NormalizeURL(raw string, playlist bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if !playlist && u.RawQuery != "" {
		u.RawQuery = stripPlaylistParams(u.RawQuery)
	}
	return u.String(), nil
}

// stripPlaylistParams removes list/index parameters from a raw query while
// keeping the surviving parameters in their original relative order
// (url.Values.Encode would sort them).
func stripPlaylistParams(rawQuery string) string {
	parts := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		key := part
		if i := strings.Index(part, "="); i >= 0 {
			key = part[:i]
		}
		if _, drop := playlistParams[key]; drop {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "&")
}
