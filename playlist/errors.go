// Package playlist implements HLS playlist resolution: fetching m3u8 documents,
// distinguishing master from media playlists, and producing the ordered sequence
// of absolute segment URLs to download.
package playlist

import (
	"errors"
	"fmt"
)

// Taxonomy of fatal resolution failures. All abort the run; none are retried.
var (
	// ErrEmpty indicates a playlist that yielded zero variants or zero segments.
	ErrEmpty = errors.New("playlist contains no entries")

	// ErrMalformed indicates text that does not decode into a recognizable
	// playlist structure, or master playlist nesting beyond the supported depth.
	ErrMalformed = errors.New("malformed playlist")
)

// FetchError reports an HTTP or transport failure while retrieving a playlist
// or a media segment. It always carries the failing URL.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
