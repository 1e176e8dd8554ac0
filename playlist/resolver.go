package playlist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/grafov/m3u8"
	"github.com/hlsrip-cli/hlsrip/log"
	"github.com/hlsrip-cli/hlsrip/network"
	"github.com/hlsrip-cli/hlsrip/util"
)

// maxNesting caps master playlist indirection. A master playlist references
// media playlists directly; a master below a master is rejected rather than
// followed, which also rules out reference cycles.
const maxNesting = 1

// Segment is one chunk of media referenced by a media playlist,
// identified by its absolute URL and its position in the playlist.
type Segment struct {
	URL      string
	Duration float64
	Sequence int
}

// Resolver turns a root playlist URL into the ordered list of segment URLs.
//
// Variant selection is deliberately naive: the first-listed variant of a
// master playlist is followed and later variants are never consulted.
type Resolver struct {
	client *http.Client
}

// NewResolver returns a Resolver backed by the shared network client.
func NewResolver() *Resolver {
	return &Resolver{client: network.Client}
}

// Resolve fetches and parses the playlist at rawURL, following one level of
// master playlist indirection, and returns every segment in playlist order
// with its URL resolved to absolute form.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) ([]Segment, error) {
	return r.resolve(ctx, rawURL, 0)
}

func (r *Resolver) resolve(ctx context.Context, rawURL string, depth int) ([]Segment, error) {
	body, err := r.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	decoded, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, rawURL, err)
	}

	switch listType {
	case m3u8.MASTER:
		if depth >= maxNesting {
			return nil, fmt.Errorf("%w: master playlist nested below another master: %s", ErrMalformed, rawURL)
		}

		master, ok := decoded.(*m3u8.MasterPlaylist)
		if !ok || len(master.Variants) == 0 || master.Variants[0] == nil {
			return nil, fmt.Errorf("%w: no variants in %s", ErrEmpty, rawURL)
		}

		// First-listed variant only. Relative URIs resolve against the master
		// playlist's own URL, which may differ from the original input.
		first := master.Variants[0]
		variantURL, err := resolveReference(rawURL, first.URI)
		if err != nil {
			return nil, fmt.Errorf("%w: variant uri %q: %v", ErrMalformed, first.URI, err)
		}

		log.Infof("master playlist %s: following first variant %s (bandwidth %d)", rawURL, variantURL, first.Bandwidth)
		return r.resolve(ctx, variantURL, depth+1)

	case m3u8.MEDIA:
		media, ok := decoded.(*m3u8.MediaPlaylist)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected decode result for %s", ErrMalformed, rawURL)
		}

		var segments []Segment
		for i, seg := range media.Segments {
			if seg == nil {
				break
			}

			absolute, err := resolveReference(rawURL, seg.URI)
			if err != nil {
				return nil, fmt.Errorf("%w: segment uri %q: %v", ErrMalformed, seg.URI, err)
			}

			segments = append(segments, Segment{
				URL:      absolute,
				Duration: seg.Duration,
				Sequence: i,
			})
		}

		if len(segments) == 0 {
			return nil, fmt.Errorf("%w: no segments in %s", ErrEmpty, rawURL)
		}

		log.Infof("media playlist %s: %d segments", rawURL, len(segments))
		return segments, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized playlist type at %s", ErrMalformed, rawURL)
	}
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := network.NewRequest(ctx, rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	return body, nil
}

// resolveReference resolves a possibly relative URI against the URL the
// enclosing playlist was fetched from.
func resolveReference(baseURL, ref string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	relative, err := url.Parse(ref)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(relative).String(), nil
}
