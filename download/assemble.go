// Package download implements the segment assembly pipeline: fetching media
// segments strictly in playlist order, concatenating their raw bytes into a
// single file, and handing the result to the external transcoder.
package download

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hlsrip-cli/hlsrip/filesystem"
	"github.com/hlsrip-cli/hlsrip/log"
	"github.com/hlsrip-cli/hlsrip/network"
	"github.com/hlsrip-cli/hlsrip/playlist"
	"github.com/hlsrip-cli/hlsrip/util"
)

// AssemblyError reports a failure writing the concatenated output or a
// transcoder that refused the assembled file.
type AssemblyError struct {
	Path string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble %s: %v", e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// ProgressFunc receives the number of fully written segments after each step.
type ProgressFunc func(done, total int)

// Assemble downloads every segment sequentially and appends its bytes to dst.
// Segment order in dst equals playlist order; reordering corrupts the decoded
// stream. The first failing segment aborts the whole run, since a partial
// concatenation is unplayable.
func Assemble(ctx context.Context, segments []playlist.Segment, dst string, progress ProgressFunc) error {
	out, err := filesystem.API().OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &AssemblyError{Path: dst, Err: err}
	}
	defer util.Ignore(out.Close)

	for i, segment := range segments {
		if progress != nil {
			progress(i, len(segments))
		}

		log.Debugf("fetching segment %d/%d: %s", i+1, len(segments), segment.URL)
		if err := fetchInto(ctx, out, segment.URL, dst); err != nil {
			return err
		}
	}

	if progress != nil {
		progress(len(segments), len(segments))
	}

	return nil
}

func fetchInto(ctx context.Context, out io.Writer, segmentURL, dst string) error {
	req, err := network.NewRequest(ctx, segmentURL)
	if err != nil {
		return &playlist.FetchError{URL: segmentURL, Err: err}
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return &playlist.FetchError{URL: segmentURL, Err: err}
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &playlist.FetchError{URL: segmentURL, Status: resp.StatusCode}
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return &AssemblyError{Path: dst, Err: err}
	}

	return nil
}
