package download

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hlsrip-cli/hlsrip/converter"
	"github.com/hlsrip-cli/hlsrip/filesystem"
	"github.com/hlsrip-cli/hlsrip/history"
	"github.com/hlsrip-cli/hlsrip/key"
	"github.com/hlsrip-cli/hlsrip/log"
	"github.com/hlsrip-cli/hlsrip/open"
	"github.com/hlsrip-cli/hlsrip/playlist"
	"github.com/hlsrip-cli/hlsrip/util"
	"github.com/hlsrip-cli/hlsrip/where"
	"github.com/spf13/viper"
)

// Options configures a single rip run.
type Options struct {
	// URL is the root playlist URL (master or media).
	URL string

	// Output is the target MP3 path. Empty means infer from the playlist
	// filename under the configured downloads directory.
	Output string

	// Force overwrites an existing output file.
	Force bool

	// Converter produces the MP3. Nil means the configured FFmpeg binary.
	Converter converter.Converter

	// Progress, when set, receives segment download progress.
	Progress ProgressFunc
}

// Rip executes the full pipeline: resolve the playlist, assemble segments into
// a raw temporary file, transcode to MP3, and record the result. It returns the
// final output path.
func Rip(ctx context.Context, opts *Options) (string, error) {
	source, err := parseSourceURL(opts.URL)
	if err != nil {
		return "", err
	}

	conv := opts.Converter
	if conv == nil {
		conv = converter.NewFFmpeg()
	}

	output, err := outputPath(opts, source)
	if err != nil {
		return "", err
	}

	fs := filesystem.API()
	if exists, _ := fs.Exists(output); exists && !opts.Force {
		return "", fmt.Errorf("%s already exists, pass --force to overwrite", output)
	}

	segments, err := playlist.NewResolver().Resolve(ctx, opts.URL)
	if err != nil {
		return "", err
	}

	raw := filepath.Join(where.Temp(), fmt.Sprintf("%s-%d.raw", util.FileStem(output), time.Now().UnixNano()))
	if err := Assemble(ctx, segments, raw, opts.Progress); err != nil {
		return "", err
	}
	defer func() {
		_ = fs.Remove(raw)
	}()

	if err := fs.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return "", &AssemblyError{Path: output, Err: err}
	}

	if err := conv.Convert(ctx, raw, output); err != nil {
		return "", &AssemblyError{Path: output, Err: err}
	}

	record(opts.URL, output, segments)

	if viper.GetBool(key.DownloadsOpenOnComplete) {
		if err := open.Start(output); err != nil {
			log.Warnf("open %s: %v", output, err)
		}
	}

	return output, nil
}

// record stores the completed rip in history unless disabled.
func record(sourceURL, output string, segments []playlist.Segment) {
	if !viper.GetBool(key.DownloadsSaveHistory) {
		return
	}

	var duration float64
	for _, segment := range segments {
		duration += segment.Duration
	}

	err := history.Save(&history.SavedRip{
		SourceURL:  sourceURL,
		OutputPath: output,
		Segments:   len(segments),
		Duration:   duration,
		RippedAt:   time.Now(),
	})
	if err != nil {
		log.Warnf("save history: %v", err)
	}
}

func parseSourceURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist URL %q: %w", raw, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("playlist URL must use http or https: %q", raw)
	}

	return parsed, nil
}

// outputPath validates an explicit output target or derives one from the
// playlist filename under the configured downloads directory.
func outputPath(opts *Options, source *url.URL) (string, error) {
	if opts.Output != "" {
		if !strings.HasSuffix(opts.Output, ".mp3") {
			return "", fmt.Errorf("output file must have .mp3 extension: %s", opts.Output)
		}
		return opts.Output, nil
	}

	name := util.SanitizeFilename(util.FileStem(path.Base(source.Path)))
	if name == "" {
		name = "audio"
	}

	dir := viper.GetString(key.DownloadsPath)
	if dir == "" {
		dir = where.Downloads()
	}

	return filepath.Join(dir, name+".mp3"), nil
}
