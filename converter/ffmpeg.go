package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/hlsrip-cli/hlsrip/key"
	"github.com/hlsrip-cli/hlsrip/log"
	"github.com/spf13/viper"
)

// FFmpeg invokes the ffmpeg binary to produce an MP3 from a raw transport-stream blob.
type FFmpeg struct {
	Path    string
	Bitrate string
}

// NewFFmpeg returns an FFmpeg converter configured from global settings.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{
		Path:    viper.GetString(key.FFmpegPath),
		Bitrate: viper.GetString(key.FFmpegBitrate),
	}
}

// binary resolves the executable name, degrading to plain "ffmpeg" on PATH.
func (f *FFmpeg) binary() string {
	if f.Path != "" {
		return f.Path
	}
	return "ffmpeg"
}

// args builds the transcode invocation: overwrite the target, strip any video
// stream, and encode audio with libmp3lame at the configured bitrate.
func (f *FFmpeg) args(inputPath, outputPath string) []string {
	bitrate := f.Bitrate
	if bitrate == "" {
		bitrate = "128k"
	}

	return []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-ab", bitrate,
		outputPath,
	}
}

// Convert runs ffmpeg and surfaces a non-zero exit as a ProcessError with stderr attached.
func (f *FFmpeg) Convert(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, f.binary(), f.args(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	log.Infof("transcoding %s to %s", inputPath, outputPath)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{
				Command:  f.binary(),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return fmt.Errorf("run %s: %w", f.binary(), err)
	}

	return nil
}

// LookPath verifies the configured ffmpeg binary is resolvable.
func LookPath() error {
	_, err := exec.LookPath((&FFmpeg{Path: viper.GetString(key.FFmpegPath)}).binary())
	return err
}
