// Package converter wraps the external FFmpeg collaborator behind a narrow
// interface so the download pipeline can be exercised without spawning processes.
package converter

import (
	"context"
	"fmt"
	"strings"
)

// Converter transcodes a raw concatenated media file into an MP3 at outputPath.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// ProcessError reports a transcoder subprocess that exited non-zero,
// preserving its exit status and the tail of its stderr output.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// lastLine extracts the final non-empty line of process output, which is where
// ffmpeg places its actionable diagnostic.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
