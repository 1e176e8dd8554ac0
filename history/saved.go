package history

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hlsrip-cli/hlsrip/util"
)

// SavedRip represents a single completed rip preserved in the user's history.
type SavedRip struct {
	SourceURL  string    `json:"source_url"`
	OutputPath string    `json:"output_path"`
	Segments   int       `json:"segments"`
	Duration   float64   `json:"duration_seconds"`
	RippedAt   time.Time `json:"ripped_at"`
}

func (s *SavedRip) encode() string {
	return s.OutputPath
}

func (s *SavedRip) String() string {
	return fmt.Sprintf(
		"%s : %s, %.0fs",
		filepath.Base(s.OutputPath),
		util.Quantify(s.Segments, "segment", "segments"),
		s.Duration,
	)
}
