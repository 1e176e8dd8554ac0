// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Behavior - these keys govern where and how ripped files are produced.
const (
	DownloadsPath           = "downloads.path"
	DownloadsSaveHistory    = "downloads.save_history"
	DownloadsOpenOnComplete = "downloads.open_on_complete"
)

// FFmpeg Invocation - these keys configure the external transcoding collaborator.
const (
	FFmpegPath    = "ffmpeg.path"
	FFmpegBitrate = "ffmpeg.bitrate"
)

// Iconography - these keys manage the visual rendering of CLI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern general application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
