// Package cmd implements the command-line interface for hlsrip.
package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/hlsrip-cli/hlsrip/constant"
	"github.com/hlsrip-cli/hlsrip/converter"
	"github.com/hlsrip-cli/hlsrip/icon"
	"github.com/hlsrip-cli/hlsrip/style"
)

// CheckDependencies verifies the availability of required system dependencies.
// The current implementation validates the presence of ffmpeg in the system PATH.
func CheckDependencies() {
	if err := converter.LookPath(); err != nil {
		printMissingDependencyError("ffmpeg")
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install ffmpeg"
	case constant.Linux:
		installCmd = "sudo apt install ffmpeg"
	case constant.Windows:
		installCmd = "scoop install ffmpeg"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
