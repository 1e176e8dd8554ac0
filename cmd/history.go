// Package cmd implements the command-line interface for hlsrip.
package cmd

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/hlsrip-cli/hlsrip/color"
	"github.com/hlsrip-cli/hlsrip/history"
	"github.com/hlsrip-cli/hlsrip/icon"
	"github.com/hlsrip-cli/hlsrip/open"
	"github.com/hlsrip-cli/hlsrip/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("last", "l", false, "Display only the most recently completed rip")
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.Flags().BoolP("open", "o", false, "Open the most recent MP3 with the system default handler")
	historyCmd.MarkFlagsMutuallyExclusive("json", "open")

	historyCmd.SetOut(os.Stdout)
}

// historyCmd displays previously completed rips from the local history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display previously completed rips",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			lastOnly = lo.Must(cmd.Flags().GetBool("last"))
			asJson   = lo.Must(cmd.Flags().GetBool("json"))
			doOpen   = lo.Must(cmd.Flags().GetBool("open"))
		)

		if doOpen {
			last, ok := history.Last().Get()
			if !ok {
				cmd.Println("history is empty")
				return
			}

			handleErr(open.Run(last.OutputPath))
			return
		}

		saved, err := history.Get()
		handleErr(err)

		rips := lo.Values(saved)
		sort.Slice(rips, func(i, j int) bool {
			return rips[i].RippedAt.After(rips[j].RippedAt)
		})

		if lastOnly && len(rips) > 1 {
			rips = rips[:1]
		}

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(rips))
			return
		}

		if len(rips) == 0 {
			cmd.Println("history is empty")
			return
		}

		for _, rip := range rips {
			cmd.Printf(
				"%s %s\n  %s\n  %s\n",
				icon.Get(icon.Music),
				style.New().Bold(true).Foreground(color.HiPurple).Render(rip.String()),
				style.Faint(rip.SourceURL),
				style.Faint(rip.RippedAt.Format("2006-01-02 15:04")),
			)
		}
	},
}
