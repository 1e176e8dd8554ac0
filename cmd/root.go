// Package cmd implements the command-line interface for hlsrip.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/hlsrip-cli/hlsrip/color"
	"github.com/hlsrip-cli/hlsrip/constant"
	"github.com/hlsrip-cli/hlsrip/download"
	"github.com/hlsrip-cli/hlsrip/icon"
	"github.com/hlsrip-cli/hlsrip/key"
	"github.com/hlsrip-cli/hlsrip/log"
	"github.com/hlsrip-cli/hlsrip/style"
	"github.com/hlsrip-cli/hlsrip/util"
	"github.com/hlsrip-cli/hlsrip/version"
	"github.com/hlsrip-cli/hlsrip/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().StringP("output", "o", "", "Write the MP3 to this path (inferred from the playlist name when omitted)")
	rootCmd.Flags().BoolP("force", "f", false, "Overwrite the output file if it already exists")

	rootCmd.Flags().Bool("open", false, "Open the finished MP3 with the system default handler")
	lo.Must0(viper.BindPFlag(key.DownloadsOpenOnComplete, rootCmd.Flags().Lookup("open")))

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("save-history", "H", true, "Record completed rips in the local history")
	lo.Must0(viper.BindPFlag(key.DownloadsSaveHistory, rootCmd.PersistentFlags().Lookup("save-history")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the hlsrip application.
var rootCmd = &cobra.Command{
	Use:   constant.HLSRip + " <m3u8-url>",
	Short: "Rip HLS audio streams straight to MP3",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Rip HLS audio streams straight to MP3"),
	Example: "  " + constant.HLSRip + " https://cdn.example.com/stream/master.m3u8 -o show.mp3",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		CheckDependencies()

		var erase func()
		options := download.Options{
			URL:    args[0],
			Output: lo.Must(cmd.Flags().GetString("output")),
			Force:  lo.Must(cmd.Flags().GetBool("force")),
			Progress: func(done, total int) {
				if erase != nil {
					erase()
				}
				msg := fmt.Sprintf(
					"%s Downloading %s (%d/%d)",
					icon.Get(icon.Download),
					util.Quantify(total, "segment", "segments"),
					done, total,
				)
				if width, _, err := util.TerminalSize(); err == nil {
					msg = msg[:util.Min(len(msg), width)]
				}
				erase = util.PrintErasable(msg)
			},
		}

		output, err := download.Rip(cmd.Context(), &options)
		if erase != nil {
			erase()
		}
		handleErr(err)

		log.Infof("rip finished: %s", output)
		fmt.Printf("%s Saved %s\n", icon.Get(icon.Music), style.Fg(color.Green)(output))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
