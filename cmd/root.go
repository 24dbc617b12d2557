package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "noteflow",
	Short: "Turn audio, video, books and YouTube links into notes",
	Long: `noteflow ingests audio files, video files, documents and YouTube links,
obtains a transcript for each, and generates structured summaries with
action items using AI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is a development convenience; production injects env vars
		godotenv.Load()

		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}
