package commands

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"voiceanalysis/internal/config"
)

var (
	outputJSON bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "voicecmp",
	Short: "Compare spoken recordings from the command line",
	Long: `voicecmp runs the voice analysis pipeline on local files.

It decodes recordings the same way the server does (WAV in-process,
everything else through ffmpeg), so results match /analyze for the
same inputs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON instead of YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(sniffCmd)
}

func initConfig() {
	_ = godotenv.Load()

	level := "warn"
	if verbose {
		level = "debug"
	}
	slog.SetDefault(config.NewLogger(level, os.Stderr))
}
