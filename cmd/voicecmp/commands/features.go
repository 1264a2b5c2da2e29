package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"voiceanalysis/internal/config"
	"voiceanalysis/internal/features"
)

type featuresReport struct {
	File     string              `json:"file"`
	Features features.FeatureSet `json:"features"`
}

var featuresCmd = &cobra.Command{
	Use:   "features <file>",
	Short: "Print the acoustic fingerprint of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		data, err := readAudio(args[0])
		if err != nil {
			return err
		}

		extractor, _ := newExtractor(cfg, slog.Default())
		fs, err := extractor.Extract(cmd.Context(), data)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), featuresReport{File: args[0], Features: fs})
	},
}
