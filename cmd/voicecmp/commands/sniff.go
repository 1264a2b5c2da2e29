package commands

import (
	"github.com/spf13/cobra"

	"voiceanalysis/internal/audio"
)

type sniffReport struct {
	File   string       `json:"file"`
	Format audio.Format `json:"format"`
	MIME   string       `json:"mime"`
	Bytes  int          `json:"bytes"`
}

var sniffCmd = &cobra.Command{
	Use:   "sniff <file>...",
	Short: "Report the container format of recordings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports := make([]sniffReport, 0, len(args))
		for _, path := range args {
			data, err := readAudio(path)
			if err != nil {
				return err
			}
			reports = append(reports, sniffReport{
				File:   path,
				Format: audio.DetectFormatFile(path),
				MIME:   audio.DescribeMIME(data),
				Bytes:  len(data),
			})
		}
		return printResult(cmd.OutOrStdout(), reports)
	},
}
