package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"darkroom/internal/adjust"
	"darkroom/internal/api"
	"darkroom/internal/config"
	"darkroom/internal/logging"
	"darkroom/internal/tui"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Show the adjustment vectors the service offers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(vp)
		if err != nil {
			return err
		}
		client := api.NewClient(cfg.ServerURL, logging.Nop(), api.WithRequestTimeout(cfg.RequestTimeout))
		ctx := context.Background()

		for _, name := range []string{"default", "landscape-lighting"} {
			settings, err := client.Preset(ctx, name)
			if err != nil {
				return fmt.Errorf("fetch preset %q: %w", name, err)
			}

			rows := make([]tui.SummaryRow, 0, len(adjust.Fields))
			for _, field := range adjust.Fields {
				rows = append(rows, tui.SummaryRow{
					Label: field.Name,
					Value: fmt.Sprintf("%.2f", field.Value(settings)),
				})
			}
			fmt.Fprintln(os.Stdout, name)
			fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
			fmt.Fprintln(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
