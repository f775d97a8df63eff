package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"darkroom/internal/api"
	"darkroom/internal/config"
	"darkroom/internal/logging"
	"darkroom/internal/session"
	"darkroom/internal/tui"
	"darkroom/pkg/rawmeta"
)

var studioCmd = &cobra.Command{
	Use:   "studio <raw files...>",
	Short: "Interactive adjustment session with live remote previews",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(vp)
		if err != nil {
			return err
		}

		for _, path := range args {
			if !rawmeta.Supported(path) {
				return fmt.Errorf("%s: unsupported file type (supported: %v)", filepath.Base(path), rawmeta.Extensions)
			}
		}

		// Keep log lines off the alternate screen; with --debug they go to a
		// side file instead.
		logger := logging.Nop()
		if cfg.Debug {
			logFile, err := os.OpenFile("darkroom.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer logFile.Close()
			logger = logging.NewWriterLogger("studio", true, logFile)
		}

		client := api.NewClient(cfg.ServerURL, logger, api.WithRequestTimeout(cfg.RequestTimeout))
		sess := session.New(logger)

		model := tui.NewStudioModel(sess, client, logger, cfg.DebounceWindow, args)
		program := tea.NewProgram(model, tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)
}
