package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"darkroom/internal/api"
	"darkroom/internal/config"
	"darkroom/internal/logging"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the files the render service currently holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(vp)
		if err != nil {
			return err
		}
		client := api.NewClient(cfg.ServerURL, logging.Nop(), api.WithRequestTimeout(cfg.RequestTimeout))

		files, err := client.ListFiles(context.Background())
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(os.Stdout, "no files on the server")
			return nil
		}
		for _, f := range files {
			fmt.Fprintf(os.Stdout, "%s  %s\n", f.FileID, f.Filename)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
