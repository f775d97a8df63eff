package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"darkroom/internal/config"
)

var vp = config.New()

var rootCmd = &cobra.Command{
	Use:   "darkroom",
	Short: "darkroom 🎞  - remote RAW photo adjustment from the terminal",
	Long:  "darkroom 🎞  drives a remote RAW rendering service: live-tuned previews, before/after comparison, and batch JPEG export.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().String("server", "", "render service base URL")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose logging")
	_ = vp.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))
	_ = vp.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}
