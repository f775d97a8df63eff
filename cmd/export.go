package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"darkroom/internal/adjust"
	"darkroom/internal/api"
	"darkroom/internal/config"
	"darkroom/internal/logging"
	"darkroom/internal/session"
	"darkroom/internal/tui"
	"darkroom/pkg/rawmeta"
)

var (
	exportPreset    string
	exportName      string
	exportOutputDir string
	exportSkipFetch bool
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] <raw files...>",
	Short: "Upload, batch-process, and download JPEGs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(vp)
		if err != nil {
			return err
		}
		logger := logging.Nop()
		if cfg.Debug {
			logger = logging.NewComponentLogger("export", true)
		}

		for _, path := range args {
			if !rawmeta.Supported(path) {
				return fmt.Errorf("%s: unsupported file type (supported: %v)", filepath.Base(path), rawmeta.Extensions)
			}
		}

		ctx := context.Background()
		client := api.NewClient(cfg.ServerURL, logger, api.WithRequestTimeout(cfg.RequestTimeout))

		settings := adjust.Defaults()
		if exportPreset != "" {
			settings, err = client.Preset(ctx, exportPreset)
			if err != nil {
				return fmt.Errorf("fetch preset %q: %w", exportPreset, err)
			}
		}

		fileIDs, err := uploadAll(ctx, client, args, cfg.UploadWorkers)
		if err != nil {
			return err
		}

		monitor := session.NewBatchExportMonitor(logger)
		if _, err := monitor.Start(fileIDs, settings, exportName); err != nil {
			return err
		}
		handle, err := client.StartBatch(ctx, fileIDs, settings, exportName)
		if err != nil {
			monitor.StartFailed(err)
			return fmt.Errorf("start batch: %w", err)
		}
		monitor.Started(handle.BatchID)

		events := make(chan api.ProgressEvent, 16)
		program := tea.NewProgram(tui.NewExportModel(monitor, events))

		// The UI exiting (ctrl+c included) cancels the stream so the command
		// never sits blocked on a server that keeps sending.
		streamCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		uiDone := make(chan struct{})
		go func() {
			_, _ = program.Run()
			cancel()
			close(uiDone)
		}()

		streamErr := client.FollowProgress(streamCtx, handle.BatchID, events)
		<-uiDone
		if streamErr != nil {
			monitor.HandleStreamError(streamErr)
		}

		if monitor.Status() != session.BatchComplete {
			return fmt.Errorf("export failed: %s", monitor.Job().FailureReason)
		}

		job := monitor.Job()
		failures := 0
		for _, r := range job.Results {
			if !r.Success {
				failures++
			}
		}
		rows := []tui.SummaryRow{
			{Label: "Files submitted", Value: fmt.Sprintf("%d", len(job.FileIDs))},
			{Label: "Exported", Value: fmt.Sprintf("%d", len(job.Results)-failures)},
			{Label: "Failed", Value: fmt.Sprintf("%d", failures)},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		fmt.Fprintln(os.Stdout, monitor.Summary())

		for _, r := range job.Results {
			if !r.Success {
				fmt.Fprintf(os.Stdout, "  failed: %s (%s)\n", r.Filename, r.Error)
			}
		}

		if exportSkipFetch {
			return nil
		}

		outDir := exportOutputDir
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		return downloadAll(ctx, client, handle.BatchID, job.Results, outDir, cfg.UploadWorkers)
	},
}

func uploadAll(ctx context.Context, client *api.Client, paths []string, workers int) ([]string, error) {
	fileIDs := make([]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := client.Upload(gctx, filepath.Base(path), f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
			}
			fileIDs[i] = res.FileID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fileIDs, nil
}

func downloadAll(ctx context.Context, client *api.Client, batchID string, results []api.FileResult, outDir string, workers int) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	// The summary endpoint is authoritative if the terminal event arrived
	// without a result list.
	if len(results) == 0 {
		summary, err := client.BatchResults(ctx, batchID)
		if err != nil {
			return fmt.Errorf("fetch batch results: %w", err)
		}
		results = summary.Results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range results {
		if !r.Success || r.DownloadURL == "" {
			continue
		}
		r := r
		g.Go(func() error {
			dest := filepath.Join(outDir, r.Filename)
			f, err := os.Create(dest)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := client.Download(gctx, r.DownloadURL, f); err != nil {
				return fmt.Errorf("download %s: %w", r.Filename, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if abs, err := filepath.Abs(outDir); err == nil {
		outDir = abs
	}
	fmt.Fprintf(os.Stdout, "Exported files written to: %s\n", outDir)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportPreset, "preset", "p", "", "preset to apply (e.g. landscape-lighting)")
	exportCmd.Flags().StringVarP(&exportName, "name", "n", "", "custom output filename (server numbers multi-file batches)")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", "", "destination folder for exported JPEGs")
	exportCmd.Flags().BoolVar(&exportSkipFetch, "no-download", false, "process remotely without downloading results")

	rootCmd.AddCommand(exportCmd)
}
