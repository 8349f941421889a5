package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waypoint-ops/itinerary-cli/internal/pipeline"
)

var reconcileOpts struct {
	legs        string
	mailDir     string
	output      string
	workers     int
	limit       int
	batchSize   int
	useBatchAPI bool
	dryRun      bool
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Fill itinerary gaps from the mail corpus",
	Long: "Detects gaps in the travel table, mines the mail corpus for candidate " +
		"legs via the extraction service, merges accepted candidates and writes the " +
		"annotated result.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if reconcileOpts.batchSize > 0 {
			cfg.Extract.BatchSize = reconcileOpts.batchSize
		}
		if reconcileOpts.useBatchAPI {
			cfg.Extract.UseBatchAPI = true
		}
		if reconcileOpts.mailDir != "" {
			cfg.Mail.Dir = reconcileOpts.mailDir
		}

		// A dry run never reaches the extraction service, so the key is not
		// required.
		mode := "reconcile"
		if reconcileOpts.dryRun {
			mode = "gaps"
		}
		p, st, err := initPipeline(ctx, mode, !reconcileOpts.dryRun)
		if err != nil {
			return err
		}
		defer closeStore(st)

		rep, err := p.Reconcile(ctx, pipeline.ReconcileOptions{
			LegsPath:   reconcileOpts.legs,
			MailDir:    reconcileOpts.mailDir,
			OutputPath: reconcileOpts.output,
			Workers:    reconcileOpts.workers,
			Limit:      reconcileOpts.limit,
			DryRun:     reconcileOpts.dryRun,
		})
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, rep.Format())
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileOpts.legs, "legs", "", "travel table (.csv or .xlsx)")
	reconcileCmd.Flags().StringVar(&reconcileOpts.mailDir, "mail-dir", "", "directory of .eml documents (default from config)")
	reconcileCmd.Flags().StringVar(&reconcileOpts.output, "output", "", "output CSV path (default timestamped name in output dir)")
	reconcileCmd.Flags().IntVar(&reconcileOpts.workers, "workers", 0, "corpus parsing workers (default from config)")
	reconcileCmd.Flags().IntVar(&reconcileOpts.limit, "limit", 0, "cap on relevant documents sent to extraction")
	reconcileCmd.Flags().IntVar(&reconcileOpts.batchSize, "batch-size", 0, "documents per extraction call")
	reconcileCmd.Flags().BoolVar(&reconcileOpts.useBatchAPI, "use-batch-api", false, "submit extraction via the Message Batches API")
	reconcileCmd.Flags().BoolVar(&reconcileOpts.dryRun, "dry-run", false, "stop before extraction; report what would be sent")
	_ = reconcileCmd.MarkFlagRequired("legs")
	rootCmd.AddCommand(reconcileCmd)
}
