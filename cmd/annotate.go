package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var annotateOpts struct {
	legs   string
	output string
}

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Rewrite a table with connection-analysis columns",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		p, st, err := initPipeline(ctx, "annotate", false)
		if err != nil {
			return err
		}
		defer closeStore(st)

		rep, err := p.Annotate(ctx, annotateOpts.legs, annotateOpts.output)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, rep.Format())
		return nil
	},
}

func init() {
	annotateCmd.Flags().StringVar(&annotateOpts.legs, "legs", "", "travel table (.csv or .xlsx)")
	annotateCmd.Flags().StringVar(&annotateOpts.output, "output", "", "output CSV path (default timestamped name in output dir)")
	_ = annotateCmd.MarkFlagRequired("legs")
	rootCmd.AddCommand(annotateCmd)
}
