package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkOpts struct {
	legs   string
	merged string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a merged output against the original table's gaps",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		p, st, err := initPipeline(ctx, "check", false)
		if err != nil {
			return err
		}
		defer closeStore(st)

		rep, err := p.Check(ctx, checkOpts.legs, checkOpts.merged)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, rep.Format())
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkOpts.legs, "legs", "", "original travel table")
	checkCmd.Flags().StringVar(&checkOpts.merged, "merged", "", "previously merged output CSV")
	_ = checkCmd.MarkFlagRequired("legs")
	_ = checkCmd.MarkFlagRequired("merged")
	rootCmd.AddCommand(checkCmd)
}
