package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var gapsLegs string

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Detect itinerary gaps without touching the corpus",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		p, st, err := initPipeline(ctx, "gaps", false)
		if err != nil {
			return err
		}
		defer closeStore(st)

		rep, err := p.Gaps(ctx, gapsLegs)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stdout, rep.Format())
		return nil
	},
}

func init() {
	gapsCmd.Flags().StringVar(&gapsLegs, "legs", "", "travel table (.csv or .xlsx)")
	_ = gapsCmd.MarkFlagRequired("legs")
	rootCmd.AddCommand(gapsCmd)
}
