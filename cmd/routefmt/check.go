package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check MANIFEST...",
		Short: "Validate manifests and summarize their stops without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := a.buildPipeline(pipelineOptions{})

			failed := 0
			for _, path := range args {
				res, err := processFile(cmd, p, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					continue
				}
				packages := 0
				for _, s := range res.Stops {
					packages += s.PackageCount
				}
				fmt.Fprintf(cmd.OutOrStdout(), "PASS %s: %d rows, %d stops, %d packages, %d skipped\n",
					path, res.RowsRead, len(res.Stops), packages, res.Skipped)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d manifests failed", failed, len(args))
			}
			return nil
		},
	}
}
