package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/route-formatter/internal/adapter/xlsx"
	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/couchcryptid/route-formatter/internal/pipeline"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		out      string
		noLookup bool
	)
	cmd := &cobra.Command{
		Use:   "convert MANIFEST",
		Short: "Convert an .xlsx or .pdf manifest into a grouped route spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = filepath.Join(filepath.Dir(args[0]), xlsx.FileName)
			}
			p, writer := a.buildPipeline(pipelineOptions{lookup: !noLookup, publish: true})
			defer a.closeWriter(writer)

			res, err := processFile(cmd, p, args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, res.Workbook, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d stops to %s\n", len(res.Stops), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: "+xlsx.FileName+" next to the input)")
	cmd.Flags().BoolVar(&noLookup, "no-lookup", false, "skip postal code enrichment")
	return cmd
}

// processFile runs one manifest from disk and reports notices and warnings
// on stderr.
func processFile(cmd *cobra.Command, p *pipeline.Pipeline, path string) (domain.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read manifest: %w", err)
	}

	res, err := p.Process(cmd.Context(), pipeline.Upload{Name: filepath.Base(path), Data: data})
	if err != nil {
		return domain.Result{}, err
	}
	report(cmd.ErrOrStderr(), res)
	return res, nil
}

func report(w io.Writer, res domain.Result) {
	for _, n := range res.Notices {
		fmt.Fprintln(w, n)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintln(w, "warning:", warning)
	}
}
