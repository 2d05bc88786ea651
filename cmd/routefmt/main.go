// Command routefmt groups carrier delivery manifests into one row per stop
// and writes a spreadsheet ready for import into a route-navigation app.
//
// Usage:
//
//	routefmt serve                       # HTTP upload service
//	routefmt convert rota.pdf -o out.xlsx
//	routefmt check rota.xlsx
//	routefmt sample -o manifest.xlsx
//
// All settings come from environment variables (see internal/config).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "routefmt",
		Short:         "Format delivery manifests into grouped route spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}
	root.AddCommand(
		newServeCmd(a),
		newConvertCmd(a),
		newCheckCmd(a),
		newSampleCmd(),
	)
	return root
}
