package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/couchcryptid/route-formatter/internal/adapter/xlsx"
	"github.com/spf13/cobra"
)

// sampleHeaders mirror the carrier's manifest export, including the
// duplicated "N.º" header for stop and house number.
var sampleHeaders = []string{
	"N.º", "ID do pacote", "Cliente", "Endereço", "N.º", "Complemento", "Bairro", "Cidade", "CEP", "Tipo", "Assinatura",
}

var sampleStreets = []struct {
	street, neighborhood, postalCode string
}{
	{"Rua Sete de Setembro", "Centro", "12210-000"},
	{"Avenida Andrômeda", "Jardim Satélite", "12230-000"},
	{"Rua Paraibuna", "Jardim São Dimas", "12245-020"},
	{"Avenida Nelson D'Ávila", "Centro", "12245-030"},
	{"Rua Euclides Miragaia", "Centro", "12245-550"},
}

func newSampleCmd() *cobra.Command {
	var (
		out   string
		stops int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a synthetic carrier manifest for trying out convert",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stops <= 0 {
				return fmt.Errorf("--stops must be positive, got %d", stops)
			}
			data, err := xlsx.EncodeSheet("Sheet1", sampleHeaders, sampleRows(stops, seed))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote sample manifest with %d stops to %s\n", stops, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "manifest.xlsx", "output path")
	cmd.Flags().IntVar(&stops, "stops", 10, "number of stops")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}

// sampleRows builds one to three packages per stop. Numeric fields are
// written as floats the way spreadsheet exports coerce them, and a trailing
// row without a stop number exercises the skip path.
func sampleRows(stops int, seed uint64) [][]any {
	r := rand.New(rand.NewPCG(seed, seed))
	var rows [][]any
	pkg := 4400000
	for stop := 1; stop <= stops; stop++ {
		addr := sampleStreets[r.IntN(len(sampleStreets))]
		number := float64(r.IntN(2000) + 1)
		for n := r.IntN(3) + 1; n > 0; n-- {
			pkg++
			rows = append(rows, []any{
				float64(stop), float64(pkg), fmt.Sprintf("Cliente %d", pkg), addr.street, number, "",
				addr.neighborhood, "São José dos Campos", addr.postalCode, "Entrega", "",
			})
		}
	}
	rows = append(rows, []any{"N/A", float64(pkg + 1), "Cliente sem parada", "Rua Sem Nome", 1.0, "", "Centro", "", "", "", ""})
	return rows
}
