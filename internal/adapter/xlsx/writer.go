package xlsx

import (
	"fmt"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	// ContentType identifies the generated download as a spreadsheet.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// FileName is the suggested download name.
	FileName = "rota_formatada_agrupada.xlsx"
)

// layout is the published column order and sheet name for one locale.
type layout struct {
	sheet   string
	headers []string
}

var layouts = map[domain.Locale]layout{
	domain.LocaleEnglish: {
		sheet: "FormattedRoute",
		headers: []string{
			"Stop", "Package IDs", "Total Packages", "Address Line", "Complement",
			"Secondary Address Line", "City", "State", "Zip Code",
		},
	},
	domain.LocalePortuguese: {
		sheet: "RotaFormatada",
		headers: []string{
			"Parada", "ID do Pacote", "Total de Pacotes", "Address Line", "Complemento",
			"Secondary Address Line", "City", "State", "Zip Code",
		},
	},
}

// Writer serializes grouped stops into a single-sheet workbook.
type Writer struct {
	layout layout
}

// NewWriter creates a Writer for the given locale; unknown locales use English.
func NewWriter(locale domain.Locale) *Writer {
	l, ok := layouts[locale]
	if !ok {
		l = layouts[domain.LocaleEnglish]
	}
	return &Writer{layout: l}
}

// SheetName returns the name of the generated sheet.
func (w *Writer) SheetName() string { return w.layout.sheet }

// Headers returns the published column order.
func (w *Writer) Headers() []string { return append([]string(nil), w.layout.headers...) }

// Write renders stops in the fixed column order and returns the workbook bytes.
func (w *Writer) Write(stops []domain.GroupedStop) ([]byte, error) {
	rows := make([][]any, len(stops))
	for i, s := range stops {
		rows[i] = []any{
			s.Label, s.PackageIDs, s.CountText, s.AddressLine, s.Complement,
			s.Neighborhood, s.City, s.State, s.PostalCode,
		}
	}
	return EncodeSheet(w.layout.sheet, w.layout.headers, rows)
}

// EncodeSheet renders a header row followed by rows into a workbook with a
// single sheet named sheet.
func EncodeSheet(sheet string, header []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
