package domain

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SchemaField binds a canonical column to the source headers that name it.
type SchemaField struct {
	Column  Column
	Aliases []string
}

// Schema maps spreadsheet headers onto canonical columns. Fields are matched
// in order, so when a header appears twice (the driver app prints "N.º" for
// both the stop and the house number) the first occurrence goes to the
// earlier field and the second to the next unassigned one.
type Schema struct {
	fields []SchemaField
}

// DefaultSchema returns the header aliases of the carrier's manifest export,
// plus English names.
func DefaultSchema() Schema {
	return Schema{fields: []SchemaField{
		{Column: ColStop, Aliases: []string{"N.º", "Nº", "Parada", "Stop"}},
		{Column: ColPackageID, Aliases: []string{"ID do pacote", "ID pacote", "Pacote", "Package ID"}},
		{Column: ColCustomer, Aliases: []string{"Cliente", "Destinatário", "Customer", "Recipient"}},
		{Column: ColStreet, Aliases: []string{"Endereço", "Logradouro", "Rua", "Street", "Address"}},
		{Column: ColNumber, Aliases: []string{"N.º.1", "N.º", "Nº", "Número", "Numero", "Number"}},
		{Column: ColComplement, Aliases: []string{"Complemento", "Complement"}},
		{Column: ColNeighborhood, Aliases: []string{"Bairro", "Neighborhood", "District"}},
		{Column: ColCity, Aliases: []string{"Cidade", "City"}},
		{Column: ColPostalCode, Aliases: []string{"CEP", "Zip Code", "Postal Code"}},
		{Column: ColType, Aliases: []string{"Tipo", "Type"}},
		{Column: ColSignature, Aliases: []string{"Assinatura", "Signature"}},
	}}
}

// WithAliases returns a copy of s with extra aliases appended to the named
// columns. Unknown column names are rejected.
func (s Schema) WithAliases(extra map[Column][]string) (Schema, error) {
	out := Schema{fields: make([]SchemaField, len(s.fields))}
	for i, f := range s.fields {
		out.fields[i] = SchemaField{Column: f.Column, Aliases: append([]string(nil), f.Aliases...)}
	}
	for col, aliases := range extra {
		idx := out.index(col)
		if idx < 0 {
			return Schema{}, fmt.Errorf("unknown column %q in column map", col)
		}
		out.fields[idx].Aliases = append(out.fields[idx].Aliases, aliases...)
	}
	return out, nil
}

func (s Schema) index(col Column) int {
	for i, f := range s.fields {
		if f.Column == col {
			return i
		}
	}
	return -1
}

// Resolve returns, for each header, the canonical column it maps to ("" for
// unrecognized headers).
func (s Schema) Resolve(headers []string) []Column {
	assigned := make(map[Column]bool, len(s.fields))
	out := make([]Column, len(headers))
	for i, h := range headers {
		key := headerKey(h)
		if key == "" {
			continue
		}
		for _, f := range s.fields {
			if assigned[f.Column] || !f.matches(key) {
				continue
			}
			assigned[f.Column] = true
			out[i] = f.Column
			break
		}
	}
	return out
}

// BuildTable maps a header row and its data records onto canonical rows.
// Required columns are validated before any row is built. Records with no
// non-blank cell are skipped.
func (s Schema) BuildTable(headers []string, records [][]string) (Table, error) {
	cols := s.Resolve(headers)

	var t Table
	for _, c := range cols {
		if c != "" {
			t.Columns = append(t.Columns, c)
		}
	}
	if missing := t.Missing(); len(missing) > 0 {
		found := make([]string, 0, len(headers))
		for _, h := range headers {
			if h = strings.TrimSpace(h); h != "" {
				found = append(found, h)
			}
		}
		return Table{}, &MissingColumnsError{Missing: missing, Found: found}
	}

	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		var row RawRow
		for i, c := range cols {
			if c == "" || i >= len(rec) {
				continue
			}
			row.SetField(c, strings.TrimSpace(rec[i]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (f SchemaField) matches(key string) bool {
	for _, a := range f.Aliases {
		if headerKey(a) == key {
			return true
		}
	}
	return false
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// headerKey folds case, accents and inner whitespace so "Endereço",
// "ENDERECO" and " endereço " compare equal.
func headerKey(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, h)
	if err != nil {
		folded = h
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
