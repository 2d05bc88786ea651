package domain

import "time"

// Column is the canonical name of a manifest column used downstream of the
// input adapters.
type Column string

const (
	ColStop         Column = "stop"
	ColPackageID    Column = "package_id"
	ColCustomer     Column = "customer"
	ColStreet       Column = "street"
	ColNumber       Column = "number"
	ColComplement   Column = "complement"
	ColNeighborhood Column = "neighborhood"
	ColCity         Column = "city"
	ColPostalCode   Column = "postal_code"
	ColType         Column = "type"
	ColSignature    Column = "signature"
)

// DocumentColumns is the fixed column order of the tables printed in PDF
// manifests. Extracted tables narrower than this list use a prefix of it.
var DocumentColumns = []Column{
	ColStop,
	ColPackageID,
	ColCustomer,
	ColStreet,
	ColNumber,
	ColComplement,
	ColNeighborhood,
	ColCity,
	ColPostalCode,
	ColType,
	ColSignature,
}

// RequiredColumns must all be present in a manifest before grouping.
var RequiredColumns = []Column{
	ColStop,
	ColPackageID,
	ColStreet,
	ColNumber,
	ColNeighborhood,
	ColPostalCode,
}

// RawRow is one package entry as extracted from the source file.
type RawRow struct {
	Stop         string
	PackageID    string
	Customer     string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	PostalCode   string
	Type         string
	Signature    string
}

// Field returns the value held for a canonical column.
func (r RawRow) Field(c Column) string {
	switch c {
	case ColStop:
		return r.Stop
	case ColPackageID:
		return r.PackageID
	case ColCustomer:
		return r.Customer
	case ColStreet:
		return r.Street
	case ColNumber:
		return r.Number
	case ColComplement:
		return r.Complement
	case ColNeighborhood:
		return r.Neighborhood
	case ColCity:
		return r.City
	case ColPostalCode:
		return r.PostalCode
	case ColType:
		return r.Type
	case ColSignature:
		return r.Signature
	default:
		return ""
	}
}

// SetField assigns value to the canonical column c. Unknown columns are ignored.
func (r *RawRow) SetField(c Column, value string) {
	switch c {
	case ColStop:
		r.Stop = value
	case ColPackageID:
		r.PackageID = value
	case ColCustomer:
		r.Customer = value
	case ColStreet:
		r.Street = value
	case ColNumber:
		r.Number = value
	case ColComplement:
		r.Complement = value
	case ColNeighborhood:
		r.Neighborhood = value
	case ColCity:
		r.City = value
	case ColPostalCode:
		r.PostalCode = value
	case ColType:
		r.Type = value
	case ColSignature:
		r.Signature = value
	}
}

// Table is the output of an input adapter: canonical rows plus the columns
// that were actually present in the source.
type Table struct {
	Columns []Column
	Rows    []RawRow
}

// Has reports whether the source carried column c.
func (t Table) Has(c Column) bool {
	for _, col := range t.Columns {
		if col == c {
			return true
		}
	}
	return false
}

// Missing returns the required columns absent from the table, in
// RequiredColumns order.
func (t Table) Missing() []Column {
	var missing []Column
	for _, c := range RequiredColumns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// GroupedStop is one output row: every package delivered at one stop.
type GroupedStop struct {
	Number       int    `json:"stop_number"`
	Label        string `json:"stop"`
	PackageIDs   string `json:"package_ids"`
	PackageCount int    `json:"package_count"`
	CountText    string `json:"package_count_text"`
	AddressLine  string `json:"address_line"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// Result is the outcome of one successful run.
type Result struct {
	RunID       string
	Stops       []GroupedStop
	RowsRead    int
	Skipped     int
	Warnings    []string
	Notices     []string
	GeneratedAt time.Time
	Workbook    []byte
}

// Validate fails with *MissingColumnsError when a required column is absent.
func (t Table) Validate() error {
	missing := t.Missing()
	if len(missing) == 0 {
		return nil
	}
	found := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		found[i] = string(c)
	}
	return &MissingColumnsError{Missing: missing, Found: found}
}
