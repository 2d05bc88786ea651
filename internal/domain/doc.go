// Package domain models delivery-route manifests and the transform that turns
// one package per row into one stop per row.
//
// # Data Source
//
// Manifests are exported by the carrier's driver app either as an .xlsx
// workbook or as a PDF with one table per page. Both carry one row per
// package; several packages delivered at the same address share a stop label.
// Headers are in Portuguese and the numeric-looking columns are frequently
// coerced to floats by the exporting spreadsheet engine.
//
// # Manifest Conventions
//
// Stop label:
//
//	Free text containing the stop number, e.g. "3", "Parada 3", "3A".
//	The first run of ASCII digits is the stop number. Labels without a digit
//	("N/A", "") cannot be routed and are dropped.
//
// Float artifacts:
//
//	Integer-like values may arrive as "101.0". One trailing ".0" is removed
//	from stop labels, package IDs, house numbers and postal codes.
//	See [CleanNumericText].
//
// Postal code (CEP):
//
//	Eight digits, rendered as "DDDDD-DDD". Anything else is passed through as
//	its digit string, unformatted and unvalidated. See [FormatPostalCode].
//
// # Grouping
//
// Rows are partitioned by stop number and emitted in ascending stop order.
// Package IDs are joined with ", " in original row order. Every other field
// (address, complement, neighborhood, city, state, postal code) comes from
// the first row of the group; later rows never override or merge into it.
// The package count is the number of comma-separated segments of the joined
// ID string. See [GroupByStop].
//
// # Enrichment
//
// When enabled, each distinct well-formed postal code is looked up once per
// run through an [AddressLookup]. Lookup results only fill fields that are
// blank in the row. Failures degrade to blanks with a warning; they never
// abort a run. See [Enricher].
package domain
