package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// EnrichReport summarizes one enrichment pass.
type EnrichReport struct {
	Offline  bool     // the connectivity probe failed; nothing was looked up
	Lookups  int      // distinct well-formed postal codes looked up
	Failed   int      // lookups that returned an error
	Filled   int      // rows that received at least one field
	Warnings []string // user-facing, one per failed postal code
}

// Enricher fills blank address fields from a postal-code lookup. It is built
// per run; its lookup is expected to carry that run's memo.
type Enricher struct {
	lookup AddressLookup
	probe  ConnectivityProbe
	logger *slog.Logger
}

// NewEnricher creates an Enricher. A nil lookup disables enrichment; a nil
// probe skips the connectivity check.
func NewEnricher(lookup AddressLookup, probe ConnectivityProbe, logger *slog.Logger) *Enricher {
	return &Enricher{lookup: lookup, probe: probe, logger: logger}
}

// Enrich looks up every distinct well-formed postal code once, in first-seen
// order, and copies street, neighborhood and city into rows where those
// fields are blank. Failures degrade to blanks with a warning; the rows are
// always returned.
func (e *Enricher) Enrich(ctx context.Context, rows []RawRow) ([]RawRow, EnrichReport) {
	var report EnrichReport
	if e == nil || e.lookup == nil {
		return rows, report
	}

	if e.probe != nil {
		if err := e.probe.Probe(ctx); err != nil {
			e.logger.Warn("address lookup service unreachable, skipping enrichment", "error", err)
			report.Offline = true
			report.Warnings = append(report.Warnings,
				"No connection to the postal code service; address fields were left as found in the file.")
			return rows, report
		}
	}

	resolved := make(map[string]Address)
	for _, row := range rows {
		code := PostalCodeDigits(row.PostalCode)
		if code == "" {
			continue
		}
		if _, seen := resolved[code]; seen {
			continue
		}
		report.Lookups++
		addr, err := e.lookup.LookupPostalCode(ctx, code)
		if err != nil {
			e.logger.Warn("postal code lookup failed",
				"postal_code", code,
				"error", err,
			)
			report.Failed++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Could not look up postal code %s: %v", FormatPostalCode(code), err))
			addr = Address{}
		}
		resolved[code] = addr
	}

	for i := range rows {
		addr := resolved[PostalCodeDigits(rows[i].PostalCode)]
		if addr.IsEmpty() {
			continue
		}
		if fillAddress(&rows[i], addr) {
			report.Filled++
		}
	}
	return rows, report
}

// fillAddress copies non-empty lookup fields into blank row fields and
// reports whether anything changed.
func fillAddress(row *RawRow, addr Address) bool {
	changed := false
	if row.Street == "" && addr.Street != "" {
		row.Street = addr.Street
		changed = true
	}
	if row.Neighborhood == "" && addr.Neighborhood != "" {
		row.Neighborhood = addr.Neighborhood
		changed = true
	}
	if row.City == "" && addr.City != "" {
		row.City = addr.City
		changed = true
	}
	return changed
}
