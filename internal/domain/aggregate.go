package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// stopNumberRe matches the first run of ASCII digits in a stop label,
// e.g. "Parada 12" -> "12".
var stopNumberRe = regexp.MustCompile(`[0-9]+`)

// Locale selects the language of the generated stop labels, count texts and
// output headers.
type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocalePortuguese Locale = "pt"
)

// ParseLocale accepts "en" or "pt" (case-insensitive); anything else is an error.
func ParseLocale(s string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleEnglish:
		return LocaleEnglish, nil
	case LocalePortuguese:
		return LocalePortuguese, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", s)
	}
}

// StopLabel renders the output label of stop n.
func (l Locale) StopLabel(n int) string {
	if l == LocalePortuguese {
		return fmt.Sprintf("Parada %d", n)
	}
	return fmt.Sprintf("Stop %d", n)
}

// CountText renders a package count as singular or plural text.
func (l Locale) CountText(n int) string {
	singular, plural := "package", "packages"
	if l == LocalePortuguese {
		singular, plural = "pacote", "pacotes"
	}
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// GroupOptions carries the per-run constants applied to every grouped stop.
type GroupOptions struct {
	Locale Locale
	State  string
}

// GroupResult holds the grouped stops and the number of rows dropped for
// lacking a stop number.
type GroupResult struct {
	Stops   []GroupedStop
	Skipped int
}

// ExtractStopNumber returns the first run of ASCII digits in label as an
// integer. ok is false when label has no digit (or the run overflows int).
func ExtractStopNumber(label string) (n int, ok bool) {
	m := stopNumberRe.FindString(label)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GroupByStop collapses package rows into one row per stop number, in
// ascending stop order. Package IDs keep their original row order; all other
// fields are copied from the first row of each group.
func GroupByStop(rows []RawRow, opts GroupOptions) (GroupResult, error) {
	if len(rows) == 0 {
		return GroupResult{}, ErrNoRows
	}

	type group struct {
		first RawRow
		ids   []string
	}
	groups := make(map[int]*group)
	var (
		order   []int
		skipped int
	)
	for _, row := range rows {
		n, ok := ExtractStopNumber(row.Stop)
		if !ok {
			skipped++
			continue
		}
		g, exists := groups[n]
		if !exists {
			g = &group{first: row}
			groups[n] = g
			order = append(order, n)
		}
		g.ids = append(g.ids, row.PackageID)
	}

	if len(order) == 0 {
		return GroupResult{Skipped: skipped}, ErrNoValidRows
	}
	sort.Ints(order)

	stops := make([]GroupedStop, 0, len(order))
	for _, n := range order {
		g := groups[n]
		joined := strings.Join(g.ids, ", ")
		count := countPackages(joined)
		stops = append(stops, GroupedStop{
			Number:       n,
			Label:        opts.Locale.StopLabel(n),
			PackageIDs:   joined,
			PackageCount: count,
			CountText:    opts.Locale.CountText(count),
			AddressLine:  BuildAddressLine(g.first.Street, g.first.Number),
			Complement:   g.first.Complement,
			Neighborhood: g.first.Neighborhood,
			City:         g.first.City,
			State:        opts.State,
			PostalCode:   g.first.PostalCode,
		})
	}
	return GroupResult{Stops: stops, Skipped: skipped}, nil
}

// countPackages counts comma-separated segments of the joined ID string. The
// count is purely syntactic: an ID that itself contains a comma counts twice.
func countPackages(joined string) int {
	return strings.Count(joined, ",") + 1
}
