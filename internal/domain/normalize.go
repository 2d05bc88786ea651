package domain

import "strings"

// CleanNumericText undoes float coercion of integer-like values by removing a
// single trailing ".0", e.g. "101.0" -> "101". Other values are unchanged.
func CleanNumericText(value string) string {
	return strings.TrimSuffix(value, ".0")
}

// FormatPostalCode keeps only the digits of value and renders an 8-digit CEP
// as "DDDDD-DDD". Any other digit count is returned unformatted, including
// the empty string.
func FormatPostalCode(value string) string {
	digits := digitsOnly(value)
	if len(digits) != 8 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}

// PostalCodeDigits returns the digits of an 8-digit postal code, or "" when
// value does not hold exactly eight digits.
func PostalCodeDigits(value string) string {
	digits := digitsOnly(value)
	if len(digits) != 8 {
		return ""
	}
	return digits
}

// BuildAddressLine joins the trimmed street and house number with ", ".
func BuildAddressLine(street, number string) string {
	return strings.TrimSpace(street) + ", " + strings.TrimSpace(number)
}

// NormalizeRow cleans the float-coerced fields of a row and formats its
// postal code.
func NormalizeRow(row RawRow) RawRow {
	row.Stop = CleanNumericText(row.Stop)
	row.PackageID = CleanNumericText(row.PackageID)
	row.Number = CleanNumericText(row.Number)
	row.PostalCode = FormatPostalCode(CleanNumericText(row.PostalCode))
	return row
}

// NormalizeRows applies NormalizeRow to every row in place.
func NormalizeRows(rows []RawRow) []RawRow {
	for i := range rows {
		rows[i] = NormalizeRow(rows[i])
	}
	return rows
}

func digitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FillBlankCity sets city on every row whose City is blank. It is applied
// when the manifest carries no city column at all.
func FillBlankCity(rows []RawRow, city string) []RawRow {
	if city == "" {
		return rows
	}
	for i := range rows {
		if strings.TrimSpace(rows[i].City) == "" {
			rows[i].City = city
		}
	}
	return rows
}
