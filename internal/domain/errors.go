package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns is wrapped by *MissingColumnsError.
	ErrMissingColumns = errors.New("required columns not found")
	// ErrNoRows means the manifest contained no data rows at all.
	ErrNoRows = errors.New("manifest has no rows")
	// ErrNoValidRows means every row was dropped for lacking a stop number.
	ErrNoValidRows = errors.New("no valid rows found to process after cleaning")
	// ErrUnsupportedFormat is returned for uploads that are neither a
	// spreadsheet nor a PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnreadableInput wraps decoder failures of the input adapters.
	ErrUnreadableInput = errors.New("unreadable input file")
)

// MissingColumnsError lists every required column the manifest lacks, along
// with the headers that were found, so the user can fix the export.
type MissingColumnsError struct {
	Missing []Column
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("%s: %s (found headers: %s)",
		ErrMissingColumns, strings.Join(names, ", "), strings.Join(e.Found, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// IsUserError reports whether err should be shown to the uploader as a
// problem with their file rather than as a service failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrNoRows) ||
		errors.Is(err, ErrNoValidRows) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnreadableInput)
}
