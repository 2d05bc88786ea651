// Package xlsx reads carrier manifests from and writes formatted routes to
// Office Open XML workbooks.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Reader extracts the first sheet of a workbook as a manifest table.
// It implements pipeline.TableReader.
type Reader struct {
	schema domain.Schema
}

// NewReader creates a Reader that maps headers through schema.
func NewReader(schema domain.Schema) *Reader {
	return &Reader{schema: schema}
}

// ReadTable decodes data and maps the first row of the first sheet through
// the schema. Missing required columns fail before any row is built.
func (r *Reader) ReadTable(_ context.Context, data []byte) (domain.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: open workbook: %v", domain.ErrUnreadableInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, fmt.Errorf("%w: workbook has no sheets", domain.ErrUnreadableInput)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: read sheet %q: %v", domain.ErrUnreadableInput, sheets[0], err)
	}

	var headers []string
	var records [][]string
	if len(rows) > 0 {
		headers, records = rows[0], rows[1:]
	}
	return r.schema.BuildTable(headers, records)
}
