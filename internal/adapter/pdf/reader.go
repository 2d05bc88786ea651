// Package pdf extracts manifest tables from paginated PDF documents.
//
// PDF carries no table structure, only positioned text. A page's table is
// recovered from its text lines: the first line with at least three separate
// cells is the header, its cell positions become column anchors, and each
// later line's cells are slotted under the nearest anchor to their left. The
// header row itself is discarded, so extracted rows are mapped onto the
// fixed document column order rather than onto header names.
//
// Every page is treated as its own table. The first wide line of a page is
// always taken as that page's header and dropped, even on a continuation
// page that repeats no header.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/couchcryptid/route-formatter/internal/domain"
	lpdf "github.com/ledongthuc/pdf"
)

// Reader extracts a manifest table from every page of a PDF document.
// It implements pipeline.TableReader.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTable decodes data and concatenates the tables of all pages.
func (r *Reader) ReadTable(ctx context.Context, data []byte) (t domain.Table, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			t, err = domain.Table{}, fmt.Errorf("%w: malformed document: %v", domain.ErrUnreadableInput, rec)
		}
	}()

	doc, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.Table{}, fmt.Errorf("%w: open document: %v", domain.ErrUnreadableInput, err)
	}

	var pages []pageTable
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return domain.Table{}, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return domain.Table{}, fmt.Errorf("%w: read page %d: %v", domain.ErrUnreadableInput, i, err)
		}

		pages = append(pages, extractPageTable(toLines(rows)))
	}

	return buildTable(pages)
}

func toLines(rows lpdf.Rows) []textLine {
	lines := make([]textLine, 0, len(rows))
	for _, row := range rows {
		line := make(textLine, 0, len(row.Content))
		for _, txt := range row.Content {
			line = append(line, textRun{x: txt.X, width: txt.W, size: txt.FontSize, text: txt.S})
		}
		lines = append(lines, line)
	}
	return lines
}
