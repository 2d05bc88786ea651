package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/couchcryptid/route-formatter/internal/domain"
)

const (
	// minHeaderCells is the narrowest line accepted as a table header.
	minHeaderCells = 3
	// minDataCells filters page footers and stray captions below the table.
	minDataCells = 2
	// anchorSlack lets a cell start slightly left of its header.
	anchorSlack = 2.0
)

// textRun is a piece of text placed on a line at horizontal position x.
type textRun struct {
	x, width, size float64
	text           string
}

// textLine holds the runs sharing one baseline.
type textLine []textRun

// cell is a span of runs with no wide gap between them.
type cell struct {
	x    float64
	text string
}

// pageTable is the tabular region extracted from one page.
type pageTable struct {
	anchors []float64
	rows    [][]string
}

// splitCells joins runs into cells. A gap wider than one em (the run's font
// size, or 4 points when the size is unknown) starts a new cell.
func splitCells(line textLine) []cell {
	runs := append(textLine(nil), line...)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].x < runs[j].x })

	var cells []cell
	var b strings.Builder
	var start, end float64
	flush := func() {
		if text := strings.Join(strings.Fields(b.String()), " "); text != "" {
			cells = append(cells, cell{x: start, text: text})
		}
		b.Reset()
	}

	for i, r := range runs {
		gap := r.size
		if gap <= 0 {
			gap = 4
		}
		switch {
		case i == 0:
			start = r.x
		case r.x-end > gap:
			flush()
			start = r.x
		case r.x-end > gap/4:
			b.WriteByte(' ')
		}
		b.WriteString(r.text)
		end = math.Max(end, r.x+r.width)
	}
	flush()
	return cells
}

// extractPageTable finds the header line of a page and slots every later
// line into the header's columns. A page without a header line yields
// nothing.
func extractPageTable(lines []textLine) pageTable {
	var anchors []float64
	var body []textLine
	for i, line := range lines {
		cells := splitCells(line)
		if len(cells) >= minHeaderCells {
			anchors = make([]float64, len(cells))
			for j, c := range cells {
				anchors[j] = c.x
			}
			body = lines[i+1:]
			break
		}
	}
	if len(anchors) == 0 {
		return pageTable{}
	}

	pt := pageTable{anchors: anchors}
	for _, line := range body {
		cells := splitCells(line)
		if len(cells) < minDataCells {
			continue
		}
		pt.rows = append(pt.rows, slotCells(cells, anchors))
	}
	return pt
}

// slotCells assigns each cell to the rightmost anchor at or left of it.
// Cells sharing a slot are joined with a space.
func slotCells(cells []cell, anchors []float64) []string {
	row := make([]string, len(anchors))
	for _, c := range cells {
		slot := 0
		for j, a := range anchors {
			if a <= c.x+anchorSlack {
				slot = j
			}
		}
		if row[slot] == "" {
			row[slot] = c.text
		} else {
			row[slot] += " " + c.text
		}
	}
	return row
}

// buildTable concatenates every page's rows under DocumentColumns truncated
// to the widest header seen.
func buildTable(pages []pageTable) (domain.Table, error) {
	width := 0
	for _, p := range pages {
		width = max(width, len(p.anchors))
	}
	width = min(width, len(domain.DocumentColumns))

	t := domain.Table{Columns: append([]domain.Column(nil), domain.DocumentColumns[:width]...)}
	if err := t.Validate(); err != nil {
		return domain.Table{}, err
	}

	for _, p := range pages {
		for _, rec := range p.rows {
			var row domain.RawRow
			blank := true
			for i, v := range rec {
				if i >= width {
					break
				}
				v = strings.TrimSpace(v)
				if v != "" {
					blank = false
				}
				row.SetField(t.Columns[i], v)
			}
			if !blank {
				t.Rows = append(t.Rows, row)
			}
		}
	}
	return t, nil
}
