package pdf

import (
	"testing"

	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a text line from (x, text) pairs. Each run is 4 points per
// character wide at a 10 point font.
func line(parts ...any) textLine {
	var l textLine
	for i := 0; i+1 < len(parts); i += 2 {
		x := parts[i].(float64)
		s := parts[i+1].(string)
		l = append(l, textRun{x: x, width: float64(len(s)) * 4, size: 10, text: s})
	}
	return l
}

var headerLine = line(
	10.0, "N.º", 40.0, "ID", 90.0, "Cliente", 150.0, "Endereço", 230.0, "N.º",
	260.0, "Compl.", 300.0, "Bairro", 360.0, "Cidade", 420.0, "CEP",
)

func TestSplitCells(t *testing.T) {
	l := textLine{
		{x: 10, width: 15, size: 10, text: "Rua"},
		{x: 29, width: 20, size: 10, text: "Sete"},
		{x: 100, width: 10, size: 10, text: "45"},
	}

	got := splitCells(l)

	want := []cell{{x: 10, text: "Rua Sete"}, {x: 100, text: "45"}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(cell{})); diff != "" {
		t.Errorf("splitCells mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitCells_PerCharacterRuns(t *testing.T) {
	l := textLine{
		{x: 10, width: 5, size: 10, text: "C"},
		{x: 15, width: 5, size: 10, text: "E"},
		{x: 20, width: 5, size: 10, text: "P"},
		{x: 60, width: 5, size: 10, text: "1"},
	}

	got := splitCells(l)

	require.Len(t, got, 2)
	assert.Equal(t, "CEP", got[0].text)
	assert.Equal(t, "1", got[1].text)
}

func TestSplitCells_UnsortedInput(t *testing.T) {
	got := splitCells(line(100.0, "b", 10.0, "a"))

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].text)
}

func TestExtractPageTable(t *testing.T) {
	lines := []textLine{
		line(10.0, "Manifesto de entrega"),
		headerLine,
		line(10.0, "1", 40.0, "4400123", 90.0, "Maria", 150.0, "Rua A", 230.0, "45", 300.0, "Centro", 360.0, "SJC", 420.0, "12210-000"),
		line(10.0, "2", 40.0, "4400124", 150.0, "Rua B", 230.0, "7", 300.0, "Vila", 360.0, "SJC", 420.0, "12220000"),
		line(200.0, "Página 1 de 2"),
	}

	pt := extractPageTable(lines)

	assert.Len(t, pt.anchors, 9)
	require.Len(t, pt.rows, 2)
	assert.Equal(t, []string{"1", "4400123", "Maria", "Rua A", "45", "", "Centro", "SJC", "12210-000"}, pt.rows[0])
	assert.Equal(t, "", pt.rows[1][2], "missing customer leaves an empty slot")
	assert.Equal(t, "12220000", pt.rows[1][8])
}

func TestExtractPageTable_ContinuationPageLosesFirstRow(t *testing.T) {
	pt := extractPageTable([]textLine{
		line(10.0, "3", 40.0, "99", 150.0, "Rua C", 230.0, "1", 300.0, "Centro", 420.0, "12210000"),
		line(10.0, "4", 40.0, "100", 150.0, "Rua D", 230.0, "2", 300.0, "Centro", 420.0, "12210001"),
	})

	require.Len(t, pt.rows, 1, "first wide line is taken as the header")
	assert.Equal(t, "4", pt.rows[0][0])
	assert.Equal(t, "Rua D", pt.rows[0][2])
}

func TestExtractPageTable_NoHeader(t *testing.T) {
	pt := extractPageTable([]textLine{line(10.0, "1", 40.0, "2")})

	assert.Empty(t, pt.anchors)
	assert.Empty(t, pt.rows)
}

func TestSlotCells_JoinsSharedSlot(t *testing.T) {
	row := slotCells([]cell{{x: 10, text: "Rua"}, {x: 50, text: "Longa"}}, []float64{10, 100})

	assert.Equal(t, []string{"Rua Longa", ""}, row)
}

func TestBuildTable(t *testing.T) {
	pages := []pageTable{
		extractPageTable([]textLine{
			headerLine,
			line(10.0, "1", 40.0, "101", 150.0, "Rua A", 230.0, "45", 300.0, "Centro", 420.0, "12210000"),
		}),
		{anchors: make([]float64, 9), rows: [][]string{
			{"2", "102", "", "Rua B", "7", "", "Vila", "SJC", "12220000"},
			{"", "", "", "", "", "", "", "", ""},
		}},
	}

	table, err := buildTable(pages)
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentColumns[:9], table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "101", table.Rows[0].PackageID)
	assert.Equal(t, "SJC", table.Rows[1].City)
	assert.False(t, table.Has(domain.ColType))
}

func TestBuildTable_TooNarrow(t *testing.T) {
	pages := []pageTable{{anchors: make([]float64, 4), rows: [][]string{{"1", "2", "3", "4"}}}}

	_, err := buildTable(pages)

	var mc *domain.MissingColumnsError
	require.ErrorAs(t, err, &mc)
	assert.Contains(t, mc.Missing, domain.ColPostalCode)
}

func TestBuildTable_NoTable(t *testing.T) {
	_, err := buildTable(nil)

	require.ErrorIs(t, err, domain.ErrMissingColumns)
}
