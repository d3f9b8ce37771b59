package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridLines draws a ruled grid with the given row and column boundaries
func gridLines(xs, ys []float64) []LineObject {
	var lines []LineObject
	for _, y := range ys {
		lines = append(lines, LineObject{X0: xs[0], Y0: y, X1: xs[len(xs)-1], Y1: y, Width: 1})
	}
	for _, x := range xs {
		lines = append(lines, LineObject{X0: x, Y0: ys[0], X1: x, Y1: ys[len(ys)-1], Width: 1})
	}
	return lines
}

func TestExtractTablesFromLines(t *testing.T) {
	var chars []CharObject
	chars = append(chars, makeChars("Name", 55, 105, 8, "F")...)
	chars = append(chars, makeChars("Qty", 155, 105, 8, "F")...)
	chars = append(chars, makeChars("Apple", 55, 125, 8, "F")...)
	chars = append(chars, makeChars("3", 155, 125, 8, "F")...)

	page := NewMemoryPage(1, 300, 300, Objects{
		Chars: chars,
		Lines: gridLines([]float64{50, 150, 250}, []float64{100, 120, 140}),
	})

	tables := page.ExtractTables()
	require.Len(t, tables, 1)

	table := tables[0]
	assert.Equal(t, [][]string{{"Name", "Qty"}, {"Apple", "3"}}, table.Rows)
	assert.InDelta(t, 50.0, table.BBox.X0, 1e-9)
	assert.InDelta(t, 100.0, table.BBox.Y0, 1e-9)
	assert.InDelta(t, 250.0, table.BBox.X1, 1e-9)
	assert.InDelta(t, 140.0, table.BBox.Y1, 1e-9)

	require.Len(t, table.Cells, 2)
	require.Len(t, table.Cells[1], 2)
	assert.InDelta(t, 150.0, table.Cells[1][1].X0, 1e-9)
	assert.InDelta(t, 120.0, table.Cells[1][1].Y0, 1e-9)
}

func TestExtractTablesFromRectangles(t *testing.T) {
	rects := []RectObject{
		{X0: 10, Y0: 10, X1: 60, Y1: 30},
		{X0: 60, Y0: 10, X1: 110, Y1: 30},
		{X0: 10, Y0: 30, X1: 60, Y1: 50},
		{X0: 60, Y0: 30, X1: 110, Y1: 50},
	}
	page := NewMemoryPage(1, 300, 300, Objects{Rects: rects})

	tables := page.ExtractTables()
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
	assert.Len(t, tables[0].Rows[0], 2)
}

func TestExtractTablesIgnoresPageBackground(t *testing.T) {
	page := NewMemoryPage(1, 300, 300, Objects{
		Rects: []RectObject{{X0: 0, Y0: 0, X1: 300, Y1: 300, NonStroking: true}},
		Chars: makeChars("Body text", 20, 20, 10, "F"),
	})

	assert.Empty(t, page.ExtractTables())
}

func TestExtractTablesSeparateGrids(t *testing.T) {
	lines := gridLines([]float64{10, 50, 90}, []float64{200, 220})
	lines = append(lines, gridLines([]float64{10, 90}, []float64{20, 40, 60})...)
	page := NewMemoryPage(1, 300, 300, Objects{Lines: lines})

	tables := page.ExtractTables()
	require.Len(t, tables, 2)
	assert.InDelta(t, 20.0, tables[0].BBox.Y0, 1e-9)
	assert.Len(t, tables[0].Rows, 2)
	assert.InDelta(t, 200.0, tables[1].BBox.Y0, 1e-9)
	assert.Len(t, tables[1].Rows[0], 2)
}

func TestExtractCellTextMultiline(t *testing.T) {
	te := newTableExtractor(NewMemoryPage(1, 100, 100, Objects{}))
	var chars []CharObject
	chars = append(chars, makeChars("two words", 5, 5, 8, "F")...)
	chars = append(chars, makeChars("next", 5, 18, 8, "F")...)

	text := te.extractCellText(BoundingBox{X0: 0, Y0: 0, X1: 100, Y1: 30}, chars)
	assert.Equal(t, "two words\nnext", text)
}

func TestDeduplicateLines(t *testing.T) {
	lines := []LineObject{
		{X0: 0, Y0: 10, X1: 100, Y1: 10},
		{X0: 100, Y0: 10, X1: 0, Y1: 10},
		{X0: 0, Y0: 10.05, X1: 100, Y1: 10.05},
		{X0: 0, Y0: 20, X1: 100, Y1: 20},
	}
	assert.Len(t, DeduplicateLines(lines), 2)
}

func TestConsolidateHorizontalLines(t *testing.T) {
	lines := []LineObject{
		{X0: 0, Y0: 10, X1: 50, Y1: 10},
		{X0: 50.5, Y0: 10, X1: 100, Y1: 10},
		{X0: 0, Y0: 30, X1: 100, Y1: 30},
	}
	merged := consolidateHorizontalLines(lines)
	require.Len(t, merged, 2)
	assert.Equal(t, 0.0, merged[0].X0)
	assert.Equal(t, 100.0, merged[0].X1)
}

func TestExtractTablesOptions(t *testing.T) {
	// the rules at 120 and 124 are one doubled rule
	page := NewMemoryPage(1, 300, 300, Objects{
		Chars: makeChars("Name", 55, 105, 8, "F"),
		Lines: gridLines([]float64{50, 150, 250}, []float64{100, 120, 124, 140}),
	})

	t.Run("snap tolerance", func(t *testing.T) {
		tables := page.ExtractTables()
		require.Len(t, tables, 1)
		assert.Len(t, tables[0].Rows, 3)

		snapped := page.ExtractTables(WithSnapTolerance(5))
		require.Len(t, snapped, 1)
		assert.Len(t, snapped[0].Rows, 2)
		assert.InDelta(t, 122.0, snapped[0].Cells[1][0].Y0, 1e-9)
	})

	t.Run("min rows", func(t *testing.T) {
		assert.Len(t, page.ExtractTables(WithMinTableRows(3)), 1)
		assert.Empty(t, page.ExtractTables(WithMinTableRows(4)))
	})

	t.Run("text tolerance", func(t *testing.T) {
		cell := BoundingBox{X0: 0, Y0: 0, X1: 100, Y1: 100}
		spaced := append(makeChars("ab", 10, 10, 10, "F"), makeChars("cd", 29, 10, 10, "F")...)

		narrow := newTableExtractor(page, WithTextTolerance(3))
		assert.Equal(t, "ab cd", narrow.extractCellText(cell, spaced))

		wide := newTableExtractor(page, WithTextTolerance(10))
		assert.Equal(t, "abcd", wide.extractCellText(cell, spaced))
	})
}
