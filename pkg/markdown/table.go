package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/rtree"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// TableRegion is a meaningful table found in a region together with the
// images attached to it
type TableRegion struct {
	Index    int
	BBox     pdf.BoundingBox
	Rows     [][]string
	Markdown string

	// ImageGrid holds image references per cell, rows × max columns
	ImageGrid [][][]string
	// Fallback holds references of images inside the table bbox that no
	// cell could take
	Fallback []string

	cols  int
	cells *rtree.RTreeG[cellRef]
}

type cellRef struct {
	row, col int
}

// NewTableRegion builds a table region from an extracted table
func NewTableRegion(index int, table pdf.Table) *TableRegion {
	t := &TableRegion{
		Index:    index,
		BBox:     table.BBox,
		Rows:     table.Rows,
		Markdown: TableToMarkdown(table.Rows),
	}

	for _, row := range table.Rows {
		t.cols = max(t.cols, len(row))
	}
	if len(table.Rows) > 0 && t.cols > 0 {
		t.ImageGrid = make([][][]string, len(table.Rows))
		for i := range t.ImageGrid {
			t.ImageGrid[i] = make([][]string, t.cols)
		}
	}

	if len(table.Cells) > 0 {
		t.cells = &rtree.RTreeG[cellRef]{}
		for r, row := range table.Cells {
			for c, cell := range row {
				t.cells.Insert([2]float64{cell.X0, cell.Y0}, [2]float64{cell.X1, cell.Y1}, cellRef{row: r, col: c})
			}
		}
	}

	return t
}

// Columns returns the width of the widest row
func (t *TableRegion) Columns() int {
	return t.cols
}

// Contains reports whether a point lies in the table bbox, edges included
func (t *TableRegion) Contains(x, y float64) bool {
	return t.BBox.Contains(x, y)
}

// cellAt returns the first cell, in row-major order, containing the point
// that also exists in the image grid
func (t *TableRegion) cellAt(x, y float64) (cellRef, bool) {
	if t.cells == nil || t.ImageGrid == nil {
		return cellRef{}, false
	}

	var best cellRef
	found := false
	point := [2]float64{x, y}
	t.cells.Search(point, point, func(_, _ [2]float64, ref cellRef) bool {
		if ref.row >= len(t.ImageGrid) || ref.col >= len(t.ImageGrid[ref.row]) {
			return true
		}
		if !found || ref.row < best.row || (ref.row == best.row && ref.col < best.col) {
			best = ref
			found = true
		}
		return true
	})

	return best, found
}

// Attach places an image reference in the cell under the point, or in the
// fallback list when no cell matches
func (t *TableRegion) Attach(x, y float64, ref string) {
	if cell, ok := t.cellAt(x, y); ok {
		t.ImageGrid[cell.row][cell.col] = append(t.ImageGrid[cell.row][cell.col], strings.TrimSpace(ref))
		return
	}
	t.Fallback = append(t.Fallback, ref)
}

// HasGridImages reports whether any cell received an image
func (t *TableRegion) HasGridImages() bool {
	for _, row := range t.ImageGrid {
		for _, cell := range row {
			if len(cell) > 0 {
				return true
			}
		}
	}
	return false
}

// RenderImages writes the image grid, when populated, followed by the
// fallback references
func (t *TableRegion) RenderImages() string {
	var sb strings.Builder

	if t.HasGridImages() && len(t.Rows) > 0 && t.cols > 0 {
		sb.WriteString("\n")
		sb.WriteString(pipeRow(make([]string, t.cols)))
		sb.WriteString(separatorRow(t.cols))
		for r := range t.Rows {
			cells := make([]string, t.cols)
			for c := range cells {
				if r < len(t.ImageGrid) && c < len(t.ImageGrid[r]) {
					cells[c] = joinNonEmpty(t.ImageGrid[r][c], "<br>")
				}
			}
			sb.WriteString(pipeRow(cells))
		}
		sb.WriteString("\n")
	}

	for _, ref := range t.Fallback {
		sb.WriteString(ref)
	}

	return sb.String()
}

// IsMeaningful reports whether a table has at least one non-empty cell and
// more than 5 characters of trimmed text overall
func IsMeaningful(rows [][]string) bool {
	filled := 0
	total := 0
	for _, row := range rows {
		for _, cell := range row {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" {
				continue
			}
			filled++
			total += utf8.RuneCountInString(trimmed)
		}
	}
	return filled > 0 && total > 5
}

// TableToMarkdown renders rows as a pipe table with the first row as header
func TableToMarkdown(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(pipeRow(escapeCells(rows[0])))
	sb.WriteString(separatorRow(len(rows[0])))
	for _, row := range rows[1:] {
		sb.WriteString(pipeRow(escapeCells(row)))
	}
	return sb.String()
}

func escapeCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "|", `\|`)
		out[i] = strings.ReplaceAll(cell, "\n", "<br>")
	}
	return out
}

func pipeRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

func separatorRow(n int) string {
	seps := make([]string, n)
	for i := range seps {
		seps[i] = "---"
	}
	return pipeRow(seps)
}

func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
