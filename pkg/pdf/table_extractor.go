package pdf

import (
	"math"
	"sort"
	"strings"
)

// tableExtractor finds ruled tables from painted lines and rectangle edges
type tableExtractor struct {
	page            Page
	snapTolerance   float64
	textTolerance   float64
	minRows         int
	maxRectCoverage float64
}

// newTableExtractor creates a new table extractor with default settings
func newTableExtractor(page Page, opts ...TableExtractionOption) *tableExtractor {
	config := &tableExtractionConfig{
		SnapTolerance:   3.0,
		TextTolerance:   3.0,
		MinRows:         1,
		MaxRectCoverage: 0.9,
	}

	for _, opt := range opts {
		opt(config)
	}

	return &tableExtractor{
		page:            page,
		snapTolerance:   config.SnapTolerance,
		textTolerance:   config.TextTolerance,
		minRows:         config.MinRows,
		maxRectCoverage: config.MaxRectCoverage,
	}
}

// ExtractTables extracts tables from the page, ordered top to bottom
func (te *tableExtractor) ExtractTables() []Table {
	objects := te.page.GetObjects()

	hLines, vLines := te.collectTableLines(objects)
	if len(hLines) < 2 || len(vLines) < 2 {
		return nil
	}

	var tables []Table
	for _, cluster := range te.clusterEdges(hLines, vLines) {
		region := te.createTableRegion(cluster.h, cluster.v)
		if region == nil {
			continue
		}
		table := te.extractTableFromRegion(*region, objects)
		if len(table.Rows) >= te.minRows {
			tables = append(tables, table)
		}
	}

	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].BBox.Y0 != tables[j].BBox.Y0 {
			return tables[i].BBox.Y0 < tables[j].BBox.Y0
		}
		return tables[i].BBox.X0 < tables[j].BBox.X0
	})

	return tables
}

// collectTableLines separates lines and rectangle edges into horizontal and
// vertical edges, normalised so that X0 <= X1 and Y0 <= Y1.
func (te *tableExtractor) collectTableLines(objects Objects) ([]LineObject, []LineObject) {
	var hLines, vLines []LineObject

	add := func(line LineObject) {
		if math.Abs(line.Y1-line.Y0) < te.snapTolerance {
			y := (line.Y0 + line.Y1) / 2
			hLines = append(hLines, LineObject{
				X0: math.Min(line.X0, line.X1), Y0: y,
				X1: math.Max(line.X0, line.X1), Y1: y,
				Width: line.Width,
			})
		} else if math.Abs(line.X1-line.X0) < te.snapTolerance {
			x := (line.X0 + line.X1) / 2
			vLines = append(vLines, LineObject{
				X0: x, Y0: math.Min(line.Y0, line.Y1),
				X1: x, Y1: math.Max(line.Y0, line.Y1),
				Width: line.Width,
			})
		}
	}

	for _, line := range objects.Lines {
		add(line)
	}

	pageArea := te.page.GetBBox().Area()
	for _, rect := range DeduplicateRectangles(append([]RectObject(nil), objects.Rects...)) {
		// Page backgrounds would otherwise swallow everything as a 1x1 table
		if pageArea > 0 && rect.GetBBox().Area() >= pageArea*te.maxRectCoverage {
			continue
		}
		add(LineObject{X0: rect.X0, Y0: rect.Y0, X1: rect.X1, Y1: rect.Y0, Width: rect.Width})
		add(LineObject{X0: rect.X0, Y0: rect.Y1, X1: rect.X1, Y1: rect.Y1, Width: rect.Width})
		add(LineObject{X0: rect.X0, Y0: rect.Y0, X1: rect.X0, Y1: rect.Y1, Width: rect.Width})
		add(LineObject{X0: rect.X1, Y0: rect.Y0, X1: rect.X1, Y1: rect.Y1, Width: rect.Width})
	}

	hLines = consolidateHorizontalLines(DeduplicateLines(hLines))
	vLines = consolidateVerticalLines(DeduplicateLines(vLines))

	return hLines, vLines
}

// edgeCluster is a connected set of crossing edges
type edgeCluster struct {
	h []LineObject
	v []LineObject
}

// clusterEdges groups edges that cross or touch each other. Each cluster with
// at least two edges in both directions is a table candidate.
func (te *tableExtractor) clusterEdges(hLines, vLines []LineObject) []edgeCluster {
	parent := make([]int, len(hLines)+len(vLines))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	tol := te.snapTolerance
	for i, h := range hLines {
		for j, v := range vLines {
			if v.X0 >= h.X0-tol && v.X0 <= h.X1+tol && h.Y0 >= v.Y0-tol && h.Y0 <= v.Y1+tol {
				a, b := find(i), find(len(hLines)+j)
				if a != b {
					parent[b] = a
				}
			}
		}
	}

	index := make(map[int]int)
	var clusters []edgeCluster
	get := func(root int) *edgeCluster {
		idx, ok := index[root]
		if !ok {
			idx = len(clusters)
			index[root] = idx
			clusters = append(clusters, edgeCluster{})
		}
		return &clusters[idx]
	}
	for i, h := range hLines {
		c := get(find(i))
		c.h = append(c.h, h)
	}
	for j, v := range vLines {
		c := get(find(len(hLines) + j))
		c.v = append(c.v, v)
	}

	result := clusters[:0]
	for _, c := range clusters {
		if len(c.h) >= 2 && len(c.v) >= 2 {
			result = append(result, c)
		}
	}
	return result
}

// tableRegion represents a potential table area
type tableRegion struct {
	BBox   BoundingBox
	HLines []float64 // Y positions of horizontal lines
	VLines []float64 // X positions of vertical lines
	Cells  [][]BoundingBox
}

// createTableRegion creates a table region from line groups
func (te *tableExtractor) createTableRegion(hLines, vLines []LineObject) *tableRegion {
	hPositions := te.getUniquePositions(hLines, true)
	vPositions := te.getUniquePositions(vLines, false)

	if len(hPositions) < 2 || len(vPositions) < 2 {
		return nil
	}

	cells := make([][]BoundingBox, len(hPositions)-1)
	for i := 0; i < len(hPositions)-1; i++ {
		cells[i] = make([]BoundingBox, len(vPositions)-1)
		for j := 0; j < len(vPositions)-1; j++ {
			cells[i][j] = BoundingBox{
				X0: vPositions[j],
				Y0: hPositions[i],
				X1: vPositions[j+1],
				Y1: hPositions[i+1],
			}
		}
	}

	bbox := BoundingBox{
		X0: vPositions[0],
		Y0: hPositions[0],
		X1: vPositions[len(vPositions)-1],
		Y1: hPositions[len(hPositions)-1],
	}

	return &tableRegion{
		BBox:   bbox,
		HLines: hPositions,
		VLines: vPositions,
		Cells:  cells,
	}
}

// getUniquePositions returns sorted line positions, merging positions closer
// than the snap tolerance into their mean.
func (te *tableExtractor) getUniquePositions(lines []LineObject, horizontal bool) []float64 {
	raw := make([]float64, 0, len(lines))
	for _, line := range lines {
		if horizontal {
			raw = append(raw, line.Y0)
		} else {
			raw = append(raw, line.X0)
		}
	}
	sort.Float64s(raw)

	var positions []float64
	start := 0
	for i := 1; i <= len(raw); i++ {
		if i == len(raw) || raw[i]-raw[i-1] > te.snapTolerance {
			sum := 0.0
			for _, p := range raw[start:i] {
				sum += p
			}
			positions = append(positions, sum/float64(i-start))
			start = i
		}
	}

	return positions
}

// extractTableFromRegion extracts table data from a region
func (te *tableExtractor) extractTableFromRegion(region tableRegion, objects Objects) Table {
	rows := make([][]string, len(region.Cells))

	for i, row := range region.Cells {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = te.extractCellText(cell, objects.Chars)
		}
	}

	return Table{
		Rows:  rows,
		BBox:  region.BBox,
		Cells: region.Cells,
	}
}

// extractCellText extracts the text of the characters centered in a cell.
// Text lines are separated by a newline.
func (te *tableExtractor) extractCellText(cell BoundingBox, chars []CharObject) string {
	var cellChars []CharObject

	for _, char := range chars {
		centerX, centerY := char.GetBBox().Center()
		if cell.Contains(centerX, centerY) {
			cellChars = append(cellChars, char)
		}
	}
	if len(cellChars) == 0 {
		return ""
	}

	sort.SliceStable(cellChars, func(i, j int) bool {
		if cellChars[i].Y0 != cellChars[j].Y0 {
			return cellChars[i].Y0 < cellChars[j].Y0
		}
		return cellChars[i].X0 < cellChars[j].X0
	})

	var text strings.Builder
	lineY := cellChars[0].Y0
	lastX := math.Inf(-1)
	var line []CharObject

	flush := func() {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X0 < line[j].X0 })
		for _, char := range line {
			if !math.IsInf(lastX, -1) && char.X0-lastX > te.textTolerance {
				text.WriteString(" ")
			}
			text.WriteString(char.Text)
			lastX = char.X1
		}
		line = line[:0]
	}

	for _, char := range cellChars {
		if math.Abs(char.Y0-lineY) > te.textTolerance {
			flush()
			text.WriteString("\n")
			lineY = char.Y0
			lastX = math.Inf(-1)
		}
		line = append(line, char)
	}
	flush()

	return text.String()
}
