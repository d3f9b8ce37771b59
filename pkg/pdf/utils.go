package pdf

import (
	"math"
	"sort"
)

// FloatTolerance is used when comparing coordinates of graphics objects
const FloatTolerance = 0.1

// DeduplicateLines removes lines drawn twice at the same coordinates.
// The input slice is sorted in place.
func DeduplicateLines(lines []LineObject) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		switch {
		case a.Y0 != b.Y0:
			return a.Y0 < b.Y0
		case a.X0 != b.X0:
			return a.X0 < b.X0
		case a.Y1 != b.Y1:
			return a.Y1 < b.Y1
		}
		return a.X1 < b.X1
	})

	result := []LineObject{lines[0]}
	for _, curr := range lines[1:] {
		if !linesEqual(result[len(result)-1], curr) {
			result = append(result, curr)
		}
	}

	return result
}

// linesEqual checks if two lines are essentially the same, in either direction
func linesEqual(a, b LineObject) bool {
	same := near(a.X0, b.X0) && near(a.Y0, b.Y0) && near(a.X1, b.X1) && near(a.Y1, b.Y1)
	reversed := near(a.X0, b.X1) && near(a.Y0, b.Y1) && near(a.X1, b.X0) && near(a.Y1, b.Y0)
	return same || reversed
}

// consolidateHorizontalLines merges collinear horizontal segments that
// overlap or touch. Segments must be normalised (X0 <= X1).
func consolidateHorizontalLines(lines []LineObject) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if !near(lines[i].Y0, lines[j].Y0) {
			return lines[i].Y0 < lines[j].Y0
		}
		return lines[i].X0 < lines[j].X0
	})

	var result []LineObject
	current := lines[0]
	for _, line := range lines[1:] {
		if near(line.Y0, current.Y0) && line.X0 <= current.X1+1 && line.X1 >= current.X0-1 {
			current.X0 = math.Min(current.X0, line.X0)
			current.X1 = math.Max(current.X1, line.X1)
			current.Width = math.Max(current.Width, line.Width)
			continue
		}
		result = append(result, current)
		current = line
	}

	return append(result, current)
}

// consolidateVerticalLines is the vertical counterpart of consolidateHorizontalLines
func consolidateVerticalLines(lines []LineObject) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if !near(lines[i].X0, lines[j].X0) {
			return lines[i].X0 < lines[j].X0
		}
		return lines[i].Y0 < lines[j].Y0
	})

	var result []LineObject
	current := lines[0]
	for _, line := range lines[1:] {
		if near(line.X0, current.X0) && line.Y0 <= current.Y1+1 && line.Y1 >= current.Y0-1 {
			current.Y0 = math.Min(current.Y0, line.Y0)
			current.Y1 = math.Max(current.Y1, line.Y1)
			current.Width = math.Max(current.Width, line.Width)
			continue
		}
		result = append(result, current)
		current = line
	}

	return append(result, current)
}

// DeduplicateRectangles removes duplicate rectangles.
// The input slice is sorted in place.
func DeduplicateRectangles(rects []RectObject) []RectObject {
	if len(rects) == 0 {
		return rects
	}

	sort.SliceStable(rects, func(i, j int) bool {
		if rects[i].Y0 != rects[j].Y0 {
			return rects[i].Y0 < rects[j].Y0
		}
		return rects[i].X0 < rects[j].X0
	})

	result := []RectObject{rects[0]}
	for _, curr := range rects[1:] {
		last := result[len(result)-1]
		if !(near(last.X0, curr.X0) && near(last.Y0, curr.Y0) && near(last.X1, curr.X1) && near(last.Y1, curr.Y1)) {
			result = append(result, curr)
		}
	}

	return result
}

func near(a, b float64) bool {
	return math.Abs(a-b) < FloatTolerance
}
