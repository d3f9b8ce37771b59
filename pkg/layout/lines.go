package layout

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// DefaultLineTolerance is the vertical distance, in page units, under which
// a word joins the line started by an earlier word
const DefaultLineTolerance = 5.0

// Line is a horizontal run of words on one visual text line
type Line struct {
	Words  []pdf.Word
	Top    float64
	Bottom float64
}

// GroupLines sorts words by top and gathers them into lines. A word belongs
// to the current line while its top is within tolerance of the top of the
// line's first word. Words inside a line are ordered left to right.
func GroupLines(words []pdf.Word, tolerance float64) []Line {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]pdf.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y0 < sorted[j].Y0
	})

	var lines []Line
	current := Line{Words: []pdf.Word{sorted[0]}, Top: sorted[0].Y0, Bottom: sorted[0].Y1}
	for _, w := range sorted[1:] {
		if math.Abs(w.Y0-current.Top) <= tolerance {
			current.Words = append(current.Words, w)
			current.Bottom = math.Max(current.Bottom, w.Y1)
			continue
		}
		lines = append(lines, current.ordered())
		current = Line{Words: []pdf.Word{w}, Top: w.Y0, Bottom: w.Y1}
	}
	lines = append(lines, current.ordered())

	return lines
}

func (l Line) ordered() Line {
	sort.SliceStable(l.Words, func(i, j int) bool {
		return l.Words[i].X0 < l.Words[j].X0
	})
	return l
}

// Text joins the words with single spaces, trims the result, collapses
// repeated spaces and applies NFC normalization
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}

	return norm.NFC.String(text)
}

// MeanSize returns the mean font size of the line's words
func (l Line) MeanSize() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	total := 0.0
	for _, w := range l.Words {
		total += w.FontSize
	}
	return total / float64(len(l.Words))
}
