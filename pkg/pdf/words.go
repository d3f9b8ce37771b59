package pdf

import (
	"math"
	"sort"
	"strings"
)

// extractWords groups characters into lines, then lines into words.
// Words are returned in reading order: lines top to bottom, words left to right.
func extractWords(chars []CharObject, config *wordExtractionConfig) []Word {
	if len(chars) == 0 {
		return nil
	}

	// Sort characters by position (top to bottom, left to right)
	sortedChars := make([]CharObject, len(chars))
	copy(sortedChars, chars)
	sort.SliceStable(sortedChars, func(i, j int) bool {
		if sortedChars[i].Y0 != sortedChars[j].Y0 {
			return sortedChars[i].Y0 < sortedChars[j].Y0
		}
		return sortedChars[i].X0 < sortedChars[j].X0
	})

	// Group characters into lines
	var lines [][]CharObject
	var currentLine []CharObject
	currentY := sortedChars[0].Y0

	for _, char := range sortedChars {
		if math.Abs(char.Y0-currentY) > config.YTolerance {
			if len(currentLine) > 0 {
				lines = append(lines, currentLine)
			}
			currentLine = []CharObject{char}
			currentY = char.Y0
		} else {
			currentLine = append(currentLine, char)
		}
	}
	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}

	var words []Word
	for _, line := range lines {
		words = append(words, extractWordsFromLine(line, config)...)
	}

	return words
}

// extractWordsFromLine extracts words from a single line of characters
func extractWordsFromLine(lineChars []CharObject, config *wordExtractionConfig) []Word {
	if len(lineChars) == 0 {
		return nil
	}

	sort.SliceStable(lineChars, func(i, j int) bool {
		return lineChars[i].X0 < lineChars[j].X0
	})

	var words []Word
	currentWord := []CharObject{lineChars[0]}

	for i := 1; i < len(lineChars); i++ {
		char := lineChars[i]
		prev := lineChars[i-1]

		gap := char.X0 - prev.X1
		split := gap > config.XTolerance
		if config.SplitOnFont && (char.Font != prev.Font || char.FontSize != prev.FontSize) {
			split = true
		}

		if split {
			words = append(words, createWord(currentWord))
			currentWord = []CharObject{char}
		} else {
			currentWord = append(currentWord, char)
		}
	}
	words = append(words, createWord(currentWord))

	return words
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	minX, minY := chars[0].X0, chars[0].Y0
	maxX, maxY := chars[0].X1, chars[0].Y1

	for _, char := range chars {
		text.WriteString(char.Text)
		minX = math.Min(minX, char.X0)
		minY = math.Min(minY, char.Y0)
		maxX = math.Max(maxX, char.X1)
		maxY = math.Max(maxY, char.Y1)
	}

	return Word{
		Text:       text.String(),
		X0:         minX,
		Y0:         minY,
		X1:         maxX,
		Y1:         maxY,
		Font:       chars[0].Font,
		FontSize:   chars[0].FontSize,
		Characters: chars,
	}
}
