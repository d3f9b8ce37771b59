package layout

import (
	"strings"
)

// Level is the markdown heading level of a text line
type Level int

const (
	LevelBody Level = iota
	LevelH2
	LevelH1
)

// String returns a string representation of the level
func (l Level) String() string {
	switch l {
	case LevelH1:
		return "h1"
	case LevelH2:
		return "h2"
	default:
		return "body"
	}
}

// Prefix returns the markdown marker written before a line of this level
func (l Level) Prefix() string {
	switch l {
	case LevelH1:
		return "# "
	case LevelH2:
		return "## "
	default:
		return ""
	}
}

// IsHeading reports whether the level is H1 or H2
func (l Level) IsHeading() bool {
	return l != LevelBody
}

// HeadingConfig holds configuration for heading classification
type HeadingConfig struct {
	// BoldMarkers are substrings of a font name that mark it as bold.
	// Matching is case-insensitive.
	// Default: ["bold", "heavy"]
	BoldMarkers []string

	// ParagraphGapFactor is the gap above a line, relative to its mean size,
	// beyond which the line starts a new paragraph
	// Default: 1.5
	ParagraphGapFactor float64

	// BoldSizeFactor is the minimum size relative to the body size for a
	// bold line to be promoted to H2
	// Default: 1.01
	BoldSizeFactor float64

	// SectionRules writes a horizontal rule before a heading that follows a
	// paragraph gap
	// Default: false
	SectionRules bool
}

// DefaultHeadingConfig returns sensible defaults for heading classification
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		BoldMarkers:        []string{"bold", "heavy"},
		ParagraphGapFactor: 1.5,
		BoldSizeFactor:     1.01,
	}
}

// Classification is the outcome of classifying one line
type Classification struct {
	Level    Level
	MeanSize float64
	Bold     bool
	Spaced   bool // a previous line exists and the gap exceeds the paragraph gap
}

// HeadingClassifier assigns heading levels to lines using document font statistics
type HeadingClassifier struct {
	stats  FontStats
	config HeadingConfig
}

// NewHeadingClassifier creates a classifier with default configuration
func NewHeadingClassifier(stats FontStats) *HeadingClassifier {
	return NewHeadingClassifierWithConfig(stats, DefaultHeadingConfig())
}

// NewHeadingClassifierWithConfig creates a classifier with custom configuration
func NewHeadingClassifierWithConfig(stats FontStats, config HeadingConfig) *HeadingClassifier {
	return &HeadingClassifier{stats: stats, config: config}
}

// Stats returns the font statistics the classifier was built with
func (c *HeadingClassifier) Stats() FontStats {
	return c.stats
}

// Config returns the classifier configuration
func (c *HeadingClassifier) Config() HeadingConfig {
	return c.config
}

// Classify determines the level of a line. gap is the distance from the
// previous line's bottom to this line's top and is ignored when hasPrev is
// false.
func (c *HeadingClassifier) Classify(line Line, gap float64, hasPrev bool) Classification {
	result := Classification{
		MeanSize: line.MeanSize(),
		Bold:     c.isBoldLine(line),
	}
	result.Spaced = hasPrev && gap > result.MeanSize*c.config.ParagraphGapFactor

	switch {
	case len(line.Words) == 0:
		result.Level = LevelBody
	case result.MeanSize >= c.stats.H1Threshold:
		result.Level = LevelH1
	case result.MeanSize >= c.stats.H2Threshold:
		result.Level = LevelH2
	case result.MeanSize > c.stats.BodySize*c.config.BoldSizeFactor && result.Bold:
		result.Level = LevelH2
	default:
		result.Level = LevelBody
	}

	return result
}

// Render formats a classified line as markdown. text must be non-empty.
func (c *HeadingClassifier) Render(text string, cls Classification, hasPrev bool) string {
	var sb strings.Builder

	if cls.Level.IsHeading() {
		if cls.Spaced && c.config.SectionRules {
			sb.WriteString("\n---\n")
		}
		if hasPrev {
			sb.WriteString("\n\n")
		}
	} else if cls.Spaced {
		sb.WriteString("\n")
	}

	sb.WriteString(cls.Level.Prefix())
	sb.WriteString(text)
	sb.WriteString("\n")

	return sb.String()
}

// IsBold reports whether a font name carries one of the bold markers
func (c *HeadingClassifier) IsBold(font string) bool {
	fontLower := strings.ToLower(font)
	for _, marker := range c.config.BoldMarkers {
		if marker != "" && strings.Contains(fontLower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// isBoldLine reports whether any word of the line uses a bold font
func (c *HeadingClassifier) isBoldLine(line Line) bool {
	for _, w := range line.Words {
		if c.IsBold(w.Font) {
			return true
		}
	}
	return false
}
