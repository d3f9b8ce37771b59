// Package layout provides the geometric and typographic analysis used to turn
// page primitives into structure: font statistics, heading levels, line
// grouping, footer separation and column detection.
package layout

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// FontStats holds the document's body size and the heading thresholds.
// It is computed once per document and read-only afterwards.
type FontStats struct {
	BodySize    float64
	H1Threshold float64
	H2Threshold float64
}

// FallbackFontStats is used when the sampled pages have no characters.
// The thresholds are absolute sizes, not multipliers.
var FallbackFontStats = FontStats{BodySize: 10, H1Threshold: 20, H2Threshold: 14}

// FontConfig holds configuration for font distribution analysis
type FontConfig struct {
	// SamplePages is the number of leading pages whose characters are sampled
	// Default: 15
	SamplePages int
}

// DefaultFontConfig returns the default font analysis configuration
func DefaultFontConfig() FontConfig {
	return FontConfig{SamplePages: 15}
}

// FontAnalyzer derives FontStats from a document prefix
type FontAnalyzer struct {
	config FontConfig
	logger logrus.FieldLogger
}

// NewFontAnalyzer creates an analyzer with the given configuration
func NewFontAnalyzer(config FontConfig, logger logrus.FieldLogger) *FontAnalyzer {
	if config.SamplePages <= 0 {
		config.SamplePages = DefaultFontConfig().SamplePages
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FontAnalyzer{config: config, logger: logger}
}

// AnalyzeDocument samples the first pages of doc. Pages that cannot be
// decoded are skipped.
func (a *FontAnalyzer) AnalyzeDocument(doc pdf.Document) FontStats {
	n := min(a.config.SamplePages, doc.PageCount())

	var chars []pdf.CharObject
	for i := 0; i < n; i++ {
		page, err := doc.GetPage(i)
		if err != nil {
			a.logger.WithField("page", i+1).WithError(err).Warn("Skipping page in font sampling")
			continue
		}
		chars = append(chars, page.GetObjects().Chars...)
	}

	stats := AnalyzeFontDistribution(chars)
	a.logger.WithFields(logrus.Fields{
		"body": stats.BodySize,
		"h1":   stats.H1Threshold,
		"h2":   stats.H2Threshold,
	}).Debug("Font distribution analyzed")

	return stats
}

// AnalyzeFontDistribution computes FontStats from character sizes.
//
// Sizes are rounded to one decimal and the most frequent one is the body
// size; ties go to the size seen first. Sizes more than 5% above the body
// are heading candidates and move the thresholds:
//
//   - none: h1 = 1.5 body, h2 = 1.15 body
//   - largest above 1.8 body: h1 = 0.9 max, h2 = max(0.6 max, 1.2 body)
//   - otherwise: h1 = 1.2 body, h2 = 1.1 body
func AnalyzeFontDistribution(chars []pdf.CharObject) FontStats {
	if len(chars) == 0 {
		return FallbackFontStats
	}

	counts := make(map[float64]int)
	var order []float64
	for _, c := range chars {
		size := RoundSize(c.FontSize)
		if _, seen := counts[size]; !seen {
			order = append(order, size)
		}
		counts[size]++
	}

	body := order[0]
	for _, size := range order[1:] {
		if counts[size] > counts[body] {
			body = size
		}
	}

	maxCandidate := 0.0
	for _, size := range order {
		if size > body*1.05 {
			maxCandidate = math.Max(maxCandidate, size)
		}
	}

	stats := FontStats{
		BodySize:    body,
		H1Threshold: body * 1.5,
		H2Threshold: body * 1.15,
	}
	switch {
	case maxCandidate == 0:
	case maxCandidate > body*1.8:
		stats.H1Threshold = maxCandidate * 0.9
		stats.H2Threshold = math.Max(maxCandidate*0.6, body*1.2)
	default:
		stats.H1Threshold = body * 1.2
		stats.H2Threshold = body * 1.1
	}

	return stats
}

// RoundSize rounds a font size to one decimal
func RoundSize(size float64) float64 {
	return math.Round(size*10) / 10
}
