package layout

import (
	"math"
	"sort"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// FooterConfig holds configuration for footer detection
type FooterConfig struct {
	// ZoneStart is the fraction of the page height below which words are
	// considered for the footer
	// Default: 0.9
	ZoneStart float64

	// LineTolerance groups zone words into lines
	// Default: 5.0
	LineTolerance float64

	// MinGap is the smallest vertical gap that can separate body from footer
	// Default: 10.0
	MinGap float64
}

// DefaultFooterConfig returns sensible defaults for footer detection
func DefaultFooterConfig() FooterConfig {
	return FooterConfig{
		ZoneStart:     0.9,
		LineTolerance: DefaultLineTolerance,
		MinGap:        10.0,
	}
}

// FooterDetector finds the horizontal split between page body and footer
type FooterDetector struct {
	config FooterConfig
}

// NewFooterDetector creates a detector with default configuration
func NewFooterDetector() *FooterDetector {
	return NewFooterDetectorWithConfig(DefaultFooterConfig())
}

// NewFooterDetectorWithConfig creates a detector with custom configuration
func NewFooterDetectorWithConfig(config FooterConfig) *FooterDetector {
	return &FooterDetector{config: config}
}

// Detect returns the y coordinate separating body from footer on a page.
// It returns the bottom of the page when no footer is found.
func (d *FooterDetector) Detect(page pdf.Page) float64 {
	return d.DetectFromWords(page.ExtractWords(), page.GetBBox())
}

// DetectFromWords finds the footer split among words inside bbox
func (d *FooterDetector) DetectFromWords(words []pdf.Word, bbox pdf.BoundingBox) float64 {
	zoneTop := bbox.Y0 + bbox.Height()*d.config.ZoneStart

	var zone []pdf.Word
	for _, w := range words {
		if w.Y0 > zoneTop {
			zone = append(zone, w)
		}
	}
	sort.SliceStable(zone, func(i, j int) bool {
		return zone[i].Y0 < zone[j].Y0
	})

	lines := d.groupBands(zone)
	if len(lines) < 2 {
		return bbox.Y1
	}

	maxGap := 0.0
	split := bbox.Y1
	for i := 1; i < len(lines); i++ {
		gap := lines[i].top - lines[i-1].bottom
		if gap > maxGap && gap > d.config.MinGap {
			maxGap = gap
			split = lines[i-1].bottom + gap/2
		}
	}

	return split
}

type band struct {
	top    float64
	bottom float64
}

// groupBands groups words sorted by top into line bands
func (d *FooterDetector) groupBands(words []pdf.Word) []band {
	var bands []band
	for _, w := range words {
		if n := len(bands); n > 0 && math.Abs(w.Y0-bands[n-1].top) <= d.config.LineTolerance {
			bands[n-1].bottom = math.Max(bands[n-1].bottom, w.Y1)
			continue
		}
		bands = append(bands, band{top: w.Y0, bottom: w.Y1})
	}
	return bands
}
