package layout

import (
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// ColumnConfig holds configuration for column detection
type ColumnConfig struct {
	// MinGapWidth is the minimum width of an empty vertical band, in page
	// units, for it to separate two columns
	// Default: 15.0
	MinGapWidth float64

	// EdgeMargin is the fraction of the region width at each side where a
	// divider is ignored
	// Default: 0.1
	EdgeMargin float64

	// VerticalMargin is the fraction of the region height at the top and the
	// bottom whose words do not take part in the projection
	// Default: 0.1
	VerticalMargin float64

	// MaxDividers is the largest number of dividers accepted; more means the
	// page is not a column layout
	// Default: 5
	MaxDividers int
}

// DefaultColumnConfig returns sensible defaults for column detection
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		MinGapWidth:    15.0,
		EdgeMargin:     0.1,
		VerticalMargin: 0.1,
		MaxDividers:    5,
	}
}

// ColumnDetector splits a region into vertical column strips
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return NewColumnDetectorWithConfig(DefaultColumnConfig())
}

// NewColumnDetectorWithConfig creates a detector with custom configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{config: config}
}

// Dividers returns the x coordinates, in page space, of the empty vertical
// bands that separate columns in the region
func (d *ColumnDetector) Dividers(region pdf.Page) []float64 {
	return d.DividersFromWords(region.ExtractWords(), region.GetBBox())
}

// DividersFromWords runs the occupancy projection over words inside bbox
func (d *ColumnDetector) DividersFromWords(words []pdf.Word, bbox pdf.BoundingBox) []float64 {
	if len(words) == 0 {
		return nil
	}

	width := bbox.Width()
	widthInt := int(width)
	if widthInt <= 0 {
		return nil
	}

	minY := bbox.Y0 + bbox.Height()*d.config.VerticalMargin
	maxY := bbox.Y1 - bbox.Height()*d.config.VerticalMargin

	occupied := make([]bool, widthInt+1)
	for _, w := range words {
		cy := (w.Y0 + w.Y1) / 2
		if cy < minY || cy > maxY {
			continue
		}
		x0 := max(0, int(w.X0-bbox.X0))
		x1 := min(widthInt, int(w.X1-bbox.X0))
		for x := x0; x < x1; x++ {
			occupied[x] = true
		}
	}

	var dividers []float64
	gapStart := -1
	for x := 0; x < widthInt; x++ {
		if !occupied[x] {
			if gapStart == -1 {
				gapStart = x
			}
			continue
		}
		if gapStart != -1 {
			gapWidth := float64(x - gapStart)
			if gapWidth >= d.config.MinGapWidth {
				center := float64(gapStart) + gapWidth/2
				if center > width*d.config.EdgeMargin && center < width*(1-d.config.EdgeMargin) {
					dividers = append(dividers, bbox.X0+center)
				}
			}
			gapStart = -1
		}
	}

	return dividers
}

// Split returns the column strips of the region, left to right, each
// running from the region top down to bottom. A region with no divider or
// with more than MaxDividers dividers is a single strip.
func (d *ColumnDetector) Split(region pdf.Page, bottom float64) []pdf.BoundingBox {
	return d.SplitAt(d.Dividers(region), region.GetBBox(), bottom)
}

// SplitAt builds strips from already detected dividers
func (d *ColumnDetector) SplitAt(dividers []float64, bbox pdf.BoundingBox, bottom float64) []pdf.BoundingBox {
	if len(dividers) == 0 || len(dividers) > d.config.MaxDividers {
		return []pdf.BoundingBox{{X0: bbox.X0, Y0: bbox.Y0, X1: bbox.X1, Y1: bottom}}
	}

	bounds := make([]float64, 0, len(dividers)+2)
	bounds = append(bounds, bbox.X0)
	bounds = append(bounds, dividers...)
	bounds = append(bounds, bbox.X1)

	strips := make([]pdf.BoundingBox, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		strips = append(strips, pdf.BoundingBox{X0: bounds[i], Y0: bbox.Y0, X1: bounds[i+1], Y1: bottom})
	}
	return strips
}
