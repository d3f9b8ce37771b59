package pdf

import "math"

// BoundingBox represents a rectangular area with coordinates.
// The origin is the top-left corner of the page, Y grows downwards.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Contains checks if a point is within the bounding box (edges included)
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Intersection returns the overlapping area of two boxes. The result is
// degenerate (zero width or height) when they only touch.
func (b BoundingBox) Intersection(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Area returns the area of the bounding box
func (b BoundingBox) Area() float64 {
	return math.Max(0, b.Width()) * math.Max(0, b.Height())
}

// Metadata represents PDF document metadata
type Metadata struct {
	Title     string
	Author    string
	Subject   string
	Creator   string
	Producer  string
	PageCount int
}

// Objects represents a collection of PDF objects
type Objects struct {
	Chars  []CharObject
	Lines  []LineObject
	Rects  []RectObject
	Images []ImageObject
}

// CharObject represents a character in the PDF
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// LineObject represents a painted straight segment in the PDF
type LineObject struct {
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Width float64
}

// GetBBox returns the line's bounding box
func (l LineObject) GetBBox() BoundingBox {
	return BoundingBox{
		X0: math.Min(l.X0, l.X1),
		Y0: math.Min(l.Y0, l.Y1),
		X1: math.Max(l.X0, l.X1),
		Y1: math.Max(l.Y0, l.Y1),
	}
}

// RectObject represents a painted rectangle in the PDF
type RectObject struct {
	X0          float64
	Y0          float64
	X1          float64
	Y1          float64
	Width       float64
	NonStroking bool
}

// GetBBox returns the rectangle's bounding box
func (r RectObject) GetBBox() BoundingBox {
	return BoundingBox{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
}

// ImageObject represents one placement of an image XObject on the page
type ImageObject struct {
	X0        float64
	Y0        float64
	X1        float64
	Y1        float64
	Name      string // resource name, e.g. "Im1"
	SrcWidth  int    // pixel width of the stream, 0 if unknown
	SrcHeight int    // pixel height of the stream, 0 if unknown
	Stream    ImageStream
}

// GetBBox returns the image's bounding box
func (i ImageObject) GetBBox() BoundingBox {
	return BoundingBox{X0: i.X0, Y0: i.Y0, X1: i.X1, Y1: i.Y1}
}

// Width returns the displayed width in page units
func (i ImageObject) Width() float64 {
	return i.X1 - i.X0
}

// Height returns the displayed height in page units
func (i ImageObject) Height() float64 {
	return i.Y1 - i.Y0
}

// Word represents a run of characters on one text line
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Font       string  // font of the first character
	FontSize   float64 // size of the first character
	Characters []CharObject
}

// GetBBox returns the word's bounding box
func (w Word) GetBBox() BoundingBox {
	return BoundingBox{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1}
}

// Table represents an extracted table
type Table struct {
	Rows [][]string
	BBox BoundingBox
	// Cells holds the bounding box of every cell, parallel to Rows.
	// Nil when the detector has no cell geometry.
	Cells [][]BoundingBox
}

// WordExtractionOption is a function that modifies word extraction behavior
type WordExtractionOption func(*wordExtractionConfig)

type wordExtractionConfig struct {
	XTolerance  float64
	YTolerance  float64
	SplitOnFont bool
}

// WithWordXTolerance sets the horizontal gap that starts a new word
func WithWordXTolerance(tolerance float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithWordYTolerance sets the vertical tolerance for grouping characters into lines
func WithWordYTolerance(tolerance float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// WithSplitOnFont starts a new word whenever the font name or size changes
func WithSplitOnFont(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.SplitOnFont = enabled
	}
}

// TableExtractionOption is a function that modifies table extraction behavior
type TableExtractionOption func(*tableExtractionConfig)

type tableExtractionConfig struct {
	SnapTolerance   float64
	TextTolerance   float64
	MinRows         int
	MaxRectCoverage float64
}

// WithSnapTolerance sets the distance under which edges are merged
func WithSnapTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.SnapTolerance = tolerance
	}
}

// WithTextTolerance sets the text tolerance used when reading cell text
func WithTextTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.TextTolerance = tolerance
	}
}

// WithMinTableRows sets the minimum number of rows for a table
func WithMinTableRows(rows int) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.MinRows = rows
	}
}
