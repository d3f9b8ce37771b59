package markdown

import (
	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
)

// BlockKind is the type of content a block carries
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockTable
	BlockImage
)

// String returns a string representation of the block kind
func (k BlockKind) String() string {
	switch k {
	case BlockTable:
		return "table"
	case BlockImage:
		return "image"
	default:
		return "text"
	}
}

// Block is one positioned piece of region output
type Block struct {
	Kind     BlockKind
	Top      float64
	Level    layout.Level // text blocks only
	Markdown string

	// TableIndex points into the region's tables for table blocks
	TableIndex int
}

// PlacedImage is an image that has been persisted and can be referenced
type PlacedImage struct {
	CenterX  float64
	CenterY  float64
	Top      float64
	Markdown string // "\n![Image](dir/file)\n"
}
