package markdown

import (
	"fmt"
	"strings"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// ImageSink persists image bytes and hands out markdown paths for them
type ImageSink interface {
	// Exists reports whether a file with this name was already written
	Exists(name string) bool

	// Save writes the image under name. hint is the source file type.
	Save(name string, data []byte, hint string) error

	// Ref returns the percent-encoded relative path used in markdown
	Ref(name string) string
}

// ImageFilterConfig holds configuration for discarding decorative images
type ImageFilterConfig struct {
	// MinWidth is the smallest displayed width kept, in page units
	// Default: 151
	MinWidth float64

	// MinHeight is the smallest displayed height kept, in page units
	// Default: 151
	MinHeight float64

	// JunkKeywords mark an image as decorative when found in its name.
	// Matching is case-insensitive.
	// Default: icon, logo, bullet, arrow, shape, watermark, deco, symbol, btn
	JunkKeywords []string
}

// DefaultImageFilterConfig returns sensible defaults for image filtering
func DefaultImageFilterConfig() ImageFilterConfig {
	return ImageFilterConfig{
		MinWidth:  151,
		MinHeight: 151,
		JunkKeywords: []string{
			"icon", "logo", "bullet", "arrow", "shape", "watermark", "deco", "symbol", "btn",
		},
	}
}

// IsJunk reports whether an image is too small or decorative to keep
func (c ImageFilterConfig) IsJunk(img pdf.ImageObject) bool {
	if img.Width() < c.MinWidth || img.Height() < c.MinHeight {
		return true
	}

	name := strings.ToLower(img.Name)
	for _, kw := range c.JunkKeywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ImageFileName returns the file name of an image placement on a page
func ImageFileName(pageNumber int, img pdf.ImageObject) string {
	return fmt.Sprintf("p%03d_%d_%d.png", pageNumber, int(img.X0), int(img.Y0))
}

// ImageMarkdown returns the markdown block referencing a stored image
func ImageMarkdown(ref string) string {
	return "\n![Image](" + ref + ")\n"
}
