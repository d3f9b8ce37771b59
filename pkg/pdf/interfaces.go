package pdf

import "errors"

// ErrPageOutOfRange is returned by Document.GetPage for an invalid index
var ErrPageOutOfRange = errors.New("page index out of range")

// Document represents a PDF document opened for conversion
type Document interface {
	// GetMetadata returns the PDF metadata
	GetMetadata() Metadata

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page, or a cropped region of one
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the width of the page or crop
	GetWidth() float64

	// GetHeight returns the height of the page or crop
	GetHeight() float64

	// GetBBox returns the area covered, in page coordinates
	GetBBox() BoundingBox

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractWords groups characters into words in reading order
	ExtractWords(opts ...WordExtractionOption) []Word

	// ExtractTables detects ruled tables
	ExtractTables(opts ...TableExtractionOption) []Table

	// Crop returns a new page restricted to the bounding box.
	// Coordinates stay in page space.
	Crop(bbox BoundingBox) Page
}

// ImageStream is a handle on the bytes behind an image placement
type ImageStream interface {
	// ObjectID returns the stream's object number when the source knows it
	ObjectID() (uint64, bool)

	// Data returns the raw image bytes and a file type hint ("png", "jpg", ...)
	Data() ([]byte, string, error)
}
