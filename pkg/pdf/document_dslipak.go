package pdf

import (
	"fmt"

	gopdf "github.com/dslipak/pdf"
)

// DsliPakDocument implements the Document interface using the dslipak/pdf
// library. It only provides text; it is the fallback for files the primary
// reader rejects.
type DsliPakDocument struct {
	reader   *gopdf.Reader
	filepath string
	metadata Metadata
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(filepath string) (doc *DsliPakDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("failed to open PDF with dslipak: %v", r)
		}
	}()

	r, err := gopdf.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	return &DsliPakDocument{
		reader:   r,
		filepath: filepath,
		metadata: Metadata{PageCount: r.NumPage()},
	}, nil
}

// GetMetadata returns the PDF metadata
func (d *DsliPakDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPage decodes a specific page by index (0-based)
func (d *DsliPakDocument) GetPage(index int) (page Page, err error) {
	if index < 0 || index >= d.reader.NumPage() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPageOutOfRange, index, d.reader.NumPage())
	}

	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("failed to decode page %d: %v", index+1, r)
		}
	}()

	p := d.reader.Page(index + 1)
	box := dslipakPageBox(p.V)
	height := box.Height()
	toPage := func(x, y float64) (float64, float64) {
		return x - box.X0, height - (y - box.Y0)
	}

	content := p.Content()
	runs := make([]textRun, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, textRun{Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W, S: t.S})
	}

	objects := Objects{Chars: textToChars(runs, toPage)}
	return NewMemoryPage(index+1, box.Width(), height, objects), nil
}

// PageCount returns the total number of pages
func (d *DsliPakDocument) PageCount() int {
	return d.reader.NumPage()
}

// Close releases resources associated with the document
func (d *DsliPakDocument) Close() error {
	d.reader = nil
	return nil
}

func dslipakPageBox(v gopdf.Value) BoundingBox {
	for i := 0; i < 32 && !v.IsNull(); i++ {
		mediaBox := v.Key("MediaBox")
		if mediaBox.Kind() == gopdf.Array && mediaBox.Len() == 4 {
			x0, y0 := mediaBox.Index(0).Float64(), mediaBox.Index(1).Float64()
			x1, y1 := mediaBox.Index(2).Float64(), mediaBox.Index(3).Float64()
			if x1 > x0 && y1 > y0 {
				return BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
			}
		}
		v = v.Key("Parent")
	}
	return BoundingBox{X0: 0, Y0: 0, X1: 612, Y1: 792}
}
