package pdf

import (
	"fmt"
	"io"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucDocument implements the Document interface using ledongthuc/pdf library.
// Pages are decoded on demand by GetPage.
type LedongthucDocument struct {
	file     io.Closer
	reader   *lpdf.Reader
	filepath string
	metadata Metadata

	images    *pdfcpuImages
	imagesErr error
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (*LedongthucDocument, error) {
	f, r, err := openLedongthuc(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	doc := &LedongthucDocument{
		file:     f,
		reader:   r,
		filepath: filepath,
	}
	doc.extractMetadata()

	return doc, nil
}

// openLedongthuc guards against panics in the xref parser
func openLedongthuc(filepath string) (f io.Closer, r *lpdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	file, reader, err := lpdf.Open(filepath)
	if err != nil {
		return nil, nil, err
	}
	return file, reader, nil
}

// extractMetadata reads the document information dictionary
func (d *LedongthucDocument) extractMetadata() {
	d.metadata = Metadata{PageCount: d.reader.NumPage()}

	info := d.reader.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	d.metadata.Title = info.Key("Title").Text()
	d.metadata.Author = info.Key("Author").Text()
	d.metadata.Subject = info.Key("Subject").Text()
	d.metadata.Creator = info.Key("Creator").Text()
	d.metadata.Producer = info.Key("Producer").Text()
}

// GetMetadata returns the PDF metadata
func (d *LedongthucDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPage decodes a specific page by index (0-based)
func (d *LedongthucDocument) GetPage(index int) (page Page, err error) {
	if index < 0 || index >= d.reader.NumPage() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPageOutOfRange, index, d.reader.NumPage())
	}

	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("failed to decode page %d: %v", index+1, r)
		}
	}()

	return d.buildPage(index + 1)
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	return d.reader.NumPage()
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// buildPage converts one ledongthuc page into a MemoryPage
func (d *LedongthucDocument) buildPage(pageNumber int) (Page, error) {
	page := d.reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", pageNumber)
	}

	box := pageBox(page.V)
	width, height := box.Width(), box.Height()
	toPage := func(x, y float64) (float64, float64) {
		return x - box.X0, height - (y - box.Y0)
	}

	var objects Objects
	content := page.Content()
	runs := make([]textRun, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, textRun{Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W, S: t.S})
	}
	objects.Chars = textToChars(runs, toPage)

	var streamFor func(string) ImageStream
	if d.images != nil {
		streamFor = d.images.streamFor(pageNumber)
	}
	walker := newGraphicsWalker(page.Resources(), toPage, streamFor)
	// A broken graphics stream leaves the text usable
	_ = walker.walk(page.V.Key("Contents"))
	objects.Lines = walker.objects.Lines
	objects.Rects = walker.objects.Rects
	objects.Images = walker.objects.Images

	return NewMemoryPage(pageNumber, width, height, objects), nil
}

// pageBox returns the MediaBox, following inheritance through the page tree.
// US Letter is assumed when none is found.
func pageBox(v lpdf.Value) BoundingBox {
	for i := 0; i < 32 && !v.IsNull(); i++ {
		mediaBox := v.Key("MediaBox")
		if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
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

// textRun is a positioned text item as reported by the text backends.
// X and Y are the baseline origin in PDF user space.
type textRun struct {
	Font     string
	FontSize float64
	X, Y     float64
	W        float64
	S        string
}

// textToChars converts positioned text runs into characters. The baseline is
// taken at 80% of the font height; the run width is shared evenly between
// its runes and spaces only advance the pen.
func textToChars(runs []textRun, toPage func(x, y float64) (float64, float64)) []CharObject {
	var chars []CharObject

	for _, text := range runs {
		runes := []rune(text.S)
		if len(runes) == 0 {
			continue
		}

		fontSize := text.FontSize
		charWidth := text.W / float64(len(runes))
		x, top := toPage(text.X, text.Y+fontSize*0.8)

		for _, ch := range runes {
			if ch != ' ' && ch != '\n' && ch != '\r' && ch != '\t' {
				chars = append(chars, CharObject{
					Text:     string(ch),
					Font:     text.Font,
					FontSize: fontSize,
					X0:       x,
					Y0:       top,
					X1:       x + charWidth,
					Y1:       top + fontSize,
					Width:    charWidth,
					Height:   fontSize,
				})
			}
			x += charWidth
		}
	}

	return chars
}
