package pdf

import (
	"errors"
	"fmt"
)

// OpenOption is a function that modifies how a document is opened
type OpenOption func(*openConfig)

type openConfig struct {
	password string
	images   bool
}

// WithPassword sets the password used to decrypt image streams
func WithPassword(password string) OpenOption {
	return func(c *openConfig) {
		c.password = password
	}
}

// WithImages enables or disables loading image streams through pdfcpu
func WithImages(enabled bool) OpenOption {
	return func(c *openConfig) {
		c.images = enabled
	}
}

// Open opens a PDF file and returns a Document.
//
// Text and graphics come from ledongthuc/pdf, with dslipak/pdf as a text-only
// fallback when the file cannot be read otherwise. Image bytes and object
// numbers come from pdfcpu.
func Open(filepath string, opts ...OpenOption) (Document, error) {
	config := &openConfig{images: true}
	for _, opt := range opts {
		opt(config)
	}

	doc, err := OpenWithLedongthuc(filepath)
	if err == nil {
		if config.images {
			images, imgErr := openPdfcpuImages(filepath, config.password)
			if imgErr != nil {
				doc.imagesErr = imgErr
			} else {
				doc.images = images
			}
		}
		return doc, nil
	}

	fallback, fallbackErr := OpenWithDslipak(filepath)
	if fallbackErr == nil {
		return fallback, nil
	}

	return nil, fmt.Errorf("failed to open PDF: %w", errors.Join(err, fallbackErr))
}

// ImageSourceErr returns why image streams are unavailable, or nil
func (d *LedongthucDocument) ImageSourceErr() error {
	return d.imagesErr
}

// ReleasePage drops what the document cached for a page (1-based) once the
// caller is done with it
func (d *LedongthucDocument) ReleasePage(pageNumber int) {
	if d.images != nil {
		d.images.release(pageNumber)
	}
}
