// Package pdfmarkdown converts PDF documents into layout-aware Markdown:
// headings from font statistics, multi-column reading order, tables as pipe
// tables and images saved next to the report.
package pdfmarkdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdfmarkdown/pkg/imagestore"
	"github.com/pyhub-apps/pdfmarkdown/pkg/markdown"
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// Re-export types from the pdf and markdown packages for the public API
type (
	Document    = pdf.Document
	Page        = pdf.Page
	Table       = pdf.Table
	Word        = pdf.Word
	Objects     = pdf.Objects
	BoundingBox = pdf.BoundingBox
	OpenOption  = pdf.OpenOption
	Config      = markdown.Config
	ImageSink   = markdown.ImageSink
)

// Re-export option functions
var (
	WithPassword  = pdf.WithPassword
	WithImages    = pdf.WithImages
	DefaultConfig = markdown.DefaultConfig
)

// Open opens a PDF file and returns a Document
func Open(filepath string, opts ...OpenOption) (Document, error) {
	return pdf.Open(filepath, opts...)
}

// ConvertOptions configures Convert
type ConvertOptions struct {
	Config Config
	// Images receives extracted images; nil leaves images out
	Images ImageSink
	Logger logrus.FieldLogger
	// OnPage is called after each page with the number of pages done
	OnPage func(done, total int)
}

// Convert renders an open document as a markdown report titled title
func Convert(ctx context.Context, doc Document, title string, opts ConvertOptions) (string, error) {
	c := markdown.NewConverter(opts.Config, opts.Images, opts.Logger)
	c.OnPage = opts.OnPage
	return c.Convert(ctx, doc, title)
}

// FileOptions configures ConvertFile
type FileOptions struct {
	Config Config
	// OutputDir receives the report; empty means the PDF's directory
	OutputDir string
	Password  string
	Logger    logrus.FieldLogger
	OnPage    func(done, total int)
}

// Result describes the files written by ConvertFile
type Result struct {
	Markdown  string // path of the markdown report
	ImagesDir string // directory images are written to
	Pages     int
}

// OutputPaths returns where ConvertFile writes the report and the images
// of the PDF at path
func OutputPaths(path, outputDir string) (string, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(abs)
	}

	stem := Stem(abs)
	return filepath.Join(outputDir, stem+".md"), filepath.Join(outputDir, imagestore.DirName(stem)), nil
}

// Stem returns the file name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ConvertFile converts the PDF at path and writes <stem>.md plus its images
// directory into the output directory. Nothing is written when the document
// cannot be opened.
func ConvertFile(ctx context.Context, path string, opts FileOptions) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	mdPath, imagesDir, err := OutputPaths(path, opts.OutputDir)
	if err != nil {
		return Result{}, err
	}

	doc, err := Open(path, WithPassword(opts.Password))
	if err != nil {
		return Result{}, err
	}
	defer doc.Close()

	if src, ok := doc.(interface{ ImageSourceErr() error }); ok && src.ImageSourceErr() != nil {
		logger.WithField("file", path).WithError(src.ImageSourceErr()).Warn("Image streams unavailable")
	}

	outDir := filepath.Dir(mdPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	store := imagestore.New(outDir, filepath.Base(imagesDir), logger)
	stem := Stem(path)
	out, err := Convert(ctx, doc, stem, ConvertOptions{
		Config: opts.Config,
		Images: store,
		Logger: logger.WithField("file", filepath.Base(path)),
		OnPage: opts.OnPage,
	})
	if err != nil {
		return Result{}, err
	}

	if err := os.WriteFile(mdPath, []byte(out), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write markdown: %w", err)
	}

	return Result{Markdown: mdPath, ImagesDir: store.Dir(), Pages: doc.PageCount()}, nil
}
