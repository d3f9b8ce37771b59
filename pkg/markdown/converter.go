// Package markdown renders PDF pages as Markdown. Each page is cut into a
// footer and body columns, every region is turned into tables, images and
// classified text, and the pages are joined into one report.
package markdown

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// Config holds configuration for document conversion
type Config struct {
	Font       layout.FontConfig
	Heading    layout.HeadingConfig
	Footer     layout.FooterConfig
	Columns    layout.ColumnConfig
	Images     ImageFilterConfig
	Extraction ExtractionConfig

	// LineTolerance groups region words into text lines
	// Default: 5.0
	LineTolerance float64

	// Workers is the number of pages converted concurrently
	// Default: 1
	Workers int
}

// DefaultConfig returns sensible defaults for document conversion
func DefaultConfig() Config {
	return Config{
		Font:          layout.DefaultFontConfig(),
		Heading:       layout.DefaultHeadingConfig(),
		Footer:        layout.DefaultFooterConfig(),
		Columns:       layout.DefaultColumnConfig(),
		Images:        DefaultImageFilterConfig(),
		Extraction:    DefaultExtractionConfig(),
		LineTolerance: layout.DefaultLineTolerance,
		Workers:       1,
	}
}

// Converter turns a whole document into a markdown report
type Converter struct {
	config Config
	sink   ImageSink
	logger logrus.FieldLogger

	// OnPage, when set, is called after each page with the number of pages
	// finished so far
	OnPage func(done, total int)
}

// NewConverter creates a converter. A nil sink skips images.
func NewConverter(config Config, sink ImageSink, logger logrus.FieldLogger) *Converter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Converter{config: config, sink: sink, logger: logger}
}

// Header returns the report preamble for a document title
func Header(title string) string {
	return "# " + title + " Analysis Report\n> PDF Extractor (Core Edition)\n\n"
}

// Convert renders every page of doc. A page that cannot be loaded gets an
// empty body; only cancellation of ctx makes Convert fail.
func (c *Converter) Convert(ctx context.Context, doc pdf.Document, title string) (string, error) {
	stats := layout.NewFontAnalyzer(c.config.Font, c.logger).AnalyzeDocument(doc)
	assembler := c.newAssembler(stats)

	total := doc.PageCount()
	bodies := make([]string, total)
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			body, err := c.convertPage(gctx, doc, assembler, i)
			if err != nil {
				return err
			}
			bodies[i] = body
			if c.OnPage != nil {
				c.OnPage(int(done.Add(1)), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}

	pages := make([]string, total)
	for i, body := range bodies {
		pages[i] = fmt.Sprintf("## Page %d\n", i+1) + body
	}

	return Header(title) + strings.Join(pages, "\n"), nil
}

func (c *Converter) newAssembler(stats layout.FontStats) *PageAssembler {
	classifier := layout.NewHeadingClassifierWithConfig(stats, c.config.Heading)
	regions := NewRegionExtractor(classifier, c.sink, c.config, c.logger)
	return NewPageAssembler(
		layout.NewFooterDetectorWithConfig(c.config.Footer),
		layout.NewColumnDetectorWithConfig(c.config.Columns),
		regions,
		c.logger,
	)
}

// pageReleaser is implemented by documents that cache per-page data
type pageReleaser interface {
	ReleasePage(pageNumber int)
}

func (c *Converter) convertPage(ctx context.Context, doc pdf.Document, assembler *PageAssembler, index int) (string, error) {
	if r, ok := doc.(pageReleaser); ok {
		defer r.ReleasePage(index + 1)
	}

	page, err := doc.GetPage(index)
	if err != nil {
		c.logger.WithField("page", index+1).WithError(err).Warn("Failed to load page")
		return "", nil
	}
	return assembler.Assemble(ctx, page)
}
