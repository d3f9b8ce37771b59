package markdown

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

var errNoImageStream = errors.New("image has no stream")

// ExtractionConfig tunes how words and ruled tables are read from a region
type ExtractionConfig struct {
	// WordXTolerance is the horizontal gap that starts a new word
	// Default: 3.0
	WordXTolerance float64

	// WordYTolerance groups characters into one text line
	// Default: 3.0
	WordYTolerance float64

	// TableSnapTolerance merges table edges closer than this
	// Default: 3.0
	TableSnapTolerance float64

	// TableTextTolerance separates words and lines inside a cell
	// Default: 3.0
	TableTextTolerance float64

	// TableMinRows drops grids with fewer rows
	// Default: 1
	TableMinRows int
}

// DefaultExtractionConfig returns the word and table extraction defaults
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		WordXTolerance:     3.0,
		WordYTolerance:     3.0,
		TableSnapTolerance: 3.0,
		TableTextTolerance: 3.0,
		TableMinRows:       1,
	}
}

// WordOptions returns the word extraction options, skipping unset values
func (c ExtractionConfig) WordOptions() []pdf.WordExtractionOption {
	var opts []pdf.WordExtractionOption
	if c.WordXTolerance > 0 {
		opts = append(opts, pdf.WithWordXTolerance(c.WordXTolerance))
	}
	if c.WordYTolerance > 0 {
		opts = append(opts, pdf.WithWordYTolerance(c.WordYTolerance))
	}
	return opts
}

// TableOptions returns the table extraction options, skipping unset values
func (c ExtractionConfig) TableOptions() []pdf.TableExtractionOption {
	var opts []pdf.TableExtractionOption
	if c.TableSnapTolerance > 0 {
		opts = append(opts, pdf.WithSnapTolerance(c.TableSnapTolerance))
	}
	if c.TableTextTolerance > 0 {
		opts = append(opts, pdf.WithTextTolerance(c.TableTextTolerance))
	}
	if c.TableMinRows > 0 {
		opts = append(opts, pdf.WithMinTableRows(c.TableMinRows))
	}
	return opts
}

// RegionExtractor turns one page region into markdown: tables, images and
// structured text in vertical order
type RegionExtractor struct {
	classifier    *layout.HeadingClassifier
	sink          ImageSink
	images        ImageFilterConfig
	lineTolerance float64
	wordOpts      []pdf.WordExtractionOption
	tableOpts     []pdf.TableExtractionOption
	logger        logrus.FieldLogger
}

// NewRegionExtractor creates an extractor. A nil sink disables images.
func NewRegionExtractor(classifier *layout.HeadingClassifier, sink ImageSink, config Config, logger logrus.FieldLogger) *RegionExtractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	tolerance := config.LineTolerance
	if tolerance <= 0 {
		tolerance = layout.DefaultLineTolerance
	}
	return &RegionExtractor{
		classifier:    classifier,
		sink:          sink,
		images:        config.Images,
		lineTolerance: tolerance,
		wordOpts:      config.Extraction.WordOptions(),
		tableOpts:     config.Extraction.TableOptions(),
		logger:        logger,
	}
}

// Extract renders a region. Images are claimed in dedup so that a page
// split into several regions emits each image once.
func (e *RegionExtractor) Extract(ctx context.Context, region pdf.Page, dedup *DedupSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tables := e.tables(region)
	images := e.placeImages(region, dedup)
	lines := layout.GroupLines(e.wordsOutside(region, tables), e.lineTolerance)

	blocks := Reconcile(tables, images, lines, e.classifier)
	return Render(blocks, tables), nil
}

func (e *RegionExtractor) tables(region pdf.Page) []*TableRegion {
	var tables []*TableRegion
	for _, t := range region.ExtractTables(e.tableOpts...) {
		if !IsMeaningful(t.Rows) {
			continue
		}
		tables = append(tables, NewTableRegion(len(tables), t))
	}
	return tables
}

// placeImages filters, claims and persists the region's images
func (e *RegionExtractor) placeImages(region pdf.Page, dedup *DedupSet) []PlacedImage {
	if e.sink == nil {
		return nil
	}

	var placed []PlacedImage
	for _, img := range region.GetObjects().Images {
		if e.images.IsJunk(img) {
			continue
		}
		if !dedup.Claim(IdentityOf(img)) {
			continue
		}

		name := ImageFileName(region.GetPageNumber(), img)
		if err := e.persist(name, img); err != nil {
			e.logger.WithFields(logrus.Fields{
				"page": region.GetPageNumber(),
				"file": name,
			}).WithError(err).Warn("Failed to save image")
			continue
		}

		cx, cy := img.GetBBox().Center()
		placed = append(placed, PlacedImage{
			CenterX:  cx,
			CenterY:  cy,
			Top:      img.Y0,
			Markdown: ImageMarkdown(e.sink.Ref(name)),
		})
	}
	return placed
}

func (e *RegionExtractor) persist(name string, img pdf.ImageObject) error {
	if e.sink.Exists(name) {
		return nil
	}
	if img.Stream == nil {
		return errNoImageStream
	}

	data, hint, err := img.Stream.Data()
	if err != nil {
		return err
	}
	return e.sink.Save(name, data, hint)
}

// wordsOutside returns the region's words whose center is not inside a table
func (e *RegionExtractor) wordsOutside(region pdf.Page, tables []*TableRegion) []pdf.Word {
	words := region.ExtractWords(e.wordOpts...)
	if len(tables) == 0 {
		return words
	}

	kept := words[:0:0]
	for _, w := range words {
		cx, cy := w.GetBBox().Center()
		if firstTableAt(tables, cx, cy) == nil {
			kept = append(kept, w)
		}
	}
	return kept
}
