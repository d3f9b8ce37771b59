package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// RegionProcessor renders one region of a page
type RegionProcessor interface {
	Extract(ctx context.Context, region pdf.Page, dedup *DedupSet) (string, error)
}

// PageAssembler splits a page into footer and body columns and joins the
// rendered regions
type PageAssembler struct {
	footer  *layout.FooterDetector
	columns *layout.ColumnDetector
	regions RegionProcessor
	logger  logrus.FieldLogger
}

// NewPageAssembler creates an assembler
func NewPageAssembler(footer *layout.FooterDetector, columns *layout.ColumnDetector, regions RegionProcessor, logger logrus.FieldLogger) *PageAssembler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PageAssembler{
		footer:  footer,
		columns: columns,
		regions: regions,
		logger:  logger,
	}
}

// PageLayout describes how a page is cut into regions
type PageLayout struct {
	FooterY  float64
	Dividers []float64
	Columns  []pdf.BoundingBox
	Footer   *pdf.BoundingBox
}

// Layout computes the footer split and the body columns of a page
func (a *PageAssembler) Layout(page pdf.Page) PageLayout {
	bbox := page.GetBBox()
	footerY := a.footer.Detect(page)

	body := page.Crop(pdf.BoundingBox{X0: bbox.X0, Y0: bbox.Y0, X1: bbox.X1, Y1: footerY})
	dividers := a.columns.Dividers(body)

	l := PageLayout{
		FooterY:  footerY,
		Dividers: dividers,
		Columns:  a.columns.SplitAt(dividers, body.GetBBox(), footerY),
	}
	if footerY < bbox.Y1 {
		l.Footer = &pdf.BoundingBox{X0: bbox.X0, Y0: footerY, X1: bbox.X1, Y1: bbox.Y1}
	}
	return l
}

// Assemble renders a page. A column that fails is left out and logged; the
// only error returned is cancellation of ctx.
func (a *PageAssembler) Assemble(ctx context.Context, page pdf.Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l := a.Layout(page)
	dedup := NewDedupSet()
	log := a.logger.WithField("page", page.GetPageNumber())

	var sb strings.Builder
	for i, col := range l.Columns {
		out, err := a.process(ctx, page, col, dedup)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			log.WithField("region", fmt.Sprintf("column %d", i+1)).WithError(err).Warn("Skipping region")
			continue
		}
		sb.WriteString(out)
	}

	if l.Footer != nil {
		out, err := a.process(ctx, page, *l.Footer, dedup)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			log.WithField("region", "footer").WithError(err).Warn("Skipping region")
		} else if out != "" {
			sb.WriteString("\n---\n")
			sb.WriteString(out)
		}
	}

	return sb.String(), nil
}

// process crops and runs one region, converting a panic into an error
func (a *PageAssembler) process(ctx context.Context, page pdf.Page, bbox pdf.BoundingBox, dedup *DedupSet) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("region processing panicked: %v", r)
		}
	}()
	return a.regions.Extract(ctx, page.Crop(bbox), dedup)
}
