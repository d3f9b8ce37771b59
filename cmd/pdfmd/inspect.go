package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	pdfmarkdown "github.com/pyhub-apps/pdfmarkdown"
	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
	"github.com/pyhub-apps/pdfmarkdown/pkg/markdown"
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Show the layout analysis of a PDF",
	Long: `Inspect prints the font statistics of the document and, per page, the
footer split, the column dividers and the tables and images found. It does
not write any file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageNumber, _ := cmd.Flags().GetInt("page")

		doc, err := pdfmarkdown.Open(args[0], pdfmarkdown.WithPassword(password))
		if err != nil {
			return err
		}
		defer doc.Close()

		conv := cfg.Markdown()
		out := cmd.OutOrStdout()

		stats := layout.NewFontAnalyzer(conv.Font, logger).AnalyzeDocument(doc)
		fmt.Fprintf(out, "Document has %d pages\n", doc.PageCount())
		printMetadata(out, doc.GetMetadata())
		fmt.Fprintf(out, "Font sizes: body=%.1f h1>=%.2f h2>=%.2f\n\n", stats.BodySize, stats.H1Threshold, stats.H2Threshold)

		assembler := markdown.NewPageAssembler(
			layout.NewFooterDetectorWithConfig(conv.Footer),
			layout.NewColumnDetectorWithConfig(conv.Columns),
			nil,
			logger,
		)

		for i := 0; i < doc.PageCount(); i++ {
			if pageNumber > 0 && i+1 != pageNumber {
				continue
			}
			page, err := doc.GetPage(i)
			if err != nil {
				logger.WithField("page", i+1).WithError(err).Warn("Failed to load page")
				continue
			}
			printPageLayout(out, page, assembler.Layout(page), conv.Images)
		}
		return nil
	},
}

func printMetadata(out io.Writer, meta pdf.Metadata) {
	for _, field := range []struct{ name, value string }{
		{"Title", meta.Title},
		{"Author", meta.Author},
		{"Subject", meta.Subject},
		{"Creator", meta.Creator},
		{"Producer", meta.Producer},
	} {
		if field.value != "" {
			fmt.Fprintf(out, "%s: %s\n", field.name, field.value)
		}
	}
}

func printPageLayout(out io.Writer, page pdf.Page, l markdown.PageLayout, filter markdown.ImageFilterConfig) {
	objects := page.GetObjects()

	fmt.Fprintf(out, "=== Page %d ===\n", page.GetPageNumber())
	fmt.Fprintf(out, "Size: %.2f x %.2f\n", page.GetWidth(), page.GetHeight())
	fmt.Fprintf(out, "Objects: %d chars, %d lines, %d rects, %d images\n",
		len(objects.Chars), len(objects.Lines), len(objects.Rects), len(objects.Images))

	if l.Footer != nil {
		fmt.Fprintf(out, "Footer: below y=%.2f\n", l.FooterY)
	} else {
		fmt.Fprintln(out, "Footer: none")
	}

	fmt.Fprintf(out, "Dividers: %d", len(l.Dividers))
	for _, d := range l.Dividers {
		fmt.Fprintf(out, " %.2f", d)
	}
	fmt.Fprintln(out)
	for i, col := range l.Columns {
		fmt.Fprintf(out, "  Column %d: x %.2f to %.2f\n", i+1, col.X0, col.X1)
	}

	tables := page.ExtractTables()
	meaningful := 0
	for _, t := range tables {
		if markdown.IsMeaningful(t.Rows) {
			meaningful++
		}
	}
	fmt.Fprintf(out, "Tables: %d found, %d with content\n", len(tables), meaningful)

	kept := 0
	for _, img := range objects.Images {
		if !filter.IsJunk(img) {
			kept++
		}
	}
	fmt.Fprintf(out, "Images: %d placed, %d kept\n\n", len(objects.Images), kept)
}

func init() {
	inspectCmd.Flags().Int("page", 0, "only inspect this page (1-based)")
	inspectCmd.Flags().StringVar(&password, "password", "", "password for encrypted PDFs")

	rootCmd.AddCommand(inspectCmd)
}
