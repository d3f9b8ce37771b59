package pdfmarkdown_test

import (
	"context"
	"fmt"
	"log"

	pdfmarkdown "github.com/pyhub-apps/pdfmarkdown"
	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

func ExampleConvertFile() {
	result, err := pdfmarkdown.ConvertFile(context.Background(), "sample.pdf", pdfmarkdown.FileOptions{
		Config: pdfmarkdown.DefaultConfig(),
		OnPage: func(done, total int) {
			fmt.Printf("page %d/%d\n", done, total)
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("saved to", result.Markdown)
}

func ExampleOpen() {
	doc, err := pdfmarkdown.Open("sample.pdf", pdfmarkdown.WithPassword("secret"))
	if err != nil {
		log.Fatal(err)
	}
	defer doc.Close()

	page, err := doc.GetPage(0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Page 1 dimensions: %.2f x %.2f\n", page.GetWidth(), page.GetHeight())

	// Only the top half of the page
	top := page.Crop(pdf.BoundingBox{X0: 0, Y0: 0, X1: page.GetWidth(), Y1: page.GetHeight() / 2})
	fmt.Printf("Words in the top half: %d\n", len(top.ExtractWords()))
	fmt.Printf("Tables: %d\n", len(page.ExtractTables()))
}
