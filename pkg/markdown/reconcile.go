package markdown

import (
	"sort"
	"strings"

	"github.com/pyhub-apps/pdfmarkdown/pkg/layout"
)

// Reconcile merges the tables, images and text lines of one region into
// blocks ordered by top. Images inside a table are attached to it and do
// not produce blocks of their own.
//
// On equal tops tables come first, then images, then text, each in input
// order.
func Reconcile(tables []*TableRegion, images []PlacedImage, lines []layout.Line, classifier *layout.HeadingClassifier) []Block {
	blocks := make([]Block, 0, len(tables)+len(images)+len(lines))

	for _, t := range tables {
		blocks = append(blocks, Block{
			Kind:       BlockTable,
			Top:        t.BBox.Y0,
			Markdown:   "\n" + t.Markdown + "\n",
			TableIndex: t.Index,
		})
	}

	for _, img := range images {
		if t := firstTableAt(tables, img.CenterX, img.CenterY); t != nil {
			t.Attach(img.CenterX, img.CenterY, img.Markdown)
			continue
		}
		blocks = append(blocks, Block{Kind: BlockImage, Top: img.Top, Markdown: img.Markdown})
	}

	blocks = append(blocks, textBlocks(lines, classifier)...)

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Top < blocks[j].Top
	})

	return blocks
}

func firstTableAt(tables []*TableRegion, x, y float64) *TableRegion {
	for _, t := range tables {
		if t.Contains(x, y) {
			return t
		}
	}
	return nil
}

// textBlocks classifies lines and renders each non-empty one
func textBlocks(lines []layout.Line, classifier *layout.HeadingClassifier) []Block {
	var blocks []Block

	hasPrev := false
	prevBottom := 0.0
	for _, line := range lines {
		text := line.Text()
		if text == "" {
			continue
		}

		cls := classifier.Classify(line, line.Top-prevBottom, hasPrev)
		blocks = append(blocks, Block{
			Kind:     BlockText,
			Top:      line.Top,
			Level:    cls.Level,
			Markdown: classifier.Render(text, cls, hasPrev),
		})

		hasPrev = true
		prevBottom = line.Bottom
	}

	return blocks
}

// Render concatenates block markdown. A table block is followed by the
// images attached to its table.
func Render(blocks []Block, tables []*TableRegion) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Markdown)
		if b.Kind == BlockTable && b.TableIndex >= 0 && b.TableIndex < len(tables) {
			sb.WriteString(tables[b.TableIndex].RenderImages())
		}
	}
	return sb.String()
}
