package pdfmarkdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// writeSamplePDF writes a one-page PDF with a title line and a body line
func writeSamplePDF(t *testing.T, path string) {
	t.Helper()

	widths := strings.TrimSpace(strings.Repeat("500 ", 126-32+1))
	content := "BT /F1 24 Tf 72 720 Td (Quarterly Report) Tj ET\n" +
		"BT /F1 10 Tf 72 680 Td (Revenue grew steadily this year) Tj ET"

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

type pages []pdf.Page

func (p pages) GetMetadata() pdf.Metadata { return pdf.Metadata{PageCount: len(p)} }

func (p pages) GetPage(index int) (pdf.Page, error) {
	if index < 0 || index >= len(p) {
		return nil, pdf.ErrPageOutOfRange
	}
	return p[index], nil
}

func (p pages) PageCount() int { return len(p) }

func (p pages) Close() error { return nil }

func chars(text string, x, top, size float64) []pdf.CharObject {
	var out []pdf.CharObject
	for _, r := range text {
		if r != ' ' {
			out = append(out, pdf.CharObject{
				Text: string(r), Font: "Helvetica", FontSize: size,
				X0: x, Y0: top, X1: x + size/2, Y1: top + size,
			})
		}
		x += size / 2
	}
	return out
}

func TestConvertInMemoryDocument(t *testing.T) {
	var objs pdf.Objects
	objs.Chars = append(objs.Chars, chars("Overview", 72, 60, 28)...)
	objs.Chars = append(objs.Chars, chars("first paragraph line", 72, 120, 10)...)
	objs.Chars = append(objs.Chars, chars("second paragraph line", 72, 133, 10)...)
	objs.Chars = append(objs.Chars, chars("page 1", 290, 770, 8)...)
	objs.Chars = append(objs.Chars, chars("closing line", 72, 720, 10)...)
	doc := pages{pdf.NewMemoryPage(1, 612, 792, objs)}

	logger, _ := test.NewNullLogger()
	out, err := Convert(context.Background(), doc, "sample", ConvertOptions{Config: DefaultConfig(), Logger: logger})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# sample Analysis Report\n> PDF Extractor (Core Edition)\n\n## Page 1\n"))
	assert.Contains(t, out, "# Overview\n")
	assert.Contains(t, out, "\nfirst paragraph line\nsecond paragraph line\n")
	assert.True(t, strings.HasSuffix(out, "\n---\npage 1\n"))
}

func TestOutputPaths(t *testing.T) {
	dir := t.TempDir()

	md, images, err := OutputPaths(filepath.Join(dir, "My Report.pdf"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My Report.md"), md)
	assert.Equal(t, filepath.Join(dir, "images_My_Report"), images)

	md, _, err = OutputPaths(filepath.Join(dir, "a.pdf"), filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "a.md"), md)

	assert.Equal(t, "archive.v2", Stem("/tmp/archive.v2.pdf"))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarterly report.pdf")
	writeSamplePDF(t, path)

	logger, _ := test.NewNullLogger()
	result, err := ConvertFile(context.Background(), path, FileOptions{
		Config:    DefaultConfig(),
		OutputDir: filepath.Join(dir, "out"),
		Logger:    logger,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out", "quarterly report.md"), result.Markdown)
	assert.Equal(t, filepath.Join(dir, "out", "images_quarterly_report"), result.ImagesDir)
	assert.Equal(t, 1, result.Pages)

	data, err := os.ReadFile(result.Markdown)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "# quarterly report Analysis Report\n"))
	assert.Contains(t, out, "## Page 1\n")
	assert.Contains(t, out, "Quarterly Report")
	assert.Contains(t, out, "Revenue grew steadily this year")
}

func TestConvertFileWritesNothingOnOpenFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\ngarbage"), 0o644))

	logger, _ := test.NewNullLogger()
	_, err := ConvertFile(context.Background(), path, FileOptions{Config: DefaultConfig(), Logger: logger})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "broken.md"))
	assert.True(t, os.IsNotExist(statErr))
}
