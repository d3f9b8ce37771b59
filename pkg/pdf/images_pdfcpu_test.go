package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeImagePDF writes a one-page PDF placing a 2x2 RGB image at
// (50, 92)-(150, 192) in page coordinates
func writeImagePDF(t *testing.T, path string) {
	t.Helper()

	pixels := string([]byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})
	content := "q 100 0 0 100 50 600 cm /Im1 Do Q"

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width 2 /Height 2 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Length %d >>\nstream\n%s\nendstream", len(pixels), pixels),
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

func TestImageStreamsAreReadOnDemand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.pdf")
	writeImagePDF(t, path)

	opened, err := Open(path)
	require.NoError(t, err)
	defer opened.Close()

	doc, ok := opened.(*LedongthucDocument)
	require.True(t, ok)
	require.NoError(t, doc.ImageSourceErr())

	page, err := doc.GetPage(0)
	require.NoError(t, err)

	images := page.GetObjects().Images
	require.Len(t, images, 1)
	assert.InDelta(t, 50.0, images[0].X0, 1e-6)
	assert.InDelta(t, 92.0, images[0].Y0, 1e-6)

	objNr, ok := images[0].Stream.ObjectID()
	require.True(t, ok)
	assert.Positive(t, objNr)

	data, fileType, err := images[0].Stream.Data()
	require.NoError(t, err)
	assert.Equal(t, "png", fileType)

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	// only the object number index is cached, and only until released
	require.Contains(t, doc.images.pages, 1)
	assert.Len(t, doc.images.pages[1].objNrs, 1)
	doc.ReleasePage(1)
	assert.Empty(t, doc.images.pages)

	again, _, err := images[0].Stream.Data()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestImageStreamWithoutSource(t *testing.T) {
	st := &pdfcpuStream{source: &pdfcpuImages{pages: map[int]*pageImages{
		1: {objNrs: map[string]int{}},
	}}, pageNr: 1, name: "Im9"}
	st.source.pages[1].once.Do(func() {})

	_, ok := st.ObjectID()
	assert.False(t, ok)

	_, _, err := st.Data()
	assert.ErrorIs(t, err, ErrImageNotFound)
}
