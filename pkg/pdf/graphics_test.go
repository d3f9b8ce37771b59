package pdf

import (
	"testing"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flipY maps PDF user space on a 100-unit high page to top-left coordinates
func flipY(x, y float64) (float64, float64) {
	return x, 100 - y
}

func TestMatrixMultiply(t *testing.T) {
	scale := Matrix{A: 2, D: 3}
	translate := Matrix{A: 1, D: 1, E: 10, F: 20}

	x, y := scale.Multiply(translate).Apply(1, 1)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 23.0, y)

	x, y = IdentityMatrix().Apply(4, 5)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 5.0, y)
}

func TestGraphicsWalkerRectangle(t *testing.T) {
	w := newGraphicsWalker(lpdf.Value{}, flipY, nil)
	w.ctm = Matrix{A: 1, D: 1, E: 10, F: 10}
	w.path = []*subpath{{
		points: []point{w.transform(0, 0), w.transform(50, 0), w.transform(50, 20), w.transform(0, 20)},
		closed: true,
	}}

	w.paint(true)

	require.Len(t, w.objects.Rects, 1)
	rect := w.objects.Rects[0]
	assert.Equal(t, RectObject{X0: 10, Y0: 70, X1: 60, Y1: 90, NonStroking: true}, rect)
	assert.Empty(t, w.path)
}

func TestGraphicsWalkerStrokedPolyline(t *testing.T) {
	w := newGraphicsWalker(lpdf.Value{}, flipY, nil)
	w.path = []*subpath{{points: []point{w.transform(0, 50), w.transform(80, 50), w.transform(80, 10)}}}

	w.paint(false)

	require.Len(t, w.objects.Lines, 2)
	assert.Equal(t, LineObject{X0: 0, Y0: 50, X1: 80, Y1: 50}, w.objects.Lines[0])
	assert.Equal(t, LineObject{X0: 80, Y0: 50, X1: 80, Y1: 90}, w.objects.Lines[1])
}

func TestGraphicsWalkerSkipsCurvesAndFilledPolylines(t *testing.T) {
	w := newGraphicsWalker(lpdf.Value{}, flipY, nil)
	w.path = []*subpath{
		{points: []point{{0, 0}, {10, 10}}, curved: true},
		{points: []point{{0, 0}, {10, 0}, {5, 8}}, closed: true},
	}

	w.paint(true)

	assert.Empty(t, w.objects.Lines)
	assert.Empty(t, w.objects.Rects)
}

func TestSubpathRectangleFromExplicitClose(t *testing.T) {
	sp := &subpath{points: []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
	rect, ok := sp.rectangle()
	require.True(t, ok)
	assert.Equal(t, RectObject{X0: 0, Y0: 0, X1: 10, Y1: 10}, rect)

	open := &subpath{points: []point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
	_, ok = open.rectangle()
	assert.False(t, ok)
}
