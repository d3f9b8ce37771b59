package pdf

import (
	"fmt"
	"math"

	lpdf "github.com/ledongthuc/pdf"
)

// Matrix represents a 2D transformation matrix [a b c d e f]
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns the identity transformation
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// Multiply returns m followed by n
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

// Apply transforms a point
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// point is a path point already converted to page space
type point struct {
	X, Y float64
}

type subpath struct {
	points []point
	closed bool
	curved bool
}

// graphicsWalker interprets a content stream and collects painted lines,
// rectangles and image placements. Text is handled by the backend.
type graphicsWalker struct {
	resources lpdf.Value
	toPage    func(x, y float64) (float64, float64)
	streamFor func(name string) ImageStream

	ctm   Matrix
	stack []Matrix
	path  []*subpath

	objects Objects
}

func newGraphicsWalker(resources lpdf.Value, toPage func(x, y float64) (float64, float64), streamFor func(name string) ImageStream) *graphicsWalker {
	return &graphicsWalker{
		resources: resources,
		toPage:    toPage,
		streamFor: streamFor,
		ctm:       IdentityMatrix(),
	}
}

// walk interprets the stream. A malformed stream stops the walk; whatever
// was collected up to that point is kept and the failure is returned.
func (w *graphicsWalker) walk(contents lpdf.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to interpret content stream: %v", r)
		}
	}()

	lpdf.Interpret(contents, func(stk *lpdf.Stack, op string) {
		n := stk.Len()
		args := make([]lpdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		w.processOperator(op, args)
	})

	return nil
}

func (w *graphicsWalker) processOperator(op string, args []lpdf.Value) {
	switch op {
	case "q":
		w.stack = append(w.stack, w.ctm)
	case "Q":
		if len(w.stack) > 0 {
			w.ctm = w.stack[len(w.stack)-1]
			w.stack = w.stack[:len(w.stack)-1]
		}
	case "cm":
		if len(args) == 6 {
			m := Matrix{
				A: args[0].Float64(), B: args[1].Float64(),
				C: args[2].Float64(), D: args[3].Float64(),
				E: args[4].Float64(), F: args[5].Float64(),
			}
			w.ctm = m.Multiply(w.ctm)
		}

	case "m":
		if len(args) == 2 {
			w.path = append(w.path, &subpath{points: []point{w.transform(args[0].Float64(), args[1].Float64())}})
		}
	case "l":
		if len(args) == 2 {
			w.lineTo(w.transform(args[0].Float64(), args[1].Float64()), false)
		}
	case "c":
		if len(args) == 6 {
			w.lineTo(w.transform(args[4].Float64(), args[5].Float64()), true)
		}
	case "v", "y":
		if len(args) == 4 {
			w.lineTo(w.transform(args[2].Float64(), args[3].Float64()), true)
		}
	case "h":
		if sp := w.currentSubpath(); sp != nil {
			sp.closed = true
		}
	case "re":
		if len(args) == 4 {
			x, y := args[0].Float64(), args[1].Float64()
			width, height := args[2].Float64(), args[3].Float64()
			w.path = append(w.path, &subpath{
				points: []point{
					w.transform(x, y),
					w.transform(x+width, y),
					w.transform(x+width, y+height),
					w.transform(x, y+height),
				},
				closed: true,
			})
		}

	case "S":
		w.paint(false)
	case "s":
		w.closeAll()
		w.paint(false)
	case "f", "F", "f*":
		w.closeAll()
		w.paint(true)
	case "B", "B*", "b", "b*":
		w.closeAll()
		w.paint(false)
	case "n":
		w.path = nil

	case "Do":
		if len(args) == 1 {
			w.placeXObject(args[0].Name())
		}
	}
}

func (w *graphicsWalker) transform(x, y float64) point {
	dx, dy := w.ctm.Apply(x, y)
	px, py := w.toPage(dx, dy)
	return point{X: px, Y: py}
}

func (w *graphicsWalker) currentSubpath() *subpath {
	if len(w.path) == 0 {
		return nil
	}
	return w.path[len(w.path)-1]
}

func (w *graphicsWalker) lineTo(p point, curved bool) {
	sp := w.currentSubpath()
	if sp == nil || sp.closed {
		// A segment without a current point starts a new subpath
		sp = &subpath{}
		w.path = append(w.path, sp)
	}
	sp.points = append(sp.points, p)
	sp.curved = sp.curved || curved
}

func (w *graphicsWalker) closeAll() {
	for _, sp := range w.path {
		sp.closed = true
	}
}

// paint turns the current path into line and rectangle objects
func (w *graphicsWalker) paint(fillOnly bool) {
	for _, sp := range w.path {
		if sp.curved || len(sp.points) < 2 {
			continue
		}
		if rect, ok := sp.rectangle(); ok {
			rect.NonStroking = fillOnly
			w.objects.Rects = append(w.objects.Rects, rect)
			continue
		}
		if fillOnly {
			continue
		}
		for i := 1; i < len(sp.points); i++ {
			w.objects.Lines = append(w.objects.Lines, segment(sp.points[i-1], sp.points[i]))
		}
		if sp.closed && len(sp.points) > 2 {
			w.objects.Lines = append(w.objects.Lines, segment(sp.points[len(sp.points)-1], sp.points[0]))
		}
	}
	w.path = nil
}

func segment(a, b point) LineObject {
	return LineObject{X0: a.X, Y0: a.Y, X1: b.X, Y1: b.Y}
}

// rectangle reports whether the subpath is a closed axis-aligned rectangle
func (sp *subpath) rectangle() (RectObject, bool) {
	pts := sp.points
	if len(pts) == 5 && near(pts[0].X, pts[4].X) && near(pts[0].Y, pts[4].Y) {
		pts = pts[:4]
	}
	if len(pts) != 4 || (!sp.closed && len(sp.points) != 5) {
		return RectObject{}, false
	}

	for i := 0; i < 4; i++ {
		a, b := pts[i], pts[(i+1)%4]
		if !near(a.X, b.X) && !near(a.Y, b.Y) {
			return RectObject{}, false
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	return RectObject{X0: minX, Y0: minY, X1: maxX, Y1: maxY}, true
}

// placeXObject records an image placement. The image occupies the unit
// square in its own space, so its bbox is the CTM image of that square.
func (w *graphicsWalker) placeXObject(name string) {
	xobj := w.resources.Key("XObject").Key(name)
	if xobj.Key("Subtype").Name() != "Image" {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		p := w.transform(c[0], c[1])
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	img := ImageObject{
		X0:        minX,
		Y0:        minY,
		X1:        maxX,
		Y1:        maxY,
		Name:      name,
		SrcWidth:  int(xobj.Key("Width").Int64()),
		SrcHeight: int(xobj.Key("Height").Int64()),
	}
	if w.streamFor != nil {
		img.Stream = w.streamFor(name)
	}
	w.objects.Images = append(w.objects.Images, img)
}
