package pdf

import "math"

// MemoryPage implements the Page interface over an in-memory object set.
// The PDF backends build one per page; it is also handy for tests.
type MemoryPage struct {
	pageNumber int
	width      float64
	height     float64
	bbox       BoundingBox
	objects    Objects
}

// NewMemoryPage creates a page of the given size holding objects
func NewMemoryPage(pageNumber int, width, height float64, objects Objects) *MemoryPage {
	return &MemoryPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
		bbox:       BoundingBox{X0: 0, Y0: 0, X1: width, Y1: height},
		objects:    objects,
	}
}

// GetPageNumber returns the page number (1-based)
func (p *MemoryPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *MemoryPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *MemoryPage) GetHeight() float64 {
	return p.height
}

// GetBBox returns the page bounding box
func (p *MemoryPage) GetBBox() BoundingBox {
	return p.bbox
}

// GetObjects returns all objects on the page
func (p *MemoryPage) GetObjects() Objects {
	return p.objects
}

// ExtractWords extracts individual words from the page
func (p *MemoryPage) ExtractWords(opts ...WordExtractionOption) []Word {
	config := &wordExtractionConfig{
		XTolerance:  3.0,
		YTolerance:  3.0,
		SplitOnFont: true,
	}
	for _, opt := range opts {
		opt(config)
	}

	return extractWords(p.objects.Chars, config)
}

// ExtractTables extracts tables from the page
func (p *MemoryPage) ExtractTables(opts ...TableExtractionOption) []Table {
	return newTableExtractor(p, opts...).ExtractTables()
}

// Crop returns a new page cropped to the specified bounding box
func (p *MemoryPage) Crop(bbox BoundingBox) Page {
	bbox = p.bbox.Intersection(bbox)
	if bbox.X1 < bbox.X0 {
		bbox.X1 = bbox.X0
	}
	if bbox.Y1 < bbox.Y0 {
		bbox.Y1 = bbox.Y0
	}

	return &MemoryPage{
		pageNumber: p.pageNumber,
		width:      bbox.Width(),
		height:     bbox.Height(),
		bbox:       bbox,
		objects:    p.filterObjectsInBBox(bbox),
	}
}

// filterObjectsInBBox filters objects that belong to the given bounding box.
// Characters are assigned by their center so that two adjacent crops never
// share one; graphics and images are kept when they touch the box.
func (p *MemoryPage) filterObjectsInBBox(bbox BoundingBox) Objects {
	var filtered Objects

	for _, obj := range p.objects.Chars {
		cx, cy := obj.GetBBox().Center()
		if containsHalfOpen(bbox, cx, cy) {
			filtered.Chars = append(filtered.Chars, obj)
		}
	}

	for _, obj := range p.objects.Lines {
		if bbox.Intersects(obj.GetBBox()) {
			filtered.Lines = append(filtered.Lines, clipLine(obj, bbox))
		}
	}

	for _, obj := range p.objects.Rects {
		if bbox.Intersects(obj.GetBBox()) {
			clipped := bbox.Intersection(obj.GetBBox())
			obj.X0, obj.Y0, obj.X1, obj.Y1 = clipped.X0, clipped.Y0, clipped.X1, clipped.Y1
			filtered.Rects = append(filtered.Rects, obj)
		}
	}

	for _, obj := range p.objects.Images {
		if bbox.Intersects(obj.GetBBox()) {
			filtered.Images = append(filtered.Images, obj)
		}
	}

	return filtered
}

// containsHalfOpen reports whether the point lies in [X0, X1) x [Y0, Y1)
func containsHalfOpen(b BoundingBox, x, y float64) bool {
	return x >= b.X0 && x < b.X1 && y >= b.Y0 && y < b.Y1
}

// clipLine clips an axis-aligned line to bbox. Diagonal lines are
// returned unchanged.
func clipLine(l LineObject, bbox BoundingBox) LineObject {
	switch {
	case l.Y0 == l.Y1:
		x0, x1 := math.Min(l.X0, l.X1), math.Max(l.X0, l.X1)
		l.X0, l.X1 = math.Max(x0, bbox.X0), math.Min(x1, bbox.X1)
	case l.X0 == l.X1:
		y0, y1 := math.Min(l.Y0, l.Y1), math.Max(l.Y0, l.Y1)
		l.Y0, l.Y1 = math.Max(y0, bbox.Y0), math.Min(y1, bbox.Y1)
	}
	return l
}
