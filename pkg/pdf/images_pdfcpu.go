package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrImageNotFound is returned when an image placement has no matching stream
var ErrImageNotFound = errors.New("image stream not found")

// pdfcpuImages serves image bytes and object numbers from a pdfcpu context.
// Only the resource name to object number index of a page is kept; image
// bytes are decoded on every Data call and not retained.
type pdfcpuImages struct {
	ctx *model.Context

	mu    sync.Mutex
	pages map[int]*pageImages

	// decoding writes into the shared stream dicts
	decodeMu sync.Mutex
}

type pageImages struct {
	once   sync.Once
	objNrs map[string]int
	err    error
}

// openPdfcpuImages reads and validates the file with pdfcpu
func openPdfcpuImages(filepath, password string) (*pdfcpuImages, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	return &pdfcpuImages{
		ctx:   ctx,
		pages: make(map[int]*pageImages),
	}, nil
}

func (s *pdfcpuImages) page(pageNr int) *pageImages {
	s.mu.Lock()
	pi, ok := s.pages[pageNr]
	if !ok {
		pi = &pageImages{}
		s.pages[pageNr] = pi
	}
	s.mu.Unlock()

	pi.once.Do(func() {
		pi.objNrs, pi.err = s.index(pageNr)
	})
	return pi
}

// release drops the index of a page
func (s *pdfcpuImages) release(pageNr int) {
	s.mu.Lock()
	delete(s.pages, pageNr)
	s.mu.Unlock()
}

// index maps the image resource names of a page to their object numbers
func (s *pdfcpuImages) index(pageNr int) (objNrs map[string]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to index images of page %d: %v", pageNr, r)
		}
	}()

	objNrs = make(map[string]int)
	for _, objNr := range pdfcpu.ImageObjNrs(s.ctx, pageNr) {
		obj, ok := s.ctx.Optimize.ImageObjects[objNr]
		if !ok || obj == nil {
			continue
		}
		if name, ok := obj.ResourceNames[pageNr-1]; ok && name != "" {
			objNrs[name] = objNr
		}
	}
	return objNrs, nil
}

// read decodes one image stream
func (s *pdfcpuImages) read(pageNr, objNr int, name string) (data []byte, fileType string, err error) {
	s.decodeMu.Lock()
	defer s.decodeMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to extract image %s of page %d: %v", name, pageNr, r)
		}
	}()

	obj := s.ctx.Optimize.ImageObjects[objNr]
	if obj == nil || obj.ImageDict == nil {
		return nil, "", fmt.Errorf("%w: %s on page %d", ErrImageNotFound, name, pageNr)
	}

	sd := obj.ImageDict
	// pdfcpu leaves the decoded content on the stream dict
	defer func() {
		if sd.FilterPipeline != nil {
			sd.Content = nil
		}
	}()

	img, err := pdfcpu.ExtractImage(s.ctx, sd, false, name, objNr, false)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract image %s of page %d: %w", name, pageNr, err)
	}
	if img == nil || img.Reader == nil {
		return nil, "", fmt.Errorf("%w: %s on page %d", ErrImageNotFound, name, pageNr)
	}

	data, err = io.ReadAll(img)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s of page %d: %w", name, pageNr, err)
	}
	return data, img.FileType, nil
}

// streamFor returns a factory of lazy streams for one page
func (s *pdfcpuImages) streamFor(pageNr int) func(name string) ImageStream {
	return func(name string) ImageStream {
		return &pdfcpuStream{source: s, pageNr: pageNr, name: name}
	}
}

// pdfcpuStream implements ImageStream over a pdfcpu page image
type pdfcpuStream struct {
	source *pdfcpuImages
	pageNr int
	name   string
}

func (st *pdfcpuStream) objNr() (int, error) {
	pi := st.source.page(st.pageNr)
	if pi.err != nil {
		return 0, pi.err
	}
	objNr, ok := pi.objNrs[st.name]
	if !ok || objNr <= 0 {
		return 0, fmt.Errorf("%w: %s on page %d", ErrImageNotFound, st.name, st.pageNr)
	}
	return objNr, nil
}

// ObjectID returns the stream's object number
func (st *pdfcpuStream) ObjectID() (uint64, bool) {
	objNr, err := st.objNr()
	if err != nil {
		return 0, false
	}
	return uint64(objNr), true
}

// Data decodes the image and returns its bytes with pdfcpu's file type
func (st *pdfcpuStream) Data() ([]byte, string, error) {
	objNr, err := st.objNr()
	if err != nil {
		return nil, "", err
	}
	return st.source.read(st.pageNr, objNr, st.name)
}
