package markdown

import (
	"fmt"
	"sync"

	"github.com/pyhub-apps/pdfmarkdown/pkg/pdf"
)

// IdentityKind tells which form an Identity takes
type IdentityKind uint8

const (
	// IdentitySource identifies an image by the object number of its stream
	IdentitySource IdentityKind = iota + 1
	// IdentityPosition identifies an image by its truncated top-left corner
	IdentityPosition
)

// Identity names one image for deduplication within a page.
// The zero value is not a valid identity.
type Identity struct {
	kind IdentityKind
	obj  uint64
	x, y int32
}

// SourceID returns the identity of an image stream object
func SourceID(obj uint64) Identity {
	return Identity{kind: IdentitySource, obj: obj}
}

// PositionKey returns the identity of an image without a stream object number
func PositionKey(x, y int32) Identity {
	return Identity{kind: IdentityPosition, x: x, y: y}
}

// Kind returns the identity form
func (id Identity) Kind() IdentityKind {
	return id.kind
}

func (id Identity) String() string {
	switch id.kind {
	case IdentitySource:
		return fmt.Sprintf("obj:%d", id.obj)
	case IdentityPosition:
		return fmt.Sprintf("pos:%d,%d", id.x, id.y)
	default:
		return "invalid"
	}
}

// IdentityOf derives the identity of an image placement
func IdentityOf(img pdf.ImageObject) Identity {
	if img.Stream != nil {
		if obj, ok := img.Stream.ObjectID(); ok {
			return SourceID(obj)
		}
	}
	return PositionKey(int32(img.X0), int32(img.Y0))
}

// DedupSet records the images already emitted on a page.
// It is safe for concurrent use.
type DedupSet struct {
	mu   sync.Mutex
	seen map[Identity]struct{}
}

// NewDedupSet creates an empty set
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: make(map[Identity]struct{})}
}

// Claim marks id as emitted. It returns true only for the first claim.
func (s *DedupSet) Claim(id Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Len returns the number of claimed identities
func (s *DedupSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
