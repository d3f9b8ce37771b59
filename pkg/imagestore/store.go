// Package imagestore writes extracted images as PNG files next to the
// markdown output and builds the relative links that point to them.
package imagestore

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when image bytes cannot be decoded
var ErrUnsupportedImage = errors.New("unsupported image data")

const maxDirNameLen = 50

var unsafeStemChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// DirName returns the images directory name for a document stem: the stem
// without punctuation, spaces turned into underscores, prefixed with
// "images_" and cut to 50 characters
func DirName(stem string) string {
	safe := strings.TrimSpace(unsafeStemChars.ReplaceAllString(stem, ""))
	safe = strings.ReplaceAll(safe, " ", "_")

	name := "images_" + safe
	if utf8.RuneCountInString(name) > maxDirNameLen {
		name = string([]rune(name)[:maxDirNameLen])
	}
	return name
}

// Store saves images under one directory
type Store struct {
	root   string // absolute directory
	name   string // directory name used in links
	logger logrus.FieldLogger
}

// New creates a store writing into parent/name. The directory is created
// on the first save.
func New(parent, name string, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		root:   filepath.Join(parent, name),
		name:   name,
		logger: logger,
	}
}

// Dir returns the directory images are written to
func (s *Store) Dir() string {
	return s.root
}

// Exists reports whether the named file is already present
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.root, name))
	return err == nil
}

// Save decodes data and writes it as PNG. Existing files are left untouched.
func (s *Store) Save(name string, data []byte, hint string) error {
	target := filepath.Join(s.root, name)
	if s.Exists(name) {
		return nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s image %s: %w", hint, name, errors.Join(ErrUnsupportedImage, err))
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	s.logger.WithFields(logrus.Fields{
		"file":   name,
		"format": format,
	}).Debug("Saved image")

	return nil
}

// Ref returns the percent-encoded link to a stored image, relative to the
// markdown file
func (s *Store) Ref(name string) string {
	return url.PathEscape(s.name) + "/" + url.PathEscape(name)
}
