// Package media stores uploaded images in a blob bucket and derives
// transformed delivery URLs for them.
package media

import (
	"context"
	"fmt"
	"strings"
)

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Empty reports whether the file carries no content.
func (f File) Empty() bool {
	return len(f.Data) == 0
}

// Upload describes a stored object. FilePath always starts with "/".
type Upload struct {
	FilePath string
	Name     string
	Size     int64
}

// Transformation is a set of delivery parameters applied by the image CDN.
type Transformation struct {
	Quality string
	Format  string
	Width   int
}

var (
	LogoTransformation    = Transformation{Quality: "auto", Format: "webp", Width: 512}
	ProductTransformation = Transformation{Quality: "auto", Format: "webp", Width: 1024}
)

// String renders the transformation in path form, e.g. "q-auto,f-webp,w-512".
func (t Transformation) String() string {
	parts := make([]string, 0, 3)
	if t.Quality != "" {
		parts = append(parts, "q-"+t.Quality)
	}
	if t.Format != "" {
		parts = append(parts, "f-"+t.Format)
	}
	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w-%d", t.Width))
	}
	return strings.Join(parts, ",")
}

// Host is the media hosting contract used by the intake services.
type Host interface {
	Upload(ctx context.Context, file File, folder string) (*Upload, error)
	URL(filePath string, t Transformation) string
	Delete(ctx context.Context, filePath string) error
}
