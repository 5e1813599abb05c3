package render

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/visionboard/pkg/errors"
)

// Image is a decoded source image.
type Image struct {
	image.Image
	// Approved is false for cross-origin images the server did not open
	// to reads from the page origin.
	Approved bool
}

// Loader fetches and decodes images. cors requests CORS approval.
type Loader interface {
	Load(ctx context.Context, rawURL string, cors bool) (*Image, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, rawURL string, cors bool) (*Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, rawURL string, cors bool) (*Image, error) {
	return f(ctx, rawURL, cors)
}

// Decode decodes png, jpeg, gif or webp data, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image")
	}
	return img, nil
}

// FileLoader reads local files. Relative paths resolve against Root.
// Local images are always same-origin.
type FileLoader struct {
	Root string
}

// Load implements [Loader].
func (l FileLoader) Load(_ context.Context, rawURL string, _ bool) (*Image, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "parse %s", rawURL)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
		}
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Image{Image: img, Approved: true}, nil
}

// MultiLoader sends http(s) URLs to HTTP and everything else to File.
type MultiLoader struct {
	HTTP Loader
	File Loader
}

// NewMultiLoader returns a MultiLoader.
func NewMultiLoader(http, file Loader) *MultiLoader {
	return &MultiLoader{HTTP: http, File: file}
}

// Load implements [Loader].
func (m *MultiLoader) Load(ctx context.Context, rawURL string, cors bool) (*Image, error) {
	switch scheme(rawURL) {
	case "http", "https":
		if m.HTTP != nil {
			return m.HTTP.Load(ctx, rawURL, cors)
		}
	case "", "file":
		if m.File != nil {
			return m.File.Load(ctx, rawURL, cors)
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidURL, "no loader for %q", rawURL)
}

func scheme(rawURL string) string {
	i := strings.Index(rawURL, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(rawURL[:i])
}

var (
	_ Loader = FileLoader{}
	_ Loader = (*MultiLoader)(nil)
	_ Loader = LoaderFunc(nil)
)
