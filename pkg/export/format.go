package export

import (
	"strings"

	"github.com/matzehuels/visionboard/pkg/errors"
)

// Format is an export file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatPDF Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatJPG, FormatPDF}

// BaseName is the file name stem of every export.
const BaseName = "visionboard"

// ParseFormat parses a format name. "jpeg" is accepted as an alias of jpg.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatJPG, FormatPDF:
		return f, nil
	case "jpeg":
		return FormatJPG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want png, jpg or pdf)", s)
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Filename returns the download name, for example "visionboard.png".
func (f Format) Filename() string { return BaseName + "." + string(f) }

// MIMEType returns the content type of f.
func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Artifact is an encoded export.
type Artifact struct {
	Format   Format `json:"format"`
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}
