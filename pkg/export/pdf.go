package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// Page describes a single-page document.
type Page struct {
	Orientation string // "L" or "P"
	Unit        string // "pt", "mm", "cm" or "in"
	Width       float64
	Height      float64
}

// PDFEncoder wraps a PNG image into a document whose single page shows the
// image at (0,0) covering the whole page.
type PDFEncoder interface {
	Encode(page Page, png []byte) ([]byte, error)
}

// FPDFEncoder implements [PDFEncoder] with go-pdf/fpdf.
type FPDFEncoder struct{}

// Encode implements [PDFEncoder].
func (FPDFEncoder) Encode(page Page, png []byte) ([]byte, error) {
	// fpdf swaps the custom size for landscape pages, so pass it pre-swapped
	// to end up with exactly Width x Height.
	size := fpdf.SizeType{Wd: page.Width, Ht: page.Height}
	if page.Orientation == "L" {
		size = fpdf.SizeType{Wd: page.Height, Ht: page.Width}
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: page.Orientation,
		UnitStr:        page.Unit,
		Size:           size,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(BaseName, true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(BaseName, opts, bytes.NewReader(png))
	pdf.ImageOptions(BaseName, 0, 0, page.Width, page.Height, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ PDFEncoder = FPDFEncoder{}
