package layout

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// PDFSurface draws onto a US Letter PDF in points using the core Helvetica fonts.
// Strings stay UTF-8 until they are measured or drawn, where they are translated
// to cp1252, which covers the bullet glyph.
type PDFSurface struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewPDFSurface returns an empty Letter document.
func NewPDFSurface() *PDFSurface {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, Margin)
	pdf.SetCreator("portfolio", true)
	pdf.SetFont(fontFamily, "", bodySize)
	return &PDFSurface{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// SetTitle sets the document metadata title.
func (p *PDFSurface) SetTitle(title string) {
	p.pdf.SetTitle(title, true)
	p.pdf.SetAuthor(title, true)
}

func (p *PDFSurface) PageSize() (float64, float64) {
	return p.pdf.GetPageSize()
}

func (p *PDFSurface) SetFont(style FontStyle, size float64) {
	p.pdf.SetFont(fontFamily, string(style), size)
}

func (p *PDFSurface) SetTextColor(c Color) {
	p.pdf.SetTextColor(c.R, c.G, c.B)
}

func (p *PDFSurface) SplitText(text string, width float64) []string {
	return wrapText(text, width, p.measure)
}

func (p *PDFSurface) measure(s string) float64 {
	return p.pdf.GetStringWidth(p.translate(s))
}

func (p *PDFSurface) Text(x, y float64, s string) {
	p.pdf.Text(x, y, p.translate(s))
}

func (p *PDFSurface) Line(x1, y1, x2, y2, width float64) {
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.SetLineWidth(width)
	p.pdf.Line(x1, y1, x2, y2)
}

func (p *PDFSurface) AddPage() {
	p.pdf.AddPage()
}

func (p *PDFSurface) Err() error {
	return p.pdf.Error()
}

// PageCount returns the number of pages drawn so far.
func (p *PDFSurface) PageCount() int {
	return p.pdf.PageCount()
}

// Bytes serializes the document.
func (p *PDFSurface) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
