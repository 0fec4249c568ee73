package certificate

import (
	"bytes"
	"fmt"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "go-regular"
	fontBold    = "go-bold"

	pageWidth  = 595.28
	pageHeight = 841.89

	frameInset = 20.0
	textMargin = 70.0

	bodySize   = 13
	bodyLeader = 22.0
)

// pdfWriter wraps gopdf with the certificate's fonts and helpers.
type pdfWriter struct {
	pdf *gopdf.GoPdf
}

func newPDFWriter() (*pdfWriter, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	pdf.AddPage()
	return &pdfWriter{pdf: pdf}, nil
}

func (w *pdfWriter) font(bold bool, size float64) error {
	family := fontRegular
	if bold {
		family = fontBold
	}
	return w.pdf.SetFont(family, "", size)
}

func (w *pdfWriter) measure(size float64) measureFunc {
	return func(text string, bold bool) (float64, error) {
		if err := w.font(bold, size); err != nil {
			return 0, err
		}
		return w.pdf.MeasureTextWidth(text)
	}
}

func (w *pdfWriter) text(x, y float64, text string) error {
	w.pdf.SetXY(x, y)
	return w.pdf.Cell(nil, text)
}

func (w *pdfWriter) centered(y float64, text string, bold bool, size float64) error {
	width, err := w.measure(size)(text, bold)
	if err != nil {
		return err
	}
	return w.text((pageWidth-width)/2, y, text)
}

func (w *pdfWriter) rect(inset float64) {
	x1, y1 := inset, inset
	x2, y2 := pageWidth-inset, pageHeight-inset
	w.pdf.Line(x1, y1, x2, y1)
	w.pdf.Line(x2, y1, x2, y2)
	w.pdf.Line(x2, y2, x1, y2)
	w.pdf.Line(x1, y2, x1, y1)
}

// Export writes the document as a single A4 page PDF.
func (r *Renderer) Export(doc *Document) ([]byte, error) {
	w, err := newPDFWriter()
	if err != nil {
		return nil, err
	}

	// Frame: thin outer border and a double inner rule.
	w.pdf.SetLineWidth(1)
	w.rect(frameInset)
	w.pdf.SetLineWidth(0.8)
	w.rect(frameInset + 6)
	w.rect(frameInset + 9)

	// Header.
	y := 60.0
	if len(doc.Logo) > 0 {
		if holder, err := gopdf.ImageHolderByBytes(doc.Logo); err == nil {
			_ = w.pdf.ImageByHolder(holder, textMargin-20, y-10, &gopdf.Rect{W: 60, H: 60})
		}
	}
	if err := w.centered(y, doc.CollegeName, true, 22); err != nil {
		return nil, err
	}
	if err := w.centered(y+30, doc.CollegeAddress, false, 11); err != nil {
		return nil, err
	}
	y += 62
	w.pdf.SetLineWidth(0.8)
	w.pdf.Line(frameInset+9, y, pageWidth-frameInset-9, y)
	w.pdf.Line(frameInset+9, y+3, pageWidth-frameInset-9, y+3)

	// Title.
	y += 40
	if err := w.centered(y, doc.Title, true, 18); err != nil {
		return nil, err
	}
	titleWidth, err := w.measure(18)(doc.Title, true)
	if err != nil {
		return nil, err
	}
	w.pdf.Line((pageWidth-titleWidth)/2, y+22, (pageWidth+titleWidth)/2, y+22)

	// Body.
	y += 70
	measure := w.measure(bodySize)
	for _, paragraph := range doc.Paragraphs {
		lines, err := wrapSpans(paragraph, pageWidth-2*textMargin, measure)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			x := textMargin
			for _, span := range line {
				width, err := measure(span.Text, span.Bold)
				if err != nil {
					return nil, err
				}
				if err := w.text(x, y, span.Text); err != nil {
					return nil, err
				}
				x += width
			}
			y += bodyLeader
		}
		y += bodyLeader
	}

	// Footer.
	footerY := pageHeight - 120
	if err := w.font(true, 12); err != nil {
		return nil, err
	}
	if err := w.text(textMargin, footerY, "Date: "+doc.IssueDate); err != nil {
		return nil, err
	}
	sigWidth, err := w.measure(12)(doc.Signatory, true)
	if err != nil {
		return nil, err
	}
	if err := w.text(pageWidth-textMargin-sigWidth, footerY, doc.Signatory); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := w.pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
