package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/signintech/gopdf"
)

// ErrFontMissing is returned when the configured TTF font cannot be read.
var ErrFontMissing = errors.New("invoice font not found")

const (
	fontFamily = "invoice"

	marginX   = 40.0
	marginTop = 48.0
	pageBreak = 780.0

	colMid   = 150.0
	colRight = 555.0
	rightW   = 110.0
)

// PDFRenderer draws invoices on A4 pages.
type PDFRenderer struct {
	fontPath string
}

// NewPDFRenderer creates a renderer using the TTF font at fontPath.
func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

// Check verifies the font is readable so misconfiguration surfaces at startup.
func (r *PDFRenderer) Check() error {
	if _, err := os.Stat(r.fontPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFontMissing, r.fontPath)
	}
	return nil
}

// RenderInvoice returns the PDF bytes of inv.
func (r *PDFRenderer) RenderInvoice(inv Invoice) ([]byte, error) {
	if err := r.Check(); err != nil {
		return nil, err
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetInfo(gopdf.PdfInfo{Title: "Invoice " + inv.Number, Creator: "daycare-backend"})
	if err := pdf.AddTTFFont(fontFamily, r.fontPath); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	pdf.AddPage()

	y := marginTop
	for _, row := range Layout(inv) {
		h := rowHeight(row.Kind)
		if y+h > pageBreak {
			pdf.AddPage()
			y = marginTop
		}
		if err := drawRow(pdf, row, y); err != nil {
			return nil, err
		}
		y += h
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func rowHeight(k RowKind) float64 {
	switch k {
	case RowTitle:
		return 28
	case RowSpacer:
		return 12
	case RowRule:
		return 8
	case RowTotal:
		return 22
	default:
		return 17
	}
}

func fontSize(k RowKind) float64 {
	switch k {
	case RowTitle:
		return 18
	case RowTotal:
		return 13
	case RowNote:
		return 9
	default:
		return 10
	}
}

func drawRow(pdf *gopdf.GoPdf, row Row, y float64) error {
	switch row.Kind {
	case RowSpacer:
		return nil
	case RowRule:
		pdf.SetLineWidth(0.6)
		pdf.Line(marginX, y+2, colRight, y+2)
		return nil
	}

	if err := pdf.SetFont(fontFamily, "", fontSize(row.Kind)); err != nil {
		return err
	}
	if row.Kind == RowNote || row.Kind == RowHeader {
		pdf.SetTextColor(110, 110, 110)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetXY(marginX, y)
	if err := pdf.Cell(nil, row.Left); err != nil {
		return err
	}
	if row.Mid != "" {
		pdf.SetXY(colMid, y)
		if err := pdf.Cell(nil, row.Mid); err != nil {
			return err
		}
	}
	if row.Right != "" {
		pdf.SetXY(colRight-rightW, y)
		rect := &gopdf.Rect{W: rightW, H: rowHeight(row.Kind)}
		if err := pdf.CellWithOption(rect, row.Right, gopdf.CellOption{Align: gopdf.Right | gopdf.Top}); err != nil {
			return err
		}
	}
	if row.Kind == RowHeader {
		pdf.SetLineWidth(0.3)
		pdf.Line(marginX, y+14, colRight, y+14)
	}
	return nil
}
