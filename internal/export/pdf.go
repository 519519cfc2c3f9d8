package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth   = 210.0
	pageCenter  = pageWidth / 2
	marginLeft  = 14.0
	contentWide = pageWidth - 2*marginLeft
	rowHeight   = 8.0
)

type rgb struct{ r, g, b int }

var (
	colorIndigo    = rgb{63, 81, 181}
	colorWhite     = rgb{255, 255, 255}
	colorBlack     = rgb{0, 0, 0}
	colorSlateHead = rgb{100, 116, 139}
	colorStripe    = rgb{241, 245, 249}
	colorBoxBorder = rgb{200, 200, 200}
	colorBoxFill   = rgb{248, 250, 252}
	colorSlate900  = rgb{15, 23, 42}
	colorFooter    = rgb{100, 100, 100}
)

// WritePDF renders doc as an A4 PDF.
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(footerGeneratedBy, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// The core fonts only cover cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(x, y float64, s string) { pdf.Text(x, y, tr(s)) }
	centered := func(y float64, s string) {
		s = tr(s)
		pdf.Text(pageCenter-pdf.GetStringWidth(s)/2, y, s)
	}
	textColor := func(c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
	fillColor := func(c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }

	// Header band.
	fillColor(colorIndigo)
	pdf.Rect(0, 0, pageWidth, 40, "F")
	textColor(colorWhite)
	pdf.SetFont("Helvetica", "B", 22)
	text(marginLeft, 25, doc.Title)
	pdf.SetFont("Helvetica", "", 10)
	text(150, 20, issueDateLabel+": "+doc.IssueDate())
	text(150, 28, validUntilLabel+": "+doc.ValidityDate())

	// Customer.
	textColor(colorBlack)
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, 50, customerHeading)
	pdf.SetFont("Helvetica", "", 10)
	text(marginLeft, 58, customerLabel+": "+doc.Customer)
	text(marginLeft, 64, partLabel+": "+doc.Part)

	// Technical summary table.
	pdf.SetFont("Helvetica", "B", 12)
	text(marginLeft, 80, technicalHeading)

	colWidth := contentWide / 2
	pdf.SetXY(marginLeft, 85)
	fillColor(colorSlateHead)
	textColor(colorWhite)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidth, rowHeight, tr(itemColumnLabel), "", 0, "L", true, 0, "")
	pdf.CellFormat(colWidth, rowHeight, tr(detailColumnLabel), "", 1, "L", true, 0, "")

	textColor(colorBlack)
	pdf.SetFont("Helvetica", "", 10)
	for i, row := range doc.Summary {
		fill := i%2 == 0
		if fill {
			fillColor(colorStripe)
		}
		pdf.SetX(marginLeft)
		pdf.CellFormat(colWidth, rowHeight, tr(row.Label), "", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidth, rowHeight, tr(row.Value), "", 1, "L", fill, 0, "")
	}

	// Highlighted total.
	boxY := pdf.GetY() + 20
	pdf.SetDrawColor(colorBoxBorder.r, colorBoxBorder.g, colorBoxBorder.b)
	fillColor(colorBoxFill)
	pdf.Rect(marginLeft, boxY, contentWide, 40, "FD")

	pdf.SetFont("Helvetica", "B", 14)
	textColor(colorIndigo)
	centered(boxY+12, totalHeading)
	pdf.SetFont("Helvetica", "B", 24)
	textColor(colorSlate900)
	centered(boxY+28, doc.Total)

	// Footer.
	pdf.SetFont("Helvetica", "", 8)
	textColor(colorFooter)
	for i, line := range doc.Footer() {
		centered(280+float64(i)*5, line)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
