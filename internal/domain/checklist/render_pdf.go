package checklist

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// ZapfDingbats code points for the check and cross marks.
const (
	dingbatCheck = "4"
	dingbatCross = "8"
)

const (
	itemColWidth  = 400.0
	glyphColWidth = 80.0
	rowHeight     = 18.0
)

const (
	coreFamily = "Helvetica"
	fontFamily = "body"
)

// PDFRenderer lays the report out on A4 pages with one table per phase.
//
// Without Font the core Helvetica font is used, which only covers cp1252:
// Spanish labels render, but a name in another script comes out as
// replacement marks. Font holds a TrueType file embedded as UTF-8 instead.
type PDFRenderer struct {
	// Uncompressed keeps page streams readable; used by tests.
	Uncompressed bool
	// CreatedAt pins the document date. Zero means now.
	CreatedAt time.Time
	// Font is the raw TTF used for all text except the check marks.
	Font []byte
}

// NewPDFRenderer returns a renderer embedding the TrueType font at fontFile.
func NewPDFRenderer(fontFile string) (PDFRenderer, error) {
	raw, err := os.ReadFile(fontFile)
	if err != nil {
		return PDFRenderer{}, fmt.Errorf("read PDF font: %w", err)
	}
	if len(raw) == 0 {
		return PDFRenderer{}, fmt.Errorf("read PDF font: %s is empty", fontFile)
	}
	return PDFRenderer{Font: raw}, nil
}

func (PDFRenderer) Extension() string { return "pdf" }

func (p PDFRenderer) Render(w io.Writer, r *Report) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(!p.Uncompressed)
	if !p.CreatedAt.IsZero() {
		pdf.SetCreationDate(p.CreatedAt)
	}
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreator("safesurgery", true)

	family := coreFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if len(p.Font) > 0 {
		family = fontFamily
		pdf.AddUTF8FontFromBytes(fontFamily, "", p.Font)
		pdf.AddUTF8FontFromBytes(fontFamily, "B", p.Font)
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 15)
	pdf.MultiCell(0, 20, tr(ReportTitle), "", "C", false)
	pdf.Ln(10)

	pdf.SetFont(family, "", 11)
	pdf.CellFormat(0, 16, tr("Paciente: "+r.PatientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 16, tr("Fecha: "+r.Date), "", 1, "L", false, 0, "")

	for _, s := range r.Sections {
		pdf.Ln(12)
		pdf.SetFont(family, "B", 13)
		pdf.CellFormat(0, 20, tr(s.Phase), "", 1, "L", false, 0, "")

		pdf.SetFillColor(211, 211, 211)
		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(itemColWidth, rowHeight, tr("Ítem"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(glyphColWidth, rowHeight, "Cumple", "1", 1, "C", true, 0, "")

		for _, row := range s.Rows {
			pdf.SetFont(family, "", 10)
			pdf.CellFormat(itemColWidth, rowHeight, tr(row.Item), "1", 0, "L", false, 0, "")
			mark := dingbatCross
			if row.Passed {
				mark = dingbatCheck
			}
			pdf.SetFont("ZapfDingbats", "", 11)
			pdf.CellFormat(glyphColWidth, rowHeight, mark, "1", 1, "C", false, 0, "")
		}
	}

	return pdf.Output(w)
}
