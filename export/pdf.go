package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth  = 297.0 // A4 landscape, mm
	margin     = 10.0
	rankWidth  = 12.0
	nameWidth  = 60.0
	totalWidth = 22.0
	lineHeight = 7.0
)

// WritePDF renders every bracket as a table, one section per bracket.
func WritePDF(w io.Writer, s Sheet) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := s.Header()
	widths := columnWidths(len(header))

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "L", false, 0, "")

	for _, board := range s.Boards {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s (%d-%d)", board.Bracket.Name, board.Bracket.MinAge, board.Bracket.MaxAge)), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range header {
			pdf.CellFormat(widths[i], lineHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		if len(board.Rows) == 0 {
			pdf.CellFormat(sum(widths), lineHeight, "No results", "1", 1, "C", false, 0, "")
			continue
		}
		for _, row := range board.Rows {
			for i, cell := range s.Cells(row) {
				align := "R"
				if i == 1 {
					align = "L"
				}
				pdf.CellFormat(widths[i], lineHeight, tr(cell), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	widths[0] = rankWidth
	widths[1] = nameWidth
	widths[columns-1] = totalWidth
	timeCols := columns - 3
	if timeCols > 0 {
		each := (pageWidth - 2*margin - rankWidth - nameWidth - totalWidth) / float64(timeCols)
		for i := 2; i < columns-1; i++ {
			widths[i] = each
		}
	}
	return widths
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}
