package worklog

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	registerTitle = "REGISTRO DE DESIGNAÇÃO DE TERRITÓRIO"

	rowH     = 6.0
	numW     = 14.0
	lastW    = 26.0
	dateCols = 8
)

// BuildRegister renders the territory assignment register: one two-row band
// per quadra under a grid of four assignment slots. Only the first slot's
// dates are filled from the log; the rest are left for handwriting.
func BuildRegister(logs []QuadraLog, city string, year int) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(registerTitle), false)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	lm, _, rm, bm := pdf.GetMargins()
	pageW, pageH := pdf.GetPageSize()
	usable := pageW - lm - rm
	cellW := (usable - numW - lastW) / dateCols

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(registerTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Ano de Serviço: %d", year)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(city), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	drawHeader(pdf, tr, cellW)

	for _, lg := range logs {
		if pdf.GetY()+2*rowH > pageH-bm {
			pdf.AddPage()
			drawHeader(pdf, tr, cellW)
		}
		drawBand(pdf, lg, cellW)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(0, 4, tr("* Data da última conclusão registrada no mapa."), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render register: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, cellW float64) {
	lm, _, _, _ := pdf.GetMargins()
	y := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 7)

	pdf.Rect(lm, y, numW, 2*rowH, "D")
	pdf.SetXY(lm, y+rowH-2)
	pdf.CellFormat(numW, 4, tr("Terr. n.º"), "", 0, "C", false, 0, "")

	x := lm + numW
	pdf.Rect(x, y, lastW, 2*rowH, "D")
	pdf.SetXY(x, y+rowH/2)
	pdf.MultiCell(lastW, 3, tr("Última data concluída*"), "", "C", false)

	for i := 0; i < 4; i++ {
		gx := lm + numW + lastW + float64(i)*2*cellW
		pdf.Rect(gx, y, 2*cellW, rowH, "D")
		pdf.SetXY(gx, y+1)
		pdf.CellFormat(2*cellW, 4, tr("Designado para"), "", 0, "C", false, 0, "")

		pdf.Rect(gx, y+rowH, cellW, rowH, "D")
		pdf.SetXY(gx, y+rowH+0.5)
		pdf.MultiCell(cellW, 2.5, tr("Data da designação"), "", "C", false)

		pdf.Rect(gx+cellW, y+rowH, cellW, rowH, "D")
		pdf.SetXY(gx+cellW, y+rowH+0.5)
		pdf.MultiCell(cellW, 2.5, tr("Data da conclusão"), "", "C", false)
	}

	pdf.SetXY(lm, y+2*rowH)
}

func drawBand(pdf *fpdf.Fpdf, lg QuadraLog, cellW float64) {
	lm, _, _, _ := pdf.GetMargins()
	y := pdf.GetY()
	pdf.SetFont("Helvetica", "", 8)

	pdf.Rect(lm, y, numW, 2*rowH, "D")
	pdf.SetXY(lm, y+rowH-2)
	pdf.CellFormat(numW, 4, lg.QuadraNumber, "", 0, "C", false, 0, "")

	x := lm + numW
	pdf.Rect(x, y, lastW, 2*rowH, "D")
	if lg.Finish != nil {
		pdf.SetXY(x, y+rowH-2)
		pdf.CellFormat(lastW, 4, formatDate(lg.Finish), "", 0, "C", false, 0, "")
	}

	// Name slots on the first row, left blank for handwriting.
	for i := 0; i < 4; i++ {
		gx := lm + numW + lastW + float64(i)*2*cellW
		pdf.Rect(gx, y, 2*cellW, rowH, "D")
	}

	// Date cells on the second row; only the first pair comes from the log.
	for i := 0; i < dateCols; i++ {
		cx := lm + numW + lastW + float64(i)*cellW
		pdf.Rect(cx, y+rowH, cellW, rowH, "D")
		var text string
		switch i {
		case 0:
			text = formatDate(lg.Start)
		case 1:
			text = formatDate(lg.Finish)
		}
		if text != "" {
			pdf.SetXY(cx, y+rowH+1)
			pdf.CellFormat(cellW, 4, text, "", 0, "C", false, 0, "")
		}
	}

	pdf.SetXY(lm, y+2*rowH)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

// RegisterFilename names the download after the service year and the day it
// was generated.
func RegisterFilename(year int, now time.Time) string {
	return fmt.Sprintf("registro-designacao-territorio-%d-%s.pdf", year, now.Format("2006-01-02"))
}
