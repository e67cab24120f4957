package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders the grid as a landscape week matrix.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render draws a time column followed by one column per grid day.
func (e *PDFExporter) Render(grid Grid) ([]byte, error) {
	if len(grid.Days) == 0 {
		return nil, fmt.Errorf("pdf requires at least one day")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	const timeWidth = 18.0
	dayWidth := (277.0 - timeWidth) / float64(len(grid.Days))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(timeWidth, 8, "", "1", 0, "C", true, 0, "")
	for _, day := range grid.Days {
		pdf.CellFormat(dayWidth, 8, day, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 7)
	for _, from := range grid.Rows() {
		height := 6.0
		cells := make([]string, len(grid.Days))
		for i := range grid.Days {
			var lines []string
			for _, entry := range grid.Cell(i, from) {
				lines = append(lines, fmt.Sprintf("%s-%s %s", formatMinute(entry.StartMinute), formatMinute(entry.EndMinute), entry.label()))
			}
			cells[i] = strings.Join(lines, "\n")
			if h := float64(len(lines)) * 4; h > height {
				height = h
			}
		}

		x, y := pdf.GetXY()
		pdf.CellFormat(timeWidth, height, formatMinute(from), "1", 0, "C", false, 0, "")
		for i, text := range cells {
			cellX := x + timeWidth + float64(i)*dayWidth
			pdf.Rect(cellX, y, dayWidth, height, "D")
			if text != "" {
				pdf.SetXY(cellX, y)
				pdf.MultiCell(dayWidth, 4, text, "", "L", false)
			}
		}
		pdf.SetXY(x, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
