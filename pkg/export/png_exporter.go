package export

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	pngHeaderHeight = 48
	pngLabelWidth   = 56
	pngDayWidth     = 180
	pngHourHeight   = 44.0
	pngPadding      = 4.0
)

var (
	pngBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	pngEvenDay    = color.RGBA{R: 245, G: 247, B: 250, A: 255}
	pngOddDay     = color.RGBA{R: 235, G: 239, B: 245, A: 255}
	pngLine       = color.RGBA{R: 200, G: 205, B: 215, A: 255}
	pngSlotFill   = color.RGBA{R: 68, G: 114, B: 196, A: 255}
	pngText       = color.RGBA{R: 33, G: 37, B: 41, A: 255}
)

// PNGExporter draws the week as an image.
type PNGExporter struct{}

// NewPNGExporter constructs a PNG exporter.
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{}
}

// ContentType implements Renderer.
func (e *PNGExporter) ContentType() string { return "image/png" }

// Extension implements Renderer.
func (e *PNGExporter) Extension() string { return "png" }

// Render draws one column per day with classes positioned by their start and end minutes.
func (e *PNGExporter) Render(grid Grid) ([]byte, error) {
	if len(grid.Days) == 0 || grid.ClosingMinute <= grid.OpeningMinute {
		return nil, fmt.Errorf("png requires days and a positive opening window")
	}
	minuteHeight := pngHourHeight / 60
	height := pngHeaderHeight + int(float64(grid.ClosingMinute-grid.OpeningMinute)*minuteHeight) + 1
	width := pngLabelWidth + len(grid.Days)*pngDayWidth

	dc := gg.NewContext(width, height)
	dc.SetColor(pngBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(pngText)
	dc.DrawStringAnchored(grid.Title, 8, 16, 0, 0.5)

	top := float64(pngHeaderHeight)
	for i, day := range grid.Days {
		x := float64(pngLabelWidth + i*pngDayWidth)
		if i%2 == 0 {
			dc.SetColor(pngEvenDay)
		} else {
			dc.SetColor(pngOddDay)
		}
		dc.DrawRectangle(x, top, pngDayWidth, float64(height)-top)
		dc.Fill()
		dc.SetColor(pngText)
		dc.DrawStringAnchored(day, x+pngDayWidth/2, top-10, 0.5, 0)
	}

	dc.SetLineWidth(0.5)
	for m := grid.OpeningMinute; m <= grid.ClosingMinute; m += 60 {
		y := top + float64(m-grid.OpeningMinute)*minuteHeight
		dc.SetColor(pngLine)
		dc.DrawLine(pngLabelWidth, y, float64(width), y)
		dc.Stroke()
		dc.SetColor(pngText)
		dc.DrawStringAnchored(formatMinute(m), pngLabelWidth-6, y, 1, 0.5)
	}

	for _, entry := range grid.Entries {
		if entry.DayIndex < 0 || entry.DayIndex >= len(grid.Days) {
			continue
		}
		x := float64(pngLabelWidth+entry.DayIndex*pngDayWidth) + pngPadding
		y := top + float64(entry.StartMinute-grid.OpeningMinute)*minuteHeight
		h := float64(entry.EndMinute-entry.StartMinute) * minuteHeight

		dc.SetColor(pngSlotFill)
		dc.DrawRoundedRectangle(x, y+1, pngDayWidth-2*pngPadding, h-2, 4)
		dc.Fill()

		dc.SetColor(pngBackground)
		dc.DrawString(formatMinute(entry.StartMinute)+"-"+formatMinute(entry.EndMinute), x+4, y+14)
		label := entry.label()
		if len(label) > 24 {
			label = label[:21] + "..."
		}
		if h > 28 {
			dc.DrawString(label, x+4, y+28)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
