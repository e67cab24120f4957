package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	weekSheet = "Week"
	listSheet = "Classes"
)

// XLSXExporter renders a week matrix sheet and a flat class list sheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Renderer.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render builds the workbook.
func (e *XLSXExporter) Render(grid Grid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(weekSheet)
	if err != nil {
		return nil, fmt.Errorf("create week sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(listSheet); err != nil {
		return nil, fmt.Errorf("create class sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}

	if err := writeWeekSheet(f, grid, headerStyle, wrapStyle); err != nil {
		return nil, err
	}
	if err := writeListSheet(f, grid, headerStyle); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeWeekSheet(f *excelize.File, grid Grid, headerStyle, wrapStyle int) error {
	_ = f.SetColWidth(weekSheet, "A", "A", 8)
	lastCol, _ := excelize.ColumnNumberToName(len(grid.Days) + 1)
	if len(grid.Days) > 0 {
		_ = f.SetColWidth(weekSheet, "B", lastCol, 28)
	}

	_ = f.SetCellValue(weekSheet, "A1", grid.Title)
	_ = f.SetCellValue(weekSheet, "A2", "Time")
	for i, day := range grid.Days {
		cell, _ := excelize.CoordinatesToCellName(i+2, 2)
		_ = f.SetCellValue(weekSheet, cell, day)
	}
	if err := f.SetCellStyle(weekSheet, "A2", lastCol+"2", headerStyle); err != nil {
		return fmt.Errorf("style week header: %w", err)
	}

	row := 3
	for _, from := range grid.Rows() {
		timeCell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(weekSheet, timeCell, formatMinute(from))
		for i := range grid.Days {
			var lines []string
			for _, entry := range grid.Cell(i, from) {
				lines = append(lines, fmt.Sprintf("%s-%s %s", formatMinute(entry.StartMinute), formatMinute(entry.EndMinute), entry.label()))
			}
			if len(lines) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+2, row)
			_ = f.SetCellValue(weekSheet, cell, strings.Join(lines, "\n"))
			_ = f.SetCellStyle(weekSheet, cell, cell, wrapStyle)
		}
		row++
	}
	return nil
}

func writeListSheet(f *excelize.File, grid Grid, headerStyle int) error {
	data := grid.Dataset()
	for i, header := range data.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(listSheet, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
	if err := f.SetCellStyle(listSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style class header: %w", err)
	}
	_ = f.SetColWidth(listSheet, "A", lastCol, 16)

	for r, row := range data.Rows {
		for c, header := range data.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(listSheet, cell, row[header])
		}
	}
	return nil
}
