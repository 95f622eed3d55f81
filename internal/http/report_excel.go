package httpapi

import (
	"bytes"
	"fmt"

	"optitrack-data/internal/service"
	"optitrack-data/internal/tireops"

	"github.com/xuri/excelize/v2"
)

// ReadingsExportHeader is the column layout of the readings export.
var ReadingsExportHeader = []string{
	"Tire No",
	"Vehicle No",
	"Vehicle Type",
	"Position",
	"Pressure (psi)",
	"Tread Depth (mm)",
	"KM Reading",
	"Brand",
	"Condition",
	"Status",
	"Recorded Date",
	"Recorded Time",
}

// GenerateReadingsExport renders the current tire states into an Excel
// workbook: one row per tire, plus a sheet documenting the health bands the
// Status column was computed against.
func GenerateReadingsExport(readings []service.ReadingStatus, th tireops.Thresholds) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() here, WriteTo needs the file open

	sheetName := "Tire Readings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range ReadingsExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{
		14, // Tire No
		12, // Vehicle No
		22, // Vehicle Type
		14, // Position
		14, // Pressure
		16, // Tread Depth
		12, // KM Reading
		16, // Brand
		12, // Condition
		10, // Status
		14, // Recorded Date
		14, // Recorded Time
	}
	for i := range ReadingsExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if i < len(columnWidths) {
			if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for rowIdx, reading := range readings {
		row := rowIdx + 2
		values := []any{
			reading.TireID,
			reading.VehicleID,
			reading.VehicleType,
			reading.Position,
			reading.Pressure,
			reading.TreadDepth,
			reading.KmReading,
			reading.Brand,
			reading.Condition,
			reading.Status,
			reading.RecordedDate,
			reading.RecordedTime,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err := writeThresholdsSheet(f, th); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeThresholdsSheet(f *excelize.File, th tireops.Thresholds) error {
	sheetName := "Thresholds"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("failed to create thresholds sheet: %w", err)
	}

	rows := [][]any{
		{"Metric", "GOOD (>=)", "CHECK (>=)", "BAD (<)"},
		{"Pressure (psi)", th.PressureGoodMin, th.PressureWarnMin, th.PressureWarnMin},
		{"Tread Depth (mm)", th.TreadGoodMin, th.TreadWarnMin, th.TreadWarnMin},
	}
	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set thresholds cell %s: %w", cell, err)
			}
		}
	}
	return nil
}
