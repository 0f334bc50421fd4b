package httpapi

import (
	"bytes"
	"fmt"

	"roster-data/internal/domain"

	"github.com/xuri/excelize/v2"
)

// RosterHeader is the export/template header row: the same column names the
// ingestion side accepts, so an exported sheet can be re-uploaded as-is.
func RosterHeader() []string {
	headers := make([]string, 0, len(domain.DiffableFields)+2)
	headers = append(headers, "S. No.", domain.FieldRegCode.Column())
	for _, f := range domain.DiffableFields {
		headers = append(headers, f.Column())
	}
	return headers
}

// GenerateImportTemplate produces a header-only workbook.
func GenerateImportTemplate() ([]byte, error) {
	return generateRosterExcel(nil)
}

// GenerateRosterExport produces the full current snapshot as a workbook.
func GenerateRosterExport(profiles []*domain.Profile) ([]byte, error) {
	return generateRosterExcel(profiles)
}

func generateRosterExcel(profiles []*domain.Profile) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() here, WriteTo needs the file open

	sheetName := "Roster"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
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

	headers := RosterHeader()
	for col, header := range headers {
		cellName, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cellName, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cellName, err)
		}
		if err := f.SetCellStyle(sheetName, cellName, cellName, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		width := 20.0
		switch headers[i] {
		case "S. No.":
			width = 8
		case domain.FieldOrganization.Column(), domain.FieldEmail.Column():
			width = 30
		case domain.FieldNotes.Column():
			width = 35
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, p := range profiles {
		row := rowIdx + 2 // row 1 is the header
		values := make([]any, 0, len(headers))
		values = append(values, rowIdx+1, p.RegCode)
		for _, field := range domain.DiffableFields {
			values = append(values, p.Field(field))
		}
		for colIdx, v := range values {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cellName, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cellName, err)
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
