package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableExporter renders a header row plus data rows into a single-sheet
// workbook, for the views that offer a spreadsheet download next to CSV.
type TableExporter struct {
	sheetName string
}

func NewTableExporter(sheetName string) *TableExporter {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	// Excel sheet name limit. Counted in runes so a Japanese title is not
	// split mid-character.
	if runes := []rune(sheetName); len(runes) > 31 {
		sheetName = string(runes[:31])
	}
	return &TableExporter{sheetName: sheetName}
}

func (e *TableExporter) Export(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(e.sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if e.sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	if err := writeRow(f, e.sheetName, 1, headers); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, e.sheetName, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return f.SetSheetRow(sheet, cell, &out)
}
