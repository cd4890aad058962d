package reports

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// ExportExcel renders a compiled report as an xlsx workbook: header row,
// data rows, then the summary pairs below a blank row.
func ExportExcel(rep *Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	for i, heading := range rep.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, heading)
	}

	for r, row := range rep.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, cellValue(value))
		}
	}

	summaryRow := len(rep.Rows) + 3
	for _, key := range summaryKeys(rep.Summary) {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), key)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), cellValue(rep.Summary[key]))
		summaryRow++
	}

	return f, nil
}

// cellValue flattens decimals (and the float64s a cache round-trip produces)
// into something excelize writes as a number.
func cellValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}

func summaryKeys(summary map[string]any) []string {
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
