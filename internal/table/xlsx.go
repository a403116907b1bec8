package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"hostel_picker/internal/domain"
)

// ParseXLSX reads a workbook export. sheet selects the worksheet; empty means
// the first one. Cells go through the same header and JSON rules as Parse.
func ParseXLSX(r io.Reader, sheet string) ([]domain.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return buildRecords(rows), nil
}
