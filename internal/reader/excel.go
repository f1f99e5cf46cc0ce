package reader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook parses a spreadsheet by sheet/cell structure with every cell
// coerced to text. Only the first sheet is read. Implicit numeric/date
// typing is deliberately absent here; the normalizer types all cells
// uniformly.
func readWorkbook(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := rows[0]
	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}

	table := &Table{Headers: headers}
	for _, row := range rows[1:] {
		// excelize drops trailing empty cells; pad to the header width.
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		} else if len(row) > len(headers) {
			row = row[:len(headers)]
		}
		table.Rows = append(table.Rows, row)
	}

	if table.RowCount() == 0 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}
	return table, nil
}
