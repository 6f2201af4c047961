package extract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXText flattens one worksheet into one line per row.
type XLSXText struct {
	sheetIndex int
}

// NewXLSXText creates an XLSXText extractor reading the sheet at sheetIndex.
func NewXLSXText(sheetIndex int) *XLSXText {
	return &XLSXText{sheetIndex: sheetIndex}
}

// ExtractText reads the configured sheet of the workbook at path.
func (x *XLSXText) ExtractText(ctx context.Context, path string) (string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return "", eris.Wrap(err, "extract: xlsx: open file")
	}

	if x.sheetIndex < 0 || x.sheetIndex >= len(f.Sheets) {
		return "", eris.Errorf("extract: xlsx: sheet index %d out of range (file has %d sheets)", x.sheetIndex, len(f.Sheets))
	}
	sheet := f.Sheets[x.sheetIndex]

	var b strings.Builder
	for _, row := range sheet.Rows {
		if ctx.Err() != nil {
			return "", eris.Wrap(ctx.Err(), "extract: xlsx: context cancelled")
		}
		if row == nil {
			continue
		}
		b.WriteString(joinCells(rowToStrings(row)))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
